package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect describes the statement syntax of a store. Values are always
// passed as bound parameters; a dialect only decides identifier quoting,
// placeholder style and column types.
type Dialect struct {
	Name string

	// Placeholder returns the bind marker for the n-th argument (1-based).
	Placeholder func(n int) string

	// AutoIncrementKey is the column definition of an auto-generated
	// integer primary key.
	AutoIncrementKey string
}

// Postgres renders PostgreSQL statements.
var Postgres = Dialect{
	Name:             "postgres",
	Placeholder:      func(n int) string { return "$" + strconv.Itoa(n) },
	AutoIncrementKey: "SERIAL PRIMARY KEY",
}

// SQLite renders SQLite statements.
var SQLite = Dialect{
	Name:             "sqlite",
	Placeholder:      func(int) string { return "?" },
	AutoIncrementKey: "INTEGER PRIMARY KEY AUTOINCREMENT",
}

// nameMaxLength bounds every text column of the users table.
const nameMaxLength = 255

// InsertSQL renders a parameter-bound INSERT for the intent.
func (d Dialect) InsertSQL(in InsertionIntent) string {
	marks := make([]string, len(in.Columns))
	for i := range in.Columns {
		marks[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdentifier(in.Table),
		strings.Join(quoteColumns(in.Columns), ", "),
		strings.Join(marks, ", "),
	)
}

// DropTableSQL renders DROP TABLE IF EXISTS for table.
func (d Dialect) DropTableSQL(table string) string {
	return "DROP TABLE IF EXISTS " + QuoteIdentifier(table)
}

// CreateUsersTableSQL renders the users table definition.
func (d Dialect) CreateUsersTableSQL() string {
	return fmt.Sprintf(`CREATE TABLE %s (
  %s %s,
  %s VARCHAR(%d) NOT NULL,
  %s VARCHAR(%d) NOT NULL,
  %s VARCHAR(%d) NOT NULL UNIQUE
)`,
		QuoteIdentifier(UsersTable),
		QuoteIdentifier(ColumnID), d.AutoIncrementKey,
		QuoteIdentifier(ColumnName), nameMaxLength,
		QuoteIdentifier(ColumnSurname), nameMaxLength,
		QuoteIdentifier(ColumnEmail), nameMaxLength,
	)
}

// QuoteIdentifier safely quotes a SQL identifier. Both PostgreSQL and SQLite
// accept standard double-quoted identifiers.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteColumns quotes a list of column names.
func quoteColumns(cols []string) []string {
	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = QuoteIdentifier(col)
	}
	return quoted
}
