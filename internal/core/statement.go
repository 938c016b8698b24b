package core

// BuildIntents maps normalized users to parameter-bound insertions into the
// users table, in input order. Values are never embedded in statement text.
func BuildIntents(users []NormalizedUser) []InsertionIntent {
	intents := make([]InsertionIntent, len(users))
	for i, u := range users {
		intents[i] = InsertionIntent{
			Table:   UsersTable,
			Columns: []string{ColumnName, ColumnSurname, ColumnEmail},
			Values:  []any{u.Name, u.Surname, u.Email},
			AutoKey: ColumnID,
			Line:    u.Line,
		}
	}
	return intents
}
