package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/JonMunkholm/userupload/internal/core"
)

// SQLiteStore is a core.Store where each database is a file
// <dir>/<name>.db. Dropping a database removes its file.
type SQLiteStore struct {
	dir     string
	db      *sql.DB
	current string
}

// OpenSQLite returns a store rooted at dir. No file is opened until a
// database is selected.
func OpenSQLite(dir string) (*SQLiteStore, error) {
	if dir == "" {
		dir = "."
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("sqlite directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sqlite directory: %s is not a directory", dir)
	}
	return &SQLiteStore{dir: dir}, nil
}

// Path returns the file backing database name.
func (s *SQLiteStore) Path(name string) string {
	return filepath.Join(s.dir, name+".db")
}

// DropDatabase removes the database file and its journal files, if any.
func (s *SQLiteStore) DropDatabase(ctx context.Context, name string) error {
	if s.current == name {
		if err := s.closeDB(); err != nil {
			return err
		}
	}

	path := s.Path(name)
	for _, p := range []string{path, path + "-journal", path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("drop database %q: %w", name, err)
		}
	}
	return nil
}

// CreateDatabase creates an empty database file. It fails if the database
// already exists.
func (s *SQLiteStore) CreateDatabase(ctx context.Context, name string) error {
	path := s.Path(name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("database %q already exists", name)
	}

	db, err := sql.Open("sqlite3", dsn(path, "rwc"))
	if err != nil {
		return err
	}
	defer db.Close()

	return db.PingContext(ctx)
}

// SelectDatabase opens the database file. It never creates one.
func (s *SQLiteStore) SelectDatabase(ctx context.Context, name string) error {
	if s.db != nil && s.current == name {
		return nil
	}

	path := s.Path(name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("unknown database %q: %w", name, err)
	}

	db, err := sql.Open("sqlite3", dsn(path, "rw"))
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}

	if err := s.closeDB(); err != nil {
		db.Close()
		return err
	}
	s.db = db
	s.current = name
	return nil
}

// Exec runs query with bound args. A unique violation is reported as
// core.ErrDuplicateEmail.
func (s *SQLiteStore) Exec(ctx context.Context, query string, args ...any) error {
	if s.db == nil {
		return errors.New("no database selected")
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: %w", core.ErrDuplicateEmail, err)
		}
		return err
	}
	return nil
}

// Dialect returns core.SQLite.
func (s *SQLiteStore) Dialect() core.Dialect { return core.SQLite }

// Close closes the selected database, if any.
func (s *SQLiteStore) Close(ctx context.Context) error {
	return s.closeDB()
}

func (s *SQLiteStore) closeDB() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.current = ""
	return err
}

// dsn builds a go-sqlite3 DSN for path with the given open mode.
func dsn(path, mode string) string {
	return fmt.Sprintf("file:%s?mode=%s&_busy_timeout=5000", path, mode)
}
