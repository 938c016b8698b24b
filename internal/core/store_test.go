package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// fakeStore is an in-memory Store that records every call. Databases are a
// set of names; each holds the DDL of its users table and the emails
// inserted into it.
type fakeStore struct {
	mu sync.Mutex

	calls     []string
	databases map[string]*fakeDatabase
	current   string
	closed    bool

	// failOn makes the named operation (e.g. "CreateDatabase", "Exec") fail.
	failOn map[string]error
	// rejectEmail makes inserts of that email fail with a non-duplicate error.
	rejectEmail string
}

type fakeDatabase struct {
	schema string
	emails map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{databases: map[string]*fakeDatabase{}, failOn: map[string]error{}}
}

func (s *fakeStore) record(call string) error {
	s.calls = append(s.calls, call)
	op, _, _ := strings.Cut(call, " ")
	return s.failOn[op]
}

func (s *fakeStore) DropDatabase(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DropDatabase " + name); err != nil {
		return err
	}
	delete(s.databases, name)
	if s.current == name {
		s.current = ""
	}
	return nil
}

func (s *fakeStore) CreateDatabase(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateDatabase " + name); err != nil {
		return err
	}
	if _, ok := s.databases[name]; ok {
		return fmt.Errorf("database %q already exists", name)
	}
	s.databases[name] = &fakeDatabase{emails: map[string]bool{}}
	return nil
}

func (s *fakeStore) SelectDatabase(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("SelectDatabase " + name); err != nil {
		return err
	}
	if _, ok := s.databases[name]; !ok {
		return fmt.Errorf("unknown database %q", name)
	}
	s.current = name
	return nil
}

func (s *fakeStore) Exec(_ context.Context, query string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Exec " + query); err != nil {
		return err
	}

	db := s.databases[s.current]
	if db == nil {
		return fmt.Errorf("no database selected")
	}

	switch {
	case strings.HasPrefix(query, "DROP TABLE"):
		db.schema = ""
		db.emails = map[string]bool{}
	case strings.HasPrefix(query, "CREATE TABLE"):
		db.schema = query
	case strings.HasPrefix(query, "INSERT"):
		if db.schema == "" {
			return fmt.Errorf("no such table: users")
		}
		email := args[2].(string)
		if email == s.rejectEmail {
			return fmt.Errorf("value too long for type character varying(255)")
		}
		if db.emails[email] {
			return fmt.Errorf("%w: UNIQUE constraint failed: users.email", ErrDuplicateEmail)
		}
		db.emails[email] = true
	}
	return nil
}

func (s *fakeStore) Dialect() Dialect { return Postgres }

func (s *fakeStore) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// connector returns a Connector that hands out s and counts calls.
func (s *fakeStore) connector(calls *int) Connector {
	return func(context.Context) (Store, error) {
		*calls++
		return s, nil
	}
}

// writes returns the recorded calls that change state.
func (s *fakeStore) writes() []string {
	var out []string
	for _, c := range s.calls {
		if !strings.HasPrefix(c, "SelectDatabase") {
			out = append(out, c)
		}
	}
	return out
}
