package core

import (
	"errors"
	"fmt"
)

// Sentinel errors. Wrapped errors can be checked with errors.Is.
var (
	ErrNoFile         = errors.New("no file provided")
	ErrEmptyFile      = errors.New("empty file")
	ErrNoDataRows     = errors.New("no data rows after header")
	ErrFileTooLarge   = errors.New("file too large")
	ErrNotCSV         = errors.New("invalid csv: file must have a .csv extension")
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrUnknownMode    = errors.New("unknown mode")
)

// FileError reports a problem with the input file. It is detected before or
// while parsing and is fatal to the run.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("file: %v", e.Err)
	}
	return fmt.Sprintf("file %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// StoreConnectionError reports a failure to reach or select the store.
// It is fatal to the run.
type StoreConnectionError struct {
	Op  string // "connect" or "select database"
	Err error
}

func (e *StoreConnectionError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreConnectionError) Unwrap() error { return e.Err }

// StoreQueryError reports a statement the store rejected. Line is zero for
// schema statements.
type StoreQueryError struct {
	Op   string
	Line int
	Err  error
}

func (e *StoreQueryError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreQueryError) Unwrap() error { return e.Err }

// IsFatal reports whether err ends a run rather than a single row.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var qe *StoreQueryError
	if errors.As(err, &qe) && qe.Line > 0 {
		return false
	}
	return true
}
