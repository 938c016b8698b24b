package core

import (
	"context"
	"time"
)

// UsersTable is the only table this importer writes to.
const UsersTable = "users"

// Column names of the users table, in CSV order.
const (
	ColumnID      = "id"
	ColumnName    = "name"
	ColumnSurname = "surname"
	ColumnEmail   = "email"
)

// UserColumns lists the CSV fields in the order they appear in each row.
var UserColumns = []string{ColumnName, ColumnSurname, ColumnEmail}

// Store is the narrow contract the importer needs from a relational store.
// Implementations live in internal/database.
type Store interface {
	// DropDatabase removes the named database if it exists.
	DropDatabase(ctx context.Context, name string) error
	// CreateDatabase creates the named database.
	CreateDatabase(ctx context.Context, name string) error
	// SelectDatabase makes the named database the target of later Exec calls.
	SelectDatabase(ctx context.Context, name string) error
	// Exec runs a single statement with bound arguments.
	Exec(ctx context.Context, query string, args ...any) error
	// Dialect describes how statements for this store are rendered.
	Dialect() Dialect
	Close(ctx context.Context) error
}

// Connector opens a Store. It is the "connect" step of an import run and is
// only called when the run needs the store.
type Connector func(ctx context.Context) (Store, error)

// Mode selects what a run does.
type Mode string

const (
	ModeBootstrap Mode = "bootstrap"
	ModeDryRun    Mode = "dry_run"
	ModeImport    Mode = "import"
)

// Phase is the state of an import run. Every run ends in one of the
// terminal phases.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseBootstrapping  Phase = "bootstrapping"
	PhaseBootstrapped   Phase = "bootstrapped"
	PhaseParsing        Phase = "parsing"
	PhaseParseFailed    Phase = "parse_failed"
	PhaseDryRunComplete Phase = "dry_run_complete"
	PhasePersisting     Phase = "persisting"
	PhaseCommitted      Phase = "committed"
	PhaseFailed         Phase = "failed"
)

// Terminal reports whether no further transition is possible.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseBootstrapped, PhaseParseFailed, PhaseDryRunComplete, PhaseCommitted, PhaseFailed:
		return true
	}
	return false
}

// ErrorPolicy controls how the batch parser reacts to invalid rows.
type ErrorPolicy string

const (
	// PolicyFailFast aborts the whole batch on the first invalid row.
	PolicyFailFast ErrorPolicy = "fail_fast"
	// PolicyCollectAll checks every row, keeps the valid ones and reports
	// every invalid one.
	PolicyCollectAll ErrorPolicy = "collect_all"
)

// RawRecord is one input row before validation.
type RawRecord struct {
	Name    string
	Surname string
	Email   string
}

// NormalizedUser is a validated, canonical user row. Line is the data-row
// number it came from and is only used for reporting.
type NormalizedUser struct {
	Name    string
	Surname string
	Email   string
	Line    int
}

// InsertionIntent is one parameter-bound row insertion, independent of any
// store's statement syntax.
type InsertionIntent struct {
	Table   string
	Columns []string
	Values  []any
	AutoKey string // Primary key column generated by the store, never supplied
	Line    int
}

// ReasonCode classifies a row failure.
type ReasonCode string

const (
	ReasonMissingField   ReasonCode = "missing_field"
	ReasonInvalidEmail   ReasonCode = "invalid_email"
	ReasonDuplicateEmail ReasonCode = "duplicate_email"
	ReasonStoreRejected  ReasonCode = "store_rejected"
)

// RowFailure describes a row that was not imported.
type RowFailure struct {
	Line    int
	Field   string
	Reason  ReasonCode
	Message string
	Err     error // Underlying error, for logging
}

// ImportResult contains the final result of a run.
type ImportResult struct {
	RunID    string
	Mode     Mode
	Phase    Phase
	FileName string
	Parsed   int // Rows that passed validation
	Inserted int // Rows the store accepted
	Failures []RowFailure
	Duration time.Duration
}

// OK reports whether the run reached its goal without any row failure.
func (r *ImportResult) OK() bool {
	if r == nil {
		return false
	}
	switch r.Phase {
	case PhaseBootstrapped, PhaseDryRunComplete, PhaseCommitted:
		return len(r.Failures) == 0
	}
	return false
}

// RunConfig is the resolved configuration for one run.
type RunConfig struct {
	Mode        Mode
	FilePath    string
	Database    string
	SkipHeader  bool
	Policy      ErrorPolicy
	Encoding    string
	MaxFileSize int64
}
