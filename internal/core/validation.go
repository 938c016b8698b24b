package core

// validation.go defines the per-row validation error produced by the
// normalizer and the batch parser.
//
// A ValidationError always names the data row (1-based, counted from the
// first row after the header) and the CSV field it concerns, so the report
// can point the operator at the exact cell to fix.

import "fmt"

// ValidationError represents a single validation error for a row.
type ValidationError struct {
	Line   int        // Data-row number
	Field  string     // name, surname or email
	Reason ReasonCode // missing_field or invalid_email
	Value  string     // The rejected value, if any
}

func (e ValidationError) Error() string {
	switch e.Reason {
	case ReasonMissingField:
		return fmt.Sprintf("line %d: required field %q is empty", e.Line, e.Field)
	case ReasonInvalidEmail:
		return fmt.Sprintf("line %d: invalid email %q", e.Line, e.Value)
	default:
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Reason)
	}
}

// Failure converts the error into a report row.
func (e ValidationError) Failure() RowFailure {
	return RowFailure{
		Line:    e.Line,
		Field:   e.Field,
		Reason:  e.Reason,
		Message: e.Error(),
		Err:     e,
	}
}

func missingField(line int, field string) ValidationError {
	return ValidationError{Line: line, Field: field, Reason: ReasonMissingField}
}
