package core

// parse.go tokenizes the import file and runs every data row through
// Normalize.
//
// Rows and Parse are lazy, single-pass sequences over one reader. ParseBatch
// drains Parse and applies the configured ErrorPolicy.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
)

// ParseOptions configures batch parsing.
type ParseOptions struct {
	SkipHeader bool
	Policy     ErrorPolicy

	// OnHeader, if set, receives the header record when SkipHeader is true.
	OnHeader func(header []string)
}

// ParseResult holds the outcome of ParseBatch.
type ParseResult struct {
	Header []string
	Rows   int // Data rows read
	Users  []NormalizedUser
	Errors []ValidationError
}

// Row is one tokenized CSV record. Index is the zero-based record position
// in the file, header included.
type Row struct {
	Index  int
	Fields []string
}

// newCSVReader returns a reader with the settings used for every import file.
// Field counts may vary per row; quoting follows RFC 4180 strictly, so a
// stray or unterminated quote is a malformed file.
func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return cr
}

// Rows returns a sequence over the CSV records in r. A malformed record ends
// the sequence with a *FileError.
func Rows(r io.Reader) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		cr := newCSVReader(r)
		for i := 0; ; i++ {
			record, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Row{Index: i}, &FileError{Err: fmt.Errorf("invalid csv: %w", err)})
				return
			}
			if !yield(Row{Index: i, Fields: record}, nil) {
				return
			}
		}
	}
}

// Parse returns a sequence of normalized users read from r. Invalid rows
// yield a ValidationError and the sequence continues; a malformed file
// yields a *FileError and the sequence ends.
func Parse(r io.Reader, opts ParseOptions) iter.Seq2[NormalizedUser, error] {
	return func(yield func(NormalizedUser, error) bool) {
		for row, err := range Rows(r) {
			if err != nil {
				yield(NormalizedUser{}, err)
				return
			}

			line := row.Index + 1
			if opts.SkipHeader {
				if row.Index == 0 {
					if opts.OnHeader != nil {
						opts.OnHeader(row.Fields)
					}
					continue
				}
				line = row.Index
			}

			if !yield(Normalize(toRawRecord(row.Fields), line)) {
				return
			}
		}
	}
}

// ParseBatch parses every data row in data. Under PolicyFailFast the first
// ValidationError discards all users and is the only error reported. The
// returned error is non-nil only for a malformed file.
func ParseBatch(data []byte, opts ParseOptions) (ParseResult, error) {
	var result ParseResult

	onHeader := opts.OnHeader
	opts.OnHeader = func(header []string) {
		result.Header = header
		if onHeader != nil {
			onHeader(header)
		}
	}

	for user, err := range Parse(bytes.NewReader(data), opts) {
		if err != nil {
			var verr ValidationError
			if !errors.As(err, &verr) {
				return ParseResult{Header: result.Header, Rows: result.Rows}, err
			}
			result.Rows++
			result.Errors = append(result.Errors, verr)
			if opts.Policy != PolicyCollectAll {
				result.Users = nil
				return result, nil
			}
			continue
		}
		result.Rows++
		result.Users = append(result.Users, user)
	}

	return result, nil
}

// HeaderMatches reports whether header names the user columns in order.
func HeaderMatches(header []string) bool {
	if len(header) < len(UserColumns) {
		return false
	}
	idx := MakeHeaderIndex(header)
	for i, col := range UserColumns {
		if pos, ok := idx[col]; !ok || pos != i {
			return false
		}
	}
	return true
}

// toRawRecord maps a tokenized row onto the three user fields. Absent
// trailing fields are left empty so Normalize reports the first of them as
// missing; extra fields are ignored.
func toRawRecord(fields []string) RawRecord {
	var f [3]string
	copy(f[:], fields)
	return RawRecord{Name: f[0], Surname: f[1], Email: f[2]}
}
