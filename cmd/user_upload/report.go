package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/JonMunkholm/userupload/internal/core"
)

// writeReport prints the human-readable outcome of a run. runErr is the
// error core.Run returned, if any.
func writeReport(w io.Writer, result *core.ImportResult, runErr error) error {
	if result == nil {
		return nil
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%-10s %s\n", "mode:", result.Mode)
	if result.FileName != "" {
		fmt.Fprintf(&b, "%-10s %s\n", "file:", result.FileName)
	}
	fmt.Fprintf(&b, "%-10s %s\n", "phase:", result.Phase)

	switch result.Mode {
	case core.ModeDryRun:
		fmt.Fprintf(&b, "%-10s %d\n", "valid:", result.Parsed)
	case core.ModeImport:
		fmt.Fprintf(&b, "%-10s %d\n", "valid:", result.Parsed)
		fmt.Fprintf(&b, "%-10s %d\n", "inserted:", result.Inserted)
	}
	if len(result.Failures) > 0 {
		fmt.Fprintf(&b, "%-10s %d\n", "rejected:", len(result.Failures))
	}
	fmt.Fprintf(&b, "%-10s %s\n", "duration:", result.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "%-10s %s\n", "run id:", result.RunID)

	for _, f := range result.Failures {
		b.WriteString("  ")
		b.WriteString(failureLine(f))
		b.WriteByte('\n')
	}

	// A fail-fast validation error is already listed as a failure.
	if runErr != nil && !reportedAsFailure(result, runErr) {
		fmt.Fprintf(&b, "%-10s %s\n", "error:", core.FormatUserError(runErr))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// failureLine renders "line N: field: message (Code: XXX)".
func failureLine(f core.RowFailure) string {
	msg := core.MapError(f.Err)
	if f.Err == nil {
		msg = core.MapError(errors.New(f.Message))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "line %d: ", f.Line)
	if f.Field != "" {
		fmt.Fprintf(&b, "%s: ", f.Field)
	}
	fmt.Fprintf(&b, "%s (Code: %s)", msg.Message, msg.Code)
	return b.String()
}

func reportedAsFailure(result *core.ImportResult, err error) bool {
	var verr core.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	for _, f := range result.Failures {
		if f.Line == verr.Line && f.Field == verr.Field {
			return true
		}
	}
	return false
}
