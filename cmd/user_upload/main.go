package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	ctx := context.Background()

	// run gets the process surface as arguments so it can be tested
	// without touching os.Args or the real environment.
	if err := run(ctx, os.Args, os.Getenv, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}

// Exit codes.
const (
	exitOK           = 0
	exitFatal        = 1
	exitRowsRejected = 2
)

// errRowsRejected is returned by run when the import finished but at least
// one row was not imported.
var errRowsRejected = errors.New("some rows were not imported")

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errRowsRejected):
		return exitRowsRejected
	default:
		return exitFatal
	}
}
