package core

// coordinator.go sequences one import run:
//
//	bootstrap mode:  connect -> Bootstrap -> bootstrapped
//	dry-run mode:    load -> parse -> dry_run_complete (store never touched)
//	import mode:     load -> parse -> connect -> select -> insert each row -> committed
//
// A parse failure under the fail-fast policy ends in parse_failed before
// the store is contacted. Insert failures are row-scoped: they are recorded
// in the result and the remaining rows are still attempted.

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/userupload/internal/logging"
)

// ContextCheckInterval is how often (in rows) the insert loop checks for
// cancellation.
var ContextCheckInterval = 100

// Run executes one import run described by cfg. connect is only called
// when the run needs the store, and the store is closed before Run returns.
//
// The result is always non-nil. The error is non-nil when the run failed
// as a whole; row-level insert failures are reported in the result only.
func Run(ctx context.Context, cfg RunConfig, connect Connector) (*ImportResult, error) {
	startTime := time.Now()

	runID := logging.RunIDFromContext(ctx)
	if runID == "" {
		runID = uuid.New().String()
		ctx = logging.ContextWithRunID(ctx, runID)
	}

	result := &ImportResult{
		RunID:    runID,
		Mode:     cfg.Mode,
		Phase:    PhaseIdle,
		FileName: filepath.Base(cfg.FilePath),
	}
	if cfg.FilePath == "" {
		result.FileName = ""
	}

	logger := logging.WithFields(ctx, "mode", cfg.Mode)
	logger.Info("run started", "file", cfg.FilePath, "database", cfg.Database)

	var err error
	switch cfg.Mode {
	case ModeBootstrap:
		err = runBootstrap(ctx, cfg, connect, result)
	case ModeDryRun, ModeImport:
		err = runImport(ctx, cfg, connect, result)
	default:
		result.Phase = PhaseFailed
		err = fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}

	result.Duration = time.Since(startTime)

	if err != nil {
		logger.Error("run failed", "phase", result.Phase, "error", err, "duration", result.Duration)
		return result, err
	}

	logger.Info("run finished",
		"phase", result.Phase,
		"parsed", result.Parsed,
		"inserted", result.Inserted,
		"failed", len(result.Failures),
		"duration", result.Duration,
	)
	return result, nil
}

func runBootstrap(ctx context.Context, cfg RunConfig, connect Connector, result *ImportResult) error {
	result.Phase = PhaseBootstrapping

	store, err := openStore(ctx, connect)
	if err != nil {
		result.Phase = PhaseFailed
		return err
	}
	defer closeStore(ctx, store)

	if err := Bootstrap(ctx, store, cfg.Database); err != nil {
		result.Phase = PhaseFailed
		return err
	}

	result.Phase = PhaseBootstrapped
	return nil
}

func runImport(ctx context.Context, cfg RunConfig, connect Connector, result *ImportResult) error {
	logger := logging.FromContext(ctx)
	result.Phase = PhaseParsing

	data, err := LoadInput(cfg.FilePath, cfg.Encoding, cfg.MaxFileSize)
	if err != nil {
		result.Phase = PhaseParseFailed
		return err
	}

	parsed, err := ParseBatch(data, ParseOptions{
		SkipHeader: cfg.SkipHeader,
		Policy:     cfg.Policy,
		OnHeader: func(header []string) {
			if !HeaderMatches(header) {
				logger.Warn("unexpected header, expected name,surname,email", "header", header)
			}
		},
	})
	if err != nil {
		result.Phase = PhaseParseFailed
		var fe *FileError
		if errors.As(err, &fe) && fe.Path == "" {
			fe.Path = cfg.FilePath
		}
		return err
	}

	for _, verr := range parsed.Errors {
		result.Failures = append(result.Failures, verr.Failure())
	}
	result.Parsed = len(parsed.Users)

	if len(parsed.Errors) > 0 && cfg.Policy != PolicyCollectAll {
		result.Phase = PhaseParseFailed
		return parsed.Errors[0]
	}
	if parsed.Rows == 0 {
		result.Phase = PhaseParseFailed
		return &FileError{Path: cfg.FilePath, Err: ErrNoDataRows}
	}

	logger.Info("file parsed", "rows", parsed.Rows, "valid", len(parsed.Users), "invalid", len(parsed.Errors))

	if cfg.Mode == ModeDryRun {
		result.Phase = PhaseDryRunComplete
		return nil
	}

	result.Phase = PhasePersisting

	store, err := openStore(ctx, connect)
	if err != nil {
		result.Phase = PhaseFailed
		return err
	}
	defer closeStore(ctx, store)

	if err := store.SelectDatabase(ctx, cfg.Database); err != nil {
		result.Phase = PhaseFailed
		return &StoreConnectionError{Op: "select database", Err: err}
	}

	if err := persist(ctx, store, BuildIntents(parsed.Users), result); err != nil {
		result.Phase = PhaseFailed
		return err
	}

	result.Phase = PhaseCommitted
	return nil
}

// persist executes every intent. A rejected row is recorded and the loop
// moves on; only cancellation stops it early.
func persist(ctx context.Context, store Store, intents []InsertionIntent, result *ImportResult) error {
	logger := logging.FromContext(ctx)
	d := store.Dialect()

	for i, in := range intents {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("operation cancelled at line %d: %w", in.Line, err)
			}
		}

		if err := store.Exec(ctx, d.InsertSQL(in), in.Values...); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("operation cancelled at line %d: %w", in.Line, ctx.Err())
			}
			qerr := &StoreQueryError{Op: "insert", Line: in.Line, Err: err}
			result.Failures = append(result.Failures, insertFailure(qerr))
			logger.Warn("row rejected", "line", in.Line, "error", err)
			continue
		}

		result.Inserted++
	}

	return nil
}

func insertFailure(qerr *StoreQueryError) RowFailure {
	f := RowFailure{
		Line:    qerr.Line,
		Reason:  ReasonStoreRejected,
		Message: qerr.Error(),
		Err:     qerr,
	}
	if errors.Is(qerr, ErrDuplicateEmail) {
		f.Field = ColumnEmail
		f.Reason = ReasonDuplicateEmail
	}
	return f
}

func openStore(ctx context.Context, connect Connector) (Store, error) {
	if connect == nil {
		return nil, &StoreConnectionError{Op: "connect", Err: errors.New("no store configured")}
	}
	store, err := connect(ctx)
	if err != nil {
		var ce *StoreConnectionError
		if errors.As(err, &ce) {
			return nil, err
		}
		return nil, &StoreConnectionError{Op: "connect", Err: err}
	}
	return store, nil
}

// closeStore releases the store even when ctx is already cancelled.
func closeStore(ctx context.Context, store Store) {
	if err := store.Close(context.WithoutCancel(ctx)); err != nil {
		logging.FromContext(ctx).Warn("closing store", "error", err)
	}
}
