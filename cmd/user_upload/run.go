package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/userupload/internal/config"
	"github.com/JonMunkholm/userupload/internal/core"
	"github.com/JonMunkholm/userupload/internal/database"
	"github.com/JonMunkholm/userupload/internal/logging"
)

const (
	progname = "user_upload"
	envFile  = ".env"
)

// options are the command line flags. -h is the database host, so the
// parser is built without go-flags' default help flag and --help is
// handled here.
type options struct {
	File        string `long:"file" value-name:"PATH" description:"CSV file with name,surname,email rows to import"`
	CreateTable bool   `long:"create_table" description:"Drop and recreate the database and the users table, then exit"`
	DryRun      bool   `long:"dry_run" description:"Parse and validate --file without touching the database"`
	User        string `short:"u" value-name:"USER" description:"Database user (overrides DB_USER)"`
	Password    string `short:"p" value-name:"PASSWORD" description:"Database password (overrides DB_PASSWORD)"`
	Host        string `short:"h" value-name:"HOST" description:"Database host (overrides DB_HOST)"`
	Help        bool   `long:"help" description:"Show this help message"`
}

func newParser(opts *options) *flags.Parser {
	parser := flags.NewParser(opts, flags.PassDoubleDash)
	parser.Name = progname
	parser.Usage = "[--create_table | --file PATH [--dry_run]] [-u USER] [-p PASSWORD] [-h HOST]"
	return parser
}

// mode resolves the run mode from the flags.
func (o *options) mode() (core.Mode, error) {
	switch {
	case o.CreateTable && (o.File != "" || o.DryRun):
		return "", errors.New("--create_table cannot be combined with --file or --dry_run")
	case o.CreateTable:
		return core.ModeBootstrap, nil
	case o.DryRun:
		return core.ModeDryRun, nil
	case o.File != "":
		return core.ModeImport, nil
	}
	return "", errors.New("nothing to do: pass --file or --create_table")
}

// applyTo copies the credential flags over the environment configuration.
func (o *options) applyTo(db *config.DatabaseConfig) {
	if o.User != "" {
		db.User = o.User
	}
	if o.Password != "" {
		db.Password = o.Password
	}
	if o.Host != "" {
		db.Host = o.Host
	}
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) error {
	var opts options
	parser := newParser(&opts)

	rest, err := parser.ParseArgs(args[1:])
	if err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if opts.Help {
		parser.WriteHelp(stdout)
		return nil
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(rest, " "))
	}

	mode, err := opts.mode()
	if err != nil {
		parser.WriteHelp(stderr)
		return err
	}

	getenv, dotenv := withDotEnv(getenv, envFile)

	cfg, err := config.LoadWith(getenv)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	opts.applyTo(&cfg.Database)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format, stderr)
	logger := slog.Default()

	if dotenv {
		logger.Debug("loaded .env file")
	}
	logger.Debug("configuration loaded", "config", cfg.String())

	// Derive a context that is canceled on interrupt or termination and
	// bounded by IMPORT_TIMEOUT.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Import.Timeout)
	defer cancel()

	connect, err := database.NewConnector(cfg.Database)
	if err != nil {
		return err
	}

	result, runErr := core.Run(ctx, core.RunConfig{
		Mode:        mode,
		FilePath:    opts.File,
		Database:    cfg.Database.Name,
		SkipHeader:  cfg.Import.SkipHeader,
		Policy:      core.ErrorPolicy(cfg.Import.ErrorPolicy),
		Encoding:    cfg.Import.Encoding,
		MaxFileSize: cfg.Import.MaxFileSize,
	}, connect)

	if err := writeReport(stdout, result, runErr); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if runErr != nil {
		return runErr
	}
	if len(result.Failures) > 0 {
		return fmt.Errorf("%w: %d rejected", errRowsRejected, len(result.Failures))
	}
	return nil
}

// withDotEnv layers the variables in path under getenv. Variables already
// set in the environment win. The bool reports whether the file was read.
func withDotEnv(getenv func(string) string, path string) (func(string) string, bool) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return getenv, false
	}
	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return vars[key]
	}, true
}
