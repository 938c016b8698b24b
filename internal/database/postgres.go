package database

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/userupload/internal/core"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// PostgresOptions holds what is needed to reach a PostgreSQL server.
type PostgresOptions struct {
	Host           string
	Port           int
	User           string
	Password       string
	MaintenanceDB  string // Database used while no target is selected (default: postgres)
	SSLMode        string
	ConnectTimeout time.Duration
}

// URL returns the connection URL for database.
func (o PostgresOptions) URL(database string) string {
	q := url.Values{}
	if o.SSLMode != "" {
		q.Set("sslmode", o.SSLMode)
	}
	if o.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(o.ConnectTimeout.Seconds())))
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(o.Host, strconv.Itoa(o.Port)),
		Path:     "/" + database,
		RawQuery: q.Encode(),
	}
	if o.User != "" {
		u.User = url.UserPassword(o.User, o.Password)
	}
	return u.String()
}

// PostgresStore is a core.Store backed by a single pgx connection. There
// is no database-level USE in PostgreSQL, so selecting a database replaces
// the connection.
type PostgresStore struct {
	base    *pgx.ConnConfig
	conn    *pgx.Conn
	current string
	admin   string
}

// ConnectPostgres connects to the maintenance database.
func ConnectPostgres(ctx context.Context, opts PostgresOptions) (*PostgresStore, error) {
	admin := opts.MaintenanceDB
	if admin == "" {
		admin = "postgres"
	}

	cfg, err := pgx.ParseConfig(opts.URL(admin))
	if err != nil {
		return nil, fmt.Errorf("parse connection config: %w", err)
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &PostgresStore{base: cfg, conn: conn, current: admin, admin: admin}, nil
}

// DropDatabase drops name if it exists. The store moves to the maintenance
// database first when name is the current one.
func (s *PostgresStore) DropDatabase(ctx context.Context, name string) error {
	if s.current == name {
		if err := s.SelectDatabase(ctx, s.admin); err != nil {
			return err
		}
	}
	return s.Exec(ctx, "DROP DATABASE IF EXISTS "+core.QuoteIdentifier(name))
}

// CreateDatabase creates name.
func (s *PostgresStore) CreateDatabase(ctx context.Context, name string) error {
	return s.Exec(ctx, "CREATE DATABASE "+core.QuoteIdentifier(name))
}

// SelectDatabase reconnects to name and closes the previous connection.
func (s *PostgresStore) SelectDatabase(ctx context.Context, name string) error {
	if s.conn != nil && s.current == name {
		return nil
	}

	cfg := s.base.Copy()
	cfg.Database = name

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return err
	}

	if s.conn != nil {
		_ = s.conn.Close(ctx)
	}
	s.conn = conn
	s.current = name
	return nil
}

// Exec runs query with bound args. A unique violation is reported as
// core.ErrDuplicateEmail.
func (s *PostgresStore) Exec(ctx context.Context, query string, args ...any) error {
	if s.conn == nil {
		return errors.New("store is closed")
	}
	if _, err := s.conn.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %w", core.ErrDuplicateEmail, err)
		}
		return err
	}
	return nil
}

// Dialect returns core.Postgres.
func (s *PostgresStore) Dialect() core.Dialect { return core.Postgres }

// Close closes the connection.
func (s *PostgresStore) Close(ctx context.Context) error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close(ctx)
	s.conn = nil
	return err
}
