// Package database implements core.Store for PostgreSQL (pgx) and SQLite
// (go-sqlite3).
package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/userupload/internal/config"
	"github.com/JonMunkholm/userupload/internal/core"
	"github.com/JonMunkholm/userupload/internal/logging"
)

// NewConnector returns the core.Connector for cfg.Driver. Nothing is
// opened until the connector is called.
func NewConnector(cfg config.DatabaseConfig) (core.Connector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		opts := PostgresOptions{
			Host:           cfg.Host,
			Port:           cfg.Port,
			User:           cfg.User,
			Password:       cfg.Password,
			MaintenanceDB:  cfg.MaintenanceName,
			SSLMode:        cfg.SSLMode,
			ConnectTimeout: cfg.ConnectTimeout,
		}
		return func(ctx context.Context) (core.Store, error) {
			ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
			defer cancel()

			store, err := ConnectPostgres(ctx, opts)
			if err != nil {
				return nil, err
			}
			logging.FromContext(ctx).Info("connected to database",
				slog.String("driver", cfg.Driver),
				slog.String("addr", cfg.Addr()),
				slog.String("user", cfg.User),
			)
			return store, nil
		}, nil

	case config.DriverSQLite:
		return func(ctx context.Context) (core.Store, error) {
			store, err := OpenSQLite(cfg.SQLiteDir)
			if err != nil {
				return nil, err
			}
			logging.FromContext(ctx).Info("connected to database",
				slog.String("driver", cfg.Driver),
				slog.String("dir", cfg.SQLiteDir),
			)
			return store, nil
		}, nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}
