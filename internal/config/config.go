// Package config provides centralized configuration management for the importer.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Driver names accepted in DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all importer configuration.
// All settings can be configured via environment variables; the command
// line may override the connection credentials.
type Config struct {
	Database DatabaseConfig
	Import   ImportConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Driver selects the store: postgres or sqlite (default: postgres)
	Driver string `env:"DB_DRIVER" default:"postgres"`

	// Host is the database server host (default: localhost)
	Host string `env:"DB_HOST" default:"localhost"`

	// Port is the database server port (default: 5432)
	Port int `env:"DB_PORT" default:"5432"`

	// User is the database user
	// Supports both DB_USER and PGUSER env vars for compatibility
	User string `env:"DB_USER" envAlt:"PGUSER"`

	// Password is the database password
	Password string `env:"DB_PASSWORD" envAlt:"PGPASSWORD"`

	// Name is the database the users table lives in (default: user_upload)
	Name string `env:"DB_NAME" default:"user_upload"`

	// MaintenanceName is the database connected to while Name is dropped
	// and recreated (default: postgres)
	MaintenanceName string `env:"DB_MAINTENANCE_NAME" default:"postgres"`

	// SSLMode is the PostgreSQL sslmode (default: disable)
	SSLMode string `env:"DB_SSLMODE" default:"disable"`

	// ConnectTimeout bounds each connection attempt (default: 10s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`

	// SQLiteDir is the directory holding <name>.db files (default: .)
	SQLiteDir string `env:"DB_SQLITE_DIR" default:"."`
}

// ImportConfig holds CSV import processing settings.
type ImportConfig struct {
	// SkipHeader treats the first record as a header (default: true)
	SkipHeader bool `env:"IMPORT_SKIP_HEADER" default:"true"`

	// ErrorPolicy is fail_fast or collect_all (default: fail_fast)
	ErrorPolicy string `env:"IMPORT_ERROR_POLICY" default:"fail_fast"`

	// Encoding is the input file encoding (default: utf-8)
	Encoding string `env:"IMPORT_ENCODING" default:"utf-8"`

	// MaxFileSize is the maximum allowed file size in bytes (default: 100MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"104857600"`

	// Timeout is the maximum duration for a whole run (default: 5m)
	Timeout time.Duration `env:"IMPORT_TIMEOUT" default:"5m"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server address in host:port format.
func (c *DatabaseConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
