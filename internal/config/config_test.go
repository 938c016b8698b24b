package config

import (
	"strings"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			Name:            "user_upload",
			MaintenanceName: "postgres",
			ConnectTimeout:  10 * time.Second,
			SQLiteDir:       ".",
		},
		Import: ImportConfig{
			SkipHeader:  true,
			ErrorPolicy: "fail_fast",
			Encoding:    "utf-8",
			MaxFileSize: 1,
			Timeout:     time.Minute,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWith(envMap(nil))
	if err != nil {
		t.Fatalf("LoadWith() error = %v", err)
	}

	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, DriverPostgres)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "localhost")
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}
	if cfg.Database.Name != "user_upload" {
		t.Errorf("Database.Name = %q, want %q", cfg.Database.Name, "user_upload")
	}
	if !cfg.Import.SkipHeader {
		t.Error("Import.SkipHeader = false, want true")
	}
	if cfg.Import.ErrorPolicy != "fail_fast" {
		t.Errorf("Import.ErrorPolicy = %q, want %q", cfg.Import.ErrorPolicy, "fail_fast")
	}
	if cfg.Import.MaxFileSize != 104857600 {
		t.Errorf("Import.MaxFileSize = %d, want %d", cfg.Import.MaxFileSize, 104857600)
	}
	if cfg.Import.Timeout != 5*time.Minute {
		t.Errorf("Import.Timeout = %v, want %v", cfg.Import.Timeout, 5*time.Minute)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	cfg, err := LoadWith(envMap(map[string]string{
		"DB_DRIVER":           "sqlite",
		"DB_SQLITE_DIR":       "/tmp",
		"IMPORT_ERROR_POLICY": "collect_all",
		"IMPORT_SKIP_HEADER":  "false",
		"LOG_LEVEL":           "debug",
	}))
	if err != nil {
		t.Fatalf("LoadWith() error = %v", err)
	}

	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, DriverSQLite)
	}
	if cfg.Database.SQLiteDir != "/tmp" {
		t.Errorf("Database.SQLiteDir = %q, want %q", cfg.Database.SQLiteDir, "/tmp")
	}
	if cfg.Import.ErrorPolicy != "collect_all" {
		t.Errorf("Import.ErrorPolicy = %q, want %q", cfg.Import.ErrorPolicy, "collect_all")
	}
	if cfg.Import.SkipHeader {
		t.Error("Import.SkipHeader = true, want false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"primary", map[string]string{"DB_USER": "importer"}, "importer"},
		{"fallback", map[string]string{"PGUSER": "pg"}, "pg"},
		{"primary wins", map[string]string{"DB_USER": "importer", "PGUSER": "pg"}, "importer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadWith(envMap(tt.env))
			if err != nil {
				t.Fatalf("LoadWith() error = %v", err)
			}
			if cfg.Database.User != tt.want {
				t.Errorf("Database.User = %q, want %q", cfg.Database.User, tt.want)
			}
		})
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad integer", map[string]string{"DB_PORT": "abc"}, "DB_PORT"},
		{"bad duration", map[string]string{"IMPORT_TIMEOUT": "soon"}, "IMPORT_TIMEOUT"},
		{"bad boolean", map[string]string{"IMPORT_SKIP_HEADER": "maybe"}, "IMPORT_SKIP_HEADER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWith(envMap(tt.env))
			if err == nil {
				t.Fatal("LoadWith() expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should mention %s: %v", tt.want, err)
			}
		})
	}
}

func TestLoad_Duration(t *testing.T) {
	cfg, err := LoadWith(envMap(map[string]string{
		"DB_CONNECT_TIMEOUT": "45s",
		"IMPORT_TIMEOUT":     "1m30s",
	}))
	if err != nil {
		t.Fatalf("LoadWith() error = %v", err)
	}

	if cfg.Database.ConnectTimeout != 45*time.Second {
		t.Errorf("Database.ConnectTimeout = %v, want %v", cfg.Database.ConnectTimeout, 45*time.Second)
	}
	if cfg.Import.Timeout != 90*time.Second {
		t.Errorf("Import.Timeout = %v, want %v", cfg.Import.Timeout, 90*time.Second)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string // substring of the error, empty for valid
	}{
		{"valid", func(*Config) {}, ""},
		{"invalid port", func(c *Config) { c.Database.Port = 99999 }, "DB_PORT"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "DB_DRIVER"},
		{"sqlite ignores port", func(c *Config) { c.Database.Driver = DriverSQLite; c.Database.Port = 0 }, ""},
		{"maintenance equals target", func(c *Config) { c.Database.MaintenanceName = "user_upload" }, "DB_MAINTENANCE_NAME"},
		{"empty name", func(c *Config) { c.Database.Name = "" }, "DB_NAME"},
		{"bad policy", func(c *Config) { c.Import.ErrorPolicy = "skip" }, "IMPORT_ERROR_POLICY"},
		{"bad encoding", func(c *Config) { c.Import.Encoding = "utf-16" }, "IMPORT_ENCODING"},
		{"latin1 encoding", func(c *Config) { c.Import.Encoding = "latin1" }, ""},
		{"zero max size", func(c *Config) { c.Import.MaxFileSize = 0 }, "IMPORT_MAX_FILE_SIZE"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %s", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should mention %s: %v", tt.want, err)
			}
		})
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Port = 0
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"DB_PORT", "LOG_LEVEL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestDatabaseAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"localhost", 5432, "localhost:5432"},
		{"127.0.0.1", 6543, "127.0.0.1:6543"},
		{"::1", 5432, "[::1]:5432"},
	}

	for _, tt := range tests {
		cfg := &DatabaseConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString_MasksPassword(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Password = "s3cret-pw"

	str := cfg.String()
	if strings.Contains(str, "s3cret-pw") {
		t.Error("String() should mask the database password")
	}
	if !strings.Contains(str, "MASKED") {
		t.Error("String() should contain MASKED placeholder")
	}
}
