// Package config defines roadready's process configuration and how it is
// layered from defaults, a YAML file, a .env file and the environment.
package config

import (
	"fmt"

	"github.com/roadready/roadready/internal/logger"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultTeacherID scopes catalogs and students when nothing else is set.
const DefaultTeacherID = "default"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DBDriver selects the store backend: sqlite or postgres.
	DBDriver string `koanf:"db_driver"`

	// DBDSN is the SQLite file path or PostgreSQL connection string.
	// Empty with sqlite means the default data path.
	DBDSN string `koanf:"db_dsn"`

	// TeacherID identifies whose catalog and students are used.
	TeacherID string `koanf:"teacher_id"`

	// Addr is the HTTP listen address for `roadready serve`.
	Addr string `koanf:"addr"`

	// SnapshotKeep caps readiness snapshots kept per student (0 keeps all).
	SnapshotKeep int `koanf:"snapshot_keep"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		DBDriver:     DriverSQLite,
		TeacherID:    DefaultTeacherID,
		Addr:         ":8080",
		SnapshotKeep: 50,
	}
}

// Validate checks field values and combinations.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("%w: db_dsn is required for the postgres driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown db_driver %q", ErrInvalidConfig, c.DBDriver)
	}
	if c.TeacherID == "" {
		return fmt.Errorf("%w: teacher_id must not be empty", ErrInvalidConfig)
	}
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.SnapshotKeep < 0 {
		return fmt.Errorf("%w: snapshot_keep must be >= 0, got %d", ErrInvalidConfig, c.SnapshotKeep)
	}
	return nil
}
