package store

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Driver names a backing database for Store.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// Config holds build-history store configuration loaded from the
// environment, following the same Config/LoadConfig/Validate shape as
// pkg/postgres/config.go.
type Config struct {
	Driver Driver `json:"driver"`
	DSN    string `json:"dsn"`

	MaxConns       int32         `json:"max_conns"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
	QueryTimeout   time.Duration `json:"query_timeout"`
}

// LoadConfig reads MF2I18N_STORE_* environment variables over a set of
// defaults and validates the result.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()
	if err := cfg.overrideFromEnv(); err != nil {
		return nil, fmt.Errorf("loading store config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating store config: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Driver:         DriverSQLite,
		DSN:            "file:mf2i18n-history.db",
		MaxConns:       10,
		ConnectTimeout: 10 * time.Second,
		QueryTimeout:   30 * time.Second,
	}
}

func (c *Config) overrideFromEnv() error {
	if v := strings.TrimSpace(os.Getenv("MF2I18N_STORE_DRIVER")); v != "" {
		c.Driver = Driver(v)
	}
	if v := strings.TrimSpace(os.Getenv("MF2I18N_STORE_DSN")); v != "" {
		c.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("MF2I18N_STORE_CONNECT_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MF2I18N_STORE_CONNECT_TIMEOUT: %w", err)
		}
		c.ConnectTimeout = d
	}
	if v := strings.TrimSpace(os.Getenv("MF2I18N_STORE_QUERY_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MF2I18N_STORE_QUERY_TIMEOUT: %w", err)
		}
		c.QueryTimeout = d
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}
	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("%w: DSN is required", ErrInvalidConfig)
	}
	if c.ConnectTimeout < time.Second {
		return fmt.Errorf("%w: connect timeout must be at least 1s", ErrInvalidConfig)
	}
	if c.QueryTimeout < time.Second {
		return fmt.Errorf("%w: query timeout must be at least 1s", ErrInvalidConfig)
	}
	return nil
}
