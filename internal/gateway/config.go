package gateway

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds distribution gateway listen addresses and TLS settings,
// trimmed from pkg/server/config.go's much larger surface down to what
// this gateway actually exercises: two listeners, optional TLS, and a
// shutdown grace period.
type Config struct {
	GRPCAddr string `json:"grpc_addr"`
	HTTPAddr string `json:"http_addr"`

	TLSEnabled  bool   `json:"tls_enabled"`
	TLSCertFile string `json:"tls_cert_file"`
	TLSKeyFile  string `json:"tls_key_file"`

	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

// LoadConfig reads MF2I18N_GATEWAY_* environment variables over a set
// of defaults and validates the result.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()
	cfg.overrideFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating gateway config: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		GRPCAddr:        ":9090",
		HTTPAddr:        ":8080",
		ShutdownTimeout: 30 * time.Second,
	}
}

func (c *Config) overrideFromEnv() {
	if v := strings.TrimSpace(os.Getenv("MF2I18N_GATEWAY_GRPC_ADDR")); v != "" {
		c.GRPCAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("MF2I18N_GATEWAY_HTTP_ADDR")); v != "" {
		c.HTTPAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("MF2I18N_GATEWAY_TLS_ENABLED")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.TLSEnabled = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("MF2I18N_GATEWAY_TLS_CERT_FILE")); v != "" {
		c.TLSCertFile = v
	}
	if v := strings.TrimSpace(os.Getenv("MF2I18N_GATEWAY_TLS_KEY_FILE")); v != "" {
		c.TLSKeyFile = v
	}
	if v := strings.TrimSpace(os.Getenv("MF2I18N_GATEWAY_SHUTDOWN_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.ShutdownTimeout = d
		}
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.TLSEnabled {
		if c.TLSCertFile == "" || c.TLSKeyFile == "" {
			return fmt.Errorf("TLS cert and key files are required when TLS is enabled")
		}
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}
