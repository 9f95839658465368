package publishauth

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds publisher-token and rate-limit settings loaded from the
// environment, following the same Config/LoadConfig/Validate shape as
// pkg/auth/config.go.
type Config struct {
	JWTSecret     string        `json:"jwt_secret"`
	JWTIssuer     string        `json:"jwt_issuer"`
	JWTExpiration time.Duration `json:"jwt_expiration"`

	RateLimitRPS   float64 `json:"rate_limit_rps"`
	RateLimitBurst int     `json:"rate_limit_burst"`
}

// LoadConfig reads MF2I18N_PUBLISH_* environment variables over a set
// of defaults and validates the result.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()
	if err := cfg.overrideFromEnv(); err != nil {
		return nil, fmt.Errorf("loading publishauth config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating publishauth config: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		JWTIssuer:      "mf2i18n",
		JWTExpiration:  time.Hour,
		RateLimitRPS:   5,
		RateLimitBurst: 10,
	}
}

func (c *Config) overrideFromEnv() error {
	if v := strings.TrimSpace(os.Getenv("MF2I18N_PUBLISH_JWT_SECRET")); v != "" {
		c.JWTSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("MF2I18N_PUBLISH_JWT_ISSUER")); v != "" {
		c.JWTIssuer = v
	}
	if v := strings.TrimSpace(os.Getenv("MF2I18N_PUBLISH_JWT_EXPIRATION")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MF2I18N_PUBLISH_JWT_EXPIRATION: %w", err)
		}
		c.JWTExpiration = d
	}
	if v := strings.TrimSpace(os.Getenv("MF2I18N_PUBLISH_RATE_LIMIT_RPS")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("MF2I18N_PUBLISH_RATE_LIMIT_RPS: %w", err)
		}
		c.RateLimitRPS = f
	}
	if v := strings.TrimSpace(os.Getenv("MF2I18N_PUBLISH_RATE_LIMIT_BURST")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MF2I18N_PUBLISH_RATE_LIMIT_BURST: %w", err)
		}
		c.RateLimitBurst = n
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("%w: JWT secret is required", ErrInvalidConfig)
	}
	if c.JWTExpiration < time.Minute {
		return fmt.Errorf("%w: JWT expiration must be at least 1m", ErrInvalidConfig)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("%w: rate limit RPS must be positive", ErrInvalidConfig)
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("%w: rate limit burst must be at least 1", ErrInvalidConfig)
	}
	return nil
}
