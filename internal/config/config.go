// Package config loads runtime configuration from the environment.
//
// Values come from SPIRAL_* variables, optionally seeded from a .env file.
// Variables already present in the process environment win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/roach88/spiral/internal/ir"
)

// Config is the process configuration.
type Config struct {
	// DB is the SQLite database path.
	DB string `env:"SPIRAL_DB" envDefault:"spiral.db"`

	// Admin may call set_indices and delete_action.
	Admin ir.Name `env:"SPIRAL_ADMIN" envDefault:"spiral"`

	// TrustedIssuers may sign joins on behalf of any inviter.
	TrustedIssuers []ir.Name `env:"SPIRAL_TRUSTED_ISSUERS" envSeparator:","`

	// IssuerURL is the token service base URL. Empty selects the logging issuer.
	IssuerURL     string        `env:"SPIRAL_ISSUER_URL"`
	IssuerToken   string        `env:"SPIRAL_ISSUER_TOKEN"`
	IssuerTimeout time.Duration `env:"SPIRAL_ISSUER_TIMEOUT" envDefault:"10s"`

	LogLevel slog.Level `env:"SPIRAL_LOG_LEVEL" envDefault:"info"`
}

// Load reads the given .env files (".env" when none are given), then parses
// the process environment. Missing .env files are ignored.
func Load(dotenv ...string) (Config, error) {
	if err := godotenv.Load(dotenv...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// FromMap parses configuration from vars instead of the process environment.
func FromMap(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks identities and the issuer timeout.
func (c Config) Validate() error {
	if c.DB == "" {
		return errors.New("SPIRAL_DB must not be empty")
	}
	if err := c.Admin.Validate(); err != nil {
		return fmt.Errorf("SPIRAL_ADMIN: %w", err)
	}
	for _, n := range c.TrustedIssuers {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("SPIRAL_TRUSTED_ISSUERS: %w", err)
		}
	}
	if c.IssuerTimeout <= 0 {
		return fmt.Errorf("SPIRAL_ISSUER_TIMEOUT must be positive, got %s", c.IssuerTimeout)
	}
	return nil
}
