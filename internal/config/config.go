// Package config reads the runtime configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/talgya/tramp-freighter/internal/balance"
	"github.com/talgya/tramp-freighter/internal/galaxy"
)

// Config is the process configuration. Every field has a usable default.
type Config struct {
	SavePath     string        `env:"TRADER_SAVE_PATH" envDefault:"data/tramp-freighter.db"`
	Port         int           `env:"TRADER_PORT" envDefault:"8080"`
	SaveInterval time.Duration `env:"TRADER_SAVE_INTERVAL" envDefault:"2s"`
	GalaxyPath   string        `env:"TRADER_GALAXY_PATH"`
	TuningPath   string        `env:"TRADER_TUNING_PATH"`
	LogLevel     string        `env:"TRADER_LOG_LEVEL" envDefault:"info"`
	Seed         int64         `env:"TRADER_SEED"`
	CORSOrigins  []string      `env:"TRADER_CORS_ORIGINS" envSeparator:","`
	ActionRate   int           `env:"TRADER_ACTION_RATE" envDefault:"600"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.SaveInterval < 0 {
		return Config{}, fmt.Errorf("TRADER_SAVE_INTERVAL must not be negative, got %s", cfg.SaveInterval)
	}
	return cfg, nil
}

// Level maps LogLevel onto slog. Unknown names fall back to info.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Catalog loads the galaxy from GalaxyPath, or the built-in one.
func (c Config) Catalog() (*galaxy.Catalog, error) {
	if c.GalaxyPath == "" {
		return galaxy.Default(), nil
	}
	return galaxy.Load(c.GalaxyPath)
}

// Tuning loads balance overrides from TuningPath, or the defaults.
func (c Config) Tuning() (balance.Tuning, error) {
	if c.TuningPath == "" {
		return balance.Default(), nil
	}
	return balance.Load(c.TuningPath)
}
