// Package config loads calculator settings from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/zephyrtronium/calcengine"
	"github.com/zephyrtronium/calcengine/internal/logging"
)

// Prefix is the prefix of every environment variable Load reads.
const Prefix = "CALC"

// Config holds calculator configuration.
type Config struct {
	Angle             calcengine.AngleMode `envconfig:"ANGLE" default:"radians"`
	Precision         uint                 `envconfig:"PRECISION" default:"100"`
	MaxDepth          int                  `envconfig:"MAX_DEPTH" default:"256"`
	Digits            int                  `envconfig:"DIGITS" default:"12"`
	DecimalSeparator  string               `envconfig:"DECIMAL_SEPARATOR" default:"."`
	GroupingSeparator string               `envconfig:"GROUPING_SEPARATOR" default:","`
	Workers           int                  `envconfig:"WORKERS" default:"4"`
	LogLevel          string               `envconfig:"LOG_LEVEL" default:"warn"`
	LogDev            bool                 `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from CALC_ environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Angle:             calcengine.Radians,
		Precision:         calcengine.DefaultPrec,
		MaxDepth:          calcengine.DefaultMaxDepth,
		Digits:            12,
		DecimalSeparator:  ".",
		GroupingSeparator: ",",
		Workers:           4,
		LogLevel:          "warn",
	}
}

// Validate checks that the configuration describes a usable calculator.
func (cfg *Config) Validate() error {
	switch {
	case cfg.Precision == 0:
		return errors.New("precision must be positive")
	case cfg.Digits < 1:
		return fmt.Errorf("display digits (%d) must be positive", cfg.Digits)
	case cfg.Workers < 1:
		return fmt.Errorf("workers (%d) must be positive", cfg.Workers)
	case cfg.DecimalSeparator == "":
		return errors.New("decimal separator must not be empty")
	case cfg.DecimalSeparator == cfg.GroupingSeparator:
		return fmt.Errorf("decimal and grouping separators are both %q", cfg.DecimalSeparator)
	}
	return nil
}

// ContextOptions converts the configuration to evaluation options.
func (cfg *Config) ContextOptions() []calcengine.ContextOption {
	return []calcengine.ContextOption{
		calcengine.Angle(cfg.Angle),
		calcengine.Prec(cfg.Precision),
		calcengine.MaxDepth(cfg.MaxDepth),
	}
}

// Logging returns the logger configuration.
func (cfg *Config) Logging() logging.Config {
	l := logging.DefaultConfig()
	l.Level = cfg.LogLevel
	l.Development = cfg.LogDev
	return l
}
