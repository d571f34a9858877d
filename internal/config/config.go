// Package config holds logweave configuration: defaults, an optional
// TOML file, and LOGWEAVE_* environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds all logweave configuration.
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Input   InputConfig   `toml:"input"`
	Logging LoggingConfig `toml:"logging"`
}

// EngineConfig holds matching and resolution settings.
type EngineConfig struct {
	Placeholder  string `toml:"placeholder"`   // variable-placeholder syntax
	Lookback     int    `toml:"lookback"`      // prior positions inspected per resolve step
	TopK         int    `toml:"top_k"`         // events retained per record
	Retention    int    `toml:"retention"`     // history capacity multiplier over lookback
	FoldBindings bool   `toml:"fold_bindings"` // union dominator bindings into resolved values
	Matcher      string `toml:"matcher"`       // "literal" or "regex"
}

// InputConfig holds record-splitting settings.
type InputConfig struct {
	RecordBoundary string `toml:"record_boundary"` // empty = newline-delimited
}

// LoggingConfig holds diagnostic logging settings.
type LoggingConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Lookback:     10,
			TopK:         1,
			Retention:    2,
			FoldBindings: true,
			Matcher:      "literal",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load builds the configuration: defaults, then the TOML file at path
// (skipped when path is empty), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Engine.Placeholder = getenv("LOGWEAVE_PLACEHOLDER", cfg.Engine.Placeholder)
	cfg.Engine.Lookback = getenvInt("LOGWEAVE_LOOKBACK", cfg.Engine.Lookback)
	cfg.Engine.TopK = getenvInt("LOGWEAVE_TOP_K", cfg.Engine.TopK)
	cfg.Engine.Retention = getenvInt("LOGWEAVE_RETENTION", cfg.Engine.Retention)
	cfg.Engine.FoldBindings = getenvBool("LOGWEAVE_FOLD_BINDINGS", cfg.Engine.FoldBindings)
	cfg.Engine.Matcher = getenv("LOGWEAVE_MATCHER", cfg.Engine.Matcher)
	cfg.Input.RecordBoundary = getenv("LOGWEAVE_RECORD_BOUNDARY", cfg.Input.RecordBoundary)
	cfg.Logging.Level = getenv("LOGWEAVE_LOG_LEVEL", cfg.Logging.Level)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
