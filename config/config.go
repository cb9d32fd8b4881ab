// Package config reads the runtime configuration from MENSURA_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration
type Config struct {
	LogLevel   slog.Level
	OutputDir  string // where demo audio, ensembles and MIDI files go
	SampleRate int

	// Optional YAML files merged over the built-in tables
	ConstraintsFile string
	SimParamsFile   string
	PatternsFile    string

	// Seed is used when a command is not given one
	Seed int64
}

func Load() (*Config, error) {
	c := &Config{
		OutputDir:       getEnv("MENSURA_OUTPUT_DIR", "out"),
		ConstraintsFile: getEnv("MENSURA_CONSTRAINTS", ""),
		SimParamsFile:   getEnv("MENSURA_SIM_PARAMS", ""),
		PatternsFile:    getEnv("MENSURA_PATTERNS", ""),
	}
	if err := c.LogLevel.UnmarshalText([]byte(getEnv("MENSURA_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid MENSURA_LOG_LEVEL: %w", err)
	}
	var err error
	if c.SampleRate, err = strconv.Atoi(getEnv("MENSURA_SAMPLE_RATE", "44100")); err != nil || c.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid MENSURA_SAMPLE_RATE %q", os.Getenv("MENSURA_SAMPLE_RATE"))
	}
	if c.Seed, err = strconv.ParseInt(getEnv("MENSURA_SEED", "1"), 10, 64); err != nil {
		return nil, fmt.Errorf("invalid MENSURA_SEED: %w", err)
	}
	return c, nil
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value != "" {
		return value
	}
	return defaultValue
}
