// Package config holds the run configuration shared by the harness and the
// CLI, loaded from YAML on top of Default.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidBudget is returned when TimeBudget is not positive.
	ErrInvalidBudget = errors.New("config: time budget must be positive")
	// ErrInvalidProgress is returned when ProgressInterval is negative.
	ErrInvalidProgress = errors.New("config: progress interval must not be negative")
	// ErrInvalidLogLevel is returned for an unknown log level name.
	ErrInvalidLogLevel = errors.New("config: unknown log level")
)

// LogLevels lists the accepted LogLevel values.
var LogLevels = []string{"trace", "debug", "info", "warning", "error", "critical"}

// Config controls a solve run.
type Config struct {
	// TimeBudget bounds the wall time of a search.
	TimeBudget time.Duration `yaml:"time_budget"`
	// LogLevel is one of LogLevels.
	LogLevel string `yaml:"log_level"`
	// MetricsAddr, when set, serves /metrics on that address.
	MetricsAddr string `yaml:"metrics_addr"`
	// ProgressInterval is the period of progress reads; 0 disables them.
	ProgressInterval time.Duration `yaml:"progress_interval"`
	// SkipInfeasible reports no tour without searching when the
	// constraints contain a cycle.
	SkipInfeasible bool `yaml:"skip_infeasible"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TimeBudget:       30 * time.Second,
		LogLevel:         "info",
		ProgressInterval: time.Second,
		SkipInfeasible:   true,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.TimeBudget <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidBudget, c.TimeBudget)
	}
	if c.ProgressInterval < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidProgress, c.ProgressInterval)
	}
	for _, l := range LogLevels {
		if c.LogLevel == l {
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
}

// Decode reads YAML from r over Default. Fields absent from the document
// keep their defaults; unknown fields are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Encode writes cfg as YAML.
func (c Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}

	return enc.Close()
}
