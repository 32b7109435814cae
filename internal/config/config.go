// Package config loads the translator's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/modulus-lang/modulus/internal/universe"
)

// Config holds all modc configuration.
type Config struct {
	// Universe encoding mode: concrete, constraints, named
	Mode string `yaml:"mode"`

	// Output settings
	Output OutputConfig `yaml:"output"`

	// Loader settings
	Loader LoaderConfig `yaml:"loader"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig configures where translated statements go.
type OutputConfig struct {
	// Path of the emitted file; "-" means stdout
	Path string `yaml:"path"`
}

// LoaderConfig configures interchange-file loading.
type LoaderConfig struct {
	// Maximum number of modules decoded concurrently; 0 means unbounded
	Jobs int `yaml:"jobs"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Mode: "concrete",
		Output: OutputConfig{
			Path: "-",
		},
		Loader: LoaderConfig{
			Jobs: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; MODC_OUTPUT overrides the output path either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks the configuration for values the pipeline cannot run
// with.
func (c *Config) Validate() error {
	if _, err := universe.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Loader.Jobs < 0 {
		return fmt.Errorf("loader.jobs must be >= 0, got %d", c.Loader.Jobs)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}

// UniverseMode returns the parsed encoding mode.
func (c *Config) UniverseMode() (universe.Mode, error) {
	return universe.ParseMode(c.Mode)
}

func (c *Config) applyEnvOverrides() {
	if out := os.Getenv("MODC_OUTPUT"); out != "" {
		c.Output.Path = out
	}
	if mode := os.Getenv("MODC_MODE"); mode != "" {
		c.Mode = mode
	}
}
