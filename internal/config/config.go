// Package config provides configuration management for the CDR tools.
//
// Only operational behavior is configurable here. The sanitization
// limits themselves (nesting depth, array and string caps, URL length)
// are security bounds compiled into the core packages and cannot be
// loosened through configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidMaxFileSize = errors.New("cleaner.max_file_size_mb must be between 1 and 1024")
	ErrInvalidLogLevel    = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat   = errors.New("logging.format must be 'text' or 'json'")
)

// Config represents the complete tool configuration.
type Config struct {
	Cleaner CleanerConfig `yaml:"cleaner"`
	Report  ReportConfig  `yaml:"report"`
	Logging LoggingConfig `yaml:"logging"`
}

// CleanerConfig contains cleaner-specific settings.
type CleanerConfig struct {
	MaxFileSizeMB int `yaml:"max_file_size_mb"`
}

// ReportConfig controls CLI result reporting.
type ReportConfig struct {
	ShowTable bool `yaml:"show_table"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Cleaner: CleanerConfig{
			MaxFileSizeMB: 50,
		},
		Report: ReportConfig{
			ShowTable: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file, filling unset
// fields from the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyDefaults restores defaults for fields the file left empty.
func (c *Config) applyDefaults() {
	if c.Cleaner.MaxFileSizeMB == 0 {
		c.Cleaner.MaxFileSizeMB = 50
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Cleaner.MaxFileSizeMB < 1 || c.Cleaner.MaxFileSizeMB > 1024 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxFileSize, c.Cleaner.MaxFileSizeMB)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	return nil
}

// MaxFileSizeBytes returns the cleaner file cap in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.Cleaner.MaxFileSizeMB) * 1024 * 1024
}
