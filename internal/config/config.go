// Package config loads the application configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	// Database is the sqlite database path.
	Database string `yaml:"database,omitempty"`

	// Region selects region-specific emission factors for new households
	// that don't set their own.
	Region string `yaml:"region,omitempty"`

	// FactorsFile overrides the embedded emission factor table.
	FactorsFile string `yaml:"factors_file,omitempty"`

	// TipsFile overrides the embedded reduction tip catalog.
	TipsFile string `yaml:"tips_file,omitempty"`

	// MaxRecommendations caps recommendation output (default 5).
	MaxRecommendations int `yaml:"max_recommendations,omitempty"`

	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// LoggingConfig configures the zerolog output.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	File   string `yaml:"file,omitempty"`
}

// DefaultDir returns the application data directory (~/.carbonledger).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".carbonledger"), nil
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns a config with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads the config file. A missing file yields the defaults rather than
// an error, so the CLI works out of the box.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyDefaults()
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes the config to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks fields that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	if c.MaxRecommendations < 0 {
		return fmt.Errorf("max_recommendations must be >= 0, got %d", c.MaxRecommendations)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if c.FactorsFile != "" {
		if _, err := os.Stat(c.FactorsFile); err != nil {
			return fmt.Errorf("factors_file: %w", err)
		}
	}
	if c.TipsFile != "" {
		if _, err := os.Stat(c.TipsFile); err != nil {
			return fmt.Errorf("tips_file: %w", err)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Database == "" {
		if dir, err := DefaultDir(); err == nil {
			c.Database = filepath.Join(dir, "carbonledger.db")
		}
	}
	if c.MaxRecommendations == 0 {
		c.MaxRecommendations = 5
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}
