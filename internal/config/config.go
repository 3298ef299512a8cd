// Package config loads the tallybook.yaml configuration plus .env and
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file placed in the ledger directory.
const FileName = "tallybook.yaml"

// Config represents the top-level tallybook.yaml configuration.
type Config struct {
	Ledger LedgerConfig `yaml:"ledger"`
	Tax    TaxConfig    `yaml:"tax"`
	Log    LogConfig    `yaml:"log"`
}

// LedgerConfig locates the ledger data and fixes its base currency.
type LedgerConfig struct {
	Dir      string `yaml:"dir"`
	Currency string `yaml:"currency"`
}

// TaxConfig scopes the monthly tax summary.
type TaxConfig struct {
	Currency string `yaml:"currency"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Load reads a tallybook.yaml file, then applies any .env file next to
// it and TALLYBOOK_* environment variables on top.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Missing .env is fine.
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))
	cfg.applyEnv()
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config for a new ledger directory.
func Default(dir, currency string) *Config {
	return &Config{
		Ledger: LedgerConfig{Dir: dir, Currency: currency},
		Tax:    TaxConfig{Currency: currency},
		Log:    LogConfig{Level: "info"},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TALLYBOOK_DIR"); v != "" {
		c.Ledger.Dir = v
	}
	if v := os.Getenv("TALLYBOOK_CURRENCY"); v != "" {
		c.Ledger.Currency = v
	}
	if v := os.Getenv("TALLYBOOK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}
