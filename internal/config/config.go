package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file at the project root.
const FileName = "tally.yaml"

// Source kinds.
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Business       BusinessConfig       `yaml:"business"`
	Currency       CurrencyConfig       `yaml:"currency"`
	Classification ClassificationConfig `yaml:"classification,omitempty"`
	CashFlow       CashFlowConfig       `yaml:"cash_flow,omitempty"`
	Source         SourceConfig         `yaml:"source"`
	Server         ServerConfig         `yaml:"server"`
	Log            LogConfig            `yaml:"log"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // selects the default chart, e.g. "trading"
}

// CurrencyConfig controls conversion and presentation rounding.
type CurrencyConfig struct {
	Base           string         `yaml:"base"`
	Precision      map[string]int `yaml:"precision,omitempty"` // overrides ISO minor units
	StaleAfterDays int            `yaml:"stale_after_days"`
}

// ClassificationConfig points at an optional classification table override.
type ClassificationConfig struct {
	Table string `yaml:"table,omitempty"` // path relative to the project root
}

// CashFlowConfig maps account codes to investing or financing activities.
type CashFlowConfig struct {
	Activities map[string]string `yaml:"activities,omitempty"`
}

// SourceConfig selects where events are read from.
type SourceConfig struct {
	Kind     string `yaml:"kind"`
	DataDir  string `yaml:"data_dir"`
	Database string `yaml:"database"`
}

// ServerConfig controls the HTTP endpoint.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a tally.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
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

// Validate checks the fields the engine cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Currency.Base) == "" {
		return fmt.Errorf("invalid config: currency.base is required")
	}
	switch c.Source.Kind {
	case SourceCSV, SourceSQLite:
	default:
		return fmt.Errorf("invalid config: unknown source kind %q", c.Source.Kind)
	}
	for code, activity := range c.CashFlow.Activities {
		if activity != "investing" && activity != "financing" {
			return fmt.Errorf("invalid config: cash_flow activity for %s must be investing or financing, got %q", code, activity)
		}
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName, businessType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name: businessName,
			Type: businessType,
		},
		Currency: CurrencyConfig{
			Base: "SAR",
			Precision: map[string]int{
				"YER": 0,
				"OMR": 3,
			},
			StaleAfterDays: 7,
		},
		Source: SourceConfig{
			Kind:     SourceCSV,
			DataDir:  "data",
			Database: "tally.db",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
