// Package config provides configuration loading and validation for the CLI
// and server. All fields are optional; missing values use defaults or must
// be provided via CLI flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the engine configuration loadable from a JSON file.
type Config struct {
	// Server
	ListenAddr string `json:"listen_addr,omitempty"` // HTTP listen address, e.g. ":8080"

	// External collaborators
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key

	// Engine tunables
	RuleTablePath       string  `json:"rule_table_path,omitempty"`       // custom skill-type rule table (JSON)
	InferenceTimeoutSec int     `json:"inference_timeout_sec,omitempty"` // caller-side inference wait bound
	ContentionWindowHrs float64 `json:"contention_window_hrs,omitempty"` // dependency-chain serialization window
	SplitThresholdHrs   float64 `json:"split_threshold_hrs,omitempty"`   // requirement effort above which drafts split
	UtilizationPeakLow  float64 `json:"utilization_peak_low,omitempty"`  // workload curve breakpoints
	UtilizationPeakHigh float64 `json:"utilization_peak_high,omitempty"`
	UtilizationOverload float64 `json:"utilization_overload,omitempty"`

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Required fields
// are not checked here; the CLI validates those after merging flags.
func (c *Config) Validate() error {
	if c.InferenceTimeoutSec < 0 {
		return fmt.Errorf("config error: 'inference_timeout_sec' must be non-negative")
	}
	if c.ContentionWindowHrs < 0 {
		return fmt.Errorf("config error: 'contention_window_hrs' must be non-negative")
	}
	if c.SplitThresholdHrs < 0 {
		return fmt.Errorf("config error: 'split_threshold_hrs' must be non-negative")
	}

	curveSet := c.UtilizationPeakLow != 0 || c.UtilizationPeakHigh != 0 || c.UtilizationOverload != 0
	if curveSet {
		if !(c.UtilizationPeakLow > 0 && c.UtilizationPeakLow <= c.UtilizationPeakHigh && c.UtilizationPeakHigh < c.UtilizationOverload) {
			return fmt.Errorf("config error: utilization breakpoints must satisfy 0 < peak_low <= peak_high < overload")
		}
	}

	if c.RuleTablePath != "" {
		if _, err := os.Stat(c.RuleTablePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: rule table file not found: %s", c.RuleTablePath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. Used to apply config file values underneath CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.RuleTablePath == "" {
		result.RuleTablePath = defaults.RuleTablePath
	}
	if result.InferenceTimeoutSec == 0 {
		result.InferenceTimeoutSec = defaults.InferenceTimeoutSec
	}
	if result.ContentionWindowHrs == 0 {
		result.ContentionWindowHrs = defaults.ContentionWindowHrs
	}
	if result.SplitThresholdHrs == 0 {
		result.SplitThresholdHrs = defaults.SplitThresholdHrs
	}
	if result.UtilizationPeakLow == 0 {
		result.UtilizationPeakLow = defaults.UtilizationPeakLow
	}
	if result.UtilizationPeakHigh == 0 {
		result.UtilizationPeakHigh = defaults.UtilizationPeakHigh
	}
	if result.UtilizationOverload == 0 {
		result.UtilizationOverload = defaults.UtilizationOverload
	}
	if !result.Verbose {
		result.Verbose = defaults.Verbose
	}

	return result
}
