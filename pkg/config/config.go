// Package config handles configuration for stakeholder-report.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default file roles, relative to the workspace home.
const (
	DefaultInput  = "test-results/report.json"
	DefaultOutput = "test-results/customReport.html"
)

// Config represents the workspace configuration (report.yaml).
type Config struct {
	// File roles
	Input  string `yaml:"input"`  // Run document written by the test runner
	Output string `yaml:"output"` // HTML report path

	// Presentation
	Title          string `yaml:"title"`          // Report heading and <title>
	ChartScriptURL string `yaml:"chartScriptUrl"` // Chart library script reference
	DeepLinkBase   string `yaml:"deepLinkBase"`   // Base of per-test links

	// Extra outputs
	AllureDir    string `yaml:"allureDir"`    // Write Allure results here when set
	SnapshotJSON string `yaml:"snapshotJson"` // Write normalized results JSON here when set

	// Logging
	LogFile  string `yaml:"logFile"`  // Run log path
	LogLevel string `yaml:"logLevel"` // debug, info, warn, error
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromDir looks for report.yaml or report.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	// Try report.yaml first
	configPath := filepath.Join(dir, "report.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// Try report.yml
	configPath = filepath.Join(dir, "report.yml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// No config file found, return empty config
	return &Config{}, nil
}

// InputPath returns the configured input path, or the default resolved
// against the workspace home.
func (c *Config) InputPath() string {
	if c.Input != "" {
		return c.Input
	}
	return filepath.Join(GetHome(), DefaultInput)
}

// OutputPath returns the configured output path, or the default resolved
// against the workspace home.
func (c *Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	return filepath.Join(GetHome(), DefaultOutput)
}
