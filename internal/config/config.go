// Package config loads readme-right configuration from YAML with defaults
// overlaid by file values and file values overridden by CLI flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = ".readme-right.yaml"

// Config represents readme-right configuration options.
type Config struct {
	// MaxConcurrency is the number of files processed in parallel
	// (1 = sequential). Examples within one file always run sequentially.
	MaxConcurrency int `yaml:"max_concurrency"`

	// Timeout bounds the execution of a single example. Zero means
	// unbounded, which is the baseline contract: a hanging command blocks
	// the run.
	Timeout time.Duration `yaml:"timeout"`

	// Shell is the shell binary used for "$ " examples.
	Shell string `yaml:"shell"`

	// LogLevel sets console verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// ShowDiffs controls whether unified diffs of would-be changes are
	// printed.
	ShowDiffs bool `yaml:"show_diffs"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrency: 1,
		Timeout:        0,
		Shell:          "sh",
		LogLevel:       "info",
		ShowDiffs:      true,
	}
}

// LoadConfig loads configuration from the specified file path.
// A missing file returns default configuration without error; a malformed
// file is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Temporary struct so the timeout can be written as "30s" or "2m".
	type yamlConfig struct {
		MaxConcurrency int    `yaml:"max_concurrency"`
		Timeout        string `yaml:"timeout"`
		Shell          string `yaml:"shell"`
		LogLevel       string `yaml:"log_level"`
		ShowDiffs      *bool  `yaml:"show_diffs"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.MaxConcurrency != 0 {
		cfg.MaxConcurrency = yamlCfg.MaxConcurrency
	}
	if yamlCfg.Timeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout format %q: %w", yamlCfg.Timeout, err)
		}
		cfg.Timeout = timeout
	}
	if yamlCfg.Shell != "" {
		cfg.Shell = yamlCfg.Shell
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.ShowDiffs != nil {
		cfg.ShowDiffs = *yamlCfg.ShowDiffs
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .readme-right.yaml in the
// specified directory. A missing file yields defaults without error.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, DefaultFileName))
}

// MergeWithFlags merges CLI flags into the configuration. Non-nil flag
// values override configuration values.
func (c *Config) MergeWithFlags(maxConcurrency *int, timeout *time.Duration, shell *string) {
	if maxConcurrency != nil {
		c.MaxConcurrency = *maxConcurrency
	}
	if timeout != nil {
		c.Timeout = *timeout
	}
	if shell != nil {
		c.Shell = *shell
	}
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be >= 1, got %d", c.MaxConcurrency)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}

	if c.Shell == "" {
		return fmt.Errorf("shell cannot be empty")
	}

	return nil
}
