// Package config provides configuration management for locgen.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/locator-cli/pkg/locator"
)

// Defaults applied when a field is unset.
const (
	DefaultTarget            = string(locator.JavaScript)
	DefaultTestIDAttribute   = "data-testid"
	DefaultMaxSelectorLength = 10000
)

// Environment variables that override the config file.
const (
	EnvTarget          = "LOCGEN_TARGET"
	EnvQuote           = "LOCGEN_QUOTE"
	EnvMaxVariants     = "LOCGEN_MAX_VARIANTS"
	EnvTestIDAttribute = "LOCGEN_TEST_ID_ATTRIBUTE"
)

// EnvVars lists every variable LoadFromEnv reads.
var EnvVars = []string{EnvTarget, EnvQuote, EnvMaxVariants, EnvTestIDAttribute}

// Config holds the locgen preferences.
type Config struct {
	Target            string `yaml:"target,omitempty"`
	Quote             string `yaml:"quote,omitempty"`
	MaxVariants       int    `yaml:"max_variants,omitempty"`
	TestIDAttribute   string `yaml:"test_id_attribute,omitempty"`
	MaxSelectorLength int    `yaml:"max_selector_length,omitempty"`
}

// Validate checks that every set field holds a usable value.
func (c *Config) Validate() error {
	if c.Target != "" {
		if _, err := locator.ParseLanguage(c.Target); err != nil {
			return fmt.Errorf("target: %w", err)
		}
	}
	if _, err := locator.ParseQuote(c.Quote); err != nil {
		return fmt.Errorf("quote: %w", err)
	}
	if c.MaxVariants < 0 {
		return fmt.Errorf("max_variants must be >= 0, got %d", c.MaxVariants)
	}
	if c.MaxSelectorLength < 0 {
		return fmt.Errorf("max_selector_length must be >= 0, got %d", c.MaxSelectorLength)
	}
	return nil
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Target == "" {
		c.Target = DefaultTarget
	}
	if c.MaxVariants == 0 {
		c.MaxVariants = locator.DefaultMaxVariants
	}
	if c.TestIDAttribute == "" {
		c.TestIDAttribute = DefaultTestIDAttribute
	}
	if c.MaxSelectorLength == 0 {
		c.MaxSelectorLength = DefaultMaxSelectorLength
	}
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// An unparseable LOCGEN_MAX_VARIANTS is ignored.
func (c *Config) LoadFromEnv() {
	if target := os.Getenv(EnvTarget); target != "" {
		c.Target = target
	}
	if quote := os.Getenv(EnvQuote); quote != "" {
		c.Quote = quote
	}
	if v := os.Getenv(EnvMaxVariants); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxVariants = n
		}
	}
	if attr := os.Getenv(EnvTestIDAttribute); attr != "" {
		c.TestIDAttribute = attr
	}
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "locgen", "config.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".locgen", "config.yml")
	}

	return filepath.Join(home, ".config", "locgen", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file, overrides it with environment
// variables and fills defaults. A missing file is not an error.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	cfg.ApplyDefaults()
	return cfg, nil
}

// PathOrDefault returns path, or DefaultConfigPath when path is empty.
func PathOrDefault(path string) string {
	if path == "" {
		return DefaultConfigPath()
	}
	return path
}

// Resolve loads the config at path (or the default path) with environment
// overrides and defaults, and validates it.
func Resolve(path string) (*Config, error) {
	cfg, err := LoadWithEnv(PathOrDefault(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w (run 'locgen init' to configure)", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'locgen init' to configure)", err)
	}
	return cfg, nil
}
