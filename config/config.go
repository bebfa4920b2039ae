// Package config provides configuration loading and management for codestyle.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/valeratrades/codestyle/rules"
)

// Config represents the complete codestyle configuration
type Config struct {
	// Rules maps rule name to enabled. Names absent here keep their
	// built-in default.
	Rules map[string]bool `yaml:"rules"`
	// Ignore holds doublestar patterns matched against root-relative
	// paths of discovered files.
	Ignore []string `yaml:"ignore"`
	// Jobs bounds concurrent file evaluation (0 = GOMAXPROCS)
	Jobs int `yaml:"jobs"`
}

// DefaultConfig returns a Config with every rule at its built-in default
func DefaultConfig() *Config {
	return &Config{
		Rules: rules.Defaults(),
		Jobs:  0,
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	known := rules.Defaults()
	names := make([]string, 0, len(c.Rules))
	for name := range c.Rules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("unknown rule %q", name)
		}
	}
	for _, pattern := range c.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be >= 0, got %d", c.Jobs)
	}
	return nil
}

// SetRule enables or disables a rule by name
func (c *Config) SetRule(name string, enabled bool) error {
	if _, ok := rules.Defaults()[name]; !ok {
		return fmt.Errorf("unknown rule %q", name)
	}
	if c.Rules == nil {
		c.Rules = make(map[string]bool)
	}
	c.Rules[name] = enabled
	return nil
}

// ActiveRules returns the enabled subset of the rule set in its fixed
// application order
func (c *Config) ActiveRules() []rules.Rule {
	var active []rules.Rule
	for _, r := range rules.All() {
		enabled, ok := c.Rules[r.Name()]
		if !ok {
			enabled = r.DefaultEnabled()
		}
		if enabled {
			active = append(active, r)
		}
	}
	return active
}

// Merge overlays non-zero fields from other onto c
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	for name, enabled := range other.Rules {
		if c.Rules == nil {
			c.Rules = make(map[string]bool)
		}
		c.Rules[name] = enabled
	}
	if len(other.Ignore) > 0 {
		c.Ignore = append(c.Ignore, other.Ignore...)
	}
	if other.Jobs != 0 {
		c.Jobs = other.Jobs
	}
}

// LoadFromFile loads configuration from a YAML file. Unknown keys are
// rejected so typos surface as errors rather than silently ignored rules.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var config Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// SaveToFile writes the configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
