package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config declares where descriptor sets live and which messages a deployment
// expects to resolve from them. It is the on-disk companion to Set.
type Config struct {
	// Descriptors lists paths to serialized FileDescriptorSet files,
	// loaded in order.
	Descriptors []string `yaml:"descriptors"`

	// Messages lists fully qualified message names that must resolve once
	// all descriptor sets are loaded. Optional; an empty list skips the
	// resolution check.
	Messages []string `yaml:"messages,omitempty"`
}

// LoadConfig parses a YAML schema configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse schema config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("schema config %q: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks structural requirements before any file I/O happens.
func (c *Config) Validate() error {
	if len(c.Descriptors) == 0 {
		return fmt.Errorf("descriptors list is empty")
	}
	for i, p := range c.Descriptors {
		if p == "" {
			return fmt.Errorf("descriptors[%d] is empty", i)
		}
	}
	for i, m := range c.Messages {
		if m == "" {
			return fmt.Errorf("messages[%d] is empty", i)
		}
	}
	return nil
}

// Load builds a Set from the configuration: every descriptor file is
// registered, then every expected message is resolved.
func (c *Config) Load() (*Set, error) {
	s := NewSet()
	for _, path := range c.Descriptors {
		if err := s.AddDescriptorFile(path); err != nil {
			return nil, err
		}
	}
	for _, name := range c.Messages {
		if _, err := s.Message(name); err != nil {
			return nil, err
		}
	}
	return s, nil
}
