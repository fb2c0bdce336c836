// Package config handles recorder and service configuration from YAML
// files, plus locator settings persisted in SQLite.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/domtrail/locator"
)

// Config is the top-level configuration.
type Config struct {
	Locator LocatorConfig `yaml:"locator"`
	Browser BrowserConfig `yaml:"browser"`
	Pages   []PageConfig  `yaml:"pages"`
	Events  []string      `yaml:"events"`
	Sinks   []SinkConfig  `yaml:"sinks"`
	Server  ServerConfig  `yaml:"server"`
}

// LocatorConfig holds the locator preferences.
type LocatorConfig struct {
	// AttributesToStore entries are a name or a list of names (AND group).
	AttributesToStore []AttributeEntry `yaml:"attributes_to_store"`
	IDExclusion       string           `yaml:"id_exclusion_pattern"`
}

// AttributeEntry decodes from a YAML scalar or sequence.
type AttributeEntry []string

func (a *AttributeEntry) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*a = AttributeEntry{n.Value}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := n.Decode(&names); err != nil {
			return err
		}
		*a = names
		return nil
	}
	return fmt.Errorf("config: line %d: attribute entry must be a name or a list of names", n.Line)
}

// BrowserConfig controls Chrome.
type BrowserConfig struct {
	Remote           string   `yaml:"remote"`
	Headless         bool     `yaml:"headless"`
	Stealth          bool     `yaml:"stealth"`
	ResourceBlocking []string `yaml:"resource_blocking"`
	Bin              string   `yaml:"bin"`
}

// PageConfig defines a page to record on.
type PageConfig struct {
	ID  string `yaml:"id"`
	URL string `yaml:"url"`
}

// SinkConfig defines an output backend.
type SinkConfig struct {
	Type string `yaml:"type"` // stdout | webhook
	URL  string `yaml:"url"`  // for webhook
}

// ServerConfig configures the locator service.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the configuration an empty file yields.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Locator.AttributesToStore == nil {
		c.Locator.AttributesToStore = []AttributeEntry{{"name"}, {"title"}, {"data-testid"}}
	}
	if len(c.Events) == 0 {
		c.Events = []string{"click", "change", "submit"}
	}
	if len(c.Sinks) == 0 {
		c.Sinks = []SinkConfig{{Type: "stdout"}}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8090"
	}
	for i := range c.Pages {
		if c.Pages[i].ID == "" {
			c.Pages[i].ID = fmt.Sprintf("tab-%d", i+1)
		}
	}
}

// Options compiles the locator section.
func (c *Config) Options() (*locator.Options, error) {
	return options(entriesToSpecs(c.Locator.AttributesToStore), c.Locator.IDExclusion)
}

func entriesToSpecs(entries []AttributeEntry) []locator.AttributeSpec {
	specs := make([]locator.AttributeSpec, len(entries))
	for i, e := range entries {
		specs[i] = locator.AttributeSpec(e)
	}
	return specs
}

func options(specs []locator.AttributeSpec, exclusion string) (*locator.Options, error) {
	o, err := locator.NewOptions(locator.Config{AttributesToStore: specs, IDExclusionPattern: exclusion})
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return o, nil
}
