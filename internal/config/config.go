// Package config loads the gateway configuration: the content sources to
// register, their node-name prefixes and the shared URL prefix. Read once
// at startup.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration document.
type Config struct {
	// Apps lists the content sources to register, in order.
	Apps []string `yaml:"apps"`
	// Prefix is either a single template for every source or a map of
	// source name to template. Templates may use {app} and {class}.
	Prefix Prefix `yaml:"prefix"`
	// URLPrefix is prepended to page url paths ("/home/").
	URLPrefix string `yaml:"url_prefix"`
	// Models points at the model declarations document.
	Models string `yaml:"models"`
}

// Prefix holds a scalar-or-map prefix setting.
type Prefix struct {
	single string
	perApp map[string]string
}

// UnmarshalYAML accepts either a plain string or a map of app to string.
func (p *Prefix) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&p.single)
	case yaml.MappingNode:
		return node.Decode(&p.perApp)
	default:
		return fmt.Errorf("config: prefix must be a string or a map")
	}
}

// For returns the prefix template for one source, falling back to the
// default template.
func (p *Prefix) For(app string) string {
	if p.single != "" {
		return p.single
	}
	if tmpl, ok := p.perApp[app]; ok {
		return tmpl
	}
	return "{app}"
}

// PrefixFor returns the node-name prefix template for one source.
func (c *Config) PrefixFor(app string) string { return c.Prefix.For(app) }

// Load reads and decodes a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Decode(data)
}

// Decode decodes YAML configuration.
func Decode(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
