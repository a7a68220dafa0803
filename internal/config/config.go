// Package config provides configuration management for barcore using
// Viper for flexible loading from files, environment variables, and
// command-line flags.
//
// The configuration system supports YAML files, environment variable
// overrides with the BARCORE_ prefix, validation, and per-module
// sections. Each module section carries its type, an event-handling
// switch read once at construction, free-form options, and one or more
// named format blocks (template, spacing, decoration).
package config

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"
)

// DefaultFormat is the format block name resolved when a module does
// not select a state-specific one.
const DefaultFormat = "format"

type Config struct {
	Bar     BarConfig               `yaml:"bar" mapstructure:"bar"`
	Log     LogConfig               `yaml:"log" mapstructure:"log"`
	IPC     IPCConfig               `yaml:"ipc" mapstructure:"ipc"`
	Modules map[string]ModuleConfig `yaml:"modules" mapstructure:"modules"`
}

// BarConfig holds bar-level presentation settings.
type BarConfig struct {
	Separator string `yaml:"separator" mapstructure:"separator"`
	Padding   int    `yaml:"padding" mapstructure:"padding"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// IPCConfig holds the settings for the external input surface.
type IPCConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Address string `yaml:"address" mapstructure:"address"`
}

// ModuleConfig is one configured segment.
type ModuleConfig struct {
	Type    string                  `yaml:"type" mapstructure:"type"`
	Events  *bool                   `yaml:"events" mapstructure:"events"`
	Options map[string]string       `yaml:"options" mapstructure:"options"`
	Formats map[string]FormatConfig `yaml:"formats" mapstructure:"formats"`
}

// FormatConfig is one named format block inside a module section.
type FormatConfig struct {
	Template   string `yaml:"template" mapstructure:"template"`
	Spacing    int    `yaml:"spacing" mapstructure:"spacing"`
	Padding    int    `yaml:"padding" mapstructure:"padding"`
	Prefix     string `yaml:"prefix" mapstructure:"prefix"`
	Suffix     string `yaml:"suffix" mapstructure:"suffix"`
	Foreground string `yaml:"foreground" mapstructure:"foreground"`
	Background string `yaml:"background" mapstructure:"background"`
}

// HandleEvents reports whether the module should accept input events.
// Unset means enabled, matching the bar's historical default.
func (mc ModuleConfig) HandleEvents() bool {
	return mc.Events == nil || *mc.Events
}

// Option returns a free-form module option with a fallback default.
func (mc ModuleConfig) Option(key, def string) string {
	if v, ok := mc.Options[key]; ok && v != "" {
		return v
	}
	return def
}

// Load builds a Config from whatever viper has already read.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func applyDefaults(c *Config) {
	if c.Bar.Separator == "" {
		c.Bar.Separator = " | "
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.IPC.Address == "" {
		c.IPC.Address = "127.0.0.1:9040"
	}
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	if c.Bar.Padding < 0 {
		return fmt.Errorf("bar padding must not be negative, got %d", c.Bar.Padding)
	}
	for name, mc := range c.Modules {
		if name == "" {
			return fmt.Errorf("module with empty name")
		}
		if mc.Type == "" {
			return fmt.Errorf("module %q: missing type", name)
		}
		for fname, fc := range mc.Formats {
			if fname == "" {
				return fmt.Errorf("module %q: format with empty name", name)
			}
			if fc.Spacing < 0 {
				return fmt.Errorf("module %q: format %q: spacing must not be negative", name, fname)
			}
		}
	}
	return nil
}

// Module returns the section for one configured module.
func (c *Config) Module(name string) (ModuleConfig, bool) {
	mc, ok := c.Modules[name]
	return mc, ok
}

// ModuleNames returns the configured module names in stable order.
func (c *Config) ModuleNames() []string {
	names := make([]string, 0, len(c.Modules))
	for name := range c.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
