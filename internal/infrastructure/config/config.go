// Package config loads, validates and watches the huewatch configuration.
package config

import (
	"fmt"
	"slices"
	"time"
)

const (
	dirPerm  = 0755
	filePerm = 0644
)

// Config is the root of config.toml.
type Config struct {
	Appearance AppearanceConfig `mapstructure:"appearance" toml:"appearance" json:"appearance" jsonschema:"description=Appearance overrides applied above the desktop settings"`
	Notifier   NotifierConfig   `mapstructure:"notifier" toml:"notifier" json:"notifier" jsonschema:"description=Change notification settings"`
	Logging    LoggingConfig    `mapstructure:"logging" toml:"logging" json:"logging" jsonschema:"description=Log output settings"`
}

// AppearanceConfig overrides what the desktop reports. Empty or "system"
// values defer to the desktop.
type AppearanceConfig struct {
	ColorScheme  string `mapstructure:"color_scheme" toml:"color_scheme" json:"color_scheme" jsonschema:"enum=default,enum=prefer-dark,enum=prefer-light,enum=dark,enum=light,default=default"`
	AccentColor  string `mapstructure:"accent_color" toml:"accent_color" json:"accent_color" jsonschema:"description=Hex color such as #3584e4; empty follows the desktop"`
	HighContrast string `mapstructure:"high_contrast" toml:"high_contrast" json:"high_contrast" jsonschema:"enum=system,enum=on,enum=off,default=system"`
	ReduceMotion string `mapstructure:"reduce_motion" toml:"reduce_motion" json:"reduce_motion" jsonschema:"enum=system,enum=on,enum=off,default=system"`
}

// NotifierConfig tunes the change aggregator.
type NotifierConfig struct {
	// DebounceInterval is a Go duration string.
	DebounceInterval string   `mapstructure:"debounce_interval" toml:"debounce_interval" json:"debounce_interval" jsonschema:"default=100ms"`
	Sources          []string `mapstructure:"sources" toml:"sources" json:"sources" jsonschema:"description=Signal sources to watch (portal or gsettings or config)"`
}

// Interval parses DebounceInterval.
func (n NotifierConfig) Interval() (time.Duration, error) {
	d, err := time.ParseDuration(n.DebounceInterval)
	if err != nil {
		return 0, fmt.Errorf("notifier.debounce_interval: %w", err)
	}
	return d, nil
}

// SourceEnabled reports whether name is listed in Sources.
func (n NotifierConfig) SourceEnabled(name string) bool {
	return slices.Contains(n.Sources, name)
}

// LoggingConfig mirrors logging.Config for the file.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,enum=disabled,default=info"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json,default=console"`
}
