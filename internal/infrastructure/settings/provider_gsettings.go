package settings

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/bnema/huewatch/internal/application/port"
	"github.com/bnema/huewatch/internal/domain/entity"
)

const (
	providerNameGsettings = "gsettings"
	priorityGsettings     = 10

	schemaInterface = "org.gnome.desktop.interface"
	schemaA11y      = "org.gnome.desktop.a11y.interface"
)

// ErrGsettingsUnavailable is returned when the gsettings binary is missing.
var ErrGsettingsUnavailable = errors.New("gsettings not found in PATH")

// gnomeAccents maps GNOME named accent colors to their RGB values.
var gnomeAccents = map[string]string{
	"blue":   "#3584e4",
	"teal":   "#2190a4",
	"green":  "#3a944a",
	"yellow": "#c88800",
	"orange": "#ed5b00",
	"red":    "#e62d42",
	"pink":   "#d56199",
	"purple": "#9141ac",
	"slate":  "#6f8396",
}

// commandRunner runs a command and returns its stdout.
type commandRunner func(name string, args ...string) ([]byte, error)

func execRunner(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// Compile-time interface check.
var _ port.PrioritizedProvider = (*GsettingsProvider)(nil)

// GsettingsProvider reads settings from GNOME gsettings.
type GsettingsProvider struct {
	unknown
	run      commandRunner
	lookPath func(string) (string, error)
}

// NewGsettingsProvider creates a new gsettings-based provider.
func NewGsettingsProvider() *GsettingsProvider {
	return &GsettingsProvider{run: execRunner, lookPath: exec.LookPath}
}

// Name implements port.SettingsProvider.
func (*GsettingsProvider) Name() string {
	return providerNameGsettings
}

// Priority implements port.PrioritizedProvider.
func (*GsettingsProvider) Priority() int {
	return priorityGsettings
}

// Available implements port.PrioritizedProvider.
// Returns true if gsettings command is available.
func (p *GsettingsProvider) Available() bool {
	_, err := p.lookPath("gsettings")
	return err == nil
}

// get returns the unquoted value of schema key.
func (p *GsettingsProvider) get(schema, key string) (string, bool) {
	output, err := p.run("gsettings", "get", schema, key)
	if err != nil {
		return "", false
	}
	return unquote(string(output)), true
}

// unquote strips whitespace and GVariant string quotes: "'prefer-dark'\n".
func unquote(v string) string {
	return strings.Trim(strings.TrimSpace(v), "'\"")
}

// DarkMode implements port.SettingsProvider.
// Queries org.gnome.desktop.interface color-scheme.
func (p *GsettingsProvider) DarkMode() (bool, bool) {
	v, ok := p.get(schemaInterface, "color-scheme")
	if !ok {
		return false, false
	}
	switch v {
	case "prefer-dark":
		return true, true
	case "prefer-light":
		return false, true
	default:
		// "default" means follow system, which we can't determine here
		return false, false
	}
}

// AccentColor implements port.SettingsProvider.
// Queries org.gnome.desktop.interface accent-color (GNOME 47+).
func (p *GsettingsProvider) AccentColor() (entity.Color, bool) {
	v, ok := p.get(schemaInterface, "accent-color")
	if !ok {
		return entity.Color{}, false
	}
	hex, known := gnomeAccents[v]
	if !known {
		return entity.Color{}, false
	}
	c, err := entity.ParseHexColor(hex)
	return c, err == nil
}

// HighContrast implements port.SettingsProvider.
func (p *GsettingsProvider) HighContrast() (bool, bool) {
	return p.getBool(schemaA11y, "high-contrast")
}

// ReduceMotion implements port.SettingsProvider.
// GNOME exposes the inverse: enable-animations.
func (p *GsettingsProvider) ReduceMotion() (bool, bool) {
	animations, ok := p.getBool(schemaInterface, "enable-animations")
	if !ok {
		return false, false
	}
	return !animations, true
}

func (p *GsettingsProvider) getBool(schema, key string) (bool, bool) {
	v, ok := p.get(schema, key)
	if !ok {
		return false, false
	}
	switch v {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}
