package settings

import (
	"strings"

	"github.com/bnema/huewatch/internal/application/port"
	"github.com/bnema/huewatch/internal/domain/entity"
)

const (
	providerNameConfig = "config"
	priorityConfig     = 1000
)

// Tri-state override values.
const (
	OverrideOn     = "on"
	OverrideOff    = "off"
	OverrideSystem = "system"
)

// Overrides holds the user's explicit appearance preferences.
type Overrides struct {
	// ColorScheme is one of "default", "prefer-dark", "prefer-light", "dark", "light".
	ColorScheme string
	// AccentColor is a hex color, empty to follow the system.
	AccentColor string
	// HighContrast and ReduceMotion are "on", "off" or "system".
	HighContrast string
	ReduceMotion string
}

// OverrideSource provides access to the current overrides.
type OverrideSource interface {
	AppearanceOverrides() Overrides
}

// Compile-time interface check.
var _ port.PrioritizedProvider = (*ConfigProvider)(nil)

// ConfigProvider answers from explicit user configuration and stays silent
// for anything left on "system"/"default".
type ConfigProvider struct {
	unknown
	source OverrideSource
}

// NewConfigProvider creates a provider reading overrides from source.
func NewConfigProvider(source OverrideSource) *ConfigProvider {
	return &ConfigProvider{source: source}
}

// Name implements port.SettingsProvider.
func (*ConfigProvider) Name() string {
	return providerNameConfig
}

// Priority implements port.PrioritizedProvider.
func (*ConfigProvider) Priority() int {
	return priorityConfig
}

// Available implements port.PrioritizedProvider.
func (p *ConfigProvider) Available() bool {
	return p.source != nil
}

func (p *ConfigProvider) overrides() Overrides {
	if p.source == nil {
		return Overrides{}
	}
	return p.source.AppearanceOverrides()
}

// DarkMode implements port.SettingsProvider.
func (p *ConfigProvider) DarkMode() (bool, bool) {
	return ParseColorScheme(p.overrides().ColorScheme)
}

// AccentColor implements port.SettingsProvider.
// An unparsable color is treated as unset.
func (p *ConfigProvider) AccentColor() (entity.Color, bool) {
	raw := strings.TrimSpace(p.overrides().AccentColor)
	if raw == "" {
		return entity.Color{}, false
	}
	c, err := entity.ParseHexColor(raw)
	if err != nil {
		return entity.Color{}, false
	}
	return c, true
}

// HighContrast implements port.SettingsProvider.
func (p *ConfigProvider) HighContrast() (bool, bool) {
	return ParseTriState(p.overrides().HighContrast)
}

// ReduceMotion implements port.SettingsProvider.
func (p *ConfigProvider) ReduceMotion() (bool, bool) {
	return ParseTriState(p.overrides().ReduceMotion)
}

// ParseColorScheme maps a color scheme preference to dark mode.
// "default" or empty falls through to the next provider.
func ParseColorScheme(scheme string) (dark, ok bool) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "prefer-dark", "dark":
		return true, true
	case "prefer-light", "light":
		return false, true
	default:
		return false, false
	}
}

// ValidColorScheme reports whether scheme is a known preference.
func ValidColorScheme(scheme string) bool {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", "default", "prefer-dark", "dark", "prefer-light", "light":
		return true
	}
	return false
}

// ParseTriState maps "on"/"off" to a value and "system" or empty to unknown.
func ParseTriState(v string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case OverrideOn, "true", "yes":
		return true, true
	case OverrideOff, "false", "no":
		return false, true
	default:
		return false, false
	}
}

// ValidTriState reports whether v is on, off, system or empty.
func ValidTriState(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", OverrideOn, OverrideOff, OverrideSystem, "true", "false", "yes", "no":
		return true
	}
	return false
}
