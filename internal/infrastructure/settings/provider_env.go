package settings

import (
	"os"
	"strings"

	"github.com/bnema/huewatch/internal/application/port"
)

const (
	providerNameEnv = "GTK_THEME"
	priorityEnv     = 20
)

// Compile-time interface check.
var _ port.PrioritizedProvider = (*EnvProvider)(nil)

// EnvProvider reads the GTK_THEME environment variable.
// This is useful when users explicitly set their theme via environment.
type EnvProvider struct {
	unknown
	lookup func(string) string
}

// NewEnvProvider creates a new environment variable-based provider.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{lookup: os.Getenv}
}

// Name implements port.SettingsProvider.
func (*EnvProvider) Name() string {
	return providerNameEnv
}

// Priority implements port.PrioritizedProvider.
func (*EnvProvider) Priority() int {
	return priorityEnv
}

// Available implements port.PrioritizedProvider.
// Returns true if GTK_THEME environment variable is set.
func (p *EnvProvider) Available() bool {
	return p.theme() != ""
}

func (p *EnvProvider) theme() string {
	return strings.TrimSpace(p.lookup("GTK_THEME"))
}

// DarkMode implements port.SettingsProvider.
// GTK_THEME containing "dark" (case-insensitive) means dark, anything else light.
func (p *EnvProvider) DarkMode() (bool, bool) {
	theme := p.theme()
	if theme == "" {
		return false, false
	}
	return strings.Contains(strings.ToLower(theme), "dark"), true
}

// HighContrast implements port.SettingsProvider.
// Only a high contrast theme ("HighContrast", "Adwaita:hc", ...) is an answer;
// any other theme says nothing about contrast.
func (p *EnvProvider) HighContrast() (bool, bool) {
	theme := strings.ToLower(p.theme())
	if strings.Contains(theme, "highcontrast") || strings.HasSuffix(theme, ":hc") {
		return true, true
	}
	return false, false
}
