// Package portal reads and watches appearance settings through the XDG
// Desktop Portal Settings interface.
package portal

import (
	"errors"

	"github.com/godbus/dbus/v5"

	"github.com/bnema/huewatch/internal/domain/entity"
)

const (
	portalDest      = "org.freedesktop.portal.Desktop"
	portalPath      = "/org/freedesktop/portal/desktop"
	portalInterface = "org.freedesktop.portal.Settings"

	signalSettingChanged = "SettingChanged"

	nsAppearance = "org.freedesktop.appearance"
	nsInterface  = "org.gnome.desktop.interface"
	nsA11y       = "org.gnome.desktop.a11y.interface"

	keyColorScheme   = "color-scheme"
	keyAccentColor   = "accent-color"
	keyContrast      = "contrast"
	keyReducedMotion = "reduced-motion"
)

// org.freedesktop.appearance color-scheme values.
const (
	schemeNoPreference uint32 = 0
	schemeDark         uint32 = 1
	schemeLight        uint32 = 2
)

// ErrPortalUnavailable is returned when the session bus or the portal
// cannot be reached.
var ErrPortalUnavailable = errors.New("desktop portal not available")

// settingKinds maps (namespace, key) pairs of SettingChanged to kinds.
var settingKinds = map[string]map[string]entity.ChangeKind{
	nsAppearance: {
		keyColorScheme:   entity.ChangeTheme,
		keyAccentColor:   entity.ChangeAccent,
		keyContrast:      entity.ChangeAccessibility,
		keyReducedMotion: entity.ChangeAccessibility,
	},
	nsInterface: {
		"gtk-theme":         entity.ChangeTheme,
		"accent-color":      entity.ChangeAccent,
		"enable-animations": entity.ChangeAccessibility,
	},
	nsA11y: {
		"high-contrast": entity.ChangeAccessibility,
	},
}

// KindFor returns the change kind signalled by a setting, if it is tracked.
func KindFor(namespace, key string) (entity.ChangeKind, bool) {
	kind, ok := settingKinds[namespace][key]
	return kind, ok
}

// unwrap strips the variant layers the deprecated Read method adds.
func unwrap(v any) any {
	for {
		inner, ok := v.(dbus.Variant)
		if !ok {
			return v
		}
		v = inner.Value()
	}
}

func toUint32(v any) (uint32, bool) {
	switch n := unwrap(v).(type) {
	case uint32:
		return n, true
	case int32:
		if n < 0 {
			return 0, false
		}
		return uint32(n), true
	case uint8:
		return uint32(n), true
	default:
		return 0, false
	}
}

// parseColorScheme maps the portal color-scheme value to dark mode.
// No preference is reported as unknown.
func parseColorScheme(v any) (dark, ok bool) {
	n, ok := toUint32(v)
	if !ok {
		return false, false
	}
	switch n {
	case schemeDark:
		return true, true
	case schemeLight:
		return false, true
	default:
		return false, false
	}
}

// parseAccentColor reads an (ddd) rgb triple. Components outside [0,1]
// mean the accent is unset.
func parseAccentColor(v any) (entity.Color, bool) {
	var rgb []float64
	switch t := unwrap(v).(type) {
	case []float64:
		rgb = t
	case []any:
		for _, c := range t {
			f, ok := unwrap(c).(float64)
			if !ok {
				return entity.Color{}, false
			}
			rgb = append(rgb, f)
		}
	default:
		return entity.Color{}, false
	}
	if len(rgb) != 3 {
		return entity.Color{}, false
	}
	for _, c := range rgb {
		if c < 0 || c > 1 {
			return entity.Color{}, false
		}
	}
	return entity.RGB(rgb[0], rgb[1], rgb[2]), true
}

// parseFlag reads a u setting where 1 enables the feature.
func parseFlag(v any) (bool, bool) {
	n, ok := toUint32(v)
	if !ok {
		return false, false
	}
	return n == 1, true
}
