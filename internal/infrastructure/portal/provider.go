package portal

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/bnema/huewatch/internal/application/port"
	"github.com/bnema/huewatch/internal/domain/entity"
	"github.com/bnema/huewatch/internal/logging"
)

const (
	providerName     = "portal"
	priorityProvider = 100
)

// Compile-time interface check.
var _ port.PrioritizedProvider = (*Provider)(nil)

// Provider reads settings from org.freedesktop.portal.Settings.
// Every getter is a D-Bus round trip.
type Provider struct {
	conn      *dbus.Conn
	obj       dbus.BusObject
	version   uint32
	available bool
	logger    zerolog.Logger
}

// NewProvider connects to the session bus and probes the portal.
// Returns a usable provider even if D-Bus is unavailable; it then answers
// nothing and reports Available() false.
func NewProvider(ctx context.Context) *Provider {
	log := logging.FromContext(ctx)

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		log.Debug().Err(err).Msg("portal: cannot connect to D-Bus session bus")
		return &Provider{logger: *log}
	}

	p := newProvider(conn.Object(portalDest, portalPath), *log)
	p.conn = conn
	return p
}

func newProvider(obj dbus.BusObject, logger zerolog.Logger) *Provider {
	p := &Provider{obj: obj, logger: logger}

	err := obj.Call("org.freedesktop.DBus.Properties.Get", 0,
		portalInterface, "version").Store(&p.version)
	if err != nil {
		logger.Debug().Err(err).Msg("portal: settings interface not available")
		return p
	}

	p.available = true
	logger.Debug().Uint32("version", p.version).Msg("portal: settings interface available")
	return p
}

// Name implements port.SettingsProvider.
func (*Provider) Name() string {
	return providerName
}

// Priority implements port.PrioritizedProvider.
func (*Provider) Priority() int {
	return priorityProvider
}

// Available implements port.PrioritizedProvider.
func (p *Provider) Available() bool {
	return p.available
}

// Version returns the portal Settings interface version, or 0.
func (p *Provider) Version() uint32 {
	return p.version
}

// Close releases the bus connection.
func (p *Provider) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

// Read returns the raw value of a setting. ReadOne is tried first; portals
// before version 2 only have Read, which nests the value in an extra variant.
func (p *Provider) Read(namespace, key string) (any, error) {
	if !p.available {
		return nil, ErrPortalUnavailable
	}

	var v dbus.Variant
	err := p.obj.Call(portalInterface+".ReadOne", 0, namespace, key).Store(&v)
	if err == nil {
		return unwrap(v), nil
	}

	if legacyErr := p.obj.Call(portalInterface+".Read", 0, namespace, key).Store(&v); legacyErr != nil {
		return nil, fmt.Errorf("portal read %s %s: %w", namespace, key, legacyErr)
	}
	return unwrap(v), nil
}

func (p *Provider) read(key string) (any, bool) {
	v, err := p.Read(nsAppearance, key)
	if err != nil {
		p.logger.Trace().Err(err).Str("key", key).Msg("portal: setting unknown")
		return nil, false
	}
	return v, true
}

// DarkMode implements port.SettingsProvider.
func (p *Provider) DarkMode() (bool, bool) {
	v, ok := p.read(keyColorScheme)
	if !ok {
		return false, false
	}
	return parseColorScheme(v)
}

// AccentColor implements port.SettingsProvider.
func (p *Provider) AccentColor() (entity.Color, bool) {
	v, ok := p.read(keyAccentColor)
	if !ok {
		return entity.Color{}, false
	}
	return parseAccentColor(v)
}

// HighContrast implements port.SettingsProvider.
func (p *Provider) HighContrast() (bool, bool) {
	v, ok := p.read(keyContrast)
	if !ok {
		return false, false
	}
	return parseFlag(v)
}

// ReduceMotion implements port.SettingsProvider.
func (p *Provider) ReduceMotion() (bool, bool) {
	v, ok := p.read(keyReducedMotion)
	if !ok {
		return false, false
	}
	return parseFlag(v)
}

// The portal has no keys for the remaining settings; they are always unknown.

// HighlightColor implements port.SettingsProvider.
func (*Provider) HighlightColor() (entity.Color, bool) { return entity.Color{}, false }

// ReduceTransparency implements port.SettingsProvider.
func (*Provider) ReduceTransparency() (bool, bool) { return false, false }

// DifferentiateWithoutColor implements port.SettingsProvider.
func (*Provider) DifferentiateWithoutColor() (bool, bool) { return false, false }

// InvertColors implements port.SettingsProvider.
func (*Provider) InvertColors() (bool, bool) { return false, false }

// AutoplayAnimatedImages implements port.SettingsProvider.
func (*Provider) AutoplayAnimatedImages() (bool, bool) { return false, false }
