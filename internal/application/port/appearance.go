package port

import (
	"context"

	"github.com/bnema/huewatch/internal/domain/entity"
)

//go:generate mockgen -destination=mocks/mock_appearance.go -package=mock_port . ChangeSink,SignalSource

// SettingsProvider reads the host appearance settings on demand.
// Every getter queries the host directly; callers cache.
// The second result is false when the provider does not know the value.
type SettingsProvider interface {
	// Name returns a human-readable name for this provider.
	Name() string

	DarkMode() (dark, ok bool)
	AccentColor() (entity.Color, bool)
	HighlightColor() (entity.Color, bool)
	HighContrast() (bool, bool)
	ReduceMotion() (bool, bool)
	ReduceTransparency() (bool, bool)
	DifferentiateWithoutColor() (bool, bool)
	InvertColors() (bool, bool)
	AutoplayAnimatedImages() (bool, bool)
}

// PrioritizedProvider is a SettingsProvider that can be ranked against others.
type PrioritizedProvider interface {
	SettingsProvider

	// Priority returns the provider's priority.
	// Higher values = higher priority (checked first).
	// Recommended ranges:
	//   - 1000: User config overrides
	//   -  100: Runtime sources (desktop portal)
	//   -   10+: Fallback sources (gsettings, env vars)
	Priority() int

	// Available returns true if this provider can be queried.
	Available() bool
}

// ChangeSink receives raw change signals. Safe to call from any goroutine.
type ChangeSink interface {
	Notify(kind entity.ChangeKind)
}

// SignalSource watches the host for appearance changes and reports each one
// to a ChangeSink.
type SignalSource interface {
	Name() string

	// Run blocks until ctx is cancelled or the source fails to start.
	// It returns nil on cancellation.
	Run(ctx context.Context, sink ChangeSink) error
}

// Notifiable receives every debounced broadcast.
type Notifiable interface {
	AppearanceChanged(changes entity.ChangeSet)
}

// ValueListener is told that cached appearance values changed, without the
// specific kinds.
type ValueListener interface {
	AppearanceValuesChanged()
}

// Dispatcher runs one broadcast delivery on the consumer's preferred
// goroutine (for example a UI main loop).
type Dispatcher func(deliver func())
