package settings

import (
	"slices"
	"sync"

	"github.com/bnema/huewatch/internal/application/port"
	"github.com/bnema/huewatch/internal/domain/entity"
)

const resolverName = "resolver"

// Compile-time interface checks.
var (
	_ port.SettingsProvider      = (*Resolver)(nil)
	_ port.AppearanceSnapshotter = (*Resolver)(nil)
)

// Resolver combines several providers. For each setting it asks the
// available providers in priority order and keeps the first answer.
type Resolver struct {
	mu        sync.RWMutex
	providers []port.PrioritizedProvider
}

// NewResolver creates a resolver over the given providers.
func NewResolver(providers ...port.PrioritizedProvider) *Resolver {
	r := &Resolver{}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds a provider. Providers with equal priority keep
// registration order.
func (r *Resolver) Register(p port.PrioritizedProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, p)
	slices.SortStableFunc(r.providers, func(a, b port.PrioritizedProvider) int {
		return b.Priority() - a.Priority()
	})
}

// Providers returns the registered provider names, highest priority first.
func (r *Resolver) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

// available copies the usable providers so they are queried without
// holding the lock.
func (r *Resolver) available() []port.PrioritizedProvider {
	r.mu.RLock()
	providers := slices.Clone(r.providers)
	r.mu.RUnlock()

	return slices.DeleteFunc(providers, func(p port.PrioritizedProvider) bool {
		return !p.Available()
	})
}

func firstAnswer[T any](providers []port.PrioritizedProvider, get func(port.SettingsProvider) (T, bool)) (T, string, bool) {
	for _, p := range providers {
		if v, ok := get(p); ok {
			return v, p.Name(), true
		}
	}
	var zero T
	return zero, "", false
}

// Name implements port.SettingsProvider.
func (*Resolver) Name() string {
	return resolverName
}

// DarkMode implements port.SettingsProvider.
func (r *Resolver) DarkMode() (bool, bool) {
	v, _, ok := firstAnswer(r.available(), port.SettingsProvider.DarkMode)
	return v, ok
}

// AccentColor implements port.SettingsProvider.
func (r *Resolver) AccentColor() (entity.Color, bool) {
	v, _, ok := firstAnswer(r.available(), port.SettingsProvider.AccentColor)
	return v, ok
}

// HighlightColor implements port.SettingsProvider.
func (r *Resolver) HighlightColor() (entity.Color, bool) {
	v, _, ok := firstAnswer(r.available(), port.SettingsProvider.HighlightColor)
	return v, ok
}

// HighContrast implements port.SettingsProvider.
func (r *Resolver) HighContrast() (bool, bool) {
	v, _, ok := firstAnswer(r.available(), port.SettingsProvider.HighContrast)
	return v, ok
}

// ReduceMotion implements port.SettingsProvider.
func (r *Resolver) ReduceMotion() (bool, bool) {
	v, _, ok := firstAnswer(r.available(), port.SettingsProvider.ReduceMotion)
	return v, ok
}

// ReduceTransparency implements port.SettingsProvider.
func (r *Resolver) ReduceTransparency() (bool, bool) {
	v, _, ok := firstAnswer(r.available(), port.SettingsProvider.ReduceTransparency)
	return v, ok
}

// DifferentiateWithoutColor implements port.SettingsProvider.
func (r *Resolver) DifferentiateWithoutColor() (bool, bool) {
	v, _, ok := firstAnswer(r.available(), port.SettingsProvider.DifferentiateWithoutColor)
	return v, ok
}

// InvertColors implements port.SettingsProvider.
func (r *Resolver) InvertColors() (bool, bool) {
	v, _, ok := firstAnswer(r.available(), port.SettingsProvider.InvertColors)
	return v, ok
}

// AutoplayAnimatedImages implements port.SettingsProvider.
func (r *Resolver) AutoplayAnimatedImages() (bool, bool) {
	v, _, ok := firstAnswer(r.available(), port.SettingsProvider.AutoplayAnimatedImages)
	return v, ok
}

// Snapshot resolves every setting in one pass and records which provider
// supplied dark mode.
func (r *Resolver) Snapshot() entity.Appearance {
	providers := r.available()
	a := entity.DefaultAppearance()

	if dark, source, ok := firstAnswer(providers, port.SettingsProvider.DarkMode); ok {
		a.DarkMode = dark
		a.Source = source
	}
	// Walk lowest priority first so higher priority answers overwrite.
	for _, p := range slices.Backward(providers) {
		port.FillAppearance(&a, p)
	}
	return a
}
