package appearance

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/bnema/huewatch/internal/application/port"
	"github.com/bnema/huewatch/internal/csync"
	"github.com/bnema/huewatch/internal/domain/entity"
	"github.com/bnema/huewatch/internal/weakbag"
)

type cachedAppearance struct {
	seq   uint64
	value entity.Appearance
}

// Cache keeps the latest appearance snapshot and refreshes it after every
// broadcast of its aggregator. Reads never touch the host.
type Cache struct {
	provider port.SettingsProvider
	agg      *Aggregator
	token    Token
	logger   zerolog.Logger

	state     *csync.RWLock[cachedAppearance]
	seq       atomic.Uint64
	listeners *weakbag.Bag[port.ValueListener]
	closed    atomic.Bool
}

// NewCache queries provider once, then subscribes to agg.
func NewCache(provider port.SettingsProvider, agg *Aggregator, logger zerolog.Logger) *Cache {
	if provider == nil || agg == nil {
		panic("appearance: cache needs a provider and an aggregator")
	}
	c := &Cache{
		provider:  provider,
		agg:       agg,
		logger:    logger,
		state:     csync.NewRWLock[cachedAppearance](),
		listeners: weakbag.New[port.ValueListener](),
	}
	c.refresh()
	c.token = agg.Subscribe(c.onChange)
	return c
}

// Snapshot returns the cached appearance.
func (c *Cache) Snapshot() entity.Appearance {
	return c.state.Load().value
}

// DarkMode reports whether the cached appearance is dark.
func (c *Cache) DarkMode() bool { return c.Snapshot().DarkMode }

// AccentColor returns the cached accent color.
func (c *Cache) AccentColor() entity.Color { return c.Snapshot().AccentColor }

// HighlightColor returns the cached selection highlight color.
func (c *Cache) HighlightColor() entity.Color { return c.Snapshot().HighlightColor }

// HighContrast reports whether the high contrast preference is set.
func (c *Cache) HighContrast() bool { return c.Snapshot().HighContrast }

// ReduceMotion reports whether animations should be reduced.
func (c *Cache) ReduceMotion() bool { return c.Snapshot().ReduceMotion }

// ReduceTransparency reports whether translucent surfaces should be opaque.
func (c *Cache) ReduceTransparency() bool { return c.Snapshot().ReduceTransparency }

// DifferentiateWithoutColor reports whether state must not rely on color alone.
func (c *Cache) DifferentiateWithoutColor() bool {
	return c.Snapshot().DifferentiateWithoutColor
}

// InvertColors reports whether the display colors are inverted.
func (c *Cache) InvertColors() bool { return c.Snapshot().InvertColors }

// AutoplayAnimatedImages reports whether animated images may play on their own.
func (c *Cache) AutoplayAnimatedImages() bool { return c.Snapshot().AutoplayAnimatedImages }

// AddListener registers a weak value listener.
func AddListener[L any, P interface {
	*L
	port.ValueListener
}](c *Cache, listener P) {
	c.listeners.Add(valueRef[L, P](listener))
}

// RemoveListener removes every registration of listener.
func RemoveListener[L any, P interface {
	*L
	port.ValueListener
}](c *Cache, listener P) {
	c.listeners.Remove(valueRef[L, P](listener))
}

func valueRef[L any, P interface {
	*L
	port.ValueListener
}](listener P) weakbag.Ref[port.ValueListener] {
	return weakbag.Make((*L)(listener), func(l *L) port.ValueListener { return P(l) })
}

// Refresh re-queries the provider and notifies value listeners.
func (c *Cache) Refresh() {
	c.refresh()
	c.notifyListeners()
}

// Close unsubscribes from the aggregator. The cached snapshot stays readable.
func (c *Cache) Close() {
	if c.closed.CompareAndSwap(false, true) {
		c.agg.Unsubscribe(c.token)
	}
}

func (c *Cache) onChange(changes entity.ChangeSet) {
	if c.closed.Load() {
		return
	}
	c.logger.Trace().Stringer("changes", changes).Msg("appearance cache: refreshing")
	c.Refresh()
}

// refresh queries outside the lock; a slower query never overwrites the
// result of one that started after it.
func (c *Cache) refresh() {
	seq := c.seq.Add(1)
	value := port.QueryAppearance(c.provider)

	c.state.Write(func(s *cachedAppearance) {
		if seq < s.seq {
			return
		}
		*s = cachedAppearance{seq: seq, value: value}
	})
}

func (c *Cache) notifyListeners() {
	for _, l := range c.listeners.Snapshot() {
		c.call(l)
	}
}

func (c *Cache) call(l port.ValueListener) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().
				Str("listener", fmt.Sprintf("%T", l)).
				Interface("panic", r).
				Msg("appearance cache: listener panicked")
		}
	}()
	l.AppearanceValuesChanged()
}
