package config

import (
	"context"
	"strings"

	"github.com/bnema/huewatch/internal/application/port"
	"github.com/bnema/huewatch/internal/domain/entity"
	"github.com/bnema/huewatch/internal/logging"
)

const sourceName = "config"

// Compile-time interface check.
var _ port.SignalSource = (*Source)(nil)

// Source reports appearance overrides edited in the config file.
type Source struct {
	manager *Manager
}

// NewSource watches m for appearance changes.
func NewSource(m *Manager) *Source {
	return &Source{manager: m}
}

// Name implements port.SignalSource.
func (*Source) Name() string {
	return sourceName
}

// Run implements port.SignalSource. It starts the file watcher if needed.
func (s *Source) Run(ctx context.Context, sink port.ChangeSink) error {
	log := logging.FromContext(ctx)

	reloads := make(chan AppearanceConfig, 1)
	remove := s.manager.OnConfigChange(func(c *Config) {
		// Only the latest state matters; the diff is against what Run last saw.
		for {
			select {
			case reloads <- c.Appearance:
				return
			default:
			}
			select {
			case <-reloads:
			default:
			}
		}
	})
	defer remove()

	prev := s.manager.Get().Appearance
	if err := s.manager.Watch(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case next := <-reloads:
			changes := DiffAppearance(prev, next)
			prev = next
			if changes.IsEmpty() {
				continue
			}
			log.Debug().Stringer("changes", changes).Msg("config: appearance overrides changed")
			for _, kind := range changes.Kinds() {
				sink.Notify(kind)
			}
		}
	}
}

// DiffAppearance returns the kinds touched between two appearance sections.
func DiffAppearance(before, after AppearanceConfig) entity.ChangeSet {
	var cs entity.ChangeSet
	if !strings.EqualFold(before.ColorScheme, after.ColorScheme) {
		cs.Add(entity.ChangeTheme)
	}
	if !strings.EqualFold(before.AccentColor, after.AccentColor) {
		cs.Add(entity.ChangeAccent)
	}
	if !strings.EqualFold(before.HighContrast, after.HighContrast) ||
		!strings.EqualFold(before.ReduceMotion, after.ReduceMotion) {
		cs.Add(entity.ChangeAccessibility)
	}
	return cs
}
