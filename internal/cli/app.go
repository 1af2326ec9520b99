// Package cli wires the huewatch commands to the appearance core.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/huewatch/internal/application/port"
	"github.com/bnema/huewatch/internal/domain/build"
	"github.com/bnema/huewatch/internal/infrastructure/config"
	"github.com/bnema/huewatch/internal/infrastructure/portal"
	"github.com/bnema/huewatch/internal/infrastructure/settings"
	"github.com/bnema/huewatch/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Manager
	Logger    zerolog.Logger
	BuildInfo build.Info

	ctx    context.Context
	portal *portal.Provider
}

// NewApp loads the configuration at configPath (empty for the XDG default)
// and builds the logger. A non-empty logLevel wins over the file and
// environment.
func NewApp(configPath, logLevel string) (*App, error) {
	mgr, err := config.NewManager(configPath)
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, err
	}
	cfg := mgr.Get()

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	logger := logging.New(logging.Config{
		Level:      logging.ParseLevel(level),
		Format:     cfg.Logging.Format,
		TimeFormat: "15:04:05",
	})

	return &App{
		Config: mgr,
		Logger: logger,
		ctx:    logging.WithContext(context.Background(), logger),
	}, nil
}

// Context returns a background context carrying the app logger.
func (a *App) Context() context.Context {
	return a.ctx
}

// Interval returns the configured debounce interval.
func (a *App) Interval() (time.Duration, error) {
	return a.Config.Get().Notifier.Interval()
}

// NewResolver builds the prioritized provider chain:
// config > portal > GTK_THEME > gsettings.
func (a *App) NewResolver() *settings.Resolver {
	if a.portal == nil {
		a.portal = portal.NewProvider(a.ctx)
	}
	return settings.NewResolver(
		settings.NewConfigProvider(a.Config),
		a.portal,
		settings.NewEnvProvider(),
		settings.NewGsettingsProvider(),
	)
}

// Sources returns the signal sources enabled in notifier.sources.
func (a *App) Sources() []port.SignalSource {
	notifier := a.Config.Get().Notifier

	var sources []port.SignalSource
	for _, name := range notifier.Sources {
		switch name {
		case config.SourcePortal:
			sources = append(sources, portal.NewSignalSource())
		case config.SourceGsettings:
			sources = append(sources, settings.NewGsettingsMonitor())
		case config.SourceConfig:
			sources = append(sources, config.NewSource(a.Config))
		}
	}
	return sources
}

// SourceNames returns the names of sources.
func SourceNames(sources []port.SignalSource) []string {
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Name())
	}
	return names
}

// Close releases the portal connection.
func (a *App) Close() error {
	if a.portal == nil {
		return nil
	}
	if err := a.portal.Close(); err != nil {
		return fmt.Errorf("close portal: %w", err)
	}
	return nil
}

// ValidLogLevel reports whether level is accepted by --log-level.
func ValidLogLevel(level string) bool {
	return strings.TrimSpace(level) == "" || logging.ValidLevel(level)
}
