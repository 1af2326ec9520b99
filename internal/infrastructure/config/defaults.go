package config

// Signal source names accepted in notifier.sources.
const (
	SourcePortal    = "portal"
	SourceGsettings = "gsettings"
	SourceConfig    = "config"
)

const (
	defaultDebounceInterval = "100ms"
	defaultColorScheme      = "default"
	defaultTriState         = "system"
)

// KnownSources lists every valid notifier source.
func KnownSources() []string {
	return []string{SourcePortal, SourceGsettings, SourceConfig}
}

// DefaultConfig returns the configuration written by `config init`.
func DefaultConfig() *Config {
	return &Config{
		Appearance: AppearanceConfig{
			ColorScheme:  defaultColorScheme,
			AccentColor:  "",
			HighContrast: defaultTriState,
			ReduceMotion: defaultTriState,
		},
		Notifier: NotifierConfig{
			DebounceInterval: defaultDebounceInterval,
			Sources:          KnownSources(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
