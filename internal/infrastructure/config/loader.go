package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/bnema/huewatch/internal/infrastructure/settings"
)

// Compile-time interface check.
var _ settings.OverrideSource = (*Manager)(nil)

type callback struct {
	id int
	fn func(*Config)
}

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	path      string
	mu        sync.RWMutex
	callbacks []callback
	nextID    int
	watching  bool
}

// NewManager creates a manager for path. An empty path means the XDG
// location, falling back to the current directory for development.
func NewManager(path string) (*Manager, error) {
	v := viper.New()
	v.SetConfigType("toml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		configDir, err := GetConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
		}
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
		path = filepath.Join(configDir, configFileName)
	}

	// Keys map to HUEWATCH_<SECTION>_<KEY>, e.g. HUEWATCH_NOTIFIER_DEBOUNCE_INTERVAL.
	v.SetEnvPrefix("HUEWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "HUEWATCH_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind HUEWATCH_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "HUEWATCH_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind HUEWATCH_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper: v,
		path:  path,
	}, nil
}

// Load reads the configuration file and environment. A missing file is
// created with the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.unmarshalConfig()
	if err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var configFileNotFoundError viper.ConfigFileNotFoundError
	if !errors.As(err, &configFileNotFoundError) && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", m.Path(), err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		return fmt.Errorf(
			"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
			m.path,
			createErr,
		)
	}
	m.viper.SetConfigFile(m.path)
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf(
			"failed to read newly created config file: %w\nThe config file was created but couldn't be read. Please check the file format",
			rereadErr,
		)
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.Path(),
			err,
		)
	}
	return config, nil
}

func normalizeConfig(config *Config) {
	a := &config.Appearance
	a.ColorScheme = strings.ToLower(strings.TrimSpace(a.ColorScheme))
	if a.ColorScheme == "" {
		a.ColorScheme = defaultColorScheme
	}
	a.AccentColor = strings.TrimSpace(a.AccentColor)
	a.HighContrast = normalizeTriState(a.HighContrast)
	a.ReduceMotion = normalizeTriState(a.ReduceMotion)

	n := &config.Notifier
	n.DebounceInterval = strings.TrimSpace(n.DebounceInterval)
	if n.DebounceInterval == "" {
		n.DebounceInterval = defaultDebounceInterval
	}
	for i, s := range n.Sources {
		n.Sources[i] = strings.ToLower(strings.TrimSpace(s))
	}
	n.Sources = slices.Compact(n.Sources)

	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
}

func normalizeTriState(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return defaultTriState
	}
	return v
}

// Get returns a copy of the current configuration (thread-safe).
// Before Load it returns the defaults.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	configCopy.Notifier.Sources = slices.Clone(m.config.Notifier.Sources)
	return &configCopy
}

// AppearanceOverrides implements settings.OverrideSource.
func (m *Manager) AppearanceOverrides() settings.Overrides {
	a := m.Get().Appearance
	return settings.Overrides{
		ColorScheme:  a.ColorScheme,
		AccentColor:  a.AccentColor,
		HighContrast: a.HighContrast,
		ReduceMotion: a.ReduceMotion,
	}
}

// Save validates cfg and writes it to the config file.
func (m *Manager) Save(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), dirPerm); err != nil {
		return err
	}
	if err := WriteConfigOrdered(cfg, m.path); err != nil {
		return err
	}

	// With Watch active, the fsnotify event triggers the reload.
	if !m.watching {
		return m.reload()
	}
	return nil
}

// Path returns the configuration file in use.
func (m *Manager) Path() string {
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	return m.path
}

// createDefaultConfig writes the defaults to m.path.
func (m *Manager) createDefaultConfig() error {
	if err := os.MkdirAll(filepath.Dir(m.path), dirPerm); err != nil {
		return err
	}
	return WriteConfigOrdered(DefaultConfig(), m.path)
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("appearance.color_scheme", defaults.Appearance.ColorScheme)
	m.viper.SetDefault("appearance.accent_color", defaults.Appearance.AccentColor)
	m.viper.SetDefault("appearance.high_contrast", defaults.Appearance.HighContrast)
	m.viper.SetDefault("appearance.reduce_motion", defaults.Appearance.ReduceMotion)

	m.viper.SetDefault("notifier.debounce_interval", defaults.Notifier.DebounceInterval)
	m.viper.SetDefault("notifier.sources", defaults.Notifier.Sources)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
}
