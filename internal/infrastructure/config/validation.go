package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bnema/huewatch/internal/domain/entity"
	"github.com/bnema/huewatch/internal/infrastructure/settings"
	"github.com/bnema/huewatch/internal/logging"
)

const (
	minDebounceInterval = time.Millisecond
	maxDebounceInterval = 10 * time.Second
)

// validateConfig collects every problem into one error.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateAppearance(config)...)
	validationErrors = append(validationErrors, validateNotifier(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateAppearance(config *Config) []string {
	var validationErrors []string
	a := config.Appearance

	if !settings.ValidColorScheme(a.ColorScheme) {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"appearance.color_scheme must be one of default, prefer-dark, prefer-light, dark, light (got %q)", a.ColorScheme))
	}
	if a.AccentColor != "" {
		if _, err := entity.ParseHexColor(a.AccentColor); err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("appearance.accent_color: %v", err))
		}
	}
	if !settings.ValidTriState(a.HighContrast) {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"appearance.high_contrast must be one of system, on, off (got %q)", a.HighContrast))
	}
	if !settings.ValidTriState(a.ReduceMotion) {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"appearance.reduce_motion must be one of system, on, off (got %q)", a.ReduceMotion))
	}
	return validationErrors
}

func validateNotifier(config *Config) []string {
	var validationErrors []string

	interval, err := config.Notifier.Interval()
	switch {
	case err != nil:
		validationErrors = append(validationErrors, err.Error())
	case interval < minDebounceInterval || interval > maxDebounceInterval:
		validationErrors = append(validationErrors, "notifier.debounce_interval must be between 1ms and 10s")
	}

	known := KnownSources()
	for _, source := range config.Notifier.Sources {
		if !slices.Contains(known, source) {
			validationErrors = append(validationErrors, fmt.Sprintf(
				"notifier.sources: unknown source %q (known: %s)", source, strings.Join(known, ", ")))
		}
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	if !logging.ValidLevel(config.Logging.Level) {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.level must be one of trace, debug, info, warn, error, disabled (got %q)", config.Logging.Level))
	}
	switch strings.ToLower(config.Logging.Format) {
	case "", "console", "json":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.format must be console or json (got %q)", config.Logging.Format))
	}
	return validationErrors
}
