package config

import (
	"fmt"
	"strings"

	"floatview/internal/geometry"
)

// validateConfig performs validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateStore(config)...)
	validationErrors = append(validationErrors, validatePanels(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateStore(config *Config) []string {
	switch config.Store.Backend {
	case StoreSQLite, StoreMemory:
		return nil
	default:
		return []string{fmt.Sprintf("store.backend must be one of: sqlite, memory (got %q)", config.Store.Backend)}
	}
}

func validatePanels(config *Config) []string {
	var validationErrors []string
	p := config.Panels

	if p.MinWidth < 1 || p.MinHeight < 1 {
		validationErrors = append(validationErrors, "panels.min_width and panels.min_height must be at least 1")
	}
	if p.Gap < 0 {
		validationErrors = append(validationErrors, "panels.gap must be non-negative")
	}
	if p.MinimizedWidth < 1 || p.MinimizedHeight < 1 {
		validationErrors = append(validationErrors, "panels.minimized_width and panels.minimized_height must be at least 1")
	}
	if p.DockWidth < 1 {
		validationErrors = append(validationErrors, "panels.dock_width must be at least 1")
	}
	if p.DockHeightRatio <= 0 || p.DockHeightRatio > 1 {
		validationErrors = append(validationErrors, "panels.dock_height_ratio must be in (0, 1]")
	}
	if p.Margin < 0 {
		validationErrors = append(validationErrors, "panels.margin must be non-negative")
	}
	if p.TopInset < 0 {
		validationErrors = append(validationErrors, "panels.top_inset must be non-negative")
	}
	if p.InspectorAlignment() == geometry.AlignNone {
		validationErrors = append(validationErrors,
			fmt.Sprintf("panels.inspector_align must be one of: center, top-left, top-right, bottom-left, bottom-right (got %q)", p.InspectorAlign))
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string

	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}
	if !contains(validLevels, config.Logging.Level) {
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level must be one of: %s", strings.Join(validLevels, ", ")))
	}

	validFormats := []string{"console", "json"}
	if !contains(validFormats, config.Logging.Format) {
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.format must be one of: %s", strings.Join(validFormats, ", ")))
	}
	return validationErrors
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
