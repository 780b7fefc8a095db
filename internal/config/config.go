// Package config loads floatview settings from TOML and the environment.
package config

import (
	"floatview/internal/geometry"
	"floatview/internal/interaction"
	"floatview/internal/window"
)

// StoreBackend selects where panel layouts are persisted
type StoreBackend string

const (
	StoreSQLite StoreBackend = "sqlite"
	StoreMemory StoreBackend = "memory"
)

// Config is the complete configuration
type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Panels  PanelsConfig  `mapstructure:"panels"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StoreConfig configures layout persistence
type StoreConfig struct {
	Backend StoreBackend `mapstructure:"backend"`
	// Path of the SQLite database; empty uses the XDG data directory
	Path string `mapstructure:"path"`
}

// PanelsConfig holds the geometry limits shared by every panel
type PanelsConfig struct {
	MinWidth        int     `mapstructure:"min_width"`
	MinHeight       int     `mapstructure:"min_height"`
	Gap             int     `mapstructure:"gap"`
	MinimizedWidth  int     `mapstructure:"minimized_width"`
	MinimizedHeight int     `mapstructure:"minimized_height"`
	DockWidth       int     `mapstructure:"dock_width"`
	DockHeightRatio float64 `mapstructure:"dock_height_ratio"`
	Margin          int     `mapstructure:"margin"`
	TopInset        int     `mapstructure:"top_inset"`
	Compact         bool    `mapstructure:"compact"`
	MarkdownStyle   string  `mapstructure:"markdown_style"`
	// InspectorAlign is the corner the inspector opens at, e.g. "top-right"
	InspectorAlign string `mapstructure:"inspector_align"`
}

// LoggingConfig configures the log file
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File is the log path; empty uses the XDG state directory
	File string `mapstructure:"file"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: StoreSQLite,
		},
		Panels: PanelsConfig{
			MinWidth:        20,
			MinHeight:       5,
			Gap:             1,
			MinimizedWidth:  24,
			MinimizedHeight: 3,
			DockWidth:       32,
			DockHeightRatio: 0.8,
			Margin:          1,
			TopInset:        2,
			MarkdownStyle:   "dark",
			InspectorAlign:  "top-right",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// WindowOptions converts the panel settings for the window machine
func (p PanelsConfig) WindowOptions() window.Options {
	return window.Options{
		MinimizedSize:   geometry.Size{Width: p.MinimizedWidth, Height: p.MinimizedHeight},
		DockWidth:       p.DockWidth,
		DockHeightRatio: p.DockHeightRatio,
		Margin:          p.Margin,
		TopInset:        p.TopInset,
	}
}

// InspectorAlignment parses InspectorAlign
func (p PanelsConfig) InspectorAlignment() geometry.Alignment {
	return geometry.ParseAlignment(p.InspectorAlign)
}

// Limits converts the panel settings for the interaction controller
func (p PanelsConfig) Limits() interaction.Limits {
	return interaction.Limits{MinSize: geometry.Size{Width: p.MinWidth, Height: p.MinHeight}}
}
