package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading
type Manager struct {
	config *Config
	viper  *viper.Viper
	mu     sync.RWMutex
}

// NewManager creates a configuration manager. A non-empty configFile is
// read as-is and must exist; otherwise config.toml is looked up in the XDG
// config directory and the working directory, and may be absent.
func NewManager(configFile string) (*Manager, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")

		configDir, err := GetConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine config directory: %w", err)
		}
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	// Environment variables use the FLOATVIEW_ prefix (e.g. FLOATVIEW_STORE_BACKEND)
	v.SetEnvPrefix("FLOATVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "FLOATVIEW_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind FLOATVIEW_LOG_LEVEL: %w", err)
	}

	return &Manager{viper: v}, nil
}

// Load reads the configuration file and environment
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()

	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file %s: %w", m.viper.ConfigFileUsed(), err)
		}
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", m.viper.ConfigFileUsed(), err)
	}
	if err := resolvePaths(config); err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

// Get returns the loaded configuration, or the defaults before Load
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return DefaultConfig()
	}
	return m.config
}

// ConfigFileUsed returns the file that was read, if any
func (m *Manager) ConfigFileUsed() string {
	return m.viper.ConfigFileUsed()
}

func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("store.backend", string(defaults.Store.Backend))
	m.viper.SetDefault("store.path", defaults.Store.Path)

	m.viper.SetDefault("panels.min_width", defaults.Panels.MinWidth)
	m.viper.SetDefault("panels.min_height", defaults.Panels.MinHeight)
	m.viper.SetDefault("panels.gap", defaults.Panels.Gap)
	m.viper.SetDefault("panels.minimized_width", defaults.Panels.MinimizedWidth)
	m.viper.SetDefault("panels.minimized_height", defaults.Panels.MinimizedHeight)
	m.viper.SetDefault("panels.dock_width", defaults.Panels.DockWidth)
	m.viper.SetDefault("panels.dock_height_ratio", defaults.Panels.DockHeightRatio)
	m.viper.SetDefault("panels.margin", defaults.Panels.Margin)
	m.viper.SetDefault("panels.top_inset", defaults.Panels.TopInset)
	m.viper.SetDefault("panels.compact", defaults.Panels.Compact)
	m.viper.SetDefault("panels.markdown_style", defaults.Panels.MarkdownStyle)
	m.viper.SetDefault("panels.inspector_align", defaults.Panels.InspectorAlign)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.file", defaults.Logging.File)
}

func resolvePaths(config *Config) error {
	if config.Store.Path == "" {
		path, err := GetDatabaseFile()
		if err != nil {
			return fmt.Errorf("failed to get database path: %w", err)
		}
		config.Store.Path = path
	}
	if config.Logging.File == "" {
		path, err := GetLogFile()
		if err != nil {
			return fmt.Errorf("failed to get log path: %w", err)
		}
		config.Logging.File = path
	}
	return nil
}

func normalizeConfig(config *Config) {
	config.Store.Backend = StoreBackend(strings.ToLower(string(config.Store.Backend)))
	if config.Store.Backend == "" {
		config.Store.Backend = StoreSQLite
	}
	config.Logging.Level = strings.ToLower(config.Logging.Level)
	config.Logging.Format = strings.ToLower(config.Logging.Format)
	config.Panels.InspectorAlign = strings.ToLower(strings.TrimSpace(config.Panels.InspectorAlign))
	if config.Panels.MarkdownStyle == "" {
		config.Panels.MarkdownStyle = DefaultConfig().Panels.MarkdownStyle
	}
}
