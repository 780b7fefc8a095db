package config

import (
	"os"
	"path/filepath"
)

const (
	appName      = "floatview"
	databaseName = "layout.sqlite"
	logName      = "floatview.log"
)

// XDGDirs holds the XDG Base Directory paths for the application
type XDGDirs struct {
	ConfigHome string
	DataHome   string
	StateHome  string
}

// GetXDGDirs returns the XDG Base Directory paths for floatview:
// - $XDG_CONFIG_HOME/floatview (default: ~/.config/floatview)
// - $XDG_DATA_HOME/floatview (default: ~/.local/share/floatview)
// - $XDG_STATE_HOME/floatview (default: ~/.local/state/floatview)
func GetXDGDirs() (*XDGDirs, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(homeDir, ".config")
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(homeDir, ".local", "share")
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(homeDir, ".local", "state")
	}

	return &XDGDirs{
		ConfigHome: filepath.Join(configHome, appName),
		DataHome:   filepath.Join(dataHome, appName),
		StateHome:  filepath.Join(stateHome, appName),
	}, nil
}

// GetConfigDir returns the XDG config directory
func GetConfigDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return dirs.ConfigHome, nil
}

// GetDatabaseFile returns the default layout database path
func GetDatabaseFile() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return filepath.Join(dirs.DataHome, databaseName), nil
}

// GetLogFile returns the default log file path. Logs live in the state
// directory since the terminal belongs to the UI.
func GetLogFile() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return filepath.Join(dirs.StateHome, "logs", logName), nil
}
