package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetXDGDirs_FromEnvironment(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")

	dirs, err := GetXDGDirs()
	require.NoError(t, err)
	assert.Equal(t, "/xdg/config/floatview", dirs.ConfigHome)
	assert.Equal(t, "/xdg/data/floatview", dirs.DataHome)
	assert.Equal(t, "/xdg/state/floatview", dirs.StateHome)
}

func TestGetXDGDirs_HomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")

	dirs, err := GetXDGDirs()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "floatview"), dirs.ConfigHome)
	assert.Equal(t, filepath.Join(home, ".local", "share", "floatview"), dirs.DataHome)
	assert.Equal(t, filepath.Join(home, ".local", "state", "floatview"), dirs.StateHome)

	db, err := GetDatabaseFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "share", "floatview", "layout.sqlite"), db)
}
