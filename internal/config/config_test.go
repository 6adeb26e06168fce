package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveHome(t *testing.T) {
	t.Setenv(HomeEnvVar, "/srv/xw-tune")

	assert.Equal(t, "/explicit", ResolveHome("/explicit"))
	assert.Equal(t, "/srv/xw-tune", ResolveHome(""))

	t.Setenv(HomeEnvVar, "")
	assert.Equal(t, DefaultHomeDir, filepath.Base(ResolveHome("")))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()

	cfg, err := Load(home)
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, cfg.Settings.LogLevel)
	assert.Equal(t, OutputTable, cfg.Settings.OutputFormat)
	assert.Equal(t, filepath.Join(home, DefaultHistoryDir), cfg.HistoryPath())
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	home := t.TempDir()
	content := "settings:\n  output_format: yaml\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, SettingsFileName), []byte(content), 0644))

	cfg, err := Load(home)
	require.NoError(t, err)

	assert.Equal(t, OutputYAML, cfg.Settings.OutputFormat)
	assert.Equal(t, DefaultLogLevel, cfg.Settings.LogLevel)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	home := t.TempDir()
	content := "settings:\n  output_format: xml\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, SettingsFileName), []byte(content), 0644))

	_, err := Load(home)
	assert.Error(t, err)
}

func TestSetGetSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	cfg := NewDefaultConfig(home)

	require.NoError(t, cfg.Set("log_level", "DEBUG"))
	require.NoError(t, cfg.Set("history_dir", "/var/lib/histories"))
	require.NoError(t, cfg.Save())

	reloaded, err := Load(home)
	require.NoError(t, err)

	level, err := reloaded.Get("log_level")
	require.NoError(t, err)
	assert.Equal(t, "debug", level)

	dir, err := reloaded.Get("history_dir")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/histories", dir)
}

func TestSetRejectsBadValues(t *testing.T) {
	cfg := NewDefaultConfig(t.TempDir())

	assert.Error(t, cfg.Set("output_format", "json"))
	assert.Equal(t, OutputTable, cfg.Settings.OutputFormat, "failed Set must not change the value")

	assert.Error(t, cfg.Set("home", "/elsewhere"))
	assert.ErrorIs(t, cfg.Set("colour", "red"), ErrUnknownSettingKey)

	_, err := cfg.Get("colour")
	assert.ErrorIs(t, err, ErrUnknownSettingKey)
}
