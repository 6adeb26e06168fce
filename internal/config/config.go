// Package config provides configuration management for xw-tune.
//
// This package handles:
//   - Application settings (home directory, log level, output format)
//     persisted in <home>/settings.yaml
//   - Fine-tune configuration files describing which backbone layers of
//     a pretrained model are trained (see finetune_config.go)
//
// The home directory defaults to ~/.xw-tune and can be moved with the
// XW_TUNE_HOME environment variable or the --home flag.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsingmaoai/xw-tune/internal/logger"
)

const (
	// DefaultHomeDir is the default home directory name, created in the
	// user's home directory.
	DefaultHomeDir = ".xw-tune"

	// HomeEnvVar overrides the home directory location
	HomeEnvVar = "XW_TUNE_HOME"

	// SettingsFileName is the name of the settings file inside the home
	// directory
	SettingsFileName = "settings.yaml"

	// DefaultHistoryDir is the directory, relative to home, where training
	// histories are looked up when a bare file name is given
	DefaultHistoryDir = "history"

	// DefaultLogLevel is used when no level is configured
	DefaultLogLevel = "info"

	// OutputTable and OutputYAML are the supported output formats
	OutputTable = "table"
	OutputYAML  = "yaml"
)

// ErrUnknownSettingKey is returned by Get and Set for unsupported keys
var ErrUnknownSettingKey = errors.New("unknown setting key")

// Config represents the complete application configuration.
type Config struct {
	// Home is the absolute path of the xw-tune home directory.
	// It is not serialized; it locates the settings file itself.
	Home string `yaml:"-"`

	// Settings holds the user-editable values stored in settings.yaml
	Settings Settings `yaml:"settings"`
}

// Settings are the values persisted in settings.yaml.
type Settings struct {
	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`

	// OutputFormat is the default output format (table or yaml)
	OutputFormat string `yaml:"output_format"`

	// HistoryDir holds saved training histories.
	// Relative paths are resolved against Home.
	HistoryDir string `yaml:"history_dir"`
}

// settingKeys lists the keys accepted by Get and Set
var settingKeys = []string{"home", "log_level", "output_format", "history_dir"}

// SettingKeys returns the supported setting keys in sorted order
func SettingKeys() []string {
	keys := append([]string(nil), settingKeys...)
	sort.Strings(keys)
	return keys
}

// ResolveHome determines the home directory.
//
// Order of precedence: the explicit argument, the XW_TUNE_HOME
// environment variable, then ~/.xw-tune. If the user's home directory
// cannot be determined, /tmp is used as a fallback.
func ResolveHome(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(HomeEnvVar); env != "" {
		return env
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "/tmp"
	}
	return filepath.Join(homeDir, DefaultHomeDir)
}

// NewDefaultConfig creates a configuration with default settings rooted
// at home.
//
// Example:
//
//	cfg := config.NewDefaultConfig(config.ResolveHome(""))
//	fmt.Println(cfg.SettingsPath())
func NewDefaultConfig(home string) *Config {
	return &Config{
		Home: home,
		Settings: Settings{
			LogLevel:     DefaultLogLevel,
			OutputFormat: OutputTable,
			HistoryDir:   DefaultHistoryDir,
		},
	}
}

// Load reads settings.yaml from home.
//
// A missing file is not an error; the defaults are returned instead.
// Fields left empty in the file keep their default values.
//
// Parameters:
//   - home: Home directory (see ResolveHome)
//
// Returns:
//   - The loaded configuration
//   - Error if the file exists but cannot be read, parsed or validated
func Load(home string) (*Config, error) {
	cfg := NewDefaultConfig(home)
	path := cfg.SettingsPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No settings file at %s, using defaults", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	var fromFile Config
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	cfg.merge(fromFile.Settings)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}

	logger.Debug("Loaded settings from %s", path)
	return cfg, nil
}

func (c *Config) merge(s Settings) {
	if s.LogLevel != "" {
		c.Settings.LogLevel = s.LogLevel
	}
	if s.OutputFormat != "" {
		c.Settings.OutputFormat = s.OutputFormat
	}
	if s.HistoryDir != "" {
		c.Settings.HistoryDir = s.HistoryDir
	}
}

// Validate checks the settings values
func (c *Config) Validate() error {
	if _, ok := logger.ParseLevel(c.Settings.LogLevel); !ok {
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error, fatal", c.Settings.LogLevel)
	}
	switch c.Settings.OutputFormat {
	case OutputTable, OutputYAML:
	default:
		return fmt.Errorf("output_format %q must be %s or %s", c.Settings.OutputFormat, OutputTable, OutputYAML)
	}
	if strings.TrimSpace(c.Settings.HistoryDir) == "" {
		return fmt.Errorf("history_dir cannot be empty")
	}
	return nil
}

// SettingsPath returns the absolute path of settings.yaml
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Home, SettingsFileName)
}

// HistoryPath returns the absolute history directory
func (c *Config) HistoryPath() string {
	if filepath.IsAbs(c.Settings.HistoryDir) {
		return c.Settings.HistoryDir
	}
	return filepath.Join(c.Home, c.Settings.HistoryDir)
}

// EnsureDirectories creates the home and history directories if they
// don't exist.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Home, c.HistoryPath()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Save writes the settings to settings.yaml, creating the home directory
// if needed.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("cannot save invalid settings: %w", err)
	}
	if err := c.EnsureDirectories(); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	path := c.SettingsPath()
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", path, err)
	}

	logger.Debug("Saved settings to %s", path)
	return nil
}

// Get returns the value of a setting key.
//
// Supported keys: home, log_level, output_format, history_dir.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "home":
		return c.Home, nil
	case "log_level":
		return c.Settings.LogLevel, nil
	case "output_format":
		return c.Settings.OutputFormat, nil
	case "history_dir":
		return c.HistoryPath(), nil
	default:
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnknownSettingKey, key, strings.Join(SettingKeys(), ", "))
	}
}

// Set changes a setting in memory. Call Save to persist it.
//
// The home key is read-only: it locates the settings file itself.
func (c *Config) Set(key, value string) error {
	prev := c.Settings

	switch key {
	case "log_level":
		c.Settings.LogLevel = strings.ToLower(value)
	case "output_format":
		c.Settings.OutputFormat = strings.ToLower(value)
	case "history_dir":
		c.Settings.HistoryDir = value
	case "home":
		return fmt.Errorf("home cannot be set, use --home or %s", HomeEnvVar)
	default:
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnknownSettingKey, key, strings.Join(SettingKeys(), ", "))
	}

	if err := c.Validate(); err != nil {
		c.Settings = prev
		return err
	}
	return nil
}
