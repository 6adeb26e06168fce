package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tsingmaoai/xw-tune/internal/config"
)

// ConfigOptions holds options for the config command
type ConfigOptions struct {
	*GlobalOptions
}

// NewConfigCommand creates the config command and its subcommands.
//
// Available subcommands:
//   - info: Display all settings
//   - get:  Get a specific setting
//   - set:  Set and persist a setting
//
// Usage:
//
//	xw-tune config <subcommand> [flags]
func NewConfigCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &ConfigOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage settings",
		Long: `Manage xw-tune settings.

Settings are stored in settings.yaml inside the home directory. Changes
are written immediately.`,
		Example: `  # View all settings
  xw-tune config info

  # Get a setting
  xw-tune config get output_format

  # Set a setting
  xw-tune config set log_level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help if no subcommand specified
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewConfigInfoCommand(opts))
	cmd.AddCommand(NewConfigGetCommand(opts))
	cmd.AddCommand(NewConfigSetCommand(opts))

	return cmd
}

// NewConfigInfoCommand creates the config info subcommand.
func NewConfigInfoCommand(opts *ConfigOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display all settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInfo(opts, cmd.OutOrStdout())
		},
	}
}

// NewConfigGetCommand creates the config get subcommand.
//
// Supported keys:
//   - home:          Home directory (read-only)
//   - log_level:     debug, info, warn, error
//   - output_format: table or yaml
//   - history_dir:   Directory of saved training histories
func NewConfigGetCommand(opts *ConfigOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Get a setting",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.SettingKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(opts, cmd.OutOrStdout(), args[0])
		},
	}
}

// NewConfigSetCommand creates the config set subcommand.
//
// The home key cannot be set; use --home or XW_TUNE_HOME instead.
func NewConfigSetCommand(opts *ConfigOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a setting",
		Long: `Set a setting and write it to settings.yaml.

Supported keys:
  - log_level:     debug, info, warn, error
  - output_format: table or yaml
  - history_dir:   directory of saved training histories`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"log_level", "output_format", "history_dir"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(opts, cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func runConfigInfo(opts *ConfigOptions, w io.Writer) error {
	cfg := opts.Config

	fmt.Fprintln(w, "Settings:")
	fmt.Fprintln(w, "=========")
	fmt.Fprintf(w, "Home:          %s\n", cfg.Home)
	fmt.Fprintf(w, "Settings File: %s\n", cfg.SettingsPath())
	fmt.Fprintf(w, "Log Level:     %s\n", cfg.Settings.LogLevel)
	fmt.Fprintf(w, "Output Format: %s\n", cfg.Settings.OutputFormat)
	fmt.Fprintf(w, "History Dir:   %s\n", cfg.HistoryPath())

	return nil
}

func runConfigGet(opts *ConfigOptions, w io.Writer, key string) error {
	value, err := opts.Config.Get(key)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, value)
	return nil
}

func runConfigSet(opts *ConfigOptions, w io.Writer, key, value string) error {
	if err := opts.Config.Set(key, value); err != nil {
		return fmt.Errorf("failed to set configuration: %w", err)
	}
	if err := opts.Config.Save(); err != nil {
		return err
	}

	fmt.Fprintf(w, "✓ Configuration updated: %s = %s\n", key, value)
	return nil
}
