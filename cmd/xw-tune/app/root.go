package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsingmaoai/xw-tune/internal/config"
	"github.com/tsingmaoai/xw-tune/internal/logger"
)

// GlobalOptions holds flags shared by all commands
type GlobalOptions struct {
	// Home overrides the xw-tune home directory
	Home string

	// Debug enables debug logging
	Debug bool

	// LogLevel overrides the configured log level
	LogLevel string

	// Config is the loaded application configuration, set before any
	// subcommand runs
	Config *config.Config
}

// NewXWTuneCommand creates the root command with all subcommands attached.
//
// Returns:
//   - The root cobra.Command
func NewXWTuneCommand() *cobra.Command {
	opts := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:   "xw-tune",
		Short: "Plan transfer learning on pretrained CNN backbones",
		Long: `xw-tune checks fine-tune configurations for pretrained ResNet, DenseNet
and GoogLeNet backbones.

Every family has a fixed table mapping backbone layers to indices. A
trainable_layers selection lists the indices to unfreeze; the classifier
head is always trained.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Home, "home", "",
		fmt.Sprintf("home directory (default $%s or ~/%s)", config.HomeEnvVar, config.DefaultHomeDir))
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	cmd.AddCommand(NewFamiliesCommand(opts))
	cmd.AddCommand(NewLayersCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// setup loads settings and configures logging.
//
// Precedence for the log level: --debug, then --log-level, then the
// settings file.
func (o *GlobalOptions) setup() error {
	cfg, err := config.Load(config.ResolveHome(o.Home))
	if err != nil {
		return err
	}
	o.Config = cfg

	level, _ := logger.ParseLevel(cfg.Settings.LogLevel)
	if o.LogLevel != "" {
		l, ok := logger.ParseLevel(o.LogLevel)
		if !ok {
			return fmt.Errorf("invalid --log-level %q", o.LogLevel)
		}
		level = l
	}
	if o.Debug {
		level = logger.DebugLevel
	}
	logger.SetLevel(level)

	logger.Debug("Using home directory %s", cfg.Home)
	return nil
}

// outputFormat resolves the output format of a command: the flag value
// if given, otherwise the configured default.
func (o *GlobalOptions) outputFormat(flag string) (string, error) {
	format := flag
	if format == "" && o.Config != nil {
		format = o.Config.Settings.OutputFormat
	}
	switch format {
	case "", config.OutputTable:
		return config.OutputTable, nil
	case config.OutputYAML:
		return config.OutputYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (table, yaml)", format)
	}
}
