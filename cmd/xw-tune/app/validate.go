package app

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tsingmaoai/xw-tune/internal/trainable"
)

// ValidateOptions holds options for the validate command
type ValidateOptions struct {
	*GlobalOptions

	// File is the fine-tune configuration file to validate
	File string
}

// NewValidateCommand creates the validate command.
//
// The validate command loads a fine-tune configuration file and builds a
// plan for every model in it. It fails on the first invalid model.
//
// Usage:
//
//	xw-tune validate FILE
func NewValidateCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &ValidateOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a fine-tune configuration file",
		Long: `Validate every model of a fine-tune configuration file.

Checks the family and type of each model, that no_of_classes is positive
and that every trainable layer index exists in the family's layer table.`,
		Example: `  xw-tune validate finetune.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.File = args[0]
			return runValidate(opts, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, w io.Writer) error {
	plans, err := trainable.LoadPlansFromConfig(opts.File)
	if err != nil {
		return err
	}

	var rows [][]string
	for _, mp := range plans {
		s := mp.Plan.Summarize()
		family := s.Family
		if s.Type != "" {
			family += "-" + s.Type
		}
		rows = append(rows, []string{
			mp.ModelID,
			family,
			strconv.Itoa(s.Head.OutFeatures),
			s.Selection,
			strconv.Itoa(mp.Training.Epochs),
			strconv.Itoa(mp.Training.Patience),
		})
	}
	renderTable(w, []string{"MODEL", "FAMILY", "CLASSES", "TRAINABLE", "EPOCHS", "PATIENCE"}, rows)

	fmt.Fprintf(w, "\n✓ %s: %d model(s) valid\n", opts.File, len(plans))
	return nil
}
