package app

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tsingmaoai/xw-tune/internal/config"
	"github.com/tsingmaoai/xw-tune/internal/models"
)

// LayersOptions holds options for the layers command
type LayersOptions struct {
	*GlobalOptions

	// Family is the family whose table is shown
	Family string

	// Output is the output format (table or yaml)
	Output string
}

// NewLayersCommand creates the layers command.
//
// The layers command prints the layer index table of a family: the
// indices a trainable_layers selection refers to.
//
// Usage:
//
//	xw-tune layers FAMILY [-o table|yaml]
func NewLayersCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &LayersOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "layers FAMILY",
		Short: "Show the layer index table of a family",
		Long: `Show the layer index table of an architecture family.

Indices count backbone units from the input. Activation and pooling
units have no parameters: selecting them is allowed but trains nothing.
The classifier head is not listed; it is always trainable.`,
		Example: `  # ResNet table
  xw-tune layers resnet

  # GoogLeNet table as YAML
  xw-tune layers googlenet -o yaml`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: models.IDs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Family = args[0]
			return runLayers(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output format (table, yaml)")

	return cmd
}

func runLayers(opts *LayersOptions, w io.Writer) error {
	format, err := opts.outputFormat(opts.Output)
	if err != nil {
		return err
	}

	family, err := models.Get(opts.Family)
	if err != nil {
		return err
	}

	if format == config.OutputYAML {
		return renderYAML(w, map[string]interface{}{
			"family": family.ID,
			"head":   family.Head,
			"layers": family.Layers.Entries(),
		})
	}

	var rows [][]string
	for _, e := range family.Layers.Entries() {
		rows = append(rows, []string{
			strconv.Itoa(e.Index),
			e.Name,
			string(e.Kind),
			yesNo(e.Kind.HasParameters()),
		})
	}
	renderTable(w, []string{"INDEX", "NAME", "KIND", "PARAMETERS"}, rows)

	fmt.Fprintf(w, "\nHead: %s (always trainable)\n", family.Head)
	return nil
}
