package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsingmaoai/xw-tune/internal/config"
	"github.com/tsingmaoai/xw-tune/internal/models"
)

// FamiliesOptions holds options for the families command
type FamiliesOptions struct {
	*GlobalOptions

	// Output is the output format (table or yaml)
	Output string
}

// familyInfo is the YAML form of a family
type familyInfo struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Variants    []string `yaml:"variants,omitempty"`
	Layers      int      `yaml:"layers"`
	Head        string   `yaml:"head"`
}

// NewFamiliesCommand creates the families command.
//
// The families command lists the registered architecture families with
// their depth variants and the size of their layer index tables.
//
// Usage:
//
//	xw-tune families [-o table|yaml]
func NewFamiliesCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &FamiliesOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:     "families",
		Aliases: []string{"ls"},
		Short:   "List architecture families",
		Example: `  # List families
  xw-tune families

  # As YAML
  xw-tune families -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFamilies(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output format (table, yaml)")

	return cmd
}

func runFamilies(opts *FamiliesOptions, w io.Writer) error {
	format, err := opts.outputFormat(opts.Output)
	if err != nil {
		return err
	}

	families := models.List()

	if format == config.OutputYAML {
		infos := make([]familyInfo, 0, len(families))
		for _, f := range families {
			infos = append(infos, familyInfo{
				ID:          string(f.ID),
				Name:        f.DisplayName,
				Description: f.Description,
				Variants:    f.Variants,
				Layers:      f.Layers.Len(),
				Head:        f.Head,
			})
		}
		return renderYAML(w, infos)
	}

	var rows [][]string
	for _, f := range families {
		variants := "-"
		if len(f.Variants) > 0 {
			variants = strings.Join(f.Variants, ",")
		}
		rows = append(rows, []string{
			string(f.ID),
			f.DisplayName,
			variants,
			strconv.Itoa(f.Layers.Len()),
			f.Head,
		})
	}
	renderTable(w, []string{"FAMILY", "NAME", "TYPES", "LAYERS", "HEAD"}, rows)

	fmt.Fprintf(w, "\n%d families registered.\n", len(families))
	return nil
}
