package app

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tsingmaoai/xw-tune/internal/config"
	"github.com/tsingmaoai/xw-tune/internal/trainable"
)

// PlanOptions holds options for the plan command
type PlanOptions struct {
	*GlobalOptions

	family    familyValue
	selection selectionValue

	// Type is the depth variant (e.g., "50")
	Type string

	// Classes is the output width of the classifier head
	Classes int

	// File is a fine-tune configuration file to read the model from
	File string

	// Model selects the entry of File
	Model string

	// Output is the output format (table or yaml)
	Output string
}

// NewPlanCommand creates the plan command.
//
// The plan command checks a trainable layer selection against a family's
// layer table and prints which layers are trained and which stay frozen.
// The model is given either by flags or as an entry of a fine-tune
// configuration file.
//
// Usage:
//
//	xw-tune plan --family FAMILY --classes N [--type T] [--trainable LIST]
//	xw-tune plan -f FILE --model ID
func NewPlanCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &PlanOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build a fine-tune plan",
		Long: `Build a fine-tune plan for a pretrained backbone.

Without --trainable only the classifier head is trained. With it, the
listed backbone layers are unfrozen as well. Indices refer to the table
printed by 'xw-tune layers FAMILY' and may be given as a comma list with
ranges (e.g. 0,4-7).`,
		Example: `  # Train the last two ResNet-50 stages and a 4-class head
  xw-tune plan --family resnet --type 50 --classes 4 --trainable 6,7

  # Head only
  xw-tune plan --family googlenet --classes 10

  # Plan of a model in a fine-tune configuration file
  xw-tune plan -f finetune.yaml --model blood-cells-r50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Var(&opts.family, "family", "architecture family")
	cmd.Flags().StringVar(&opts.Type, "type", "", "depth variant (e.g. 34, 50)")
	cmd.Flags().IntVar(&opts.Classes, "classes", 0, "number of output classes")
	cmd.Flags().Var(&opts.selection, "trainable", "backbone layer indices to train (e.g. 0,4-7)")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "fine-tune configuration file")
	cmd.Flags().StringVar(&opts.Model, "model", "", "model_id in the configuration file")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output format (table, yaml)")

	cmd.MarkFlagsMutuallyExclusive("file", "family")
	cmd.MarkFlagsMutuallyExclusive("file", "trainable")
	cmd.MarkFlagsRequiredTogether("file", "model")

	return cmd
}

func runPlan(opts *PlanOptions, w io.Writer) error {
	format, err := opts.outputFormat(opts.Output)
	if err != nil {
		return err
	}

	var (
		plan    *trainable.Plan
		modelID string
	)

	if opts.File != "" {
		cfg, err := config.LoadFinetuneConfig(opts.File)
		if err != nil {
			return err
		}
		m := config.FindModelByID(cfg, opts.Model)
		if m == nil {
			return fmt.Errorf("model %q not found in %s", opts.Model, opts.File)
		}
		if plan, err = trainable.FromConfig(m); err != nil {
			return err
		}
		modelID = m.ModelID
	} else {
		if opts.family.family == nil {
			return fmt.Errorf("--family is required when no configuration file is given")
		}
		plan, err = trainable.SelectVariant(opts.family.family, opts.Type, opts.Classes, opts.selection.sel)
		if err != nil {
			return err
		}
	}

	summary := plan.Summarize()
	summary.ModelID = modelID

	if format == config.OutputYAML {
		return renderYAML(w, summary)
	}
	printPlan(w, plan, summary)
	return nil
}

// printPlan writes the per-layer table followed by a short summary
func printPlan(w io.Writer, plan *trainable.Plan, s trainable.Summary) {
	var rows [][]string
	for _, e := range plan.Family().Layers.Entries() {
		state := "frozen"
		if plan.IsTrainable(e.Index) {
			state = "trainable"
			if !e.Kind.HasParameters() {
				state = "trainable (no parameters)"
			}
		}
		rows = append(rows, []string{strconv.Itoa(e.Index), e.Name, string(e.Kind), state})
	}
	head := plan.Head()
	rows = append(rows, []string{"-", head.Name, "head", fmt.Sprintf("trainable (%d classes)", head.OutFeatures)})

	renderTable(w, []string{"INDEX", "NAME", "KIND", "STATE"}, rows)

	fmt.Fprintln(w)
	if s.ModelID != "" {
		fmt.Fprintf(w, "Model:     %s\n", s.ModelID)
	}
	name := s.Family
	if s.Type != "" {
		name += "-" + s.Type
	}
	fmt.Fprintf(w, "Family:    %s\n", name)
	fmt.Fprintf(w, "Selection: %s\n", s.Selection)
	fmt.Fprintf(w, "Trained:   %d of %d backbone layers (%d with parameters)\n",
		len(plan.Trainable()), plan.Family().Layers.Len(), len(plan.Effective()))
}
