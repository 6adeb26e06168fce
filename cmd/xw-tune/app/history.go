package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tsingmaoai/xw-tune/internal/config"
	"github.com/tsingmaoai/xw-tune/internal/training"
)

// HistoryOptions holds options for the history command
type HistoryOptions struct {
	*GlobalOptions

	// File is the saved training history
	File string

	// Patience is the early-stopping patience
	Patience int

	// Normal lists the class labels left out of the monitored recall
	Normal []int

	// Output is the output format (table or yaml)
	Output string
}

// historyReport is the YAML form of a replay
type historyReport struct {
	File       string          `yaml:"file"`
	Epochs     int             `yaml:"epochs"`
	BestEpoch  int             `yaml:"best_epoch"`
	Checkpoint string          `yaml:"checkpoint,omitempty"`
	StoppedAt  int             `yaml:"stopped_at,omitempty"`
	Decisions  []epochDecision `yaml:"decisions"`
}

type epochDecision struct {
	Epoch    int     `yaml:"epoch"`
	Loss     float64 `yaml:"loss"`
	Recall   float64 `yaml:"recall"`
	Improved bool    `yaml:"improved"`
}

// NewHistoryCommand creates the history command.
//
// The history command replays early stopping over the validation phase
// of a saved training history. It shows, epoch by epoch, which checkpoints
// the trainer kept and where it would have stopped.
//
// Usage:
//
//	xw-tune history FILE [--patience N] [--normal LABELS]
func NewHistoryCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &HistoryOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "history FILE",
		Short: "Replay early stopping over a training history",
		Long: `Replay early stopping over the validation phase of a training history.

An epoch is an improvement when its validation loss is lower AND its mean
recall over the non-normal classes is higher than the best so far. After
--patience epochs without improvement training stops.

A bare FILE name that does not exist in the current directory is looked
up in the configured history directory.`,
		Example: `  # Default patience, all classes monitored
  xw-tune history r50.yaml

  # Class 1 is the healthy class
  xw-tune history r50.yaml --patience 10 --normal 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.File = args[0]
			return runHistory(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&opts.Patience, "patience", config.DefaultPatience, "epochs without improvement before stopping")
	cmd.Flags().IntSliceVar(&opts.Normal, "normal", nil, "labels of normal classes")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output format (table, yaml)")

	return cmd
}

// resolveHistoryPath finds the history file, falling back to the history
// directory for bare names.
func (o *HistoryOptions) resolveHistoryPath() string {
	if _, err := os.Stat(o.File); err == nil || o.Config == nil {
		return o.File
	}
	if filepath.Base(o.File) != o.File {
		return o.File
	}
	return filepath.Join(o.Config.HistoryPath(), o.File)
}

func runHistory(opts *HistoryOptions, w io.Writer) error {
	format, err := opts.outputFormat(opts.Output)
	if err != nil {
		return err
	}

	path := opts.resolveHistoryPath()
	run, err := training.LoadRun(path)
	if err != nil {
		return err
	}

	es := training.NewEarlyStopping(opts.Patience, opts.Normal)
	res, err := training.Replay(run.Validation, es)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	report := historyReport{
		File:      path,
		Epochs:    run.Validation.Epochs(),
		BestEpoch: res.BestEpoch,
		StoppedAt: res.StoppedAt,
	}
	if res.BestEpoch > 0 {
		report.Checkpoint = training.CheckpointName(res.BestEpoch)
	}
	for _, d := range res.Decisions {
		report.Decisions = append(report.Decisions, epochDecision{
			Epoch: d.Epoch, Loss: d.Loss, Recall: d.Recall, Improved: d.Improved,
		})
	}

	if format == config.OutputYAML {
		return renderYAML(w, report)
	}

	var rows [][]string
	for _, d := range res.Decisions {
		checkpoint := ""
		if d.Improved {
			checkpoint = d.Save
		}
		rows = append(rows, []string{
			strconv.Itoa(d.Epoch),
			strconv.FormatFloat(d.Loss, 'f', 4, 64),
			strconv.FormatFloat(d.Recall, 'f', 2, 64),
			strconv.FormatFloat(run.Validation.Accuracy[d.Epoch-1], 'f', 2, 64),
			yesNo(d.Improved),
			checkpoint,
		})
	}
	renderTable(w, []string{"EPOCH", "VAL LOSS", "RECALL", "ACCURACY", "IMPROVED", "CHECKPOINT"}, rows)

	fmt.Fprintln(w)
	if report.StoppedAt > 0 {
		fmt.Fprintf(w, "Stopped early at epoch %d of %d.\n", report.StoppedAt, report.Epochs)
	} else {
		fmt.Fprintf(w, "Ran all %d epochs.\n", report.Epochs)
	}
	if report.BestEpoch > 0 {
		fmt.Fprintf(w, "Best model: epoch %d (%s)\n", report.BestEpoch, report.Checkpoint)
	} else {
		fmt.Fprintln(w, "No epoch improved; no checkpoint kept.")
	}
	return nil
}
