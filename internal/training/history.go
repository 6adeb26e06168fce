package training

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// History is the per-epoch record of one phase (training or validation).
//
// Per-class series are indexed by class first, then by epoch.
type History struct {
	Loss              []float64   `yaml:"loss"`
	Accuracy          []float64   `yaml:"accuracy"`
	AvgRecall         []float64   `yaml:"avg_recall"`
	AvgPrecision      []float64   `yaml:"avg_precision"`
	AvgF1             []float64   `yaml:"avg_f1"`
	RecallPerClass    [][]float64 `yaml:"recall_per_class"`
	PrecisionPerClass [][]float64 `yaml:"precision_per_class"`
	F1PerClass        [][]float64 `yaml:"f1_per_class"`
}

// NewHistory returns an empty history for classes classes
func NewHistory(classes int) *History {
	return &History{
		Loss:              []float64{},
		Accuracy:          []float64{},
		AvgRecall:         []float64{},
		AvgPrecision:      []float64{},
		AvgF1:             []float64{},
		RecallPerClass:    emptySeries(classes),
		PrecisionPerClass: emptySeries(classes),
		F1PerClass:        emptySeries(classes),
	}
}

func emptySeries(classes int) [][]float64 {
	s := make([][]float64, classes)
	for i := range s {
		s[i] = []float64{}
	}
	return s
}

// Classes returns the number of classes the history tracks
func (h *History) Classes() int {
	return len(h.RecallPerClass)
}

// Epochs returns the number of recorded epochs
func (h *History) Epochs() int {
	return len(h.Loss)
}

// Record appends one epoch
func (h *History) Record(loss float64, m EpochMetrics) error {
	if len(m.Recall) != h.Classes() {
		return fmt.Errorf("metrics cover %d classes, history tracks %d", len(m.Recall), h.Classes())
	}

	h.Loss = append(h.Loss, loss)
	h.Accuracy = append(h.Accuracy, m.Accuracy)
	h.AvgRecall = append(h.AvgRecall, m.AvgRecall)
	h.AvgPrecision = append(h.AvgPrecision, m.AvgPrecision)
	h.AvgF1 = append(h.AvgF1, m.AvgF1)
	for k := range m.Recall {
		h.RecallPerClass[k] = append(h.RecallPerClass[k], m.Recall[k])
		h.PrecisionPerClass[k] = append(h.PrecisionPerClass[k], m.Precision[k])
		h.F1PerClass[k] = append(h.F1PerClass[k], m.F1[k])
	}
	return nil
}

// ClassRecall returns the recall of every class at epoch (1-based)
func (h *History) ClassRecall(epoch int) ([]float64, error) {
	if epoch < 1 || epoch > h.Epochs() {
		return nil, fmt.Errorf("epoch %d is outside [1, %d]", epoch, h.Epochs())
	}
	out := make([]float64, h.Classes())
	for k, series := range h.RecallPerClass {
		out[k] = series[epoch-1]
	}
	return out, nil
}

// Validate checks that every series has one value per epoch
func (h *History) Validate() error {
	n := h.Epochs()
	for name, s := range map[string][]float64{
		"accuracy":      h.Accuracy,
		"avg_recall":    h.AvgRecall,
		"avg_precision": h.AvgPrecision,
		"avg_f1":        h.AvgF1,
	} {
		if len(s) != n {
			return fmt.Errorf("%s has %d values, loss has %d", name, len(s), n)
		}
	}
	if len(h.PrecisionPerClass) != h.Classes() || len(h.F1PerClass) != h.Classes() {
		return fmt.Errorf("per-class series disagree on the number of classes")
	}
	for k := 0; k < h.Classes(); k++ {
		if len(h.RecallPerClass[k]) != n || len(h.PrecisionPerClass[k]) != n || len(h.F1PerClass[k]) != n {
			return fmt.Errorf("class %d does not have %d epochs", k, n)
		}
	}
	return nil
}

// Run holds both phases of a training run
type Run struct {
	Training   *History `yaml:"training"`
	Validation *History `yaml:"validation"`
}

// NewRun returns empty histories for both phases
func NewRun(classes int) *Run {
	return &Run{
		Training:   NewHistory(classes),
		Validation: NewHistory(classes),
	}
}

// SaveRun writes a run to a YAML file, creating parent directories.
func SaveRun(path string, r *Run) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file %s: %w", path, err)
	}
	return nil
}

// LoadRun reads a run written by SaveRun
func LoadRun(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history file %s: %w", path, err)
	}

	var r Run
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse history file %s: %w", path, err)
	}
	if r.Validation == nil {
		return nil, fmt.Errorf("history file %s has no validation phase", path)
	}
	if err := r.Validation.Validate(); err != nil {
		return nil, fmt.Errorf("history file %s: validation phase: %w", path, err)
	}
	if r.Training != nil {
		if err := r.Training.Validate(); err != nil {
			return nil, fmt.Errorf("history file %s: training phase: %w", path, err)
		}
	}
	return &r, nil
}
