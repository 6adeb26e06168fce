// Package training keeps the per-epoch bookkeeping of a fine-tuning run:
// class counts, recall/precision/F1 metrics, loss and metric histories,
// and the early-stopping rule that picks the checkpoint to keep.
//
// The training loop itself lives with the model code; it feeds batches of
// labels and predictions into Counts and asks EarlyStopping what to do
// after each validation pass.
package training

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrInvalidLabel is returned when a label or prediction is not a class
// index of the run.
var ErrInvalidLabel = errors.New("invalid class label")

// Counts accumulates per-class sample counts over an epoch.
type Counts struct {
	// Target is the number of samples whose true class is c
	Target []int

	// Predicted is the number of samples predicted as class c
	Predicted []int

	// Correct is the number of samples of class c predicted as c
	Correct []int
}

// NewCounts returns zeroed counts for classes classes
func NewCounts(classes int) *Counts {
	return &Counts{
		Target:    make([]int, classes),
		Predicted: make([]int, classes),
		Correct:   make([]int, classes),
	}
}

// Classes returns the number of classes
func (c *Counts) Classes() int {
	return len(c.Target)
}

// Reset zeroes all counts for the next epoch
func (c *Counts) Reset() {
	for i := range c.Target {
		c.Target[i], c.Predicted[i], c.Correct[i] = 0, 0, 0
	}
}

// Add accumulates one batch.
//
// labels and preds are parallel slices of class indices. Nothing is
// counted if any entry is out of range.
func (c *Counts) Add(labels, preds []int) error {
	if len(labels) != len(preds) {
		return fmt.Errorf("batch has %d labels but %d predictions", len(labels), len(preds))
	}
	n := c.Classes()
	for i := range labels {
		if labels[i] < 0 || labels[i] >= n {
			return fmt.Errorf("%w: label %d at position %d, expected [0, %d)", ErrInvalidLabel, labels[i], i, n)
		}
		if preds[i] < 0 || preds[i] >= n {
			return fmt.Errorf("%w: prediction %d at position %d, expected [0, %d)", ErrInvalidLabel, preds[i], i, n)
		}
	}

	for i, y := range labels {
		p := preds[i]
		c.Target[y]++
		c.Predicted[p]++
		if y == p {
			c.Correct[y]++
		}
	}
	return nil
}

// EpochMetrics are the class metrics of one epoch, rounded to two
// decimals.
type EpochMetrics struct {
	Accuracy     float64   `yaml:"accuracy"`
	AvgRecall    float64   `yaml:"avg_recall"`
	AvgPrecision float64   `yaml:"avg_precision"`
	AvgF1        float64   `yaml:"avg_f1"`
	Recall       []float64 `yaml:"recall_per_class"`
	Precision    []float64 `yaml:"precision_per_class"`
	F1           []float64 `yaml:"f1_per_class"`
}

// Metrics computes the epoch metrics from the accumulated counts.
//
// A class with no true samples has recall 0, one never predicted has
// precision 0. F1 is 2*round(p*r/(p+r)) and every value is rounded half
// to even, so that it matches the histories written by the existing
// trainers. The averages are unweighted means over classes.
func (c *Counts) Metrics() EpochMetrics {
	n := c.Classes()
	m := EpochMetrics{
		Recall:    make([]float64, n),
		Precision: make([]float64, n),
		F1:        make([]float64, n),
	}

	for k := 0; k < n; k++ {
		if c.Target[k] > 0 {
			m.Recall[k] = round2(float64(c.Correct[k]) / float64(c.Target[k]))
		}
		if c.Predicted[k] > 0 {
			m.Precision[k] = round2(float64(c.Correct[k]) / float64(c.Predicted[k]))
		}
		if d := m.Precision[k] + m.Recall[k]; d > 0 {
			m.F1[k] = 2 * round2(m.Precision[k]*m.Recall[k]/d)
		}
	}

	if total := sumInts(c.Target); total > 0 {
		m.Accuracy = round2(float64(sumInts(c.Correct)) / float64(total))
	}
	if n > 0 {
		m.AvgRecall = round2(stat.Mean(m.Recall, nil))
		m.AvgPrecision = round2(stat.Mean(m.Precision, nil))
		m.AvgF1 = round2(stat.Mean(m.F1, nil))
	}
	return m
}

func sumInts(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

// round2 rounds to two decimals, ties to even
func round2(x float64) float64 {
	return math.RoundToEven(x*100) / 100
}
