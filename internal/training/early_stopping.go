package training

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/tsingmaoai/xw-tune/internal/logger"
)

const (
	// initialLossThreshold is the validation loss an epoch has to beat
	// before any checkpoint exists
	initialLossThreshold = 10e5
)

// CheckpointName returns the file name of the checkpoint saved for epoch
func CheckpointName(epoch int) string {
	return fmt.Sprintf("model_epoch%d.pt", epoch)
}

// EarlyStopping decides after every validation pass whether the model
// improved and whether training should stop.
//
// An epoch counts as an improvement only if its validation loss is lower
// than the best so far AND its monitored recall is higher. The monitored
// recall is the mean recall over the classes not listed in NormalClasses.
//
// EarlyStopping is not safe for concurrent use.
type EarlyStopping struct {
	// Patience is the number of epochs without improvement after which
	// training stops. Zero or less never stops. This departs from the
	// existing trainers, which stop right after the first improving epoch
	// when patience is 0.
	Patience int

	// NormalClasses are left out of the monitored recall
	NormalClasses []int

	lossThreshold   float64
	recallThreshold float64
	unchanged       int
	checkpoints     []int
}

// NewEarlyStopping returns a tracker with the starting thresholds
func NewEarlyStopping(patience int, normalClasses []int) *EarlyStopping {
	return &EarlyStopping{
		Patience:      patience,
		NormalClasses: normalClasses,
		lossThreshold: initialLossThreshold,
	}
}

// Decision is the outcome of one Check
type Decision struct {
	// Epoch is the 1-based epoch that was checked
	Epoch int

	// Loss and Recall are the validation loss and monitored recall of Epoch
	Loss   float64
	Recall float64

	// Improved is true when Epoch became the new best model
	Improved bool

	// Save is the checkpoint file to write, set only when Improved
	Save string

	// Remove is the previous best checkpoint file to delete, set only when
	// Improved and an earlier checkpoint exists
	Remove string

	// Unchanged is the number of consecutive epochs without improvement
	Unchanged int

	// Stop is true when Unchanged reached Patience
	Stop bool
}

// MonitoredRecall returns the mean recall of the last recorded epoch over
// the classes that are not normal.
func (es *EarlyStopping) MonitoredRecall(val *History) (float64, error) {
	recalls, err := val.ClassRecall(val.Epochs())
	if err != nil {
		return 0, err
	}

	normal := make(map[int]bool, len(es.NormalClasses))
	for _, k := range es.NormalClasses {
		if k < 0 || k >= len(recalls) {
			return 0, fmt.Errorf("%w: normal class %d, expected [0, %d)", ErrInvalidLabel, k, len(recalls))
		}
		normal[k] = true
	}

	watched := make([]float64, 0, len(recalls))
	for k, r := range recalls {
		if !normal[k] {
			watched = append(watched, r)
		}
	}
	if len(watched) == 0 {
		return 0, fmt.Errorf("all %d classes are normal, nothing to monitor", len(recalls))
	}
	return floats.Sum(watched) / float64(len(watched)), nil
}

// Check evaluates the last epoch of the validation history.
func (es *EarlyStopping) Check(val *History) (Decision, error) {
	if val.Epochs() == 0 {
		return Decision{}, fmt.Errorf("validation history is empty")
	}

	recall, err := es.MonitoredRecall(val)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{
		Epoch:  val.Epochs(),
		Loss:   val.Loss[val.Epochs()-1],
		Recall: recall,
	}

	if d.Loss < es.lossThreshold && es.recallThreshold < recall {
		if n := len(es.checkpoints); n > 0 {
			d.Remove = CheckpointName(es.checkpoints[n-1])
		}
		es.checkpoints = append(es.checkpoints, d.Epoch)
		es.lossThreshold = d.Loss
		es.recallThreshold = recall
		es.unchanged = 0

		d.Improved = true
		d.Save = CheckpointName(d.Epoch)
		logger.Debug("Epoch %d improved: loss=%.4f recall=%.2f", d.Epoch, d.Loss, recall)
	} else {
		es.unchanged++
	}

	d.Unchanged = es.unchanged
	d.Stop = es.Patience > 0 && es.unchanged >= es.Patience
	return d, nil
}

// BestEpoch returns the epoch of the current best checkpoint, 0 if none
func (es *EarlyStopping) BestEpoch() int {
	if len(es.checkpoints) == 0 {
		return 0
	}
	return es.checkpoints[len(es.checkpoints)-1]
}

// Checkpoints returns every epoch that was an improvement, in order
func (es *EarlyStopping) Checkpoints() []int {
	return append([]int(nil), es.checkpoints...)
}

// ReplayResult is the outcome of replaying a recorded history
type ReplayResult struct {
	Decisions []Decision

	// BestEpoch is the epoch whose checkpoint survives, 0 if none
	BestEpoch int

	// StoppedAt is the epoch at which early stopping fired, 0 if the
	// history ran to its end
	StoppedAt int
}

// Replay runs es over a recorded validation history epoch by epoch, as the
// trainer would have, and stops where early stopping fires.
func Replay(val *History, es *EarlyStopping) (*ReplayResult, error) {
	if err := val.Validate(); err != nil {
		return nil, err
	}

	prefix := NewHistory(val.Classes())
	res := &ReplayResult{}

	for e := 1; e <= val.Epochs(); e++ {
		m := EpochMetrics{
			Accuracy:     val.Accuracy[e-1],
			AvgRecall:    val.AvgRecall[e-1],
			AvgPrecision: val.AvgPrecision[e-1],
			AvgF1:        val.AvgF1[e-1],
			Recall:       column(val.RecallPerClass, e-1),
			Precision:    column(val.PrecisionPerClass, e-1),
			F1:           column(val.F1PerClass, e-1),
		}
		if err := prefix.Record(val.Loss[e-1], m); err != nil {
			return nil, err
		}

		d, err := es.Check(prefix)
		if err != nil {
			return nil, fmt.Errorf("epoch %d: %w", e, err)
		}
		res.Decisions = append(res.Decisions, d)

		if d.Stop {
			res.StoppedAt = e
			break
		}
	}

	res.BestEpoch = es.BestEpoch()
	return res, nil
}

func column(series [][]float64, i int) []float64 {
	out := make([]float64, len(series))
	for k := range series {
		out[k] = series[k][i]
	}
	return out
}
