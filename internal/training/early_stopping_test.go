package training

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type epoch struct {
	loss    float64
	recalls []float64
}

func buildHistory(t *testing.T, epochs []epoch) *History {
	t.Helper()
	h := NewHistory(len(epochs[0].recalls))
	for _, e := range epochs {
		n := len(e.recalls)
		require.NoError(t, h.Record(e.loss, EpochMetrics{
			Recall:    e.recalls,
			Precision: make([]float64, n),
			F1:        make([]float64, n),
		}))
	}
	return h
}

// class 1 is normal, so only class 0 recall is watched
var sampleEpochs = []epoch{
	{1.0, []float64{0.5, 0.9}},
	{0.9, []float64{0.4, 0.9}},
	{0.8, []float64{0.6, 0.1}},
	{0.85, []float64{0.7, 0.9}},
	{0.7, []float64{0.6, 0.9}},
	{0.1, []float64{0.99, 0.9}},
}

func TestEarlyStoppingCheck(t *testing.T) {
	es := NewEarlyStopping(2, []int{1})
	h := NewHistory(2)

	var decisions []Decision
	for _, e := range sampleEpochs[:5] {
		require.NoError(t, h.Record(e.loss, EpochMetrics{
			Recall: e.recalls, Precision: []float64{0, 0}, F1: []float64{0, 0},
		}))
		d, err := es.Check(h)
		require.NoError(t, err)
		decisions = append(decisions, d)
	}

	assert.True(t, decisions[0].Improved)
	assert.Equal(t, "model_epoch1.pt", decisions[0].Save)
	assert.Empty(t, decisions[0].Remove)

	assert.False(t, decisions[1].Improved)
	assert.Equal(t, 1, decisions[1].Unchanged)

	assert.True(t, decisions[2].Improved)
	assert.Equal(t, "model_epoch3.pt", decisions[2].Save)
	assert.Equal(t, "model_epoch1.pt", decisions[2].Remove)
	assert.Equal(t, 0, decisions[2].Unchanged)

	assert.False(t, decisions[3].Improved, "loss went up")
	assert.False(t, decisions[4].Improved, "recall did not go up")
	assert.True(t, decisions[4].Stop)

	assert.Equal(t, 3, es.BestEpoch())
	assert.Equal(t, []int{1, 3}, es.Checkpoints())
}

func TestMonitoredRecallWithoutNormalClasses(t *testing.T) {
	h := buildHistory(t, []epoch{{1.0, []float64{0.2, 0.6}}})
	es := NewEarlyStopping(5, nil)

	r, err := es.MonitoredRecall(h)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, r, 1e-9)
}

func TestMonitoredRecallErrors(t *testing.T) {
	h := buildHistory(t, []epoch{{1.0, []float64{0.2, 0.6}}})

	_, err := NewEarlyStopping(5, []int{0, 1}).MonitoredRecall(h)
	assert.Error(t, err)

	_, err = NewEarlyStopping(5, []int{2}).MonitoredRecall(h)
	assert.ErrorIs(t, err, ErrInvalidLabel)

	_, err = NewEarlyStopping(5, nil).Check(NewHistory(2))
	assert.Error(t, err)
}

func TestZeroPatienceNeverStops(t *testing.T) {
	h := buildHistory(t, []epoch{
		{1.0, []float64{0.5}},
		{2.0, []float64{0.1}},
		{3.0, []float64{0.1}},
	})

	res, err := Replay(h, NewEarlyStopping(0, nil))
	require.NoError(t, err)
	assert.Zero(t, res.StoppedAt)
	assert.Len(t, res.Decisions, 3)
	assert.Equal(t, 1, res.BestEpoch)
}

func TestReplay(t *testing.T) {
	h := buildHistory(t, sampleEpochs)

	res, err := Replay(h, NewEarlyStopping(2, []int{1}))
	require.NoError(t, err)

	assert.Equal(t, 5, res.StoppedAt)
	assert.Len(t, res.Decisions, 5, "epoch 6 is never reached")
	assert.Equal(t, 3, res.BestEpoch)
}

func TestRunSaveLoad(t *testing.T) {
	run := NewRun(2)
	run.Validation = buildHistory(t, sampleEpochs)
	path := filepath.Join(t.TempDir(), "runs", "r50.yaml")

	require.NoError(t, SaveRun(path, run))

	loaded, err := LoadRun(path)
	require.NoError(t, err)
	assert.Equal(t, run.Validation.Loss, loaded.Validation.Loss)
	assert.Equal(t, run.Validation.RecallPerClass, loaded.Validation.RecallPerClass)
	assert.Equal(t, 0, loaded.Training.Epochs())
}

func TestLoadRunRejectsInconsistentHistory(t *testing.T) {
	run := NewRun(2)
	run.Validation = buildHistory(t, sampleEpochs)
	run.Validation.RecallPerClass[1] = run.Validation.RecallPerClass[1][:2]

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, SaveRun(path, run))

	_, err := LoadRun(path)
	assert.Error(t, err)
}

func TestCheckpointName(t *testing.T) {
	assert.Equal(t, "model_epoch12.pt", CheckpointName(12))
}
