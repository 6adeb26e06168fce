package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tsingmaoai/xw-tune/internal/trainable"
	"github.com/tsingmaoai/xw-tune/internal/training"
)

// execute runs the root command with an isolated home directory
func execute(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	cmd := NewXWTuneCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--home", home}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestFamiliesCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "families")
	require.NoError(t, err)

	for _, want := range []string{"densenet", "googlenet", "resnet", "34,50", "classifier", "3 families"} {
		assert.Contains(t, out, want)
	}
}

func TestLayersCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "layers", "googlenet")
	require.NoError(t, err)
	assert.Contains(t, out, "inception5b")
	assert.Contains(t, out, "Head: fc")

	out, err = execute(t, t.TempDir(), "layers", "resnet", "-o", "yaml")
	require.NoError(t, err)

	var doc struct {
		Family string `yaml:"family"`
		Layers []struct {
			Name  string `yaml:"name"`
			Index int    `yaml:"index"`
		} `yaml:"layers"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "resnet", doc.Family)
	require.Len(t, doc.Layers, 8)
	assert.Equal(t, "layer4", doc.Layers[7].Name)

	_, err = execute(t, t.TempDir(), "layers", "vgg")
	assert.Error(t, err)
}

func TestPlanCommandFlags(t *testing.T) {
	out, err := execute(t, t.TempDir(), "plan", "--family", "resnet", "--type", "50",
		"--classes", "4", "--trainable", "2,3,7", "-o", "yaml")
	require.NoError(t, err)

	var s trainable.Summary
	require.NoError(t, yaml.Unmarshal([]byte(out), &s))
	assert.Equal(t, []string{"relu", "maxpool", "layer4", "fc"}, s.Trainable)
	assert.Equal(t, []string{"layer4", "fc"}, s.Effective)
	assert.Equal(t, "50", s.Type)
	assert.Equal(t, 4, s.Head.OutFeatures)

	out, err = execute(t, t.TempDir(), "plan", "--family", "densenet", "--classes", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "trainable (2 classes)")
	assert.Contains(t, out, "Selection: none")
}

func TestPlanCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"index out of range", []string{"plan", "--family", "googlenet", "--classes", "3", "--trainable", "16"}},
		{"zero classes", []string{"plan", "--family", "resnet", "--classes", "0"}},
		{"unknown family", []string{"plan", "--family", "vgg", "--classes", "3"}},
		{"unknown type", []string{"plan", "--family", "resnet", "--type", "18", "--classes", "3"}},
		{"bad selection syntax", []string{"plan", "--family", "resnet", "--classes", "3", "--trainable", "a"}},
		{"no family", []string{"plan", "--classes", "3"}},
		{"file without model", []string{"plan", "-f", "x.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, t.TempDir(), tt.args...)
			assert.Error(t, err)
		})
	}
}

const finetuneYAML = `version: "1"
models:
  - model_id: blood-cells-r50
    family: resnet
    type: "50"
    no_of_classes: 4
    trainable_layers: [6, 7]
  - model_id: lesions
    family: googlenet
    no_of_classes: 7
`

func TestPlanAndValidateFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finetune.yaml")
	require.NoError(t, os.WriteFile(path, []byte(finetuneYAML), 0644))

	out, err := execute(t, t.TempDir(), "plan", "-f", path, "--model", "blood-cells-r50")
	require.NoError(t, err)
	assert.Contains(t, out, "Model:     blood-cells-r50")
	assert.Contains(t, out, "Family:    resnet-50")
	assert.Contains(t, out, "Selection: 6,7")

	_, err = execute(t, t.TempDir(), "plan", "-f", path, "--model", "missing")
	assert.Error(t, err)

	out, err = execute(t, t.TempDir(), "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 model(s) valid")
	assert.Contains(t, out, "lesions")
}

func TestValidateRejectsBadIndex(t *testing.T) {
	content := "version: \"1\"\nmodels:\n  - {model_id: g, family: googlenet, no_of_classes: 2, trainable_layers: [16]}\n"
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := execute(t, t.TempDir(), "validate", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, trainable.ErrInvalidIndex)
}

func writeRun(t *testing.T, path string) {
	t.Helper()
	run := training.NewRun(2)
	for _, e := range []struct {
		loss float64
		r0   float64
	}{{1.0, 0.5}, {0.9, 0.4}, {0.8, 0.6}, {0.85, 0.7}, {0.7, 0.6}} {
		require.NoError(t, run.Validation.Record(e.loss, training.EpochMetrics{
			Recall:    []float64{e.r0, 0.9},
			Precision: []float64{0, 0},
			F1:        []float64{0, 0},
		}))
	}
	require.NoError(t, training.SaveRun(path, run))
}

func TestHistoryCommand(t *testing.T) {
	home := t.TempDir()
	writeRun(t, filepath.Join(home, "history", "r50.yaml"))

	out, err := execute(t, home, "history", "r50.yaml", "--patience", "2", "--normal", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Stopped early at epoch 5 of 5.")
	assert.Contains(t, out, "Best model: epoch 3 (model_epoch3.pt)")

	out, err = execute(t, home, "history", "r50.yaml", "--normal", "1", "-o", "yaml")
	require.NoError(t, err)
	var report struct {
		BestEpoch int `yaml:"best_epoch"`
		StoppedAt int `yaml:"stopped_at"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Equal(t, 3, report.BestEpoch)
	assert.Zero(t, report.StoppedAt)

	_, err = execute(t, home, "history", "missing.yaml")
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	home := t.TempDir()

	out, err := execute(t, home, "config", "set", "output_format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "output_format = yaml")

	out, err = execute(t, home, "config", "get", "output_format")
	require.NoError(t, err)
	assert.Equal(t, "yaml\n", out)

	// the saved default format now applies to commands without -o
	out, err = execute(t, home, "families")
	require.NoError(t, err)
	assert.Contains(t, out, "- id: densenet")

	out, err = execute(t, home, "config", "info")
	require.NoError(t, err)
	assert.Contains(t, out, home)

	_, err = execute(t, home, "config", "set", "home", "/elsewhere")
	assert.Error(t, err)
	_, err = execute(t, home, "config", "get", "colour")
	assert.Error(t, err)
}

func TestInvalidLogLevelFlag(t *testing.T) {
	_, err := execute(t, t.TempDir(), "--log-level", "loud", "families")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "xw-tune dev")
}
