package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validFinetuneYAML = `version: "1"
models:
  - model_id: blood-cells-r50
    family: resnet
    type: "50"
    no_of_classes: 4
    trainable_layers: [6, 7]
    training:
      epochs: 60
      labels_of_normal_classes: [1]
  - model_id: skin-densenet
    family: densenet
    no_of_classes: 2
    trainable_feature_layers: [10]
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "finetune.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFinetuneConfig(t *testing.T) {
	l := &FinetuneConfigLoader{}
	cfg, err := l.Load(writeFile(t, validFinetuneYAML))
	require.NoError(t, err)

	require.Len(t, cfg.Models, 2)
	assert.Equal(t, []string{"blood-cells-r50", "skin-densenet"}, GetAllModelIDs(cfg))

	r50 := FindModelByID(cfg, "blood-cells-r50")
	require.NotNil(t, r50)
	assert.Equal(t, []int{6, 7}, r50.Selection())
	assert.Equal(t, 60, r50.Training.Epochs)
	assert.Equal(t, DefaultPatience, r50.Training.Patience)

	dn := FindModelByID(cfg, "skin-densenet")
	require.NotNil(t, dn)
	assert.Equal(t, []int{10}, dn.Selection())
	assert.Equal(t, DefaultEpochs, dn.Training.Epochs)

	assert.Nil(t, FindModelByID(cfg, "missing"))
}

func TestLoaderCachesPerPath(t *testing.T) {
	l := &FinetuneConfigLoader{}
	path := writeFile(t, validFinetuneYAML)

	first, err := l.Load(path)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	second, err := l.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, second)

	l.Clear()
	_, err = l.Load(path)
	assert.Error(t, err)
}

func TestFinetuneConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no version", "models:\n  - {model_id: a, family: resnet, no_of_classes: 2}\n"},
		{"no models", "version: \"1\"\nmodels: []\n"},
		{"missing id", "version: \"1\"\nmodels:\n  - {family: resnet, no_of_classes: 2}\n"},
		{"missing family", "version: \"1\"\nmodels:\n  - {model_id: a, no_of_classes: 2}\n"},
		{"duplicate id", "version: \"1\"\nmodels:\n  - {model_id: a, family: resnet, no_of_classes: 2}\n  - {model_id: a, family: resnet, no_of_classes: 2}\n"},
		{"zero classes", "version: \"1\"\nmodels:\n  - {model_id: a, family: resnet, no_of_classes: 0}\n"},
		{"negative classes", "version: \"1\"\nmodels:\n  - {model_id: a, family: resnet, no_of_classes: -5}\n"},
		{"both selections", "version: \"1\"\nmodels:\n  - {model_id: a, family: resnet, no_of_classes: 2, trainable_layers: [0], trainable_feature_layers: [1]}\n"},
		{"negative patience", "version: \"1\"\nmodels:\n  - {model_id: a, family: resnet, no_of_classes: 2, training: {patience: -1}}\n"},
		{"normal label out of range", "version: \"1\"\nmodels:\n  - {model_id: a, family: resnet, no_of_classes: 2, training: {labels_of_normal_classes: [2]}}\n"},
		{"all classes normal", "version: \"1\"\nmodels:\n  - {model_id: a, family: resnet, no_of_classes: 2, training: {labels_of_normal_classes: [0, 1]}}\n"},
		{"not yaml", "version: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &FinetuneConfigLoader{}
			_, err := l.Load(writeFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFinetuneFile(t *testing.T) {
	l := &FinetuneConfigLoader{}
	_, err := l.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "not found")

	_, err = l.Load("")
	assert.Error(t, err)
}

func TestSaveFinetuneConfig(t *testing.T) {
	cfg := &FinetuneConfig{
		Version: "1",
		Models: []ModelConfig{
			{ModelID: "g", Family: "googlenet", NoOfClasses: 3, TrainableLayers: []int{14, 15}},
		},
	}
	path := filepath.Join(t.TempDir(), "nested", "out.yaml")
	require.NoError(t, SaveFinetuneConfig(cfg, path))

	l := &FinetuneConfigLoader{}
	loaded, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int{14, 15}, loaded.Models[0].TrainableLayers)

	cfg.Models[0].NoOfClasses = 0
	assert.Error(t, SaveFinetuneConfig(cfg, path))
}
