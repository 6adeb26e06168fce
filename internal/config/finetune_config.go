// Package config - finetune_config.go implements fine-tune configuration
// loading and management.
//
// A fine-tune configuration file lists the models to fine-tune: which
// pretrained family and depth to start from, how many output classes the
// new classifier head has, which backbone layers are unfrozen, and the
// early-stopping settings of the training run.
//
// Example file:
//
//	version: "1"
//	models:
//	  - model_id: blood-cells-r50
//	    family: resnet
//	    type: "50"
//	    no_of_classes: 4
//	    trainable_layers: [6, 7]
//	    training:
//	      epochs: 60
//	      patience: 10
//	      labels_of_normal_classes: [1]
//
// Layer indices are not checked here; that needs the family tables and is
// done by the trainable package when plans are built.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/tsingmaoai/xw-tune/internal/logger"
)

const (
	// DefaultEpochs is the maximum number of epochs when none is configured
	DefaultEpochs = 100

	// DefaultPatience is the number of epochs without improvement before
	// training stops, when none is configured
	DefaultPatience = 20
)

// TrainingConfig holds the early-stopping settings of a training run.
type TrainingConfig struct {
	// Epochs is the maximum number of epochs (0 means DefaultEpochs)
	Epochs int `yaml:"epochs,omitempty"`

	// Patience is the number of epochs to wait for an improvement
	// (0 means DefaultPatience)
	Patience int `yaml:"patience,omitempty"`

	// LabelsOfNormalClasses lists the class labels left out of the
	// average recall that early stopping watches. Typically the healthy
	// classes of a medical dataset.
	LabelsOfNormalClasses []int `yaml:"labels_of_normal_classes,omitempty"`
}

// ModelConfig defines one model to fine-tune.
type ModelConfig struct {
	// ModelID is the unique identifier of this entry
	// Convention: lowercase, hyphen-separated (e.g., "blood-cells-r50")
	ModelID string `yaml:"model_id"`

	// Family is the pretrained architecture family (resnet, densenet, googlenet)
	Family string `yaml:"family"`

	// Type is the depth variant within the family (e.g., "34", "50").
	// Optional.
	Type string `yaml:"type,omitempty"`

	// NoOfClasses is the output width of the classifier head
	NoOfClasses int `yaml:"no_of_classes"`

	// TrainableLayers lists backbone layer indices to unfreeze.
	// Omitted means only the classifier head is trained.
	TrainableLayers []int `yaml:"trainable_layers,omitempty"`

	// TrainableFeatureLayers is an alternative spelling of TrainableLayers
	// used by the DenseNet and GoogLeNet wrappers. At most one of the two
	// may be set.
	TrainableFeatureLayers []int `yaml:"trainable_feature_layers,omitempty"`

	// Training holds the early-stopping settings
	Training TrainingConfig `yaml:"training,omitempty"`
}

// Selection returns the configured trainable layer indices, whichever
// key they were given under. Nil means no selection.
func (m *ModelConfig) Selection() []int {
	if m.TrainableLayers != nil {
		return m.TrainableLayers
	}
	return m.TrainableFeatureLayers
}

// FinetuneConfig is the root structure of a fine-tune configuration file.
type FinetuneConfig struct {
	// Version specifies the configuration schema version
	Version string `yaml:"version"`

	// Models contains the models to fine-tune
	Models []ModelConfig `yaml:"models"`
}

// FinetuneConfigLoader handles loading and caching of fine-tune
// configurations.
//
// Thread Safety: All methods are safe for concurrent use.
type FinetuneConfigLoader struct {
	mu     sync.Mutex
	path   string
	config *FinetuneConfig
}

// finetuneConfigLoader is the global loader instance
var finetuneConfigLoader = &FinetuneConfigLoader{}

// LoadFinetuneConfig loads a fine-tune configuration from path.
//
// The configuration is cached per path. Loading the same path again
// returns the cached value without re-reading the file.
//
// Parameters:
//   - path: Path to the YAML file
//
// Returns:
//   - Pointer to the loaded configuration with defaults applied
//   - Error if the file cannot be read, parsed or validated
//
// Example:
//
//	cfg, err := config.LoadFinetuneConfig("finetune.yaml")
//	if err != nil {
//	    return err
//	}
//	for _, m := range cfg.Models {
//	    fmt.Println(m.ModelID, m.Family)
//	}
func LoadFinetuneConfig(path string) (*FinetuneConfig, error) {
	return finetuneConfigLoader.Load(path)
}

// Load implements LoadFinetuneConfig for a specific loader.
func (l *FinetuneConfigLoader) Load(path string) (*FinetuneConfig, error) {
	if path == "" {
		return nil, fmt.Errorf("fine-tune configuration path is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.config != nil && l.path == path {
		logger.Debug("Using cached fine-tune configuration for %s", path)
		return l.config, nil
	}

	cfg, err := readFinetuneConfig(path)
	if err != nil {
		return nil, err
	}

	l.path = path
	l.config = cfg

	logger.Info("Loaded fine-tune configuration: %d model(s)", len(cfg.Models))
	return cfg, nil
}

// Clear drops the cached configuration
func (l *FinetuneConfigLoader) Clear() {
	l.mu.Lock()
	l.path = ""
	l.config = nil
	l.mu.Unlock()
}

// ClearFinetuneConfigCache forces the next LoadFinetuneConfig call to read
// from disk.
func ClearFinetuneConfigCache() {
	finetuneConfigLoader.Clear()
	logger.Debug("Fine-tune configuration cache cleared")
}

// ReloadFinetuneConfig clears the cache and re-reads path.
func ReloadFinetuneConfig(path string) (*FinetuneConfig, error) {
	ClearFinetuneConfigCache()
	logger.Info("Reloading fine-tune configuration")
	return LoadFinetuneConfig(path)
}

func readFinetuneConfig(path string) (*FinetuneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("fine-tune configuration file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read fine-tune config file %s: %w", path, err)
	}

	var cfg FinetuneConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse fine-tune config YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateFinetuneConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid fine-tune configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *FinetuneConfig) {
	for i := range cfg.Models {
		t := &cfg.Models[i].Training
		if t.Epochs == 0 {
			t.Epochs = DefaultEpochs
		}
		if t.Patience == 0 {
			t.Patience = DefaultPatience
		}
	}
}

// validateFinetuneConfig performs validation on a loaded configuration.
//
// Validation checks:
//   - Version field is present
//   - At least one model is defined
//   - Each model has an ID, a family and a positive class count
//   - No duplicate model IDs
//   - At most one of trainable_layers / trainable_feature_layers
//   - Epochs and patience are not negative
//   - Normal-class labels are valid class labels and leave at least one
//     class to watch
func validateFinetuneConfig(cfg *FinetuneConfig) error {
	if cfg.Version == "" {
		return fmt.Errorf("configuration version is required")
	}

	if len(cfg.Models) == 0 {
		return fmt.Errorf("at least one model must be defined")
	}

	modelIDs := make(map[string]bool)

	for i, m := range cfg.Models {
		if m.ModelID == "" {
			return fmt.Errorf("model[%d]: model_id is required", i)
		}
		if modelIDs[m.ModelID] {
			return fmt.Errorf("duplicate model_id: %s", m.ModelID)
		}
		modelIDs[m.ModelID] = true

		if m.Family == "" {
			return fmt.Errorf("model %s: family is required", m.ModelID)
		}

		// The class count is checked again, with a typed error, when the plan is built
		if m.NoOfClasses <= 0 {
			return fmt.Errorf("model %s: no_of_classes must be positive, got %d", m.ModelID, m.NoOfClasses)
		}

		if m.TrainableLayers != nil && m.TrainableFeatureLayers != nil {
			return fmt.Errorf("model %s: set only one of trainable_layers and trainable_feature_layers", m.ModelID)
		}

		if m.Training.Epochs < 0 {
			return fmt.Errorf("model %s: epochs cannot be negative", m.ModelID)
		}
		if m.Training.Patience < 0 {
			return fmt.Errorf("model %s: patience cannot be negative", m.ModelID)
		}

		normal := make(map[int]bool)
		for _, label := range m.Training.LabelsOfNormalClasses {
			if label < 0 || label >= m.NoOfClasses {
				return fmt.Errorf("model %s: normal class label %d is outside [0, %d)", m.ModelID, label, m.NoOfClasses)
			}
			normal[label] = true
		}
		if len(normal) >= m.NoOfClasses {
			return fmt.Errorf("model %s: every class is marked normal, nothing left to monitor", m.ModelID)
		}
	}

	return nil
}

// FindModelByID searches for a model by its ID.
//
// Returns:
//   - Pointer to ModelConfig if found
//   - nil if not found
func FindModelByID(cfg *FinetuneConfig, modelID string) *ModelConfig {
	for i := range cfg.Models {
		if cfg.Models[i].ModelID == modelID {
			return &cfg.Models[i]
		}
	}
	return nil
}

// GetAllModelIDs returns the model IDs in file order
func GetAllModelIDs(cfg *FinetuneConfig) []string {
	ids := make([]string, len(cfg.Models))
	for i, m := range cfg.Models {
		ids[i] = m.ModelID
	}
	return ids
}

// SaveFinetuneConfig writes a configuration to a YAML file.
//
// The configuration is validated before anything is written.
//
// Parameters:
//   - cfg: Configuration to save
//   - path: File path to write to
//
// Returns:
//   - Error if the configuration is invalid or the file cannot be written
func SaveFinetuneConfig(cfg *FinetuneConfig, path string) error {
	if err := validateFinetuneConfig(cfg); err != nil {
		return fmt.Errorf("cannot save invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	logger.Info("Saved fine-tune configuration to %s", path)
	return nil
}
