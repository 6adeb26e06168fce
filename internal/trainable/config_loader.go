// Package trainable - config_loader.go builds plans from fine-tune
// configuration files.
//
// This bridges the configuration system with the family registry: each
// model entry's family is resolved, its type and selection checked, and a
// Plan returned.
package trainable

import (
	"fmt"

	"github.com/tsingmaoai/xw-tune/internal/config"
	"github.com/tsingmaoai/xw-tune/internal/logger"
	"github.com/tsingmaoai/xw-tune/internal/models"
)

// ModelPlan pairs a configured model with its plan
type ModelPlan struct {
	ModelID  string
	Plan     *Plan
	Training config.TrainingConfig
}

// FromConfig builds the plan for one configured model.
//
// Returns:
//   - The plan
//   - Error wrapping models.ErrUnknownFamily, models.ErrUnknownVariant,
//     ErrInvalidClassCount or ErrInvalidIndex
func FromConfig(m *config.ModelConfig) (*Plan, error) {
	family, err := models.Get(m.Family)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", m.ModelID, err)
	}

	var sel Selection
	if raw := m.Selection(); raw != nil {
		sel = NewSelection(raw...)
	}

	plan, err := SelectVariant(family, m.Type, m.NoOfClasses, sel)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", m.ModelID, err)
	}
	return plan, nil
}

// LoadPlansFromConfig loads a fine-tune configuration and builds a plan
// for every model in it.
//
// It stops at the first model that fails.
//
// Parameters:
//   - path: Path to the fine-tune configuration file
//
// Returns:
//   - Plans in file order
//   - Error if the file cannot be loaded or any model is invalid
//
// Example:
//
//	plans, err := trainable.LoadPlansFromConfig("finetune.yaml")
//	if err != nil {
//	    return err
//	}
//	for _, mp := range plans {
//	    fmt.Println(mp.ModelID, mp.Plan.TrainableNames())
//	}
func LoadPlansFromConfig(path string) ([]ModelPlan, error) {
	cfg, err := config.LoadFinetuneConfig(path)
	if err != nil {
		return nil, err
	}

	plans := make([]ModelPlan, 0, len(cfg.Models))
	for i := range cfg.Models {
		m := &cfg.Models[i]
		plan, err := FromConfig(m)
		if err != nil {
			return nil, err
		}
		logger.Debug("Model %s: training %v", m.ModelID, plan.TrainableNames())
		plans = append(plans, ModelPlan{
			ModelID:  m.ModelID,
			Plan:     plan,
			Training: m.Training,
		})
	}

	logger.Info("Built %d fine-tune plan(s) from %s", len(plans), path)
	return plans, nil
}
