// Package trainable decides which layers of a pretrained backbone are
// trained during fine-tuning.
//
// The classifier head is always trainable. Backbone layers are frozen
// unless their index is selected. Select checks a selection against a
// family's layer table and returns a Plan; the actual freezing of
// parameters is done by whatever builds the model from the plan.
package trainable

import (
	"errors"
	"fmt"

	"github.com/tsingmaoai/xw-tune/internal/logger"
	"github.com/tsingmaoai/xw-tune/internal/models"
)

var (
	// ErrInvalidIndex is returned when a selection references an index
	// that is not in the family's layer table.
	ErrInvalidIndex = models.ErrInvalidIndex

	// ErrInvalidClassCount is returned when the number of classes is not
	// a positive integer.
	ErrInvalidClassCount = errors.New("invalid class count")
)

// Head describes the classifier head of a plan
type Head struct {
	// Name is the attribute name of the head in the model (e.g., "fc")
	Name string `yaml:"name"`

	// OutFeatures is the number of classes the head predicts
	OutFeatures int `yaml:"out_features"`
}

// Plan is a checked fine-tune configuration.
//
// A Plan is immutable once returned by Select.
type Plan struct {
	family    *models.Family
	variant   string
	head      Head
	selection Selection
	trainable map[int]bool
}

// Select checks a selection against a family and builds a plan.
//
// Parameters:
//   - family: The architecture family whose layer table the indices refer to
//   - classes: Number of output classes, must be positive
//   - sel: Layer indices to unfreeze, nil for head-only training
//
// Returns:
//   - The plan
//   - Error wrapping ErrInvalidClassCount or ErrInvalidIndex
func Select(family *models.Family, classes int, sel Selection) (*Plan, error) {
	if family == nil {
		return nil, fmt.Errorf("family is required")
	}
	if classes <= 0 {
		return nil, fmt.Errorf("%w: no_of_classes must be positive, got %d", ErrInvalidClassCount, classes)
	}

	p := &Plan{
		family:    family,
		head:      Head{Name: family.Head, OutFeatures: classes},
		trainable: make(map[int]bool, len(sel)),
	}

	for _, idx := range sel {
		if !family.Layers.Contains(idx) {
			return nil, &models.IndexError{
				Family: family.ID,
				Index:  idx,
				Len:    family.Layers.Len(),
				Err:    ErrInvalidIndex,
			}
		}
		p.trainable[idx] = true
	}
	if sel.IsSet() {
		p.selection = NewSelection(sel...)
	}

	for idx := range p.trainable {
		e, _ := family.Layers.Lookup(idx)
		if !e.Kind.HasParameters() {
			logger.Debug("Layer %s (%d) of %s has no parameters, selecting it has no effect",
				e.Name, idx, family.ID)
		}
	}

	return p, nil
}

// SelectVariant is Select with a depth type check.
func SelectVariant(family *models.Family, variant string, classes int, sel Selection) (*Plan, error) {
	if family == nil {
		return nil, fmt.Errorf("family is required")
	}
	if err := family.ValidateVariant(variant); err != nil {
		return nil, err
	}
	p, err := Select(family, classes, sel)
	if err != nil {
		return nil, err
	}
	p.variant = variant
	return p, nil
}

// Family returns the architecture family of the plan
func (p *Plan) Family() *models.Family { return p.family }

// Variant returns the depth type, empty if none was given
func (p *Plan) Variant() string { return p.variant }

// Head returns the classifier head, which is always trainable
func (p *Plan) Head() Head { return p.head }

// Selection returns the normalized selection, nil for head-only plans
func (p *Plan) Selection() Selection { return p.selection }

// IsTrainable reports whether the backbone layer at index is unfrozen
func (p *Plan) IsTrainable(index int) bool {
	return p.trainable[index]
}

// Trainable returns the unfrozen backbone layers in table order.
// The head is not included.
func (p *Plan) Trainable() []models.LayerEntry {
	return p.filter(func(e models.LayerEntry) bool { return p.trainable[e.Index] })
}

// Frozen returns the backbone layers that receive no gradient updates
func (p *Plan) Frozen() []models.LayerEntry {
	return p.filter(func(e models.LayerEntry) bool { return !p.trainable[e.Index] })
}

// Effective returns the unfrozen layers that actually carry parameters.
//
// Selected activation and pooling layers are dropped.
func (p *Plan) Effective() []models.LayerEntry {
	return p.filter(func(e models.LayerEntry) bool {
		return p.trainable[e.Index] && e.Kind.HasParameters()
	})
}

// TrainableNames returns the names of everything that is trained, in
// table order, with the head last.
func (p *Plan) TrainableNames() []string {
	var names []string
	for _, e := range p.Trainable() {
		names = append(names, e.Name)
	}
	return append(names, p.head.Name)
}

// EffectiveNames is TrainableNames restricted to parameterised layers.
func (p *Plan) EffectiveNames() []string {
	var names []string
	for _, e := range p.Effective() {
		names = append(names, e.Name)
	}
	return append(names, p.head.Name)
}

func (p *Plan) filter(keep func(models.LayerEntry) bool) []models.LayerEntry {
	var out []models.LayerEntry
	for _, e := range p.family.Layers.Entries() {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Summary is the serializable form of a plan
type Summary struct {
	ModelID   string   `yaml:"model_id,omitempty"`
	Family    string   `yaml:"family"`
	Type      string   `yaml:"type,omitempty"`
	Head      Head     `yaml:"head"`
	Selection string   `yaml:"trainable_layers"`
	Trainable []string `yaml:"trainable"`
	Effective []string `yaml:"effective"`
	Frozen    []string `yaml:"frozen"`
}

// Summarize returns the serializable form of the plan
func (p *Plan) Summarize() Summary {
	s := Summary{
		Family:    string(p.family.ID),
		Type:      p.variant,
		Head:      p.head,
		Selection: p.selection.String(),
		Trainable: p.TrainableNames(),
		Effective: p.EffectiveNames(),
		Frozen:    []string{},
	}
	for _, e := range p.Frozen() {
		s.Frozen = append(s.Frozen, e.Name)
	}
	return s
}
