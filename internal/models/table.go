// Package models - table.go defines the per-family layer index tables.
//
// A LayerTable lists the structural units of a pretrained backbone in
// input-to-output order. The position of a unit in the list is its index,
// which is what a trainable_layers selection refers to. The classifier head
// is not part of the table.
package models

import (
	"fmt"
	"strings"
)

// Kind classifies a backbone layer by what it does
type Kind string

const (
	KindConv       Kind = "conv"
	KindNorm       Kind = "norm"
	KindActivation Kind = "activation"
	KindPooling    Kind = "pooling"
	KindBlock      Kind = "block"
	KindTransition Kind = "transition"
	KindInception  Kind = "inception"
)

// HasParameters reports whether layers of this kind carry weights.
//
// Activation and pooling layers have nothing to update, so marking them
// trainable has no effect on training.
func (k Kind) HasParameters() bool {
	switch k {
	case KindActivation, KindPooling:
		return false
	default:
		return true
	}
}

// LayerEntry is one named unit of a backbone
type LayerEntry struct {
	// Name is the attribute name of the unit in the pretrained model
	// (e.g., "conv1", "denseblock2", "inception4c")
	Name string `yaml:"name" json:"name"`

	// Index is the position of the unit, counted from the input
	Index int `yaml:"index" json:"index"`

	// Kind classifies the unit
	Kind Kind `yaml:"kind" json:"kind"`
}

// LayerTable is an immutable name/index mapping for one family.
//
// Thread Safety: A LayerTable is never modified after construction and
// may be shared between goroutines.
type LayerTable struct {
	family  FamilyID
	entries []LayerEntry
	byName  map[string]int
}

// NewLayerTable builds a table from entries in architectural order.
//
// Entries must carry indices 0..n-1 in order and unique, non-empty names.
//
// Parameters:
//   - family: Family the table belongs to (used in error messages)
//   - entries: Layer entries, input to output
//
// Returns:
//   - The table, or an error describing the first broken invariant
func NewLayerTable(family FamilyID, entries ...LayerEntry) (*LayerTable, error) {
	t := &LayerTable{
		family:  family,
		entries: make([]LayerEntry, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	copy(t.entries, entries)

	for i, e := range t.entries {
		if e.Index != i {
			return nil, fmt.Errorf("family %s: layer %q has index %d, expected %d", family, e.Name, e.Index, i)
		}
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("family %s: layer %d has no name", family, i)
		}
		if _, dup := t.byName[e.Name]; dup {
			return nil, fmt.Errorf("family %s: duplicate layer name %q", family, e.Name)
		}
		if e.Kind == "" {
			return nil, fmt.Errorf("family %s: layer %q has no kind", family, e.Name)
		}
		t.byName[e.Name] = i
	}

	return t, nil
}

// MustLayerTable is like NewLayerTable but panics on error.
//
// Intended for the package-level tables declared by the family packages.
func MustLayerTable(family FamilyID, entries ...LayerEntry) *LayerTable {
	t, err := NewLayerTable(family, entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Family returns the ID of the family the table belongs to
func (t *LayerTable) Family() FamilyID {
	return t.family
}

// Len returns the number of layers in the table
func (t *LayerTable) Len() int {
	return len(t.entries)
}

// Entries returns a copy of all entries in index order
func (t *LayerTable) Entries() []LayerEntry {
	out := make([]LayerEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Contains reports whether index is a valid index in the table
func (t *LayerTable) Contains(index int) bool {
	return index >= 0 && index < len(t.entries)
}

// Lookup returns the entry at index.
//
// Returns:
//   - The entry, or an *IndexError wrapping ErrIndexNotFound when index is
//     negative or not less than Len()
func (t *LayerTable) Lookup(index int) (LayerEntry, error) {
	if !t.Contains(index) {
		return LayerEntry{}, &IndexError{
			Family: t.family,
			Index:  index,
			Len:    len(t.entries),
			Err:    ErrIndexNotFound,
		}
	}
	return t.entries[index], nil
}

// Name returns the layer name at index
func (t *LayerTable) Name(index int) (string, error) {
	e, err := t.Lookup(index)
	if err != nil {
		return "", err
	}
	return e.Name, nil
}

// IndexOf returns the index of the named layer.
func (t *LayerTable) IndexOf(name string) (int, error) {
	i, ok := t.byName[name]
	if !ok {
		return -1, fmt.Errorf("%w: %q in family %s", ErrLayerNotFound, name, t.family)
	}
	return i, nil
}

// Names returns all layer names in index order
func (t *LayerTable) Names() []string {
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.Name
	}
	return names
}
