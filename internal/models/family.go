// Package models provides the pretrained backbone families and their layer
// index tables.
//
// Each family is defined in its own subpackage (resnet/, densenet/,
// googlenet/) and registers itself from init(). Callers look families up
// by ID through Get or the Registry type.
package models

import (
	"fmt"
	"strings"
)

// FamilyID identifies an architecture family (e.g., "resnet")
type FamilyID string

const (
	FamilyDenseNet  FamilyID = "densenet"
	FamilyGoogLeNet FamilyID = "googlenet"
	FamilyResNet    FamilyID = "resnet"
)

// Family describes one group of pretrained architectures that share a
// layer index table.
type Family struct {
	// ID is the unique family identifier, lower case
	ID FamilyID

	// DisplayName is the human-readable name (e.g., "ResNet")
	DisplayName string

	// Description is a one-line summary shown by the CLI
	Description string

	// Variants lists the accepted depth types (e.g., "34", "50").
	// All variants share Layers. An empty list means the family has a
	// single architecture and only an empty type is accepted.
	Variants []string

	// Head is the attribute name of the classifier head, which is always
	// trainable and is not part of Layers
	Head string

	// Layers is the backbone layer index table
	Layers *LayerTable
}

// String returns the family ID
func (f *Family) String() string {
	return string(f.ID)
}

// SupportsVariant reports whether variant is one of the family's depth types
func (f *Family) SupportsVariant(variant string) bool {
	for _, v := range f.Variants {
		if v == variant {
			return true
		}
	}
	return false
}

// ValidateVariant checks a depth type against the family.
//
// An empty variant is always accepted. Anything else must be listed in
// Variants.
//
// Returns:
//   - nil if accepted, or an error wrapping ErrUnknownVariant
func (f *Family) ValidateVariant(variant string) error {
	if variant == "" || f.SupportsVariant(variant) {
		return nil
	}
	if len(f.Variants) == 0 {
		return fmt.Errorf("%w: family %s has no variants, got %q", ErrUnknownVariant, f.ID, variant)
	}
	return fmt.Errorf("%w: %q for family %s (supported: %s)",
		ErrUnknownVariant, variant, f.ID, strings.Join(f.Variants, ", "))
}

// Validate checks that the family definition is complete.
//
// Returns:
//   - Error if validation fails, nil otherwise
func (f *Family) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("family ID cannot be empty")
	}
	if string(f.ID) != strings.ToLower(string(f.ID)) {
		return fmt.Errorf("family ID %q must be lower case", f.ID)
	}
	if f.Head == "" {
		return fmt.Errorf("family %s must name its classifier head", f.ID)
	}
	if f.Layers == nil || f.Layers.Len() == 0 {
		return fmt.Errorf("family %s must define at least one layer", f.ID)
	}
	if f.Layers.Family() != f.ID {
		return fmt.Errorf("family %s: layer table belongs to %s", f.ID, f.Layers.Family())
	}
	if _, err := f.Layers.IndexOf(f.Head); err == nil {
		return fmt.Errorf("family %s: head %q must not appear in the layer table", f.ID, f.Head)
	}
	return nil
}
