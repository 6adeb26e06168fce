package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidIndex is returned when a layer index is not part of a
	// family's layer table.
	ErrInvalidIndex = errors.New("invalid layer index")

	// ErrIndexNotFound is returned by table lookups for an index outside
	// the table. It wraps ErrInvalidIndex.
	ErrIndexNotFound = fmt.Errorf("%w: index not found", ErrInvalidIndex)

	// ErrLayerNotFound is returned when a layer name is not in the table.
	ErrLayerNotFound = errors.New("layer not found")

	// ErrUnknownFamily is returned when no family is registered under an ID.
	ErrUnknownFamily = errors.New("unknown architecture family")

	// ErrUnknownVariant is returned when a depth type is not one of the
	// family's variants.
	ErrUnknownVariant = errors.New("unknown architecture variant")
)

// IndexError reports an index that falls outside a family's layer table.
type IndexError struct {
	Family FamilyID
	Index  int
	Len    int
	Err    error
}

func (e *IndexError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("%v: layer index %d, family %s has no layers", e.Err, e.Index, e.Family)
	}
	return fmt.Sprintf("%v: layer index %d is outside [0, %d] for family %s",
		e.Err, e.Index, e.Len-1, e.Family)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}
