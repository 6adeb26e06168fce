package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFamily(t *testing.T, id FamilyID) *Family {
	t.Helper()
	return &Family{
		ID:       id,
		Head:     "fc",
		Variants: []string{"18"},
		Layers:   MustLayerTable(id, LayerEntry{Name: "conv", Index: 0, Kind: KindConv}),
	}
}

func TestRegistryGetIsCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(testFamily(t, "alpha"))

	f, err := r.Get(" ALPHA ")
	require.NoError(t, err)
	assert.Equal(t, FamilyID("alpha"), f.ID)

	_, err = r.Get("beta")
	assert.ErrorIs(t, err, ErrUnknownFamily)
}

func TestRegistryListSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(testFamily(t, "zeta"))
	r.Register(testFamily(t, "alpha"))

	assert.Equal(t, []string{"alpha", "zeta"}, r.IDs())
	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, FamilyID("alpha"), list[0].ID)
}

func TestRegisterPanics(t *testing.T) {
	r := NewRegistry()
	r.Register(testFamily(t, "alpha"))

	assert.Panics(t, func() { r.Register(testFamily(t, "alpha")) }, "duplicate")

	headInTable := testFamily(t, "gamma")
	headInTable.Head = "conv"
	assert.Panics(t, func() { r.Register(headInTable) }, "head in table")

	mismatched := testFamily(t, "delta")
	mismatched.Layers = MustLayerTable("other", LayerEntry{Name: "conv", Index: 0, Kind: KindConv})
	assert.Panics(t, func() { r.Register(mismatched) }, "table of another family")

	upper := testFamily(t, "Upper")
	assert.Panics(t, func() { r.Register(upper) }, "upper-case ID")
}

func TestValidateVariant(t *testing.T) {
	f := testFamily(t, "alpha")

	assert.NoError(t, f.ValidateVariant(""))
	assert.NoError(t, f.ValidateVariant("18"))
	assert.ErrorIs(t, f.ValidateVariant("50"), ErrUnknownVariant)

	f.Variants = nil
	assert.ErrorIs(t, f.ValidateVariant("18"), ErrUnknownVariant)
}
