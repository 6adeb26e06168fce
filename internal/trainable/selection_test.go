package trainable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		in   string
		want Selection
	}{
		{"", nil},
		{"none", nil},
		{"NONE", nil},
		{"0", Selection{0}},
		{"3, 2", Selection{2, 3}},
		{"0,4-7", Selection{0, 4, 5, 6, 7}},
		{"5-5,5", Selection{5}},
		{"-1", Selection{-1}},
		{"16", Selection{16}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSelection(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSelectionErrors(t *testing.T) {
	for _, in := range []string{"a", "1,,2", "7-4", "1-x", "x-1", "1-2-3"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseSelection(in)
			assert.Error(t, err)
		})
	}
}

func TestSelectionString(t *testing.T) {
	assert.Equal(t, "none", Selection(nil).String())
	assert.Equal(t, "none", Selection{}.String())
	assert.Equal(t, "0,4-7", NewSelection(7, 6, 5, 4, 0).String())
	assert.Equal(t, "2,3", NewSelection(2, 3).String())
	assert.Equal(t, "1,3,5", NewSelection(5, 3, 1, 3).String())
}
