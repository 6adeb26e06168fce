package app

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/tsingmaoai/xw-tune/internal/models"
	"github.com/tsingmaoai/xw-tune/internal/trainable"
)

// familyValue is a pflag.Value that accepts registered family IDs only
type familyValue struct {
	family *models.Family
}

var _ pflag.Value = (*familyValue)(nil)

func (f *familyValue) String() string {
	if f.family == nil {
		return ""
	}
	return string(f.family.ID)
}

func (f *familyValue) Set(s string) error {
	family, err := models.Get(s)
	if err != nil {
		return err
	}
	f.family = family
	return nil
}

func (f *familyValue) Type() string {
	return strings.Join(models.IDs(), "|")
}

// selectionValue is a pflag.Value parsing "0,4-7" style selections
type selectionValue struct {
	sel trainable.Selection
}

var _ pflag.Value = (*selectionValue)(nil)

func (s *selectionValue) String() string {
	if s.sel == nil {
		return ""
	}
	return s.sel.String()
}

func (s *selectionValue) Set(v string) error {
	sel, err := trainable.ParseSelection(v)
	if err != nil {
		return err
	}
	s.sel = sel
	return nil
}

func (s *selectionValue) Type() string {
	return "indices"
}
