package trainable

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Selection is the set of backbone layer indices to unfreeze.
//
// A nil Selection means no selection was made, so only the classifier
// head is trained. An empty non-nil Selection is treated the same way.
// Use NewSelection or ParseSelection to build one; both return sorted,
// de-duplicated indices.
type Selection []int

// NewSelection builds a Selection from indices
func NewSelection(indices ...int) Selection {
	seen := make(map[int]bool, len(indices))
	out := make(Selection, 0, len(indices))
	for _, i := range indices {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// IsSet reports whether the selection names at least one layer
func (s Selection) IsSet() bool {
	return len(s) > 0
}

// ParseSelection parses a selection such as "0,4-7".
//
// Items are separated by commas. Each item is an index or an inclusive
// range "a-b" with a <= b. An empty string or "none" returns a nil
// Selection. Negative indices cannot be written as ranges but can be
// given on their own (e.g. "-1") so that they are reported as invalid
// indices later rather than as parse errors.
func ParseSelection(s string) (Selection, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil, nil
	}

	var indices []int
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			return nil, fmt.Errorf("empty item in selection %q", s)
		}

		if n, err := strconv.Atoi(item); err == nil {
			indices = append(indices, n)
			continue
		}

		lo, hi, ok := strings.Cut(item, "-")
		if !ok {
			return nil, fmt.Errorf("invalid selection item %q", item)
		}
		a, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid range start in %q: %w", item, err)
		}
		b, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("invalid range end in %q: %w", item, err)
		}
		if a > b {
			return nil, fmt.Errorf("range %q is reversed", item)
		}
		for i := a; i <= b; i++ {
			indices = append(indices, i)
		}
	}

	return NewSelection(indices...), nil
}

// String formats the selection compactly, collapsing runs into ranges.
// An unset selection prints as "none".
func (s Selection) String() string {
	if !s.IsSet() {
		return "none"
	}

	sorted := NewSelection(s...)
	var parts []string
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j+1] == sorted[j]+1 {
			j++
		}
		switch {
		case j == i:
			parts = append(parts, strconv.Itoa(sorted[i]))
		case j == i+1:
			parts = append(parts, strconv.Itoa(sorted[i]), strconv.Itoa(sorted[j]))
		default:
			parts = append(parts, fmt.Sprintf("%d-%d", sorted[i], sorted[j]))
		}
		i = j + 1
	}
	return strings.Join(parts, ",")
}
