package models

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds the known families keyed by ID.
//
// Thread Safety: All methods are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	families map[FamilyID]*Family
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{families: make(map[FamilyID]*Family)}
}

var defaultRegistry = NewRegistry()

// Register adds a family to the registry.
//
// A duplicate ID or an invalid definition is a programming error and
// panics.
func (r *Registry) Register(f *Family) {
	if err := f.Validate(); err != nil {
		panic(fmt.Sprintf("models: invalid family: %v", err))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.families[f.ID]; exists {
		panic(fmt.Sprintf("models: family %s registered twice", f.ID))
	}
	r.families[f.ID] = f
}

// Get returns the family registered under id. The lookup ignores case
// and surrounding spaces.
//
// Returns:
//   - The family, or an error wrapping ErrUnknownFamily
func (r *Registry) Get(id string) (*Family, error) {
	key := FamilyID(strings.ToLower(strings.TrimSpace(id)))

	r.mu.RLock()
	f, ok := r.families[key]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownFamily, id, strings.Join(r.IDs(), ", "))
	}
	return f, nil
}

// List returns all families sorted by ID
func (r *Registry) List() []*Family {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Family, 0, len(r.families))
	for _, f := range r.families {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns all registered family IDs sorted
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.families))
	for id := range r.families {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	return ids
}

// Register adds a family to the default registry
func Register(f *Family) { defaultRegistry.Register(f) }

// Get looks a family up in the default registry
func Get(id string) (*Family, error) { return defaultRegistry.Get(id) }

// List returns all families in the default registry
func List() []*Family { return defaultRegistry.List() }

// IDs returns the IDs in the default registry
func IDs() []string { return defaultRegistry.IDs() }
