package routedevent

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Registry interns routed-event descriptors by (owner, name). It is an
// explicitly owned instance so independent applications and tests never
// share registration state. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	byKey map[descKey]*Descriptor
	seq   atomic.Uint64
}

// NewRegistry creates an empty event registry.
func NewRegistry() *Registry {
	return &Registry{
		byKey: make(map[descKey]*Descriptor),
	}
}

// Register interns a new descriptor. It fails with ErrDuplicateRegistration
// if (owner, name) already exists; the existing registration is untouched.
func (r *Registry) Register(name string, strategy Strategy, owner string) (*Descriptor, error) {
	if name == "" || owner == "" {
		return nil, ErrInvalidName
	}

	desc := &Descriptor{
		name:     name,
		owner:    owner,
		strategy: strategy,
		registry: r,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKey[desc.key()]; exists {
		return nil, ErrDuplicateRegistration
	}
	desc.sequence = r.seq.Add(1)
	r.byKey[desc.key()] = desc
	return desc, nil
}

// AddOwner mints a sibling descriptor sharing desc's name and strategy under
// a new owner key. The same duplicate rule applies.
func (r *Registry) AddOwner(desc *Descriptor, newOwner string) (*Descriptor, error) {
	if desc == nil || desc.registry != r {
		return nil, ErrInvalidDescriptor
	}
	return r.Register(desc.name, desc.strategy, newOwner)
}

// Lookup returns the descriptor registered under (owner, name).
func (r *Registry) Lookup(owner, name string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.byKey[descKey{owner: owner, name: name}]
	return desc, ok
}

// All returns every registered descriptor in registration order.
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.byKey) == 0 {
		return nil
	}
	out := make([]*Descriptor, 0, len(r.byKey))
	for _, desc := range r.byKey {
		out = append(out, desc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].sequence < out[j].sequence
	})
	return out
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey)
}
