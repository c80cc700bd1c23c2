package element

import "sync"

// DetachHook is called after an element is detached from a Map.
// Side tables register hooks to drop their references to the element.
type DetachHook func(id ID)

// Map is a reference in-memory element tree. It implements Tree and is safe
// for concurrent use. Tests and the demo binary use it in place of a real
// widget hierarchy.
type Map struct {
	mu       sync.RWMutex
	parents  map[ID]ID
	children map[ID][]ID
	hooks    []DetachHook
}

// NewMap creates an empty element map.
func NewMap() *Map {
	return &Map{
		parents:  make(map[ID]ID),
		children: make(map[ID][]ID),
	}
}

// Attach adds an element under parent and returns its new ID.
// Pass None as parent to attach a root.
func (m *Map) Attach(parent ID) ID {
	id := NewID()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parents[id] = parent
	if parent.IsValid() {
		m.children[parent] = append(m.children[parent], id)
	}
	return id
}

// SetParent moves id under newParent. Returns false if id is not attached.
func (m *Map) SetParent(id, newParent ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.parents[id]
	if !ok {
		return false
	}
	if old.IsValid() {
		m.children[old] = removeID(m.children[old], id)
	}
	m.parents[id] = newParent
	if newParent.IsValid() {
		m.children[newParent] = append(m.children[newParent], id)
	}
	return true
}

// Detach removes id and its entire subtree from the map. Detach hooks run
// for every removed element, leaf-first. Returns the number of elements
// removed.
func (m *Map) Detach(id ID) int {
	m.mu.Lock()
	removed := make([]ID, 0, 4)
	m.collectSubtree(id, &removed)
	if len(removed) == 0 {
		m.mu.Unlock()
		return 0
	}
	for _, el := range removed {
		parent := m.parents[el]
		if parent.IsValid() {
			m.children[parent] = removeID(m.children[parent], el)
		}
		delete(m.parents, el)
		delete(m.children, el)
	}
	hooks := make([]DetachHook, len(m.hooks))
	copy(hooks, m.hooks)
	m.mu.Unlock()

	// Run hooks outside the lock; hooks may call back into the map.
	for i := len(removed) - 1; i >= 0; i-- {
		for _, hook := range hooks {
			hook(removed[i])
		}
	}
	return len(removed)
}

// collectSubtree appends id and its descendants to out, parent-first.
// Caller holds the lock.
func (m *Map) collectSubtree(id ID, out *[]ID) {
	if _, ok := m.parents[id]; !ok {
		return
	}
	*out = append(*out, id)
	for _, child := range m.children[id] {
		m.collectSubtree(child, out)
	}
}

// OnDetach registers a hook invoked for every detached element.
func (m *Map) OnDetach(hook DetachHook) {
	if hook == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook)
}

// Parent implements Tree.
func (m *Map) Parent(id ID) (ID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	parent, ok := m.parents[id]
	if !ok || !parent.IsValid() {
		return None, false
	}
	return parent, true
}

// Live implements Tree.
func (m *Map) Live(id ID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.parents[id]
	return ok
}

// Children returns a copy of id's direct children in attach order.
func (m *Map) Children(id ID) []ID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	kids := m.children[id]
	if len(kids) == 0 {
		return nil
	}
	out := make([]ID, len(kids))
	copy(out, kids)
	return out
}

// Len returns the number of attached elements.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.parents)
}

func removeID(ids []ID, id ID) []ID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
