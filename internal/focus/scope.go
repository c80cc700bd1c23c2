package focus

import (
	"sync"

	"github.com/dshills/glint/internal/element"
)

// Member is one focusable element registered in a scope.
type Member struct {
	// Element is the registered element.
	Element element.ID

	// TabIndex orders tab navigation; lower values come first.
	TabIndex int

	// TabStop includes the member in tab navigation.
	TabStop bool

	// Focusable allows the member to receive focus at all.
	Focusable bool

	// order is the registration sequence within the scope; it breaks
	// tab-index ties.
	order int
}

// MemberOption configures a member at registration.
type MemberOption func(*Member)

// WithTabIndex sets the member's tab index (default 0).
func WithTabIndex(index int) MemberOption {
	return func(m *Member) {
		m.TabIndex = index
	}
}

// WithTabStop excludes or includes the member from tab navigation
// (default included).
func WithTabStop(stop bool) MemberOption {
	return func(m *Member) {
		m.TabStop = stop
	}
}

// WithFocusable marks the member focusable or not (default focusable).
func WithFocusable(focusable bool) MemberOption {
	return func(m *Member) {
		m.Focusable = focusable
	}
}

// Scope is one node of the focus-scope tree. It holds at most one logical
// and one keyboard focus reference at any time.
type Scope struct {
	name string

	mu        sync.RWMutex
	parent    *Scope
	children  []*Scope
	members   []Member
	nextOrder int
	holders   [2]element.ID // indexed by Type
}

// Name returns the scope name.
func (s *Scope) Name() string { return s.name }

// Parent returns the parent scope, nil for the root.
func (s *Scope) Parent() *Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.parent
}

// Children returns a copy of the child scopes.
func (s *Scope) Children() []*Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Scope, len(s.children))
	copy(out, s.children)
	return out
}

// AddMember registers el in the scope. Re-adding an existing member
// updates its options and keeps its original registration order.
func (s *Scope) AddMember(el element.ID, opts ...MemberOption) {
	if !el.IsValid() {
		return
	}
	member := Member{Element: el, TabStop: true, Focusable: true}
	for _, opt := range opts {
		opt(&member)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.members {
		if existing.Element == el {
			member.order = existing.order
			s.members[i] = member
			return
		}
	}
	member.order = s.nextOrder
	s.nextOrder++
	s.members = append(s.members, member)
}

// RemoveMember unregisters el. If el currently holds the scope's logical or
// keyboard focus, exactly that reference is cleared; focus never cascades
// to a sibling. The cleared focus types are returned so the manager can
// notify observers.
func (s *Scope) RemoveMember(el element.ID) []Type {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i, member := range s.members {
		if member.Element == el {
			s.members = append(s.members[:i], s.members[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	var cleared []Type
	for _, t := range []Type{Logical, Keyboard} {
		if s.holders[t] == el {
			s.holders[t] = element.None
			cleared = append(cleared, t)
		}
	}
	return cleared
}

// Member returns el's registration, if present.
func (s *Scope) Member(el element.ID) (Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, member := range s.members {
		if member.Element == el {
			return member, true
		}
	}
	return Member{}, false
}

// Members returns a copy of the scope's members in registration order.
func (s *Scope) Members() []Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Member, len(s.members))
	copy(out, s.members)
	return out
}

// Holder returns the scope's current focus reference for t.
func (s *Scope) Holder(t Type) element.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.holders[t]
}

// setHolder installs el as the holder for t and returns the previous one.
func (s *Scope) setHolder(t Type, el element.ID) element.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.holders[t]
	s.holders[t] = el
	return old
}

// containsFocusable reports whether el is a focusable member of the scope.
func (s *Scope) containsFocusable(el element.ID) bool {
	member, ok := s.Member(el)
	return ok && member.Focusable
}
