package focus

import (
	"errors"
	"sync"

	"github.com/dshills/glint/internal/element"
)

// RootScopeName is the name of the scope every manager is born with.
const RootScopeName = "root"

// Errors returned by scope registration.
var (
	// ErrDuplicateScope is returned when a scope name already exists.
	ErrDuplicateScope = errors.New("focus scope already registered")

	// ErrInvalidScope is returned for an empty scope name or nil parent.
	ErrInvalidScope = errors.New("invalid focus scope")
)

// Subscription is an active focus-changed subscription.
type Subscription struct {
	id      uint64
	manager *Manager
}

// Unsubscribe removes the subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.manager != nil {
		s.manager.unsubscribe(s.id)
	}
}

// Manager owns the focus-scope tree and coordinates focus changes.
// Mutations are designed to run on the application's serialized input
// sequence; scope registration and lookups are safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	scopes map[string]*Scope
	root   *Scope
	active *Scope
	byEl   map[element.ID]*Scope

	subMu  sync.RWMutex
	subs   map[uint64]func(Change)
	subIDs []uint64
	subSeq uint64

	strategy  Strategy
	announcer Announcer
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithStrategy replaces the default tab navigation strategy.
func WithStrategy(s Strategy) ManagerOption {
	return func(m *Manager) {
		if s != nil {
			m.strategy = s
		}
	}
}

// WithAnnouncer sets the element-facing lost/got focus announcer.
func WithAnnouncer(a Announcer) ManagerOption {
	return func(m *Manager) {
		m.announcer = a
	}
}

// NewManager creates a focus manager with a root scope, which starts
// active.
func NewManager(opts ...ManagerOption) *Manager {
	root := &Scope{name: RootScopeName}
	m := &Manager{
		scopes:   map[string]*Scope{RootScopeName: root},
		root:     root,
		active:   root,
		byEl:     make(map[element.ID]*Scope),
		subs:     make(map[uint64]func(Change)),
		strategy: TabStrategy{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Root returns the root scope.
func (m *Manager) Root() *Scope {
	return m.root
}

// RegisterScope creates a scope named name under parent. A nil parent
// attaches to the root.
func (m *Manager) RegisterScope(name string, parent *Scope) (*Scope, error) {
	if name == "" {
		return nil, ErrInvalidScope
	}
	if parent == nil {
		parent = m.root
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.scopes[name]; exists {
		return nil, ErrDuplicateScope
	}
	scope := &Scope{name: name, parent: parent}
	parent.mu.Lock()
	parent.children = append(parent.children, scope)
	parent.mu.Unlock()
	m.scopes[name] = scope
	return scope, nil
}

// FindScope returns the scope registered under name.
func (m *Manager) FindScope(name string) (*Scope, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	scope, ok := m.scopes[name]
	return scope, ok
}

// UnregisterScope removes a scope. Its child scopes are re-parented to the
// removed scope's parent. If the removed scope was active, active-scope
// status transfers to the root. The root scope cannot be removed.
func (m *Manager) UnregisterScope(name string) bool {
	if name == RootScopeName {
		return false
	}

	m.mu.Lock()
	scope, ok := m.scopes[name]
	if !ok {
		m.mu.Unlock()
		return false
	}
	delete(m.scopes, name)

	parent := scope.Parent()
	parent.mu.Lock()
	for i, child := range parent.children {
		if child == scope {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}
	parent.mu.Unlock()

	for _, child := range scope.Children() {
		child.mu.Lock()
		child.parent = parent
		child.mu.Unlock()
		parent.mu.Lock()
		parent.children = append(parent.children, child)
		parent.mu.Unlock()
	}

	// Drop member->scope bindings into the dead scope.
	for el, owner := range m.byEl {
		if owner == scope {
			delete(m.byEl, el)
		}
	}

	wasActive := m.active == scope
	if wasActive {
		m.active = m.root
	}
	m.mu.Unlock()
	return true
}

// ActiveScope returns the scope focus operations default to.
func (m *Manager) ActiveScope() *Scope {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// SetActiveScope makes scope the default for focus operations. A nil scope
// activates the root.
func (m *Manager) SetActiveScope(scope *Scope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if scope == nil {
		scope = m.root
	}
	m.active = scope
}

// AddMember registers el into scope (nil for the active scope) and records
// the element-to-scope binding used by SetFocus.
func (m *Manager) AddMember(scope *Scope, el element.ID, opts ...MemberOption) {
	if !el.IsValid() {
		return
	}
	if scope == nil {
		scope = m.ActiveScope()
	}
	scope.AddMember(el, opts...)
	m.mu.Lock()
	m.byEl[el] = scope
	m.mu.Unlock()
}

// RemoveMember unregisters el from its scope. If el held that scope's
// logical or keyboard focus, exactly that reference is cleared and
// observers are notified with ReasonRemoval.
func (m *Manager) RemoveMember(el element.ID) {
	m.mu.Lock()
	scope, ok := m.byEl[el]
	if ok {
		delete(m.byEl, el)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	for _, t := range scope.RemoveMember(el) {
		m.announceLost(el, t)
		m.notify(Change{Old: el, New: element.None, Scope: scope.Name(), Type: t, Reason: ReasonRemoval})
	}
}

// ScopeOf returns the scope el is registered in.
func (m *Manager) ScopeOf(el element.ID) (*Scope, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	scope, ok := m.byEl[el]
	return scope, ok
}

// SetFocus makes el the holder of focus type t in its own scope, or clears
// focus in the active scope when el is element.None. It returns false —
// with no state change — when el is not a focusable member of any scope.
func (m *Manager) SetFocus(el element.ID, t Type) bool {
	return m.setFocus(el, t, ReasonProgrammatic)
}

// SetFocusWithReason is SetFocus carrying an explicit reason for observers.
func (m *Manager) SetFocusWithReason(el element.ID, t Type, reason Reason) bool {
	return m.setFocus(el, t, reason)
}

func (m *Manager) setFocus(el element.ID, t Type, reason Reason) bool {
	var scope *Scope
	if el.IsValid() {
		owner, ok := m.ScopeOf(el)
		if !ok || !owner.containsFocusable(el) {
			return false
		}
		scope = owner
	} else {
		scope = m.ActiveScope()
	}

	old := scope.setHolder(t, el)
	if old == el {
		return true
	}

	if old.IsValid() {
		m.announceLost(old, t)
	}
	if el.IsValid() {
		m.announceGot(el, t)
	}
	m.notify(Change{Old: old, New: el, Scope: scope.Name(), Type: t, Reason: reason})
	return true
}

// ClearFocus clears focus type t in the active scope.
func (m *Manager) ClearFocus(t Type) {
	m.setFocus(element.None, t, ReasonProgrammatic)
}

// Focused returns the holder of focus type t in the active scope.
func (m *Manager) Focused(t Type) (element.ID, bool) {
	holder := m.ActiveScope().Holder(t)
	return holder, holder.IsValid()
}

// MoveFocus asks the navigation strategy for the next keyboard-focus holder
// in scope (nil for the active scope) and installs it. Returns false when
// the strategy reports no match.
func (m *Manager) MoveFocus(dir Direction, scope *Scope) bool {
	if scope == nil {
		scope = m.ActiveScope()
	}
	current := scope.Holder(Keyboard)
	next, ok := m.strategy.Move(scope, current, dir)
	if !ok || !next.IsValid() {
		return false
	}
	return m.setFocus(next, Keyboard, ReasonNavigation)
}

// Subscribe registers a focus-changed observer. Observers run synchronously
// in registration order.
func (m *Manager) Subscribe(fn func(Change)) *Subscription {
	if fn == nil {
		return &Subscription{}
	}
	m.subMu.Lock()
	defer m.subMu.Unlock()
	m.subSeq++
	id := m.subSeq
	m.subs[id] = fn
	m.subIDs = append(m.subIDs, id)
	return &Subscription{id: id, manager: m}
}

func (m *Manager) unsubscribe(id uint64) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	delete(m.subs, id)
	for i, v := range m.subIDs {
		if v == id {
			m.subIDs = append(m.subIDs[:i], m.subIDs[i+1:]...)
			break
		}
	}
}

func (m *Manager) notify(change Change) {
	m.subMu.RLock()
	fns := make([]func(Change), 0, len(m.subIDs))
	for _, id := range m.subIDs {
		if fn, ok := m.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	m.subMu.RUnlock()

	for _, fn := range fns {
		fn(change)
	}
}

func (m *Manager) announceLost(el element.ID, t Type) {
	if m.announcer != nil {
		m.announcer.AnnounceLost(el, t)
	}
}

func (m *Manager) announceGot(el element.ID, t Type) {
	if m.announcer != nil {
		m.announcer.AnnounceGot(el, t)
	}
}
