package capture

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/glint/internal/element"
	"github.com/dshills/glint/internal/pointer"
)

// Kind selects how much of the tree a capture claims.
type Kind uint8

const (
	// KindElement redirects events to the captured element alone.
	KindElement Kind = iota
	// KindSubtree marks the capture as covering the element's subtree;
	// the toolkit's hit-test layer may use this to keep hit-testing
	// within the captured branch.
	KindSubtree
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindSubtree:
		return "subtree"
	default:
		return "unknown"
	}
}

// Entry is one pointer's capture record. The Target reference is
// non-owning; the manager never extends the element's lifetime.
type Entry struct {
	// Target is the element receiving redirected events.
	Target element.ID

	// Pointer is the captured pointer identity.
	Pointer pointer.ID

	// Kind is the capture kind.
	Kind Kind

	// AutoRelease allows the policy to release this capture implicitly.
	AutoRelease bool

	// AcquiredAt is when the capture was taken, used by the expiry sweep.
	AcquiredAt time.Time

	// Token uniquely identifies this acquisition, distinguishing a
	// replaced capture from the original in notifications.
	Token uuid.UUID
}

// Change describes a capture-table mutation delivered to subscribers.
type Change struct {
	// Pointer is the affected pointer identity.
	Pointer pointer.ID

	// Old is the previously captured element, or element.None.
	Old element.ID

	// New is the newly captured element, or element.None on release.
	New element.ID

	// Kind is the kind of the new capture; meaningful only when New is
	// valid.
	Kind Kind
}

// Subscription is an active capture-change subscription.
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

// Manager owns the capture table. Entry replacement and removal are atomic
// per pointer identity; operations on distinct pointers do not order with
// respect to each other.
type Manager struct {
	mu      sync.RWMutex
	entries map[pointer.ID]Entry

	subMu  sync.RWMutex
	subs   map[uint64]func(Change)
	subSeq uint64
	subIDs []uint64

	tree    element.Tree
	policy  Policy
	timeout time.Duration
	nested  bool

	clock func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithTree supplies the tree capability used to validate capture targets.
// Without a tree, liveness is not checked.
func WithTree(tree element.Tree) Option {
	return func(m *Manager) {
		m.tree = tree
	}
}

// WithPolicy replaces the auto-capture/auto-release policy.
func WithPolicy(p Policy) Option {
	return func(m *Manager) {
		if p != nil {
			m.policy = p
		}
	}
}

// WithTimeout sets the capture age limit enforced by CleanupExpired.
// Zero disables expiry.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.timeout = d
		}
	}
}

// WithNestedCapture allows re-capturing a pointer that already has an
// entry. Disabled by default: a second capture attempt on a captured
// pointer fails.
func WithNestedCapture(enabled bool) Option {
	return func(m *Manager) {
		m.nested = enabled
	}
}

// withClock overrides the time source for tests.
func withClock(clock func() time.Time) Option {
	return func(m *Manager) {
		m.clock = clock
	}
}

// NewManager creates a capture manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		entries: make(map[pointer.ID]Entry),
		subs:    make(map[uint64]func(Change)),
		policy:  DefaultPolicy{},
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Capture acquires capture of el for pointer p. It returns false when p is
// already captured and nested capture is disabled, or when el is not live
// in the tree. An existing entry is replaced atomically; subscribers see
// one change with both the old and new targets.
func (m *Manager) Capture(el element.ID, p pointer.ID, kind Kind, autoRelease bool) bool {
	if !el.IsValid() {
		return false
	}
	if m.tree != nil && !m.tree.Live(el) {
		return false
	}

	m.mu.Lock()
	old, exists := m.entries[p]
	if exists && !m.nested {
		m.mu.Unlock()
		return false
	}
	entry := Entry{
		Target:      el,
		Pointer:     p,
		Kind:        kind,
		AutoRelease: autoRelease,
		AcquiredAt:  m.clock(),
		Token:       uuid.New(),
	}
	m.entries[p] = entry
	m.mu.Unlock()

	change := Change{Pointer: p, New: el, Kind: kind}
	if exists {
		change.Old = old.Target
	}
	m.notify(change)
	return true
}

// Release drops p's capture entry if present. It is idempotent: releasing
// an uncaptured pointer returns false with no notification.
func (m *Manager) Release(p pointer.ID) bool {
	m.mu.Lock()
	old, exists := m.entries[p]
	if exists {
		delete(m.entries, p)
	}
	m.mu.Unlock()

	if !exists {
		return false
	}
	m.notify(Change{Pointer: p, Old: old.Target})
	return true
}

// ReleaseElement releases every capture targeting el and returns the count.
// Element owners call this when tearing el down.
func (m *Manager) ReleaseElement(el element.ID) int {
	m.mu.Lock()
	var released []Entry
	for p, entry := range m.entries {
		if entry.Target == el {
			released = append(released, entry)
			delete(m.entries, p)
		}
	}
	m.mu.Unlock()

	for _, entry := range released {
		m.notify(Change{Pointer: entry.Pointer, Old: entry.Target})
	}
	return len(released)
}

// Get returns p's capture entry.
func (m *Manager) Get(p pointer.ID) (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[p]
	return entry, ok
}

// Len returns the number of live capture entries.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Process resolves the dispatch target override for a pointer event.
//
// For a captured pointer, the policy first decides auto-release; a released
// event falls back to normal hit-testing ("no override"). Otherwise the
// captured element overrides the target. For an uncaptured pointer, the
// policy decides auto-capture of the event's hit-test target.
func (m *Manager) Process(ev pointer.Event) (element.ID, bool) {
	if entry, ok := m.Get(ev.Pointer); ok {
		if m.policy.ShouldAutoRelease(entry, ev) {
			m.Release(ev.Pointer)
			return element.None, false
		}
		return entry.Target, true
	}

	if ev.HitTarget.IsValid() && m.policy.ShouldAutoCapture(ev) {
		if m.Capture(ev.HitTarget, ev.Pointer, KindElement, true) {
			return ev.HitTarget, true
		}
	}
	return element.None, false
}

// CleanupExpired releases every entry older than the configured timeout and
// returns the count released. Callers run it from a periodic sweep; with a
// zero timeout it does nothing.
func (m *Manager) CleanupExpired(now time.Time) int {
	if m.timeout <= 0 {
		return 0
	}

	m.mu.Lock()
	var expired []Entry
	for p, entry := range m.entries {
		if now.Sub(entry.AcquiredAt) > m.timeout {
			expired = append(expired, entry)
			delete(m.entries, p)
		}
	}
	m.mu.Unlock()

	for _, entry := range expired {
		m.notify(Change{Pointer: entry.Pointer, Old: entry.Target})
	}
	return len(expired)
}

// Subscribe registers a capture-change observer. Observers run
// synchronously in registration order, outside the table locks.
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

// notify delivers a change to subscribers in registration order.
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
