package composition

import (
	"sync"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// ContextID identifies a text context (an editable element's input site).
// The zero value means no context.
type ContextID uint64

// IsValid returns true if the ID refers to a context.
func (c ContextID) IsValid() bool { return c != 0 }

// State is the composition engine state.
type State uint8

const (
	// Idle means no composition is in progress.
	Idle State = iota
	// Composing means an uncommitted preedit buffer is live.
	Composing
	// Selecting means a candidate list is offered on top of the buffer.
	Selecting
	// Disabled means the engine ignores all mutating calls.
	Disabled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Composing:
		return "composing"
	case Selecting:
		return "selecting"
	case Disabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Selection is a half-open range within the preedit buffer, in bytes.
type Selection struct {
	Start int
	End   int
}

// Preedit is a snapshot of the in-flight composition.
type Preedit struct {
	// Context is the text context being composed into.
	Context ContextID

	// Text is the uncommitted buffer.
	Text string

	// Selection is the active range within Text.
	Selection Selection

	// Candidates is the offered conversion list, empty outside Selecting.
	Candidates []string

	// SelectedIndex is the highlighted candidate, -1 when none.
	SelectedIndex int

	// Graphemes is the number of grapheme clusters in Text; callers
	// position carets per cluster.
	Graphemes int
}

// Commit is the record delivered to text-committed subscribers.
type Commit struct {
	// Context is the text context receiving the text.
	Context ContextID

	// Text is the committed text, NFC-normalized.
	Text string
}

// Change is the record delivered to state-change subscribers.
type Change struct {
	// Old and New are the states before and after the transition.
	Old State
	New State

	// Context is the session's text context, zero outside a session.
	Context ContextID
}

// Subscription is an active composition subscription.
type Subscription struct {
	id     uint64
	remove func(uint64)
}

// Unsubscribe removes the subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.remove != nil {
		s.remove(s.id)
	}
}

// Engine is the composition state machine. At most one session is live at
// a time, bound to one text context. Transitions are designed for the
// serialized input sequence; the internal lock only guards snapshot reads
// from other goroutines.
type Engine struct {
	mu sync.Mutex

	state      State
	context    ContextID
	buffer     string
	selection  Selection
	candidates []string
	selected   int

	subSeq    uint64
	onChange  map[uint64]func(Change)
	changeIDs []uint64
	onCommit  map[uint64]func(Commit)
	commitIDs []uint64
}

// NewEngine creates an enabled, idle composition engine.
func NewEngine() *Engine {
	return &Engine{
		state:    Idle,
		selected: -1,
		onChange: make(map[uint64]func(Change)),
		onCommit: make(map[uint64]func(Commit)),
	}
}

// State returns the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Enabled reports whether the engine accepts transitions.
func (e *Engine) Enabled() bool {
	return e.State() != Disabled
}

// Context returns the active session's text context, zero when idle.
func (e *Engine) Context() ContextID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.context
}

// Preedit returns a snapshot of the in-flight composition.
func (e *Engine) Preedit() Preedit {
	e.mu.Lock()
	defer e.mu.Unlock()
	candidates := make([]string, len(e.candidates))
	copy(candidates, e.candidates)
	return Preedit{
		Context:       e.context,
		Text:          e.buffer,
		Selection:     e.selection,
		Candidates:    candidates,
		SelectedIndex: e.selected,
		Graphemes:     uniseg.GraphemeClusterCount(e.buffer),
	}
}

// Start opens a composition session for ctx. The buffer and candidate list
// start empty.
func (e *Engine) Start(ctx ContextID) error {
	if !ctx.IsValid() {
		return ErrInvalidContext
	}

	e.mu.Lock()
	switch e.state {
	case Disabled:
		e.mu.Unlock()
		return ErrDisabled
	case Composing, Selecting:
		e.mu.Unlock()
		return ErrAlreadyComposing
	}
	old := e.state
	e.state = Composing
	e.context = ctx
	e.buffer = ""
	e.selection = Selection{}
	e.candidates = nil
	e.selected = -1
	e.mu.Unlock()

	e.notifyChange(Change{Old: old, New: Composing, Context: ctx})
	return nil
}

// Update replaces the preedit buffer wholesale.
func (e *Engine) Update(text string, sel Selection) error {
	e.mu.Lock()
	switch e.state {
	case Disabled:
		e.mu.Unlock()
		return nil // Mutations are no-ops while disabled.
	case Idle:
		e.mu.Unlock()
		return ErrNotComposing
	}
	e.buffer = text
	e.selection = sel
	e.mu.Unlock()
	return nil
}

// SetCandidates installs a candidate list. A non-empty list moves the
// session to Selecting; an empty list returns it to Composing.
func (e *Engine) SetCandidates(list []string, selected int) error {
	e.mu.Lock()
	switch e.state {
	case Disabled:
		e.mu.Unlock()
		return nil
	case Idle:
		e.mu.Unlock()
		return ErrNotComposing
	}

	old := e.state
	ctx := e.context
	if len(list) == 0 {
		e.candidates = nil
		e.selected = -1
		e.state = Composing
	} else {
		e.candidates = make([]string, len(list))
		copy(e.candidates, list)
		if selected < 0 || selected >= len(list) {
			selected = 0
		}
		e.selected = selected
		e.state = Selecting
	}
	newState := e.state
	e.mu.Unlock()

	if old != newState {
		e.notifyChange(Change{Old: old, New: newState, Context: ctx})
	}
	return nil
}

// SelectCandidate commits candidates[i] and ends the session.
func (e *Engine) SelectCandidate(i int) error {
	e.mu.Lock()
	switch e.state {
	case Disabled:
		e.mu.Unlock()
		return nil
	case Idle, Composing:
		e.mu.Unlock()
		return ErrNoCandidates
	}
	if i < 0 || i >= len(e.candidates) {
		e.mu.Unlock()
		return ErrCandidateIndex
	}
	text := e.candidates[i]
	e.mu.Unlock()

	return e.End(text)
}

// End commits the session. The final text is committed (when non-empty)
// before buffers, candidates, and the context reference are cleared; pass
// an empty string to commit the current buffer.
func (e *Engine) End(committed string) error {
	e.mu.Lock()
	switch e.state {
	case Disabled:
		e.mu.Unlock()
		return nil
	case Idle:
		e.mu.Unlock()
		return ErrNotComposing
	}

	final := committed
	if final == "" {
		final = e.buffer
	}
	old := e.state
	ctx := e.context
	e.mu.Unlock()

	// Commit fires before the session is torn down so observers can still
	// inspect the preedit during the callback.
	if final != "" {
		e.notifyCommit(Commit{Context: ctx, Text: norm.NFC.String(final)})
	}

	e.mu.Lock()
	e.reset()
	e.mu.Unlock()

	e.notifyChange(Change{Old: old, New: Idle, Context: ctx})
	return nil
}

// Cancel abandons the session. No text-committed notification fires,
// regardless of buffer contents. Idempotent: cancelling with no session is
// a no-op.
func (e *Engine) Cancel() {
	e.mu.Lock()
	switch e.state {
	case Disabled, Idle:
		e.mu.Unlock()
		return
	}
	old := e.state
	ctx := e.context
	e.reset()
	e.mu.Unlock()

	e.notifyChange(Change{Old: old, New: Idle, Context: ctx})
}

// SetEnabled toggles the engine. Disabling mid-composition cancels the
// session first; re-enabling returns to Idle.
func (e *Engine) SetEnabled(enabled bool) {
	e.mu.Lock()
	if enabled {
		if e.state != Disabled {
			e.mu.Unlock()
			return
		}
		e.state = Idle
		e.mu.Unlock()
		e.notifyChange(Change{Old: Disabled, New: Idle})
		return
	}

	if e.state == Disabled {
		e.mu.Unlock()
		return
	}
	old := e.state
	ctx := e.context
	e.reset()
	e.state = Disabled
	e.mu.Unlock()

	if old == Composing || old == Selecting {
		// Implicit cancel surfaces as a transition through Idle.
		e.notifyChange(Change{Old: old, New: Idle, Context: ctx})
	}
	e.notifyChange(Change{Old: Idle, New: Disabled})
}

// reset clears session state. Caller holds the lock.
func (e *Engine) reset() {
	e.state = Idle
	e.context = 0
	e.buffer = ""
	e.selection = Selection{}
	e.candidates = nil
	e.selected = -1
}

// SubscribeChange registers a state-transition observer.
func (e *Engine) SubscribeChange(fn func(Change)) *Subscription {
	if fn == nil {
		return &Subscription{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subSeq++
	id := e.subSeq
	e.onChange[id] = fn
	e.changeIDs = append(e.changeIDs, id)
	return &Subscription{id: id, remove: e.removeChange}
}

// SubscribeCommit registers a text-committed observer.
func (e *Engine) SubscribeCommit(fn func(Commit)) *Subscription {
	if fn == nil {
		return &Subscription{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subSeq++
	id := e.subSeq
	e.onCommit[id] = fn
	e.commitIDs = append(e.commitIDs, id)
	return &Subscription{id: id, remove: e.removeCommit}
}

func (e *Engine) removeChange(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.onChange, id)
	e.changeIDs = removeU64(e.changeIDs, id)
}

func (e *Engine) removeCommit(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.onCommit, id)
	e.commitIDs = removeU64(e.commitIDs, id)
}

func (e *Engine) notifyChange(change Change) {
	e.mu.Lock()
	fns := make([]func(Change), 0, len(e.changeIDs))
	for _, id := range e.changeIDs {
		if fn, ok := e.onChange[id]; ok {
			fns = append(fns, fn)
		}
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(change)
	}
}

func (e *Engine) notifyCommit(commit Commit) {
	e.mu.Lock()
	fns := make([]func(Commit), 0, len(e.commitIDs))
	for _, id := range e.commitIDs {
		if fn, ok := e.onCommit[id]; ok {
			fns = append(fns, fn)
		}
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(commit)
	}
}

func removeU64(ids []uint64, id uint64) []uint64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
