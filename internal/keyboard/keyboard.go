package keyboard

import (
	"strings"
	"time"
)

// Key identifies a key. Character keys use KeyRune with the Rune field set.
type Key uint16

const (
	// KeyNone is the zero key.
	KeyNone Key = iota
	// KeyRune is a character key; Event.Rune holds the character.
	KeyRune
	// KeyTab is the Tab key.
	KeyTab
	// KeyEnter is the Enter/Return key.
	KeyEnter
	// KeyEscape is the Escape key.
	KeyEscape
	// KeyBackspace is the Backspace key.
	KeyBackspace
	// KeyDelete is the Delete key.
	KeyDelete
	// KeyUp is the up arrow.
	KeyUp
	// KeyDown is the down arrow.
	KeyDown
	// KeyLeft is the left arrow.
	KeyLeft
	// KeyRight is the right arrow.
	KeyRight
	// KeyHome is the Home key.
	KeyHome
	// KeyEnd is the End key.
	KeyEnd
	// KeyPageUp is the Page Up key.
	KeyPageUp
	// KeyPageDown is the Page Down key.
	KeyPageDown
)

// String returns the key name.
func (k Key) String() string {
	switch k {
	case KeyNone:
		return "None"
	case KeyRune:
		return "Rune"
	case KeyTab:
		return "Tab"
	case KeyEnter:
		return "Enter"
	case KeyEscape:
		return "Escape"
	case KeyBackspace:
		return "Backspace"
	case KeyDelete:
		return "Delete"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyHome:
		return "Home"
	case KeyEnd:
		return "End"
	case KeyPageUp:
		return "PageUp"
	case KeyPageDown:
		return "PageDown"
	default:
		return "Unknown"
	}
}

// Modifier is a set of held modifier keys.
type Modifier uint8

const (
	// ModShift is the Shift modifier.
	ModShift Modifier = 1 << iota
	// ModCtrl is the Control modifier.
	ModCtrl
	// ModAlt is the Alt/Option modifier.
	ModAlt
	// ModMeta is the Command/Windows modifier.
	ModMeta

	// ModNone is the empty modifier set.
	ModNone Modifier = 0
)

// HasShift reports whether Shift is held.
func (m Modifier) HasShift() bool { return m&ModShift != 0 }

// HasCtrl reports whether Control is held.
func (m Modifier) HasCtrl() bool { return m&ModCtrl != 0 }

// HasAlt reports whether Alt is held.
func (m Modifier) HasAlt() bool { return m&ModAlt != 0 }

// HasMeta reports whether Meta is held.
func (m Modifier) HasMeta() bool { return m&ModMeta != 0 }

// Event is a single timestamped key transition.
type Event struct {
	// Key identifies the key.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the held modifier keys.
	Modifiers Modifier

	// Up is true for key-release transitions, false for presses.
	Up bool

	// Timestamp is when the platform observed the transition.
	Timestamp time.Time
}

// NewEvent creates a key-down event with the current timestamp.
func NewEvent(key Key, r rune, mods Modifier) Event {
	return Event{Key: key, Rune: r, Modifiers: mods, Timestamp: time.Now()}
}

// IsRune reports whether this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// String returns a canonical representation such as "Ctrl+Shift+Tab" or "a".
func (e Event) String() string {
	var parts []string
	if e.Modifiers.HasCtrl() {
		parts = append(parts, "Ctrl")
	}
	if e.Modifiers.HasAlt() {
		parts = append(parts, "Alt")
	}
	if e.Modifiers.HasShift() {
		parts = append(parts, "Shift")
	}
	if e.Modifiers.HasMeta() {
		parts = append(parts, "Meta")
	}
	if e.IsRune() {
		parts = append(parts, string(e.Rune))
	} else {
		parts = append(parts, e.Key.String())
	}
	return strings.Join(parts, "+")
}

// TextEvent carries produced text bound for the active text context.
type TextEvent struct {
	// Text is the produced text.
	Text string

	// Timestamp is when the text was produced.
	Timestamp time.Time
}
