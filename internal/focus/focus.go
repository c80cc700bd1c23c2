package focus

import "github.com/dshills/glint/internal/element"

// Type distinguishes the two focus notions a scope tracks.
type Type uint8

const (
	// Logical focus marks the element a scope would restore keyboard
	// focus to when the scope activates.
	Logical Type = iota
	// Keyboard focus marks the element receiving key input now.
	Keyboard
)

// String returns the focus type name.
func (t Type) String() string {
	switch t {
	case Logical:
		return "logical"
	case Keyboard:
		return "keyboard"
	default:
		return "unknown"
	}
}

// Direction is a focus navigation request.
type Direction uint8

const (
	// Next moves to the following tab stop.
	Next Direction = iota
	// Previous moves to the preceding tab stop.
	Previous
	// First jumps to the first tab stop.
	First
	// Last jumps to the last tab stop.
	Last
	// Up is a spatial move; the default strategy has no match for it.
	Up
	// Down is a spatial move.
	Down
	// Left is a spatial move.
	Left
	// Right is a spatial move.
	Right
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Next:
		return "next"
	case Previous:
		return "previous"
	case First:
		return "first"
	case Last:
		return "last"
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Reason records why focus changed, for observers that distinguish
// tab-cycling from pointer clicks.
type Reason uint8

const (
	// ReasonProgrammatic is an explicit SetFocus call.
	ReasonProgrammatic Reason = iota
	// ReasonNavigation is a MoveFocus result.
	ReasonNavigation
	// ReasonPointer is focus following a pointer press.
	ReasonPointer
	// ReasonRestore is focus restored when a scope activates.
	ReasonRestore
	// ReasonRemoval is focus cleared because the holder was removed.
	ReasonRemoval
)

// String returns the reason name.
func (r Reason) String() string {
	switch r {
	case ReasonProgrammatic:
		return "programmatic"
	case ReasonNavigation:
		return "navigation"
	case ReasonPointer:
		return "pointer"
	case ReasonRestore:
		return "restore"
	case ReasonRemoval:
		return "removal"
	default:
		return "unknown"
	}
}

// Change is the record delivered to focus-changed subscribers.
type Change struct {
	// Old is the element that lost focus, or element.None.
	Old element.ID

	// New is the element that gained focus, or element.None on clear.
	New element.ID

	// Scope is the name of the scope whose focus changed.
	Scope string

	// Type is the focus type that changed.
	Type Type

	// Reason records what triggered the change.
	Reason Reason
}

// Announcer delivers lost/got focus notifications to the elements
// themselves. The dispatch layer implements it with routed direct events;
// tests implement it with plain slices.
type Announcer interface {
	// AnnounceLost tells el it lost focus of the given type.
	AnnounceLost(el element.ID, t Type)

	// AnnounceGot tells el it gained focus of the given type.
	AnnounceGot(el element.ID, t Type)
}
