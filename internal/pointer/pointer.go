package pointer

import (
	"time"

	"github.com/dshills/glint/internal/element"
)

// ID is an opaque pointer identity distinguishing concurrent contacts.
// Platform adapters assign IDs; the core only compares them.
type ID int64

// PrimaryID is the conventional identity for a single-mouse platform.
const PrimaryID ID = 1

// Button identifies a single pointer button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary button, or a touch/pen contact.
	ButtonLeft
	// ButtonMiddle is the middle button.
	ButtonMiddle
	// ButtonRight is the secondary button.
	ButtonRight
	// ButtonBack is the back navigation button.
	ButtonBack
	// ButtonForward is the forward navigation button.
	ButtonForward
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonNone:
		return "none"
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonBack:
		return "back"
	case ButtonForward:
		return "forward"
	default:
		return "unknown"
	}
}

// Buttons is a set of held buttons.
type Buttons uint8

// Mask returns the set bit for b.
func (b Button) Mask() Buttons {
	if b == ButtonNone {
		return 0
	}
	return 1 << (b - 1)
}

// Contains reports whether the set includes b.
func (s Buttons) Contains(b Button) bool {
	return s&b.Mask() != 0
}

// With returns the set with b added.
func (s Buttons) With(b Button) Buttons {
	return s | b.Mask()
}

// Without returns the set with b removed.
func (s Buttons) Without(b Button) Buttons {
	return s &^ b.Mask()
}

// IsEmpty reports whether no button is held.
func (s Buttons) IsEmpty() bool {
	return s == 0
}

// Kind is the kind of pointer transition an event describes.
type Kind uint8

const (
	// KindMove indicates the pointer moved with no button transition.
	KindMove Kind = iota
	// KindPress indicates a button went down.
	KindPress
	// KindRelease indicates a button went up.
	KindRelease
	// KindScroll indicates wheel or trackpad scrolling.
	KindScroll
	// KindCancel indicates the platform aborted the contact (e.g. the
	// touch was claimed by a system gesture).
	KindCancel
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindPress:
		return "press"
	case KindRelease:
		return "release"
	case KindScroll:
		return "scroll"
	case KindCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Event is a single timestamped pointer transition.
type Event struct {
	// Pointer is the identity of the contact.
	Pointer ID

	// Kind is the transition kind.
	Kind Kind

	// Button is the button that changed for press/release events,
	// ButtonNone otherwise.
	Button Button

	// Held is the set of buttons held after this transition.
	Held Buttons

	// X, Y is the pointer position in the coordinate space of the
	// hit-test collaborator.
	X, Y int

	// ScrollX, ScrollY carry scroll deltas for KindScroll events.
	ScrollX, ScrollY int

	// HitTarget is the element the hit-test collaborator resolved for
	// this position, or element.None when nothing was hit.
	HitTarget element.ID

	// Presses is the press count within the multi-press window
	// (1 = single, 2 = double). Zero until the pipeline computes it.
	Presses int

	// Timestamp is when the platform observed the transition.
	Timestamp time.Time
}

// IsPress reports whether the event is a press with a real changed button.
func (e Event) IsPress() bool {
	return e.Kind == KindPress && e.Button != ButtonNone
}

// IsReleaseAll reports whether the event is a release after which no
// buttons remain held. This is the default auto-release trigger.
func (e Event) IsReleaseAll() bool {
	return e.Kind == KindRelease && e.Held.IsEmpty()
}
