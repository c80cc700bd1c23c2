package capture

import "github.com/dshills/glint/internal/pointer"

// Policy decides when pointer events implicitly acquire or release capture.
// Implementations must be safe for concurrent use; Process may run for
// independent pointer identities concurrently.
type Policy interface {
	// ShouldAutoCapture reports whether an uncaptured pointer event
	// should capture its hit-test target.
	ShouldAutoCapture(ev pointer.Event) bool

	// ShouldAutoRelease reports whether an event on a captured pointer
	// should release the capture instead of being redirected.
	ShouldAutoRelease(entry Entry, ev pointer.Event) bool
}

// DefaultPolicy captures on button press and releases when the last button
// goes up.
type DefaultPolicy struct{}

// ShouldAutoCapture implements Policy.
func (DefaultPolicy) ShouldAutoCapture(ev pointer.Event) bool {
	return ev.IsPress()
}

// ShouldAutoRelease implements Policy.
func (DefaultPolicy) ShouldAutoRelease(entry Entry, ev pointer.Event) bool {
	if !entry.AutoRelease {
		return false
	}
	// A cancelled contact always releases; the platform will not send
	// the matching button-up.
	if ev.Kind == pointer.KindCancel {
		return true
	}
	return ev.IsReleaseAll()
}
