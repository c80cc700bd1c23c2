package routedevent

import (
	"errors"
	"fmt"

	"github.com/dshills/glint/internal/element"
)

// Sentinel errors for registration and dispatch.
var (
	// ErrDuplicateRegistration is returned when an (owner, name) pair is
	// already registered.
	ErrDuplicateRegistration = errors.New("routed event already registered")

	// ErrInvalidName is returned when a name or owner key is empty.
	ErrInvalidName = errors.New("event name and owner must be non-empty")

	// ErrInvalidDescriptor is returned when a descriptor is nil or was not
	// minted by this registry.
	ErrInvalidDescriptor = errors.New("invalid event descriptor")

	// ErrInvalidSource is returned when Dispatch is given a zero source.
	ErrInvalidSource = errors.New("dispatch source must be a valid element")

	// ErrInvalidArgs is returned when Dispatch is given nil args.
	ErrInvalidArgs = errors.New("dispatch args must be non-nil")

	// ErrNilHandler is returned when a nil handler is added.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrHandlerPanic is the errors.Is target for recovered handler panics.
	ErrHandlerPanic = errors.New("handler panicked")
)

// HandlerPanicError reports a recovered panic from one element's handler.
// It is passed to the router's error handler; dispatch continues past it.
type HandlerPanicError struct {
	// Event is the descriptor being dispatched.
	Event *Descriptor

	// Element is the path element whose handler panicked.
	Element element.ID

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace captured at recovery.
	Stack string
}

// Error implements the error interface.
func (e *HandlerPanicError) Error() string {
	return fmt.Sprintf("handler panic during %s on element %d: %v", e.Event.Key(), e.Element, e.Value)
}

// Is allows errors.Is to match HandlerPanicError with ErrHandlerPanic.
func (e *HandlerPanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}
