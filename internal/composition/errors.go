package composition

import "errors"

// Sentinel errors for composition transitions.
var (
	// ErrDisabled is returned when a transition is attempted while the
	// engine is disabled.
	ErrDisabled = errors.New("composition is disabled")

	// ErrAlreadyComposing is returned when Start is called mid-session.
	ErrAlreadyComposing = errors.New("composition already in progress")

	// ErrNotComposing is returned when a session call arrives with no
	// session open.
	ErrNotComposing = errors.New("no composition in progress")

	// ErrNoCandidates is returned by SelectCandidate outside Selecting.
	ErrNoCandidates = errors.New("no candidate list active")

	// ErrCandidateIndex is returned for an out-of-range candidate index.
	ErrCandidateIndex = errors.New("candidate index out of range")

	// ErrInvalidContext is returned when Start is given a zero context.
	ErrInvalidContext = errors.New("text context must be valid")
)
