// Package composition drives IME-style staged text entry for a single
// active text context.
//
// An input method produces text in stages: it opens a composition, revises
// an uncommitted preedit buffer, optionally offers candidate conversions,
// and finally commits or cancels. The engine models those stages as a
// state machine:
//
//	Disabled <-> Idle -> Composing <-> Selecting
//	                ^________|____________|
//
// Start moves Idle to Composing; SetCandidates toggles between Composing
// and Selecting depending on whether the candidate list is empty; End and
// Cancel return to Idle. Disabling mid-composition cancels implicitly.
// While Disabled every mutating call except the enable toggle is a no-op.
//
// Commits are NFC-normalized before the text-committed notification fires,
// so contexts always receive canonical text regardless of how the platform
// IME spells its output. Preedit snapshots carry a grapheme-cluster count
// because callers place carets and render candidate underlines per cluster,
// not per byte or rune.
//
// The engine owns its buffers and holds no reference to the text context
// beyond its ID; the reference is dropped when the session ends.
package composition
