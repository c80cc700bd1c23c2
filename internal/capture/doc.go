// Package capture implements per-pointer exclusive ownership of event
// delivery.
//
// While a pointer identity is captured, every event for that pointer is
// redirected to the captured element regardless of hit-testing. The table
// holds at most one entry per pointer identity; replacing or removing an
// entry is atomic per key, and independent pointer streams never block each
// other on a shared route.
//
// # Policy
//
// Auto-capture and auto-release decisions are pluggable through the Policy
// interface. The default policy captures on a press with a changed button
// and releases on a release event with no buttons remaining held — the
// behavior a mouse-driven toolkit expects. Applications can substitute
// their own policy (or a scripted one) without touching the table
// semantics.
//
// # Expiry
//
// Lost pointer-up events must not lock an element forever. The manager
// exposes CleanupExpired as an explicit periodic sweep; it owns no timer
// of its own.
package capture
