// Package focus tracks logical and keyboard focus across a tree of focus
// scopes.
//
// A scope is a named subtree partition with its own independent focus
// state: at most one logical holder and one keyboard holder at a time.
// Scopes form an explicit tree; the manager owns the tree structure and
// always has a root scope. Members are elements registered into a scope
// with a tab index; the scope references them by ID only and never extends
// their lifetime.
//
// # Navigation
//
// MoveFocus delegates to a pluggable Strategy. The default TabStrategy
// orders candidates by ascending tab index with ties broken by registration
// order, steps with wraparound for Next/Previous, and jumps for First/Last.
// Directional moves (up/down/left/right) are the province of a spatial
// strategy supplied by the toolkit's layout layer; the default strategy
// reports no match for them.
//
// # Notifications
//
// Focus changes notify in a fixed order: the prior holder learns it lost
// focus, the new holder learns it gained focus, then external subscribers
// receive the focus-changed record. Element-facing notifications go through
// the optional Announcer so the embedding layer can deliver them as routed
// events.
package focus
