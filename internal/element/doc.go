// Package element defines how the input core refers to elements of the UI tree.
//
// The core never owns elements. It refers to them by ID, a non-owning token
// that is resolved against a Tree capability at the moment of use. The Tree
// is supplied by the toolkit layer that actually owns the widget hierarchy;
// this package only defines the capability and a reference implementation.
//
// # Tree Capability
//
// Routing (bubble/tunnel propagation), capture validation, and focus checks
// all depend on two questions: "who is the parent of this element?" and
// "is this element still alive?". The Tree interface answers both:
//
//	type Tree interface {
//	    Parent(id ID) (ID, bool)
//	    Live(id ID) bool
//	}
//
// Correct parent resolution is a hard precondition. The core trusts the
// ancestor chain the Tree reports; PathToRoot caps traversal depth so a
// corrupt parent graph cannot hang dispatch, but it cannot repair one.
//
// # Reference Tree
//
// Map is a concurrency-safe in-memory Tree used by tests and the demo
// binary. Real toolkits are expected to adapt their own hierarchy instead.
// Map supports teardown hooks so side tables (capture entries, focus
// references, handler stores) can be cleared when an element is detached.
package element
