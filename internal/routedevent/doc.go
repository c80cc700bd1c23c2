// Package routedevent implements the event registry and router at the heart
// of the input core.
//
// A routed event is described by an interned Descriptor: a (owner, name)
// pair plus a routing strategy. Handlers attach to elements per descriptor,
// and dispatch delivers one Args value along a propagation path built from
// the element tree.
//
// # Routing Strategies
//
// Three strategies control the propagation path:
//
//   - Direct: the event is delivered once, to the source element only.
//   - Bubble: the path runs from the source up through its ancestors to
//     the root; the source sees the event first.
//   - Tunnel: the reverse of Bubble; the root sees the event first and
//     the source last.
//
// At each path element, that element's handlers for the descriptor run in
// registration order. A handler that sets Args.Handled stops delivery:
// no later path element receives the event. Handlers registered with
// handledToo still observe handled events on their own element, but cannot
// reopen the route.
//
// # Registry
//
// The Registry interns descriptors by (owner, name). Registration is
// append-only; registering a duplicate key fails with
// ErrDuplicateRegistration and leaves the existing descriptor untouched.
// AddOwner mints a sibling descriptor sharing name and strategy under a new
// owner key, subject to the same duplicate rule.
//
// The registry is an explicitly owned instance, not package-level state, so
// independent tests and applications can construct isolated registries.
//
// # Failure Isolation
//
// A panic inside one element's handler is recovered at the dispatch site,
// reported through the router's error handler, and does not stop delivery
// to the rest of the path. Only an explicit Handled mark short-circuits a
// route.
//
// # Concurrency
//
// Registry and handler-store mutation are safe for concurrent use with
// per-key atomic replace semantics. Dispatch itself is designed to run on
// the application's single serialized input sequence.
package routedevent
