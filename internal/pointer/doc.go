// Package pointer defines the pointer event model consumed by the input core.
//
// A pointer is any positional input contact: a mouse, a touch point, or a
// pen. Concurrent contacts are distinguished by an opaque pointer identity
// so capture and hit-testing can track each contact independently.
//
// Events carry both the button that changed on this transition and the full
// set of buttons still held, which is what the default capture policy needs
// to decide auto-capture (press with a changed button) and auto-release
// (release with nothing left held).
package pointer
