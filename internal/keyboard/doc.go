// Package keyboard defines the key and text event model consumed by the
// input core.
//
// Key events describe physical key transitions (down/up with modifiers) and
// feed focus navigation and routed key delivery. Text events carry produced
// text — either direct character input or output of an IME composition —
// and feed the active text context.
package keyboard
