// Package terminal feeds terminal input into the dispatch pipeline.
//
// A Feed wraps a tcell screen, translating its key and mouse events into
// the toolkit's keyboard and pointer events and handing them to a Sink.
// Terminals report the full button mask with every mouse event, so the
// feed diffs consecutive masks to synthesize press and release edges.
// Printable runes produce both a key event and a text event, matching how
// graphical platforms split the two.
package terminal
