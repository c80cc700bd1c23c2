// Package dispatch wires the input core into one pipeline.
//
// A Dispatcher owns an event registry and router, a capture manager, a
// focus manager, and a composition engine, and exposes the three entry
// points a platform feed calls: ProcessPointer, ProcessKey, and
// ProcessText. The flow for a pointer event is
//
//	capture override -> hit test -> routed bubble dispatch
//
// with a press moving keyboard focus to the hit element when it is a
// focusable member of a scope. Key events go to the keyboard focus holder,
// except Tab/Shift+Tab which drive focus navigation. Text events commit to
// the active text context; while a composition session is in flight the
// composition engine owns text production, and its commits are delivered
// through the same text-input route.
//
// The entry points are designed to be called from a single serialized
// input goroutine, matching how platforms deliver input. The Dispatcher
// adds no locking of its own around the pipeline.
package dispatch
