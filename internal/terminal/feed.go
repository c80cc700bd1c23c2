package terminal

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/glint/internal/keyboard"
	"github.com/dshills/glint/internal/pointer"
)

// Sink consumes translated input events. *dispatch.Dispatcher satisfies it.
type Sink interface {
	ProcessPointer(pointer.Event) error
	ProcessKey(keyboard.Event) error
	ProcessText(keyboard.TextEvent) error
}

// Feed translates tcell events into pipeline input.
type Feed struct {
	screen tcell.Screen

	// held is the button mask from the previous mouse event, used to
	// detect press and release edges.
	held pointer.Buttons
	x, y int
}

// NewFeed wraps an initialized tcell screen.
func NewFeed(screen tcell.Screen) *Feed {
	return &Feed{screen: screen}
}

// Run polls the screen until ctx is cancelled, translating every event
// into sink calls. Mouse reporting is enabled for the duration.
func (f *Feed) Run(ctx context.Context, sink Sink) error {
	f.screen.EnableMouse()
	defer f.screen.DisableMouse()

	// PollEvent blocks; an interrupt posted on cancellation unblocks it.
	go func() {
		<-ctx.Done()
		f.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		ev := f.screen.PollEvent()
		if ev == nil {
			return ctx.Err()
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			return ctx.Err()
		}
		f.Translate(ev, sink)
	}
}

// Translate converts one tcell event into sink calls. Unknown event types
// are ignored.
func (f *Feed) Translate(ev tcell.Event, sink Sink) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		f.translateKey(e, sink)
	case *tcell.EventMouse:
		f.translateMouse(e, sink)
	case *tcell.EventResize:
		if f.screen != nil {
			f.screen.Sync()
		}
	}
}

// translateKey emits a key event, plus a text event for printable runes.
func (f *Feed) translateKey(e *tcell.EventKey, sink Sink) {
	now := e.When()

	key, r, mods := convertKey(e)
	if key == keyboard.KeyNone {
		return
	}

	sink.ProcessKey(keyboard.Event{
		Key:       key,
		Rune:      r,
		Modifiers: mods,
		Timestamp: now,
	})

	if key == keyboard.KeyRune && !mods.HasCtrl() && !mods.HasAlt() {
		sink.ProcessText(keyboard.TextEvent{Text: string(r), Timestamp: now})
	}
}

// convertKey maps a tcell key event to the toolkit's key and modifiers.
func convertKey(e *tcell.EventKey) (keyboard.Key, rune, keyboard.Modifier) {
	mods := convertMods(e.Modifiers())

	switch e.Key() {
	case tcell.KeyRune:
		return keyboard.KeyRune, e.Rune(), mods
	case tcell.KeyTab:
		return keyboard.KeyTab, 0, mods
	case tcell.KeyBacktab:
		// Terminals encode Shift+Tab as a distinct key.
		return keyboard.KeyTab, 0, mods | keyboard.ModShift
	case tcell.KeyEnter:
		return keyboard.KeyEnter, 0, mods
	case tcell.KeyEscape:
		return keyboard.KeyEscape, 0, mods
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return keyboard.KeyBackspace, 0, mods
	case tcell.KeyDelete:
		return keyboard.KeyDelete, 0, mods
	case tcell.KeyUp:
		return keyboard.KeyUp, 0, mods
	case tcell.KeyDown:
		return keyboard.KeyDown, 0, mods
	case tcell.KeyLeft:
		return keyboard.KeyLeft, 0, mods
	case tcell.KeyRight:
		return keyboard.KeyRight, 0, mods
	case tcell.KeyHome:
		return keyboard.KeyHome, 0, mods
	case tcell.KeyEnd:
		return keyboard.KeyEnd, 0, mods
	case tcell.KeyPgUp:
		return keyboard.KeyPageUp, 0, mods
	case tcell.KeyPgDn:
		return keyboard.KeyPageDown, 0, mods
	default:
		return keyboard.KeyNone, 0, mods
	}
}

// convertMods maps tcell modifier flags.
func convertMods(m tcell.ModMask) keyboard.Modifier {
	var mods keyboard.Modifier
	if m&tcell.ModShift != 0 {
		mods |= keyboard.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= keyboard.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= keyboard.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mods |= keyboard.ModMeta
	}
	return mods
}

// buttonPairs maps tcell button bits to toolkit buttons, in the order
// edges are reported.
var buttonPairs = []struct {
	mask   tcell.ButtonMask
	button pointer.Button
}{
	{tcell.ButtonPrimary, pointer.ButtonLeft},
	{tcell.ButtonMiddle, pointer.ButtonMiddle},
	{tcell.ButtonSecondary, pointer.ButtonRight},
}

// translateMouse diffs the reported button mask against the previous one
// and emits press, release, move, and scroll events.
func (f *Feed) translateMouse(e *tcell.EventMouse, sink Sink) {
	x, y := e.Position()
	buttons := e.Buttons()
	now := e.When()

	var edges int

	// Press edges: bits present now but not before.
	for _, p := range buttonPairs {
		if buttons&p.mask != 0 && !f.held.Contains(p.button) {
			f.held = f.held.With(p.button)
			sink.ProcessPointer(f.pointerEvent(pointer.KindPress, p.button, x, y, now))
			edges++
		}
	}

	// Release edges: bits present before but not now.
	for _, p := range buttonPairs {
		if buttons&p.mask == 0 && f.held.Contains(p.button) {
			f.held = f.held.Without(p.button)
			sink.ProcessPointer(f.pointerEvent(pointer.KindRelease, p.button, x, y, now))
			edges++
		}
	}

	// Wheel bits arrive as one-shot events, not held state.
	if sx, sy := wheelDelta(buttons); sx != 0 || sy != 0 {
		ev := f.pointerEvent(pointer.KindScroll, pointer.ButtonNone, x, y, now)
		ev.ScrollX = sx
		ev.ScrollY = sy
		sink.ProcessPointer(ev)
		edges++
	}

	if edges == 0 && (x != f.x || y != f.y) {
		sink.ProcessPointer(f.pointerEvent(pointer.KindMove, pointer.ButtonNone, x, y, now))
	}
	f.x, f.y = x, y
}

// pointerEvent builds an event carrying the current held-button state.
func (f *Feed) pointerEvent(kind pointer.Kind, b pointer.Button, x, y int, ts time.Time) pointer.Event {
	return pointer.Event{
		Pointer:   pointer.PrimaryID,
		Kind:      kind,
		Button:    b,
		Held:      f.held,
		X:         x,
		Y:         y,
		Timestamp: ts,
	}
}

// wheelDelta extracts scroll steps from the wheel bits.
func wheelDelta(m tcell.ButtonMask) (int, int) {
	var sx, sy int
	if m&tcell.WheelUp != 0 {
		sy--
	}
	if m&tcell.WheelDown != 0 {
		sy++
	}
	if m&tcell.WheelLeft != 0 {
		sx--
	}
	if m&tcell.WheelRight != 0 {
		sx++
	}
	return sx, sy
}
