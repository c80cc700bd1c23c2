package dispatch

import (
	"testing"
	"time"

	"github.com/dshills/glint/internal/capture"
	"github.com/dshills/glint/internal/composition"
	"github.com/dshills/glint/internal/element"
	"github.com/dshills/glint/internal/focus"
	"github.com/dshills/glint/internal/keyboard"
	"github.com/dshills/glint/internal/pointer"
	"github.com/dshills/glint/internal/routedevent"
)

// fixture builds a dispatcher over a small tree:
//
//	root -> panel -> button
//	root -> editor
type fixture struct {
	m      *element.Map
	d      *Dispatcher
	root   element.ID
	panel  element.ID
	button element.ID
	editor element.ID
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	m := element.NewMap()
	root := m.Attach(element.None)
	panel := m.Attach(root)
	button := m.Attach(panel)
	editor := m.Attach(root)

	d, err := NewDispatcher(m, opts...)
	if err != nil {
		t.Fatalf("NewDispatcher failed: %v", err)
	}
	return &fixture{m: m, d: d, root: root, panel: panel, button: button, editor: editor}
}

func press(target element.ID) pointer.Event {
	return pointer.Event{
		Pointer:   pointer.PrimaryID,
		Kind:      pointer.KindPress,
		Button:    pointer.ButtonLeft,
		Held:      pointer.ButtonLeft.Mask(),
		HitTarget: target,
		Timestamp: time.Now(),
	}
}

func release(target element.ID) pointer.Event {
	return pointer.Event{
		Pointer:   pointer.PrimaryID,
		Kind:      pointer.KindRelease,
		Button:    pointer.ButtonLeft,
		HitTarget: target,
		Timestamp: time.Now(),
	}
}

func TestBuiltinEventsRegistered(t *testing.T) {
	f := newFixture(t)
	ev := f.d.Events()

	if ev.PointerPressed == nil || ev.PointerPressed.Strategy() != routedevent.Bubble {
		t.Error("expected PointerPressed to bubble")
	}
	if ev.TextInput == nil || ev.TextInput.Strategy() != routedevent.Direct {
		t.Error("expected TextInput to be direct")
	}
	if ev.GotFocus == nil || ev.GotFocus.Strategy() != routedevent.Direct {
		t.Error("expected GotFocus to be direct")
	}
	if f.d.Registry().Len() != 9 {
		t.Errorf("expected 9 built-in events, got %d", f.d.Registry().Len())
	}
}

func TestPointerPressBubbles(t *testing.T) {
	f := newFixture(t)

	var visited []element.ID
	for _, el := range []element.ID{f.root, f.panel, f.button} {
		f.d.Router().AddHandler(el, f.d.Events().PointerPressed, func(a *routedevent.Args) {
			visited = append(visited, a.Source)
		}, false)
	}

	if err := f.d.ProcessPointer(press(f.button)); err != nil {
		t.Fatalf("ProcessPointer failed: %v", err)
	}
	want := []element.ID{f.button, f.panel, f.root}
	if len(visited) != len(want) {
		t.Fatalf("expected %d hops, got %d", len(want), len(visited))
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("hop %d = %d, want %d", i, visited[i], want[i])
		}
	}
}

func TestHitTesterResolvesTarget(t *testing.T) {
	var f *fixture
	f = newFixture(t, WithHitTester(HitTesterFunc(func(x, y int) element.ID {
		if x < 10 {
			return f.button
		}
		return f.editor
	})))

	var got []element.ID
	f.d.Router().AddHandler(f.button, f.d.Events().PointerMoved, func(a *routedevent.Args) {
		got = append(got, a.OriginalSource)
	}, false)

	ev := pointer.Event{Pointer: pointer.PrimaryID, Kind: pointer.KindMove, X: 3, Y: 1}
	if err := f.d.ProcessPointer(ev); err != nil {
		t.Fatalf("ProcessPointer failed: %v", err)
	}
	if len(got) != 1 || got[0] != f.button {
		t.Errorf("expected move routed to button via hit test, got %v", got)
	}
}

func TestPointerWithNoTargetDropped(t *testing.T) {
	f := newFixture(t)
	ev := pointer.Event{Pointer: pointer.PrimaryID, Kind: pointer.KindMove}
	if err := f.d.ProcessPointer(ev); err != nil {
		t.Errorf("expected targetless pointer event to be dropped, got %v", err)
	}
}

func TestAutoCaptureRedirectsSubsequentEvents(t *testing.T) {
	f := newFixture(t)

	var moved []element.ID
	f.d.Router().AddHandler(f.button, f.d.Events().PointerMoved, func(a *routedevent.Args) {
		moved = append(moved, a.OriginalSource)
	}, false)

	// Press on the button auto-captures the pointer.
	f.d.ProcessPointer(press(f.button))
	if _, ok := f.d.Captures().Get(pointer.PrimaryID); !ok {
		t.Fatal("expected press to auto-capture the pointer")
	}

	// A drag that wanders over the editor still routes to the button.
	drag := pointer.Event{
		Pointer:   pointer.PrimaryID,
		Kind:      pointer.KindMove,
		Held:      pointer.ButtonLeft.Mask(),
		HitTarget: f.editor,
	}
	f.d.ProcessPointer(drag)
	if len(moved) != 1 || moved[0] != f.button {
		t.Errorf("expected drag routed to capture holder, got %v", moved)
	}

	// Releasing all buttons ends the capture.
	f.d.ProcessPointer(release(f.editor))
	if _, ok := f.d.Captures().Get(pointer.PrimaryID); ok {
		t.Error("expected release to end the capture")
	}
}

func TestPressFocusesFocusableMember(t *testing.T) {
	f := newFixture(t)
	f.d.Focus().AddMember(nil, f.button)

	f.d.ProcessPointer(press(f.button))

	holder, ok := f.d.Focus().Focused(focus.Keyboard)
	if !ok || holder != f.button {
		t.Errorf("expected press to focus button, got (%d, %v)", holder, ok)
	}
}

func TestPressOnNonMemberKeepsFocus(t *testing.T) {
	f := newFixture(t)
	f.d.Focus().AddMember(nil, f.button)
	f.d.Focus().SetFocus(f.button, focus.Keyboard)

	// panel is not a scope member; pressing it must not steal focus.
	f.d.ProcessPointer(press(f.panel))

	holder, ok := f.d.Focus().Focused(focus.Keyboard)
	if !ok || holder != f.button {
		t.Errorf("expected focus to stay on button, got (%d, %v)", holder, ok)
	}
}

func TestKeyRoutedToFocusHolder(t *testing.T) {
	f := newFixture(t)
	f.d.Focus().AddMember(nil, f.editor)
	f.d.Focus().SetFocus(f.editor, focus.Keyboard)

	var keys []keyboard.Event
	f.d.Router().AddHandler(f.editor, f.d.Events().KeyDown, func(a *routedevent.Args) {
		keys = append(keys, a.Payload.(keyboard.Event))
	}, false)

	ev := keyboard.NewEvent(keyboard.KeyRune, 'a', keyboard.ModNone)
	if err := f.d.ProcessKey(ev); err != nil {
		t.Fatalf("ProcessKey failed: %v", err)
	}
	if len(keys) != 1 || keys[0].Rune != 'a' {
		t.Errorf("expected key delivered to focus holder, got %v", keys)
	}
}

func TestKeyWithoutFocusHolderDropped(t *testing.T) {
	f := newFixture(t)
	if err := f.d.ProcessKey(keyboard.NewEvent(keyboard.KeyEnter, 0, keyboard.ModNone)); err != nil {
		t.Errorf("expected keys without a focus holder to be dropped, got %v", err)
	}
}

func TestTabMovesFocus(t *testing.T) {
	f := newFixture(t)
	f.d.Focus().AddMember(nil, f.button, focus.WithTabIndex(1))
	f.d.Focus().AddMember(nil, f.editor, focus.WithTabIndex(2))
	f.d.Focus().SetFocus(f.button, focus.Keyboard)

	f.d.ProcessKey(keyboard.NewEvent(keyboard.KeyTab, 0, keyboard.ModNone))
	if holder, _ := f.d.Focus().Focused(focus.Keyboard); holder != f.editor {
		t.Errorf("expected Tab to move focus to editor, got %d", holder)
	}

	f.d.ProcessKey(keyboard.NewEvent(keyboard.KeyTab, 0, keyboard.ModShift))
	if holder, _ := f.d.Focus().Focused(focus.Keyboard); holder != f.button {
		t.Errorf("expected Shift+Tab to move focus back, got %d", holder)
	}
}

func TestTabNotConsumedWithoutMembers(t *testing.T) {
	f := newFixture(t)
	f.d.Focus().AddMember(nil, f.editor, focus.WithTabStop(false))
	f.d.Focus().SetFocus(f.editor, focus.Keyboard)

	var keys int
	f.d.Router().AddHandler(f.editor, f.d.Events().KeyDown, func(a *routedevent.Args) {
		keys++
	}, false)

	// No other tab stop exists, so navigation fails and Tab falls through
	// to the focus holder as a plain key.
	f.d.ProcessKey(keyboard.NewEvent(keyboard.KeyTab, 0, keyboard.ModNone))
	if keys != 1 {
		t.Errorf("expected unconsumed Tab delivered as key, got %d deliveries", keys)
	}
}

func TestFocusChangeRaisesDirectEvents(t *testing.T) {
	f := newFixture(t)
	f.d.Focus().AddMember(nil, f.button)
	f.d.Focus().AddMember(nil, f.editor)

	var log []string
	f.d.Router().AddHandler(f.button, f.d.Events().GotFocus, func(a *routedevent.Args) {
		log = append(log, "got:button")
	}, false)
	f.d.Router().AddHandler(f.button, f.d.Events().LostFocus, func(a *routedevent.Args) {
		log = append(log, "lost:button")
	}, false)
	f.d.Router().AddHandler(f.editor, f.d.Events().GotFocus, func(a *routedevent.Args) {
		log = append(log, "got:editor")
	}, false)

	f.d.Focus().SetFocus(f.button, focus.Keyboard)
	f.d.Focus().SetFocus(f.editor, focus.Keyboard)

	want := []string{"got:button", "lost:button", "got:editor"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, log[i], want[i])
		}
	}
}

func TestTextDeliveredToActiveContext(t *testing.T) {
	f := newFixture(t)
	f.d.SetActiveTextContext(f.editor)

	var texts []string
	f.d.Router().AddHandler(f.editor, f.d.Events().TextInput, func(a *routedevent.Args) {
		texts = append(texts, a.Payload.(keyboard.TextEvent).Text)
	}, false)

	f.d.ProcessText(keyboard.TextEvent{Text: "hi", Timestamp: time.Now()})
	if len(texts) != 1 || texts[0] != "hi" {
		t.Errorf("expected text delivered to active context, got %v", texts)
	}
}

func TestTextWithoutContextDropped(t *testing.T) {
	f := newFixture(t)
	if err := f.d.ProcessText(keyboard.TextEvent{Text: "x"}); err != nil {
		t.Errorf("expected text without a context to be dropped, got %v", err)
	}
}

func TestCompositionSuppressesRawText(t *testing.T) {
	f := newFixture(t)
	f.d.SetActiveTextContext(f.editor)

	var texts []string
	f.d.Router().AddHandler(f.editor, f.d.Events().TextInput, func(a *routedevent.Args) {
		texts = append(texts, a.Payload.(keyboard.TextEvent).Text)
	}, false)

	if err := f.d.StartComposition(); err != nil {
		t.Fatalf("StartComposition failed: %v", err)
	}
	ime := f.d.Composition()
	ime.Update("ni", composition.Selection{Start: 0, End: 2})

	// Raw text is dropped while the session is open.
	f.d.ProcessText(keyboard.TextEvent{Text: "stray"})
	if len(texts) != 0 {
		t.Fatalf("expected raw text suppressed mid-composition, got %v", texts)
	}

	// The session's commit arrives through the text-input route.
	ime.End("你")
	if len(texts) != 1 || texts[0] != "你" {
		t.Errorf("expected committed text delivered, got %v", texts)
	}
}

func TestSwitchingContextCancelsComposition(t *testing.T) {
	f := newFixture(t)
	f.d.SetActiveTextContext(f.editor)

	var texts []string
	f.d.Router().AddHandler(f.editor, f.d.Events().TextInput, func(a *routedevent.Args) {
		texts = append(texts, a.Payload.(keyboard.TextEvent).Text)
	}, false)

	f.d.StartComposition()
	f.d.Composition().Update("pending", composition.Selection{})

	f.d.SetActiveTextContext(f.button)

	if f.d.Composition().State() != composition.Idle {
		t.Errorf("expected switch to cancel composition, state %v", f.d.Composition().State())
	}
	if len(texts) != 0 {
		t.Errorf("expected no commit on context switch, got %v", texts)
	}
	if f.d.ActiveTextContext() != f.button {
		t.Errorf("expected active context to move to button")
	}
}

func TestStartCompositionRequiresContext(t *testing.T) {
	f := newFixture(t)
	if err := f.d.StartComposition(); err != composition.ErrInvalidContext {
		t.Errorf("expected ErrInvalidContext without a text context, got %v", err)
	}
}

func TestBindTeardownClearsElementState(t *testing.T) {
	f := newFixture(t)
	f.d.BindTeardown(f.m)

	f.d.Focus().AddMember(nil, f.button)
	f.d.Focus().SetFocus(f.button, focus.Keyboard)
	f.d.Captures().Capture(f.button, pointer.PrimaryID, capture.KindElement, false)
	f.d.Router().AddHandler(f.button, f.d.Events().KeyDown, func(a *routedevent.Args) {}, false)
	f.d.SetActiveTextContext(f.editor)

	f.m.Detach(f.panel) // Removes the button subtree.

	if _, ok := f.d.Captures().Get(pointer.PrimaryID); ok {
		t.Error("expected capture released on detach")
	}
	if _, ok := f.d.Focus().Focused(focus.Keyboard); ok {
		t.Error("expected focus cleared on detach")
	}
	if f.d.ActiveTextContext() != f.editor {
		t.Error("expected unrelated text context to survive detach")
	}

	f.m.Detach(f.editor)
	if f.d.ActiveTextContext() != element.None {
		t.Error("expected text context cleared when its element detaches")
	}
}

func TestMultiPressCounting(t *testing.T) {
	f := newFixture(t, WithMultiPressInterval(300*time.Millisecond))

	var counts []int
	f.d.Router().AddHandler(f.button, f.d.Events().PointerPressed, func(a *routedevent.Args) {
		counts = append(counts, a.Payload.(pointer.Event).Presses)
	}, false)

	base := time.Now()
	pressAt := func(target element.ID, at time.Time) pointer.Event {
		ev := press(target)
		ev.Timestamp = at
		return ev
	}

	f.d.ProcessPointer(pressAt(f.button, base))
	f.d.ProcessPointer(release(f.button))
	f.d.ProcessPointer(pressAt(f.button, base.Add(100*time.Millisecond)))
	f.d.ProcessPointer(release(f.button))
	// Outside the window: the count resets.
	f.d.ProcessPointer(pressAt(f.button, base.Add(time.Second)))

	want := []int{1, 2, 1}
	if len(counts) != len(want) {
		t.Fatalf("expected %v, got %v", want, counts)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("press %d: expected count %d, got %d", i, want[i], counts[i])
		}
	}
}

func TestMultiPressResetsOnTargetChange(t *testing.T) {
	f := newFixture(t, WithMultiPressInterval(300*time.Millisecond))

	var last int
	for _, el := range []element.ID{f.button, f.editor} {
		f.d.Router().AddHandler(el, f.d.Events().PointerPressed, func(a *routedevent.Args) {
			last = a.Payload.(pointer.Event).Presses
		}, false)
	}

	base := time.Now()
	ev := press(f.button)
	ev.Timestamp = base
	f.d.ProcessPointer(ev)
	f.d.ProcessPointer(release(f.button))

	ev = press(f.editor)
	ev.Timestamp = base.Add(50 * time.Millisecond)
	f.d.ProcessPointer(ev)

	if last != 1 {
		t.Errorf("expected count reset on target change, got %d", last)
	}
}

func TestSweepCaptures(t *testing.T) {
	f := newFixture(t, WithCaptureOptions(capture.WithTimeout(10*time.Millisecond)))
	f.d.Captures().Capture(f.button, pointer.PrimaryID, capture.KindElement, false)

	if n := f.d.SweepCaptures(time.Now().Add(time.Second)); n != 1 {
		t.Errorf("expected 1 expired capture swept, got %d", n)
	}
}
