package dispatch

import (
	"time"

	"github.com/dshills/glint/internal/capture"
	"github.com/dshills/glint/internal/composition"
	"github.com/dshills/glint/internal/element"
	"github.com/dshills/glint/internal/focus"
	"github.com/dshills/glint/internal/keyboard"
	"github.com/dshills/glint/internal/pointer"
	"github.com/dshills/glint/internal/routedevent"
)

// HitTester resolves a position to the topmost element under it. The
// toolkit's geometry layer supplies it; the dispatcher only consumes the
// result.
type HitTester interface {
	HitTest(x, y int) element.ID
}

// HitTesterFunc adapts a function to the HitTester interface.
type HitTesterFunc func(x, y int) element.ID

// HitTest implements HitTester.
func (f HitTesterFunc) HitTest(x, y int) element.ID {
	return f(x, y)
}

// eventOwner is the owner key for the dispatcher's built-in events.
const eventOwner = "Input"

// Events holds the routed-event descriptors the dispatcher raises.
type Events struct {
	// PointerPressed bubbles from the press target.
	PointerPressed *routedevent.Descriptor

	// PointerReleased bubbles from the release target.
	PointerReleased *routedevent.Descriptor

	// PointerMoved bubbles from the move target.
	PointerMoved *routedevent.Descriptor

	// PointerScrolled bubbles from the scroll target.
	PointerScrolled *routedevent.Descriptor

	// KeyDown bubbles from the keyboard focus holder.
	KeyDown *routedevent.Descriptor

	// KeyUp bubbles from the keyboard focus holder.
	KeyUp *routedevent.Descriptor

	// TextInput is delivered directly to the active text context.
	TextInput *routedevent.Descriptor

	// GotFocus is delivered directly to an element gaining focus.
	GotFocus *routedevent.Descriptor

	// LostFocus is delivered directly to an element losing focus.
	LostFocus *routedevent.Descriptor
}

// Dispatcher is the input pipeline. Construct one per application with
// NewDispatcher; its entry points run on the serialized input sequence.
type Dispatcher struct {
	tree     element.Tree
	registry *routedevent.Registry
	router   *routedevent.Router
	captures *capture.Manager
	focus    *focus.Manager
	ime      *composition.Engine
	hit      HitTester
	events   Events

	activeText element.ID

	// Multi-press tracking. Consecutive presses of the same button on the
	// same target within the interval raise the press count.
	multiPress time.Duration
	lastPress  time.Time
	lastTarget element.ID
	lastButton pointer.Button
	pressCount int
}

// Option configures a Dispatcher.
type Option func(*config)

type config struct {
	hit        HitTester
	multiPress time.Duration
	capOpts    []capture.Option
	focusOpts  []focus.ManagerOption
	routerOpts []routedevent.RouterOption
}

// WithHitTester supplies the hit-test collaborator. Without one, pointer
// events must arrive with HitTarget already resolved.
func WithHitTester(ht HitTester) Option {
	return func(c *config) {
		c.hit = ht
	}
}

// WithMultiPressInterval sets the window for double/triple press
// detection. Zero disables counting; every press reports 1.
func WithMultiPressInterval(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.multiPress = d
		}
	}
}

// WithCaptureOptions forwards options to the capture manager.
func WithCaptureOptions(opts ...capture.Option) Option {
	return func(c *config) {
		c.capOpts = append(c.capOpts, opts...)
	}
}

// WithFocusOptions forwards options to the focus manager.
func WithFocusOptions(opts ...focus.ManagerOption) Option {
	return func(c *config) {
		c.focusOpts = append(c.focusOpts, opts...)
	}
}

// WithRouterOptions forwards options to the event router.
func WithRouterOptions(opts ...routedevent.RouterOption) Option {
	return func(c *config) {
		c.routerOpts = append(c.routerOpts, opts...)
	}
}

// NewDispatcher builds a fully wired pipeline over the given tree.
func NewDispatcher(tree element.Tree, opts ...Option) (*Dispatcher, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Dispatcher{
		tree:       tree,
		registry:   routedevent.NewRegistry(),
		hit:        cfg.hit,
		ime:        composition.NewEngine(),
		multiPress: cfg.multiPress,
	}
	d.router = routedevent.NewRouter(tree, cfg.routerOpts...)

	capOpts := append([]capture.Option{capture.WithTree(tree)}, cfg.capOpts...)
	d.captures = capture.NewManager(capOpts...)

	focusOpts := append([]focus.ManagerOption{focus.WithAnnouncer(&announcer{d: d})}, cfg.focusOpts...)
	d.focus = focus.NewManager(focusOpts...)

	if err := d.registerEvents(); err != nil {
		return nil, err
	}

	// Composition commits feed the same text-input route as direct text.
	d.ime.SubscribeCommit(func(c composition.Commit) {
		d.deliverText(element.ID(c.Context), c.Text, time.Now())
	})

	return d, nil
}

// registerEvents interns the built-in descriptors.
func (d *Dispatcher) registerEvents() error {
	var err error
	reg := func(name string, strategy routedevent.Strategy) *routedevent.Descriptor {
		if err != nil {
			return nil
		}
		var desc *routedevent.Descriptor
		desc, err = d.registry.Register(name, strategy, eventOwner)
		return desc
	}

	d.events = Events{
		PointerPressed:  reg("PointerPressed", routedevent.Bubble),
		PointerReleased: reg("PointerReleased", routedevent.Bubble),
		PointerMoved:    reg("PointerMoved", routedevent.Bubble),
		PointerScrolled: reg("PointerScrolled", routedevent.Bubble),
		KeyDown:         reg("KeyDown", routedevent.Bubble),
		KeyUp:           reg("KeyUp", routedevent.Bubble),
		TextInput:       reg("TextInput", routedevent.Direct),
		GotFocus:        reg("GotFocus", routedevent.Direct),
		LostFocus:       reg("LostFocus", routedevent.Direct),
	}
	return err
}

// Registry returns the routed-event registry.
func (d *Dispatcher) Registry() *routedevent.Registry { return d.registry }

// Router returns the event router.
func (d *Dispatcher) Router() *routedevent.Router { return d.router }

// Captures returns the capture manager.
func (d *Dispatcher) Captures() *capture.Manager { return d.captures }

// Focus returns the focus manager.
func (d *Dispatcher) Focus() *focus.Manager { return d.focus }

// Composition returns the composition engine.
func (d *Dispatcher) Composition() *composition.Engine { return d.ime }

// Events returns the built-in descriptors.
func (d *Dispatcher) Events() Events { return d.events }

// ProcessPointer runs one pointer event through capture resolution,
// hit-testing, and routed delivery.
func (d *Dispatcher) ProcessPointer(ev pointer.Event) error {
	if !ev.HitTarget.IsValid() && d.hit != nil && ev.Kind != pointer.KindCancel {
		ev.HitTarget = d.hit.HitTest(ev.X, ev.Y)
	}

	target := ev.HitTarget
	if override, ok := d.captures.Process(ev); ok {
		target = override
	}
	if !target.IsValid() {
		return nil // Nothing hit and nothing captured.
	}

	if ev.IsPress() {
		ev.Presses = d.countPress(target, ev)
		d.focusOnPress(target)
	}

	var desc *routedevent.Descriptor
	switch ev.Kind {
	case pointer.KindPress:
		desc = d.events.PointerPressed
	case pointer.KindRelease, pointer.KindCancel:
		desc = d.events.PointerReleased
	case pointer.KindMove:
		desc = d.events.PointerMoved
	case pointer.KindScroll:
		desc = d.events.PointerScrolled
	default:
		return nil
	}

	args := routedevent.NewArgs(desc, ev)
	args.Timestamp = ev.Timestamp
	return d.router.Dispatch(target, args)
}

// countPress returns the press count for a press on target, raising it
// for repeat presses of the same button on the same target within the
// multi-press window.
func (d *Dispatcher) countPress(target element.ID, ev pointer.Event) int {
	if d.multiPress <= 0 {
		return 1
	}
	within := !d.lastPress.IsZero() && ev.Timestamp.Sub(d.lastPress) <= d.multiPress
	if within && target == d.lastTarget && ev.Button == d.lastButton {
		d.pressCount++
	} else {
		d.pressCount = 1
	}
	d.lastPress = ev.Timestamp
	d.lastTarget = target
	d.lastButton = ev.Button
	return d.pressCount
}

// focusOnPress moves keyboard focus to the pressed element when it is a
// focusable scope member; presses on non-members leave focus untouched.
func (d *Dispatcher) focusOnPress(target element.ID) {
	if _, ok := d.focus.ScopeOf(target); !ok {
		return
	}
	d.focus.SetFocusWithReason(target, focus.Keyboard, focus.ReasonPointer)
}

// ProcessKey routes a key event. Tab and Shift+Tab on key-down drive focus
// navigation; everything else is delivered to the keyboard focus holder.
func (d *Dispatcher) ProcessKey(ev keyboard.Event) error {
	if !ev.Up && ev.Key == keyboard.KeyTab {
		dir := focus.Next
		if ev.Modifiers.HasShift() {
			dir = focus.Previous
		}
		if d.focus.MoveFocus(dir, nil) {
			return nil
		}
	}

	holder, ok := d.focus.Focused(focus.Keyboard)
	if !ok {
		return nil // No focus holder; the event has nowhere to go.
	}

	desc := d.events.KeyDown
	if ev.Up {
		desc = d.events.KeyUp
	}
	args := routedevent.NewArgs(desc, ev)
	args.Timestamp = ev.Timestamp
	return d.router.Dispatch(holder, args)
}

// ProcessText commits produced text to the active text context. While a
// composition session is in flight the IME owns text production, so raw
// text events are dropped; the session's commit arrives through the same
// route when it ends.
func (d *Dispatcher) ProcessText(ev keyboard.TextEvent) error {
	if ev.Text == "" {
		return nil
	}
	switch d.ime.State() {
	case composition.Composing, composition.Selecting:
		return nil
	}
	if !d.activeText.IsValid() {
		return nil
	}
	return d.deliverText(d.activeText, ev.Text, ev.Timestamp)
}

// deliverText dispatches a text-input event directly to a context element.
func (d *Dispatcher) deliverText(ctx element.ID, text string, ts time.Time) error {
	if !ctx.IsValid() || text == "" {
		return nil
	}
	args := routedevent.NewArgs(d.events.TextInput, keyboard.TextEvent{Text: text, Timestamp: ts})
	args.Timestamp = ts
	return d.router.Dispatch(ctx, args)
}

// ActiveTextContext returns the element receiving committed text.
func (d *Dispatcher) ActiveTextContext() element.ID {
	return d.activeText
}

// SetActiveTextContext switches the element receiving committed text.
// Switching away cancels any in-flight composition; the old context never
// receives a commit it did not finish.
func (d *Dispatcher) SetActiveTextContext(el element.ID) {
	if el == d.activeText {
		return
	}
	d.ime.Cancel()
	d.activeText = el
}

// StartComposition opens a composition session against the active text
// context.
func (d *Dispatcher) StartComposition() error {
	if !d.activeText.IsValid() {
		return composition.ErrInvalidContext
	}
	return d.ime.Start(composition.ContextID(d.activeText))
}

// SweepCaptures releases expired captures. Call it from the application's
// periodic housekeeping tick.
func (d *Dispatcher) SweepCaptures(now time.Time) int {
	return d.captures.CleanupExpired(now)
}

// BindTeardown registers detach hooks on a reference element map so
// capture entries, focus membership, and handler registrations die with
// their element.
func (d *Dispatcher) BindTeardown(m *element.Map) {
	m.OnDetach(func(id element.ID) {
		d.captures.ReleaseElement(id)
		d.focus.RemoveMember(id)
		d.router.ClearElement(id)
		if d.activeText == id {
			d.SetActiveTextContext(element.None)
		}
	})
}

// announcer delivers focus notifications to elements as routed direct
// events.
type announcer struct {
	d *Dispatcher
}

// AnnounceLost implements focus.Announcer.
func (a *announcer) AnnounceLost(el element.ID, t focus.Type) {
	args := routedevent.NewArgs(a.d.events.LostFocus, t)
	a.d.router.Dispatch(el, args)
}

// AnnounceGot implements focus.Announcer.
func (a *announcer) AnnounceGot(el element.ID, t focus.Type) {
	args := routedevent.NewArgs(a.d.events.GotFocus, t)
	a.d.router.Dispatch(el, args)
}
