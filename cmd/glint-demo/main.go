// Package main is a small interactive demo of the input pipeline.
//
// It draws three buttons and a text field in the terminal. Click or Tab
// between them, drag from a button to see pointer capture hold the target,
// and type into the field. Escape quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/glint/internal/capture"
	"github.com/dshills/glint/internal/config"
	"github.com/dshills/glint/internal/dispatch"
	"github.com/dshills/glint/internal/element"
	"github.com/dshills/glint/internal/focus"
	"github.com/dshills/glint/internal/keyboard"
	"github.com/dshills/glint/internal/routedevent"
	"github.com/dshills/glint/internal/script"
	"github.com/dshills/glint/internal/terminal"
)

func main() {
	os.Exit(run())
}

// box is a demo widget with a fixed screen rectangle.
type box struct {
	id    element.ID
	x, y  int
	w, h  int
	label string
}

func (b *box) contains(x, y int) bool {
	return x >= b.x && x < b.x+b.w && y >= b.y && y < b.y+b.h
}

func run() int {
	var configPath, policyPath string
	flag.StringVar(&configPath, "config", "", "path to settings file")
	flag.StringVar(&policyPath, "policy", "", "path to Lua capture policy script")
	flag.Parse()

	settings, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	tree := element.NewMap()
	root := tree.Attach(element.None)

	boxes := []*box{
		{id: tree.Attach(root), x: 2, y: 1, w: 12, h: 3, label: "Alpha"},
		{id: tree.Attach(root), x: 16, y: 1, w: 12, h: 3, label: "Beta"},
		{id: tree.Attach(root), x: 30, y: 1, w: 12, h: 3, label: "Gamma"},
	}
	field := &box{id: tree.Attach(root), x: 2, y: 5, w: 40, h: 3, label: ""}

	hit := dispatch.HitTesterFunc(func(x, y int) element.ID {
		for _, b := range boxes {
			if b.contains(x, y) {
				return b.id
			}
		}
		if field.contains(x, y) {
			return field.id
		}
		return element.None
	})

	opts := []dispatch.Option{
		dispatch.WithHitTester(hit),
		dispatch.WithMultiPressInterval(settings.Pointer.MultiPressInterval()),
		dispatch.WithCaptureOptions(
			capture.WithTimeout(settings.Capture.Timeout()),
			capture.WithNestedCapture(settings.Capture.NestedCapture),
		),
		dispatch.WithFocusOptions(
			focus.WithStrategy(focus.TabStrategy{NoWrap: !settings.Focus.TabWraps}),
		),
	}
	if policyPath != "" {
		source, err := os.ReadFile(policyPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: reading policy script: %v\n", err)
			return 1
		}
		policy, err := script.NewPolicy(string(source))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer policy.Close()
		opts = append(opts, dispatch.WithCaptureOptions(capture.WithPolicy(policy)))
	}

	d, err := dispatch.NewDispatcher(tree, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	d.BindTeardown(tree)
	d.Composition().SetEnabled(settings.Composition.Enabled)

	for _, b := range boxes {
		d.Focus().AddMember(nil, b.id)
	}
	d.Focus().AddMember(nil, field.id)
	d.SetActiveTextContext(field.id)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pressed element.ID
	render := func() {
		screen.Clear()
		focusHolder, _ := d.Focus().Focused(focus.Keyboard)
		for _, b := range boxes {
			drawBox(screen, b, b.id == focusHolder, b.id == pressed)
		}
		drawBox(screen, field, field.id == focusHolder, false)
		screen.Show()
	}

	for _, b := range boxes {
		b := b
		d.Router().AddHandler(b.id, d.Events().PointerPressed, func(a *routedevent.Args) {
			pressed = b.id
			a.Handled = true
			render()
		}, false)
		d.Router().AddHandler(b.id, d.Events().PointerReleased, func(a *routedevent.Args) {
			pressed = element.None
			render()
		}, false)
	}
	d.Router().AddHandler(field.id, d.Events().TextInput, func(a *routedevent.Args) {
		field.label += a.Payload.(keyboard.TextEvent).Text
		render()
	}, false)
	d.Router().AddHandler(field.id, d.Events().KeyDown, func(a *routedevent.Args) {
		ev := a.Payload.(keyboard.Event)
		if ev.Key == keyboard.KeyBackspace && field.label != "" {
			field.label = field.label[:len(field.label)-1]
			render()
		}
	}, false)
	d.Router().AddHandler(root, d.Events().KeyDown, func(a *routedevent.Args) {
		if a.Payload.(keyboard.Event).Key == keyboard.KeyEscape {
			cancel()
		}
	}, false)
	d.Focus().Subscribe(func(focus.Change) { render() })

	// Escape must reach the root even with nothing focused.
	d.Focus().AddMember(nil, root, focus.WithTabStop(false))
	d.Focus().SetFocus(root, focus.Keyboard)

	// Live-reload settings while the demo runs.
	if configPath != "" {
		w, err := config.NewWatcher(configPath, func(s config.Settings) {
			d.Composition().SetEnabled(s.Composition.Enabled)
		})
		if err == nil {
			defer w.Close()
		}
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	render()
	terminal.NewFeed(screen).Run(ctx, d)
	return 0
}

// drawBox renders a bordered rectangle with its label.
func drawBox(screen tcell.Screen, b *box, focused, pressed bool) {
	style := tcell.StyleDefault
	if focused {
		style = style.Foreground(tcell.ColorYellow).Bold(true)
	}
	if pressed {
		style = style.Reverse(true)
	}

	for x := b.x; x < b.x+b.w; x++ {
		screen.SetContent(x, b.y, tcell.RuneHLine, nil, style)
		screen.SetContent(x, b.y+b.h-1, tcell.RuneHLine, nil, style)
	}
	for y := b.y; y < b.y+b.h; y++ {
		screen.SetContent(b.x, y, tcell.RuneVLine, nil, style)
		screen.SetContent(b.x+b.w-1, y, tcell.RuneVLine, nil, style)
	}
	screen.SetContent(b.x, b.y, tcell.RuneULCorner, nil, style)
	screen.SetContent(b.x+b.w-1, b.y, tcell.RuneURCorner, nil, style)
	screen.SetContent(b.x, b.y+b.h-1, tcell.RuneLLCorner, nil, style)
	screen.SetContent(b.x+b.w-1, b.y+b.h-1, tcell.RuneLRCorner, nil, style)

	label := b.label
	if len(label) > b.w-2 {
		label = label[len(label)-(b.w-2):]
	}
	for i, r := range label {
		screen.SetContent(b.x+1+i, b.y+1, r, nil, style)
	}
}
