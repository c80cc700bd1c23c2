package script

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/glint/internal/capture"
	"github.com/dshills/glint/internal/pointer"
)

// Script function names looked up on each decision.
const (
	captureFn = "should_capture"
	releaseFn = "should_release"
)

// Policy is a capture.Policy whose decisions come from a Lua script. A
// policy owns one Lua state; calls are serialized internally so it is safe
// to share with the capture manager's callers.
type Policy struct {
	mu sync.Mutex

	state    *lua.LState
	fallback capture.Policy
	timeout  time.Duration
	onError  func(error)
}

// PolicyOption configures a Policy.
type PolicyOption func(*Policy)

// WithFallback sets the policy consulted when the script fails. Defaults
// to the built-in capture policy.
func WithFallback(p capture.Policy) PolicyOption {
	return func(pol *Policy) {
		if p != nil {
			pol.fallback = p
		}
	}
}

// WithCallTimeout bounds each script call. Defaults to 50ms.
func WithCallTimeout(d time.Duration) PolicyOption {
	return func(pol *Policy) {
		if d > 0 {
			pol.timeout = d
		}
	}
}

// WithErrorReporter installs the script-failure callback.
func WithErrorReporter(fn func(error)) PolicyOption {
	return func(pol *Policy) {
		pol.onError = fn
	}
}

// NewPolicy compiles source and returns a policy backed by it. The source
// must define should_capture and should_release at top level.
func NewPolicy(source string, opts ...PolicyOption) (*Policy, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)

	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading capture policy script: %w", err)
	}

	for _, name := range []string{captureFn, releaseFn} {
		if _, ok := L.GetGlobal(name).(*lua.LFunction); !ok {
			L.Close()
			return nil, fmt.Errorf("capture policy script must define %s", name)
		}
	}

	p := &Policy{
		state:    L,
		fallback: capture.DefaultPolicy{},
		timeout:  50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Close frees the Lua state. The policy must not be used afterwards.
func (p *Policy) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != nil {
		p.state.Close()
		p.state = nil
	}
}

// ShouldAutoCapture implements capture.Policy.
func (p *Policy) ShouldAutoCapture(ev pointer.Event) bool {
	result, err := p.call(captureFn, ev, nil)
	if err != nil {
		p.report(err)
		return p.fallback.ShouldAutoCapture(ev)
	}
	return result
}

// ShouldAutoRelease implements capture.Policy.
func (p *Policy) ShouldAutoRelease(entry capture.Entry, ev pointer.Event) bool {
	result, err := p.call(releaseFn, ev, &entry)
	if err != nil {
		p.report(err)
		return p.fallback.ShouldAutoRelease(entry, ev)
	}
	return result
}

// call invokes a script function with the event (and, for release
// decisions, the capture entry) and interprets the result as a boolean.
func (p *Policy) call(name string, ev pointer.Event, entry *capture.Entry) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	L := p.state
	if L == nil {
		return false, fmt.Errorf("capture policy script is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	L.SetContext(ctx)
	defer L.RemoveContext()

	fn := L.GetGlobal(name)
	var args []lua.LValue
	if entry != nil {
		args = append(args, entryTable(L, *entry))
	}
	args = append(args, eventTable(L, ev))

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return false, fmt.Errorf("calling %s: %w", name, err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	return lua.LVAsBool(ret), nil
}

func (p *Policy) report(err error) {
	if p.onError != nil {
		p.onError(err)
	}
}

// eventTable converts a pointer event to a Lua table.
func eventTable(L *lua.LState, ev pointer.Event) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "pointer", lua.LNumber(ev.Pointer))
	L.SetField(t, "kind", lua.LString(ev.Kind.String()))
	L.SetField(t, "button", lua.LString(ev.Button.String()))
	L.SetField(t, "held", lua.LNumber(ev.Held))
	L.SetField(t, "x", lua.LNumber(ev.X))
	L.SetField(t, "y", lua.LNumber(ev.Y))
	L.SetField(t, "scroll_x", lua.LNumber(ev.ScrollX))
	L.SetField(t, "scroll_y", lua.LNumber(ev.ScrollY))
	L.SetField(t, "hit_target", lua.LNumber(ev.HitTarget))
	return t
}

// entryTable converts a capture entry to a Lua table.
func entryTable(L *lua.LState, entry capture.Entry) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "target", lua.LNumber(entry.Target))
	L.SetField(t, "pointer", lua.LNumber(entry.Pointer))
	L.SetField(t, "kind", lua.LString(entry.Kind.String()))
	L.SetField(t, "auto_release", lua.LBool(entry.AutoRelease))
	return t
}

// openSafeLibs loads only the libraries a policy decision can use. The io,
// os, and debug libraries are never opened.
func openSafeLibs(L *lua.LState) {
	libs := []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage}, // must open first
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// sandbox removes the script's access to dynamic code loading from the
// base library and closes the module search paths.
func sandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	if pkg, ok := L.GetGlobal("package").(*lua.LTable); ok {
		L.SetField(pkg, "path", lua.LString(""))
		L.SetField(pkg, "cpath", lua.LString(""))
	}
}

var _ capture.Policy = (*Policy)(nil)
