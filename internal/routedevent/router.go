package routedevent

import (
	"runtime/debug"
	"sync"

	"github.com/dshills/glint/internal/element"
)

// Handler processes one delivery of a routed event to one element.
type Handler func(args *Args)

// ErrorHandler receives failures recovered during dispatch. It runs on the
// dispatching goroutine; keep it fast.
type ErrorHandler func(err error)

// handlerEntry is one registered handler on one element for one descriptor.
type handlerEntry struct {
	id         uint64
	fn         Handler
	handledToo bool
}

// Router delivers routed events along propagation paths built from the
// element tree. Handler registration is safe for concurrent use; Dispatch
// is designed for the application's serialized input sequence.
type Router struct {
	tree element.Tree

	mu       sync.RWMutex
	handlers map[element.ID]map[descKey][]handlerEntry
	nextID   uint64

	errHandler ErrorHandler
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithErrorHandler sets the callback receiving recovered handler failures.
func WithErrorHandler(h ErrorHandler) RouterOption {
	return func(r *Router) {
		r.errHandler = h
	}
}

// NewRouter creates a router over the given tree capability.
// It panics on a nil tree; correct parent resolution is a precondition the
// embedding toolkit must supply.
func NewRouter(tree element.Tree, opts ...RouterOption) *Router {
	if tree == nil {
		panic("routedevent: NewRouter requires a non-nil tree")
	}
	r := &Router{
		tree:     tree,
		handlers: make(map[element.ID]map[descKey][]handlerEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddHandler attaches a handler to an element for a descriptor and returns
// a token for RemoveHandler. Handlers run in registration order.
//
// A handler added with handledToo still runs after the event is marked
// handled on its own element; it observes but cannot reopen the route.
func (r *Router) AddHandler(el element.ID, desc *Descriptor, h Handler, handledToo bool) (uint64, error) {
	if !el.IsValid() {
		return 0, ErrInvalidSource
	}
	if desc == nil {
		return 0, ErrInvalidDescriptor
	}
	if h == nil {
		return 0, ErrNilHandler
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	entry := handlerEntry{id: r.nextID, fn: h, handledToo: handledToo}

	byEvent := r.handlers[el]
	if byEvent == nil {
		byEvent = make(map[descKey][]handlerEntry)
		r.handlers[el] = byEvent
	}
	byEvent[desc.key()] = append(byEvent[desc.key()], entry)
	return entry.id, nil
}

// RemoveHandler detaches a handler by token. Returns false if the token is
// not registered for (el, desc).
func (r *Router) RemoveHandler(el element.ID, desc *Descriptor, token uint64) bool {
	if !el.IsValid() || desc == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byEvent := r.handlers[el]
	entries := byEvent[desc.key()]
	for i, entry := range entries {
		if entry.id == token {
			byEvent[desc.key()] = append(entries[:i], entries[i+1:]...)
			if len(byEvent[desc.key()]) == 0 {
				delete(byEvent, desc.key())
				if len(byEvent) == 0 {
					delete(r.handlers, el)
				}
			}
			return true
		}
	}
	return false
}

// ClearElement drops every handler attached to el. Element owners call this
// when tearing an element down.
func (r *Router) ClearElement(el element.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, el)
}

// Dispatch delivers args from source along the descriptor's propagation
// path. It sets args.Source per hop and fixes args.OriginalSource at the
// first hop of the route.
//
// Delivery stops as soon as a handler sets args.Handled; later path
// elements never see the event. A recovered handler panic is reported to
// the error handler and delivery continues.
func (r *Router) Dispatch(source element.ID, args *Args) error {
	if !source.IsValid() {
		return ErrInvalidSource
	}
	if args == nil {
		return ErrInvalidArgs
	}
	if args.Descriptor == nil {
		return ErrInvalidDescriptor
	}

	args.Source = source
	if !args.OriginalSource.IsValid() {
		args.OriginalSource = source
	}

	path := r.buildPath(source, args.Descriptor.Strategy())
	for _, el := range path {
		args.Source = el
		if stopped := r.deliver(el, args); stopped {
			break
		}
	}
	return nil
}

// buildPath constructs the propagation path for a strategy.
func (r *Router) buildPath(source element.ID, strategy Strategy) []element.ID {
	if strategy == Direct {
		return []element.ID{source}
	}
	path := element.PathToRoot(r.tree, source)
	if len(path) == 0 {
		// Source is detached from the tree; deliver to it alone.
		return []element.ID{source}
	}
	if strategy == Tunnel {
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
	}
	return path
}

// deliver runs el's handlers for the event. Returns true when the route
// must stop after this element.
func (r *Router) deliver(el element.ID, args *Args) bool {
	r.mu.RLock()
	entries := r.handlers[el][args.Descriptor.key()]
	// Copy so handler add/remove during delivery cannot race the slice.
	local := make([]handlerEntry, len(entries))
	copy(local, entries)
	r.mu.RUnlock()

	for _, entry := range local {
		if args.Handled && !entry.handledToo {
			continue
		}
		r.invoke(el, entry.fn, args)
	}
	return args.Handled
}

// invoke runs one handler with panic isolation.
func (r *Router) invoke(el element.ID, fn Handler, args *Args) {
	defer func() {
		if rec := recover(); rec != nil {
			r.report(&HandlerPanicError{
				Event:   args.Descriptor,
				Element: el,
				Value:   rec,
				Stack:   string(debug.Stack()),
			})
		}
	}()
	fn(args)
}

// report forwards a dispatch failure to the configured error handler.
func (r *Router) report(err error) {
	if r.errHandler != nil {
		r.errHandler(err)
	}
}
