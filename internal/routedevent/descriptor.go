package routedevent

import (
	"time"

	"github.com/dshills/glint/internal/element"
)

// Strategy is the direction of propagation relative to the element tree.
type Strategy uint8

const (
	// Bubble delivers from the source up to the root.
	Bubble Strategy = iota
	// Tunnel delivers from the root down to the source.
	Tunnel
	// Direct delivers once, to the source only.
	Direct
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case Bubble:
		return "bubble"
	case Tunnel:
		return "tunnel"
	case Direct:
		return "direct"
	default:
		return "unknown"
	}
}

// Descriptor describes an interned routed event. Descriptors are immutable
// once minted by a Registry; compare them by pointer or by Key.
type Descriptor struct {
	name     string
	owner    string
	strategy Strategy
	sequence uint64
	registry *Registry
}

// Name returns the event name.
func (d *Descriptor) Name() string { return d.name }

// Owner returns the owner key the descriptor was registered under.
func (d *Descriptor) Owner() string { return d.owner }

// Strategy returns the routing strategy.
func (d *Descriptor) Strategy() Strategy { return d.strategy }

// Sequence returns the global registration sequence number.
func (d *Descriptor) Sequence() uint64 { return d.sequence }

// Key returns the display form of the (owner, name) pair, e.g.
// "Button.Click". It is not guaranteed unique when owners contain dots;
// registries and routers index descriptors by the pair itself.
func (d *Descriptor) Key() string { return d.owner + "." + d.name }

// descKey is the interning key. A struct of both parts cannot collide the
// way a joined string can when an owner contains a separator.
type descKey struct {
	owner string
	name  string
}

func (d *Descriptor) key() descKey { return descKey{owner: d.owner, name: d.name} }

// Args carries the mutable state of one dispatch. An Args value is only
// valid for the duration of a single Dispatch call.
type Args struct {
	// Descriptor identifies the event being dispatched.
	Descriptor *Descriptor

	// Source is the element currently receiving the event. The router
	// overwrites it as propagation advances.
	Source element.ID

	// OriginalSource is the element the route started from. It is fixed
	// at the first hop and preserved across all hops.
	OriginalSource element.ID

	// Handled stops propagation when set by a handler.
	Handled bool

	// Payload carries event-specific data.
	Payload any

	// Timestamp is when the underlying platform event occurred.
	Timestamp time.Time
}

// NewArgs creates dispatch args for a descriptor and payload.
func NewArgs(desc *Descriptor, payload any) *Args {
	return &Args{Descriptor: desc, Payload: payload, Timestamp: time.Now()}
}
