package focus

import (
	"sort"

	"github.com/dshills/glint/internal/element"
)

// Strategy computes the destination of a focus navigation request within a
// scope. Returning false means the strategy has no match for the request.
type Strategy interface {
	Move(scope *Scope, current element.ID, dir Direction) (element.ID, bool)
}

// TabStrategy is the default navigation strategy: tab-order traversal with
// wraparound. Directional moves are left to a spatial strategy supplied by
// the layout layer.
type TabStrategy struct {
	// NoWrap stops Next at the last stop and Previous at the first
	// instead of wrapping around.
	NoWrap bool
}

// Move implements Strategy.
func (s TabStrategy) Move(scope *Scope, current element.ID, dir Direction) (element.ID, bool) {
	if scope == nil {
		return element.None, false
	}
	switch dir {
	case Next, Previous, First, Last:
	default:
		return element.None, false
	}

	candidates := tabOrder(scope)
	if len(candidates) == 0 {
		return element.None, false
	}

	switch dir {
	case First:
		return candidates[0], true
	case Last:
		return candidates[len(candidates)-1], true
	}

	pos := -1
	for i, el := range candidates {
		if el == current {
			pos = i
			break
		}
	}

	if pos < 0 {
		// Current holder absent or not a candidate: Next starts at the
		// first stop, Previous at the last.
		if dir == Next {
			return candidates[0], true
		}
		return candidates[len(candidates)-1], true
	}

	if dir == Next {
		if pos == len(candidates)-1 && s.NoWrap {
			return element.None, false
		}
		return candidates[(pos+1)%len(candidates)], true
	}
	if pos == 0 && s.NoWrap {
		return element.None, false
	}
	return candidates[(pos-1+len(candidates))%len(candidates)], true
}

// tabOrder returns the scope's tab-stop candidates ordered by ascending tab
// index, ties broken by registration order.
func tabOrder(scope *Scope) []element.ID {
	members := scope.Members()
	stops := make([]Member, 0, len(members))
	for _, m := range members {
		if m.TabStop && m.Focusable {
			stops = append(stops, m)
		}
	}
	sort.SliceStable(stops, func(i, j int) bool {
		if stops[i].TabIndex != stops[j].TabIndex {
			return stops[i].TabIndex < stops[j].TabIndex
		}
		return stops[i].order < stops[j].order
	})

	out := make([]element.ID, len(stops))
	for i, m := range stops {
		out[i] = m.Element
	}
	return out
}
