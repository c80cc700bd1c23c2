package focus

import (
	"testing"

	"github.com/dshills/glint/internal/element"
)

// tabScope builds a scope with members at tab indices [2, 5, 5, 9] in
// registration order.
func tabScope(t *testing.T) (*Scope, []element.ID) {
	t.Helper()
	scope := &Scope{name: "test"}
	els := make([]element.ID, 4)
	for i, index := range []int{2, 5, 5, 9} {
		els[i] = element.NewID()
		scope.AddMember(els[i], WithTabIndex(index))
	}
	return scope, els
}

func TestTabStrategyTieBreakByRegistration(t *testing.T) {
	scope, els := tabScope(t)
	var strategy TabStrategy

	// From the first tab-index-5 element, Next lands on the second
	// tab-index-5 element, not on 9.
	next, ok := strategy.Move(scope, els[1], Next)
	if !ok || next != els[2] {
		t.Errorf("expected Next to land on second index-5 member %d, got %d (ok=%v)", els[2], next, ok)
	}
}

func TestTabStrategyWraparound(t *testing.T) {
	scope, els := tabScope(t)
	var strategy TabStrategy

	next, ok := strategy.Move(scope, els[3], Next)
	if !ok || next != els[0] {
		t.Errorf("expected Next from last to wrap to %d, got %d", els[0], next)
	}
	prev, ok := strategy.Move(scope, els[0], Previous)
	if !ok || prev != els[3] {
		t.Errorf("expected Previous from first to wrap to %d, got %d", els[3], prev)
	}
}

func TestTabStrategyNoWrapStopsAtEnds(t *testing.T) {
	scope, els := tabScope(t)
	strategy := TabStrategy{NoWrap: true}

	if _, ok := strategy.Move(scope, els[3], Next); ok {
		t.Error("expected Next from last stop to fail without wrapping")
	}
	if _, ok := strategy.Move(scope, els[0], Previous); ok {
		t.Error("expected Previous from first stop to fail without wrapping")
	}
	// Interior moves are unaffected.
	if next, ok := strategy.Move(scope, els[0], Next); !ok || next != els[1] {
		t.Errorf("expected interior Next to work, got %d (ok=%v)", next, ok)
	}
}

func TestTabStrategyFirstLast(t *testing.T) {
	scope, els := tabScope(t)
	var strategy TabStrategy

	if first, ok := strategy.Move(scope, els[2], First); !ok || first != els[0] {
		t.Errorf("expected First = %d, got %d", els[0], first)
	}
	if last, ok := strategy.Move(scope, els[2], Last); !ok || last != els[3] {
		t.Errorf("expected Last = %d, got %d", els[3], last)
	}
}

func TestTabStrategyAbsentCurrent(t *testing.T) {
	scope, els := tabScope(t)
	var strategy TabStrategy

	if next, ok := strategy.Move(scope, element.None, Next); !ok || next != els[0] {
		t.Errorf("expected Next with no current to return first, got %d", next)
	}
	if prev, ok := strategy.Move(scope, element.NewID(), Previous); !ok || prev != els[3] {
		t.Errorf("expected Previous with unknown current to return last, got %d", prev)
	}
}

func TestTabStrategySkipsNonStops(t *testing.T) {
	scope := &Scope{name: "test"}
	a := element.NewID()
	b := element.NewID()
	c := element.NewID()
	scope.AddMember(a, WithTabIndex(1))
	scope.AddMember(b, WithTabIndex(2), WithTabStop(false))
	scope.AddMember(c, WithTabIndex(3), WithFocusable(false))

	var strategy TabStrategy
	next, ok := strategy.Move(scope, a, Next)
	if !ok || next != a {
		t.Errorf("expected sole tab stop to wrap to itself, got %d (ok=%v)", next, ok)
	}
}

func TestTabStrategyDirectionalNoMatch(t *testing.T) {
	scope, els := tabScope(t)
	var strategy TabStrategy

	for _, dir := range []Direction{Up, Down, Left, Right} {
		if _, ok := strategy.Move(scope, els[0], dir); ok {
			t.Errorf("expected no match for directional move %v", dir)
		}
	}
}

func TestTabStrategyEmptyScope(t *testing.T) {
	var strategy TabStrategy
	if _, ok := strategy.Move(&Scope{name: "empty"}, element.None, Next); ok {
		t.Error("expected no match in empty scope")
	}
	if _, ok := strategy.Move(nil, element.None, Next); ok {
		t.Error("expected no match for nil scope")
	}
}
