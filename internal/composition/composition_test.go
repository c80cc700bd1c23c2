package composition

import (
	"errors"
	"testing"
)

func TestCandidateSelectionFlow(t *testing.T) {
	e := NewEngine()

	var commits []Commit
	e.SubscribeCommit(func(c Commit) { commits = append(commits, c) })

	ctx := ContextID(7)
	if err := e.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := e.Update("ni", Selection{Start: 0, End: 2}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := e.SetCandidates([]string{"你", "尼"}, 0); err != nil {
		t.Fatalf("SetCandidates failed: %v", err)
	}
	if e.State() != Selecting {
		t.Fatalf("expected Selecting, got %v", e.State())
	}
	if err := e.SelectCandidate(1); err != nil {
		t.Fatalf("SelectCandidate failed: %v", err)
	}

	if e.State() != Idle {
		t.Errorf("expected Idle after selection, got %v", e.State())
	}
	if len(commits) != 1 {
		t.Fatalf("expected 1 commit, got %d", len(commits))
	}
	if commits[0].Text != "尼" || commits[0].Context != ctx {
		t.Errorf("expected commit 尼 to context %d, got %q to %d", ctx, commits[0].Text, commits[0].Context)
	}
	if len(e.Preedit().Candidates) != 0 {
		t.Error("expected empty candidate list after commit")
	}
	if e.Context().IsValid() {
		t.Error("expected context reference dropped after session end")
	}
}

func TestCancelNeverCommits(t *testing.T) {
	e := NewEngine()

	var commits []Commit
	e.SubscribeCommit(func(c Commit) { commits = append(commits, c) })

	e.Start(ContextID(1))
	e.Update("typed but abandoned", Selection{})
	e.Cancel()

	if len(commits) != 0 {
		t.Errorf("expected no commit on cancel, got %v", commits)
	}
	if e.State() != Idle {
		t.Errorf("expected Idle after cancel, got %v", e.State())
	}

	// Idempotent with no session open.
	e.Cancel()
	if e.State() != Idle {
		t.Error("expected repeated cancel to be a no-op")
	}
}

func TestEndCommitsBuffer(t *testing.T) {
	e := NewEngine()

	var commits []Commit
	e.SubscribeCommit(func(c Commit) { commits = append(commits, c) })

	e.Start(ContextID(1))
	e.Update("こんにちは", Selection{})
	if err := e.End(""); err != nil {
		t.Fatalf("End failed: %v", err)
	}

	if len(commits) != 1 || commits[0].Text != "こんにちは" {
		t.Errorf("expected buffer committed, got %v", commits)
	}
}

func TestEndCommitsExplicitText(t *testing.T) {
	e := NewEngine()

	var commits []Commit
	e.SubscribeCommit(func(c Commit) { commits = append(commits, c) })

	e.Start(ContextID(1))
	e.Update("nihao", Selection{})
	e.End("你好")

	if len(commits) != 1 || commits[0].Text != "你好" {
		t.Errorf("expected explicit text to win over buffer, got %v", commits)
	}
}

func TestEndEmptyBufferNoCommit(t *testing.T) {
	e := NewEngine()

	var commits []Commit
	e.SubscribeCommit(func(c Commit) { commits = append(commits, c) })

	e.Start(ContextID(1))
	e.End("")

	if len(commits) != 0 {
		t.Errorf("expected no commit for empty final text, got %v", commits)
	}
}

func TestCommitNormalizedNFC(t *testing.T) {
	e := NewEngine()

	var commits []Commit
	e.SubscribeCommit(func(c Commit) { commits = append(commits, c) })

	e.Start(ContextID(1))
	// "e" followed by combining acute accent; NFC folds it to U+00E9.
	e.End("é")

	if len(commits) != 1 || commits[0].Text != "é" {
		t.Errorf("expected NFC-normalized commit \\u00e9, got %q", commits[0].Text)
	}
}

func TestStartValidation(t *testing.T) {
	e := NewEngine()
	if err := e.Start(ContextID(0)); !errors.Is(err, ErrInvalidContext) {
		t.Errorf("expected ErrInvalidContext, got %v", err)
	}
	e.Start(ContextID(1))
	if err := e.Start(ContextID(2)); !errors.Is(err, ErrAlreadyComposing) {
		t.Errorf("expected ErrAlreadyComposing, got %v", err)
	}
}

func TestSessionCallsRequireSession(t *testing.T) {
	e := NewEngine()
	if err := e.Update("x", Selection{}); !errors.Is(err, ErrNotComposing) {
		t.Errorf("expected ErrNotComposing from Update, got %v", err)
	}
	if err := e.SetCandidates([]string{"a"}, 0); !errors.Is(err, ErrNotComposing) {
		t.Errorf("expected ErrNotComposing from SetCandidates, got %v", err)
	}
	if err := e.End("x"); !errors.Is(err, ErrNotComposing) {
		t.Errorf("expected ErrNotComposing from End, got %v", err)
	}
	if err := e.SelectCandidate(0); !errors.Is(err, ErrNoCandidates) {
		t.Errorf("expected ErrNoCandidates, got %v", err)
	}
}

func TestSelectCandidateValidation(t *testing.T) {
	e := NewEngine()
	e.Start(ContextID(1))
	if err := e.SelectCandidate(0); !errors.Is(err, ErrNoCandidates) {
		t.Errorf("expected ErrNoCandidates while Composing, got %v", err)
	}
	e.SetCandidates([]string{"a", "b"}, 0)
	if err := e.SelectCandidate(5); !errors.Is(err, ErrCandidateIndex) {
		t.Errorf("expected ErrCandidateIndex, got %v", err)
	}
	if err := e.SelectCandidate(-1); !errors.Is(err, ErrCandidateIndex) {
		t.Errorf("expected ErrCandidateIndex for negative, got %v", err)
	}
}

func TestEmptyCandidateListReturnsToComposing(t *testing.T) {
	e := NewEngine()
	e.Start(ContextID(1))
	e.SetCandidates([]string{"a"}, 0)
	if e.State() != Selecting {
		t.Fatalf("expected Selecting, got %v", e.State())
	}
	e.SetCandidates(nil, 0)
	if e.State() != Composing {
		t.Errorf("expected Composing after empty list, got %v", e.State())
	}
	if e.Preedit().SelectedIndex != -1 {
		t.Error("expected selected index reset")
	}
}

func TestDisableCancelsInFlight(t *testing.T) {
	e := NewEngine()

	var commits []Commit
	e.SubscribeCommit(func(c Commit) { commits = append(commits, c) })
	var changes []Change
	e.SubscribeChange(func(c Change) { changes = append(changes, c) })

	e.Start(ContextID(1))
	e.Update("pending", Selection{})
	e.SetEnabled(false)

	if e.State() != Disabled {
		t.Fatalf("expected Disabled, got %v", e.State())
	}
	if len(commits) != 0 {
		t.Error("expected implicit cancel to commit nothing")
	}

	// Mutations are no-ops while disabled.
	if err := e.Start(ContextID(2)); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled from Start, got %v", err)
	}
	if err := e.Update("x", Selection{}); err != nil {
		t.Errorf("expected Update no-op while disabled, got %v", err)
	}
	if err := e.End("x"); err != nil {
		t.Errorf("expected End no-op while disabled, got %v", err)
	}
	e.Cancel()
	if len(commits) != 0 {
		t.Error("expected nothing committed while disabled")
	}

	e.SetEnabled(true)
	if e.State() != Idle {
		t.Errorf("expected Idle after re-enable, got %v", e.State())
	}
	last := changes[len(changes)-1]
	if last.Old != Disabled || last.New != Idle {
		t.Errorf("expected Disabled->Idle transition, got %+v", last)
	}
}

func TestSetEnabledRedundant(t *testing.T) {
	e := NewEngine()
	var changes []Change
	e.SubscribeChange(func(c Change) { changes = append(changes, c) })

	e.SetEnabled(true) // already enabled
	if len(changes) != 0 {
		t.Errorf("expected no transition for redundant enable, got %v", changes)
	}
	e.SetEnabled(false)
	e.SetEnabled(false) // already disabled
	if len(changes) != 1 {
		t.Errorf("expected single disable transition, got %v", changes)
	}
}

func TestPreeditSnapshot(t *testing.T) {
	e := NewEngine()
	e.Start(ContextID(3))
	// Two grapheme clusters: a flag emoji (two runes) and an accented e.
	e.Update("\U0001F1EF\U0001F1F5é", Selection{Start: 0, End: 8})
	e.SetCandidates([]string{"x", "y"}, 1)

	p := e.Preedit()
	if p.Context != ContextID(3) {
		t.Errorf("expected context 3, got %d", p.Context)
	}
	if p.Graphemes != 2 {
		t.Errorf("expected 2 grapheme clusters, got %d", p.Graphemes)
	}
	if p.SelectedIndex != 1 || len(p.Candidates) != 2 {
		t.Errorf("unexpected candidate snapshot %+v", p)
	}

	// The snapshot is a copy; mutating it must not affect the engine.
	p.Candidates[0] = "mutated"
	if e.Preedit().Candidates[0] != "x" {
		t.Error("expected engine candidates to be isolated from snapshot")
	}
}

func TestChangeNotificationSequence(t *testing.T) {
	e := NewEngine()
	var changes []Change
	e.SubscribeChange(func(c Change) { changes = append(changes, c) })

	e.Start(ContextID(1))
	e.SetCandidates([]string{"a"}, 0)
	e.SelectCandidate(0)

	want := []struct{ old, new State }{
		{Idle, Composing},
		{Composing, Selecting},
		{Selecting, Idle},
	}
	if len(changes) != len(want) {
		t.Fatalf("expected %d transitions, got %d: %v", len(want), len(changes), changes)
	}
	for i, w := range want {
		if changes[i].Old != w.old || changes[i].New != w.new {
			t.Errorf("transition %d = %v->%v, want %v->%v",
				i, changes[i].Old, changes[i].New, w.old, w.new)
		}
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Idle, "idle"},
		{Composing, "composing"},
		{Selecting, "selecting"},
		{Disabled, "disabled"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
