package catalog

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleSnapshot(t *testing.T) Snapshot {
	t.Helper()
	snapshot, err := NewSnapshot(1, SampleRecords())
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return snapshot
}

func TestNewViewStateInitialValues(t *testing.T) {
	t.Parallel()

	state := NewViewState(sampleSnapshot(t))
	if state.Query() != "" {
		t.Errorf("expected empty query, got %q", state.Query())
	}
	if state.Category() != AllCategories {
		t.Errorf("expected category All, got %q", state.Category())
	}
	if got := ids(state.View()); len(got) != 6 {
		t.Errorf("expected all six records, got %v", got)
	}
}

func TestViewStateQueryStoredVerbatim(t *testing.T) {
	t.Parallel()

	state := NewViewState(sampleSnapshot(t))
	state.SetQuery("  Space  ")
	if state.Query() != "  Space  " {
		t.Fatalf("expected query stored verbatim, got %q", state.Query())
	}
}

func TestViewStateRejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	state := NewViewState(sampleSnapshot(t))
	if err := state.SetCategory("Action"); err != nil {
		t.Fatalf("SetCategory(Action): %v", err)
	}
	err := state.SetCategory("Documentary")
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if state.Category() != "Action" {
		t.Fatalf("expected category unchanged after rejection, got %q", state.Category())
	}
}

func TestViewStateTransitionsCommute(t *testing.T) {
	t.Parallel()

	snapshot := sampleSnapshot(t)

	a := NewViewState(snapshot)
	a.SetQuery("e")
	if err := a.SetCategory("Thriller"); err != nil {
		t.Fatalf("SetCategory: %v", err)
	}

	b := NewViewState(snapshot)
	if err := b.SetCategory("Thriller"); err != nil {
		t.Fatalf("SetCategory: %v", err)
	}
	b.SetQuery("e")

	if diff := cmp.Diff(a.View(), b.View()); diff != "" {
		t.Fatalf("views differ by transition order (-a +b):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"m4"}, ids(a.View())); diff != "" {
		t.Fatalf("unexpected view (-want +got):\n%s", diff)
	}
}

func TestViewStateRecomputesAfterEveryTransition(t *testing.T) {
	t.Parallel()

	state := NewViewState(sampleSnapshot(t))
	state.SetQuery("zzz")
	if got := state.View(); len(got) != 0 {
		t.Fatalf("expected empty view, got %v", ids(got))
	}
	state.SetQuery("")
	if got := state.View(); len(got) != 6 {
		t.Fatalf("expected full view after clearing query, got %v", ids(got))
	}
}
