package queue

import (
	"errors"
	"testing"
)

func threeTracks() []Track {
	return []Track{
		{ID: "a", Title: "A", Src: "/music/a.mp3"},
		{ID: "b", Title: "B", Src: "/music/b.mp3"},
		{ID: "c", Title: "C", Src: "/music/c.mp3"},
	}
}

func TestNew(t *testing.T) {
	q := New()

	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", q.CurrentIndex())
	}
	if q.Current() != nil {
		t.Error("Current() should be nil for empty queue")
	}
}

func TestQueue_SetQueue(t *testing.T) {
	q := New()

	if err := q.SetQueue(threeTracks(), 1); err != nil {
		t.Fatalf("SetQueue() error = %v", err)
	}

	if q.Len() != 3 {
		t.Errorf("Len() = %d, want 3", q.Len())
	}
	if q.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", q.CurrentIndex())
	}
	if got := q.Current(); got == nil || got.ID != "b" {
		t.Errorf("Current() = %v, want track b", got)
	}
}

func TestQueue_SetQueue_ClampsIndex(t *testing.T) {
	q := New()

	// Index past the end, as with a stale persisted snapshot.
	if err := q.SetQueue(threeTracks(), 5); err != nil {
		t.Fatalf("SetQueue() error = %v", err)
	}
	if q.CurrentIndex() != 2 {
		t.Errorf("CurrentIndex() = %d, want 2 (clamped)", q.CurrentIndex())
	}

	if err := q.SetQueue(threeTracks(), -3); err != nil {
		t.Fatalf("SetQueue() error = %v", err)
	}
	if q.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0 (clamped)", q.CurrentIndex())
	}
}

func TestQueue_SetQueue_EmptyWithSelection(t *testing.T) {
	q := New()
	if err := q.SetQueue(threeTracks(), 0); err != nil {
		t.Fatalf("SetQueue() error = %v", err)
	}

	err := q.SetQueue(nil, 0)

	if !errors.Is(err, ErrInvalidQueue) {
		t.Errorf("SetQueue(nil, 0) error = %v, want ErrInvalidQueue", err)
	}
	// State unchanged on rejection.
	if q.Len() != 3 || q.CurrentIndex() != 0 {
		t.Errorf("queue changed after rejected SetQueue: len=%d index=%d", q.Len(), q.CurrentIndex())
	}
}

func TestQueue_SetQueue_EmptyWithoutSelection(t *testing.T) {
	q := New()
	_ = q.SetQueue(threeTracks(), 0)

	if err := q.SetQueue(nil, -1); err != nil {
		t.Fatalf("SetQueue(nil, -1) error = %v", err)
	}
	if !q.IsEmpty() {
		t.Error("queue should be empty")
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", q.CurrentIndex())
	}
}

func TestQueue_SetQueue_CopiesInput(t *testing.T) {
	q := New()
	tracks := threeTracks()
	_ = q.SetQueue(tracks, 0)

	tracks[0].ID = "mutated"

	if got := q.Current(); got.ID != "a" {
		t.Errorf("Current().ID = %q, want a (queue should own its copy)", got.ID)
	}
}

func TestQueue_AdvanceRetreat(t *testing.T) {
	q := New()
	_ = q.SetQueue(threeTracks(), 0)

	q.Advance()
	if q.CurrentIndex() != 1 {
		t.Errorf("after Advance: CurrentIndex() = %d, want 1", q.CurrentIndex())
	}

	q.Advance()
	q.Advance() // at end, no-op
	if q.CurrentIndex() != 2 {
		t.Errorf("Advance at boundary: CurrentIndex() = %d, want 2", q.CurrentIndex())
	}

	q.Retreat()
	q.Retreat()
	q.Retreat() // at start, no-op
	if q.CurrentIndex() != 0 {
		t.Errorf("Retreat at boundary: CurrentIndex() = %d, want 0", q.CurrentIndex())
	}
}

func TestQueue_HasNextHasPrev(t *testing.T) {
	q := New()
	if q.HasNext() || q.HasPrev() {
		t.Error("empty queue should have neither next nor prev")
	}

	_ = q.SetQueue(threeTracks(), 1)
	if !q.HasNext() {
		t.Error("HasNext() = false at index 1 of 3")
	}
	if !q.HasPrev() {
		t.Error("HasPrev() = false at index 1 of 3")
	}

	_ = q.SetQueue(threeTracks()[:1], 0)
	if q.HasNext() || q.HasPrev() {
		t.Error("single-track queue should have neither next nor prev")
	}
}

func TestQueue_JumpTo(t *testing.T) {
	q := New()
	_ = q.SetQueue(threeTracks(), 0)

	track := q.JumpTo(2)
	if track == nil || track.ID != "c" {
		t.Errorf("JumpTo(2) = %v, want track c", track)
	}

	if got := q.JumpTo(7); got != nil {
		t.Errorf("JumpTo(7) = %v, want nil", got)
	}
	if q.CurrentIndex() != 2 {
		t.Errorf("invalid JumpTo changed index to %d", q.CurrentIndex())
	}
}

func TestQueue_IndexOf(t *testing.T) {
	q := New()
	_ = q.SetQueue(threeTracks(), 0)

	if got := q.IndexOf("b"); got != 1 {
		t.Errorf("IndexOf(b) = %d, want 1", got)
	}
	if got := q.IndexOf("missing"); got != -1 {
		t.Errorf("IndexOf(missing) = %d, want -1", got)
	}
}

// Index stays in range after any sequence of navigation and replace operations.
func TestQueue_IndexAlwaysInRange(t *testing.T) {
	q := New()
	ops := []func(){
		func() { _ = q.SetQueue(threeTracks(), 2) },
		func() { q.Advance() },
		func() { q.Advance() },
		func() { q.Retreat() },
		func() { _ = q.SetQueue(threeTracks()[:1], 0) },
		func() { q.Advance() },
		func() { _ = q.SetQueue(threeTracks(), 99) },
		func() { q.Retreat() },
	}

	for i, op := range ops {
		op()
		if q.IsEmpty() {
			continue
		}
		if idx := q.CurrentIndex(); idx < 0 || idx >= q.Len() {
			t.Fatalf("after op %d: index %d out of range (len %d)", i, idx, q.Len())
		}
	}
}
