package queue

import "testing"

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		dir     Direction
		current int
		length  int
		repeat  bool
		want    Decision
	}{
		{"next mid-queue", Next, 1, 3, false, Decision{Kind: Advance, Index: 2}},
		{"next at end no repeat", Next, 2, 3, false, Decision{Kind: NoOp}},
		{"next at end repeat wraps", Next, 2, 3, true, Decision{Kind: Advance, Index: 0}},
		{"prev mid-queue", Prev, 1, 3, false, Decision{Kind: Advance, Index: 0}},
		{"prev at start no repeat", Prev, 0, 3, false, Decision{Kind: NoOp}},
		{"prev at start repeat wraps", Prev, 0, 3, true, Decision{Kind: Advance, Index: 2}},
		{"empty queue", Next, -1, 0, true, Decision{Kind: NoOp}},
		{"single track no repeat", Next, 0, 1, false, Decision{Kind: NoOp}},
		{"single track repeat", Next, 0, 1, true, Decision{Kind: Advance, Index: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.dir, tt.current, tt.length, tt.repeat)
			if got != tt.want {
				t.Errorf("Decide() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecideEnded(t *testing.T) {
	tests := []struct {
		name    string
		current int
		length  int
		repeat  bool
		want    Decision
	}{
		{"single track repeat restarts", 0, 1, true, Decision{Kind: StayAndRestart}},
		{"single track no repeat stops", 0, 1, false, Decision{Kind: NoOp}},
		{"mid-queue advances", 0, 3, false, Decision{Kind: Advance, Index: 1}},
		{"end no repeat stops", 2, 3, false, Decision{Kind: NoOp}},
		{"end repeat wraps", 2, 3, true, Decision{Kind: Advance, Index: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideEnded(tt.current, tt.length, tt.repeat)
			if got != tt.want {
				t.Errorf("DecideEnded() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// Walkthrough: [A,B,C], select B, step to the end, then enable repeat and
// wrap.
func TestRepeatWalkthrough(t *testing.T) {
	q := New()
	_ = q.SetQueue(threeTracks(), 1)

	d := Decide(Next, q.CurrentIndex(), q.Len(), q.Repeat())
	if d.Kind != Advance || d.Index != 2 {
		t.Fatalf("first next: %+v", d)
	}
	q.JumpTo(d.Index)

	d = Decide(Next, q.CurrentIndex(), q.Len(), q.Repeat())
	if d.Kind != NoOp {
		t.Fatalf("next at end without repeat: %+v, want NoOp", d)
	}
	if q.CurrentIndex() != 2 {
		t.Errorf("index moved on NoOp: %d", q.CurrentIndex())
	}

	q.SetRepeat(true)
	d = Decide(Next, q.CurrentIndex(), q.Len(), q.Repeat())
	if d.Kind != Advance || d.Index != 0 {
		t.Fatalf("next at end with repeat: %+v, want wrap to 0", d)
	}
}
