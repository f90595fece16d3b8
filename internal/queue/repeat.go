package queue

// Direction of a navigation request.
type Direction int

const (
	Next Direction = iota
	Prev
)

// DecisionKind classifies the outcome of a repeat-policy evaluation.
type DecisionKind int

const (
	// NoOp means playback stays on the current track and stops advancing.
	NoOp DecisionKind = iota
	// Advance means the selection moves to Decision.Index.
	Advance
	// StayAndRestart means the current track replays from position zero.
	StayAndRestart
)

// Decision is the outcome of a repeat-policy evaluation.
type Decision struct {
	Kind  DecisionKind
	Index int // valid only when Kind == Advance
}

// Decide evaluates a next/prev request against the queue boundaries and the
// repeat mode. Wrapping past either end only happens with repeat enabled.
func Decide(dir Direction, current, length int, repeat bool) Decision {
	if length == 0 || current < 0 {
		return Decision{Kind: NoOp}
	}

	switch dir {
	case Next:
		if current < length-1 {
			return Decision{Kind: Advance, Index: current + 1}
		}
		if repeat {
			return Decision{Kind: Advance, Index: 0}
		}
	case Prev:
		if current > 0 {
			return Decision{Kind: Advance, Index: current - 1}
		}
		if repeat {
			return Decision{Kind: Advance, Index: length - 1}
		}
	}
	return Decision{Kind: NoOp}
}

// DecideEnded evaluates the end-of-track event. Single-track repeat is
// checked before queue-wrap repeat: with repeat on, a queue of one (or a wrap
// that would land on the same track) restarts the current track instead of
// reloading it through an advance.
func DecideEnded(current, length int, repeat bool) Decision {
	if repeat && length == 1 {
		return Decision{Kind: StayAndRestart}
	}
	return Decide(Next, current, length, repeat)
}
