// Package queue owns the ordered list of playable tracks, the current
// selection, and the shuffle and repeat policies applied to it.
package queue

import "errors"

// ErrInvalidQueue is returned when a selection is requested on an empty queue.
var ErrInvalidQueue = errors.New("queue: empty queue")

// Queue holds the ordered tracks and the current selection index.
//
// Invariants:
//   - current is in [0, len) whenever the queue is non-empty, -1 when empty
//   - when shuffle is on, tracks[0] is the track that was current at the
//     moment shuffle was last enabled
//   - original, when non-nil, records the pre-shuffle order and is the
//     source of truth for restoring order on shuffle-off
type Queue struct {
	tracks   []Track
	original []Track // pre-shuffle order, nil when shuffle never enabled
	current  int     // -1 if empty
	shuffle  bool
	repeat   bool
}

// New creates a new empty queue.
func New() *Queue {
	return &Queue{current: -1}
}

// SetQueue replaces the queue contents and selects startIndex, clamped to
// the valid range. The pre-shuffle order is discarded.
// Passing an empty track list with a selection request (startIndex >= 0)
// returns ErrInvalidQueue and leaves the queue unchanged.
func (q *Queue) SetQueue(tracks []Track, startIndex int) error {
	if len(tracks) == 0 {
		if startIndex >= 0 {
			return ErrInvalidQueue
		}
		q.tracks = nil
		q.original = nil
		q.current = -1
		return nil
	}

	q.tracks = make([]Track, len(tracks))
	copy(q.tracks, tracks)
	q.original = nil
	q.current = clamp(startIndex, 0, len(tracks)-1)
	return nil
}

// Current returns the currently selected track, or nil if the queue is empty.
func (q *Queue) Current() *Track {
	if q.current < 0 || q.current >= len(q.tracks) {
		return nil
	}
	return &q.tracks[q.current]
}

// CurrentIndex returns the current selection index (-1 if empty).
func (q *Queue) CurrentIndex() int {
	return q.current
}

// HasNext returns true if the selection is not at the last track.
func (q *Queue) HasNext() bool {
	return q.current >= 0 && q.current < len(q.tracks)-1
}

// HasPrev returns true if the selection is not at the first track.
func (q *Queue) HasPrev() bool {
	return q.current > 0
}

// Advance moves the selection forward by one.
// No-op at the last track; wrapping is the repeat policy's decision.
func (q *Queue) Advance() {
	if q.HasNext() {
		q.current++
	}
}

// Retreat moves the selection back by one. No-op at the first track.
func (q *Queue) Retreat() {
	if q.HasPrev() {
		q.current--
	}
}

// JumpTo sets the selection to the given index.
// Returns the track at that index, or nil if the index is invalid.
func (q *Queue) JumpTo(index int) *Track {
	if index < 0 || index >= len(q.tracks) {
		return nil
	}
	q.current = index
	return q.Current()
}

// IndexOf returns the index of the track with the given id, or -1.
func (q *Queue) IndexOf(id string) int {
	for i, t := range q.tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Tracks returns a copy of the tracks in play order.
func (q *Queue) Tracks() []Track {
	result := make([]Track, len(q.tracks))
	copy(result, q.tracks)
	return result
}

// OriginalOrder returns a copy of the pre-shuffle order, or nil if shuffle
// has never been enabled since the queue was last replaced.
func (q *Queue) OriginalOrder() []Track {
	if q.original == nil {
		return nil
	}
	result := make([]Track, len(q.original))
	copy(result, q.original)
	return result
}

// Len returns the number of tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return len(q.tracks) == 0
}

// Shuffle returns whether shuffle mode is active.
func (q *Queue) Shuffle() bool {
	return q.shuffle
}

// Repeat returns whether repeat mode is active.
func (q *Queue) Repeat() bool {
	return q.repeat
}

// SetRepeat sets the repeat mode.
func (q *Queue) SetRepeat(enabled bool) {
	q.repeat = enabled
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
