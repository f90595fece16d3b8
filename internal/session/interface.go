// Package session persists the playback session snapshot across runs.
package session

import (
	"time"

	"github.com/mpellerin/reel/internal/queue"
)

// Snapshot is the persisted projection of queue and playback state.
// When shuffle was active at save time, Tracks holds the pre-shuffle order
// and CurrentIndex points into that order.
type Snapshot struct {
	Tracks       []queue.Track
	CurrentIndex int
	Position     time.Duration
	Volume       float64
	Shuffle      bool
	Repeat       bool
}

// Interface defines the session store contract for dependency injection and
// testing.
type Interface interface {
	// Load returns the saved snapshot, or nil when there is no prior
	// session. Malformed data is never fatal: it also yields nil.
	Load() (*Snapshot, error)
	// Save overwrites the stored snapshot.
	Save(Snapshot) error
	Close() error
}

// Verify Store implements Interface at compile time.
var _ Interface = (*Store)(nil)
