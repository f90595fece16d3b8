package playback

import (
	"time"

	"github.com/mpellerin/reel/internal/queue"
)

// StateChange is emitted when the playback status changes.
type StateChange struct {
	Previous Status
	Current  Status
}

// TrackChange is emitted when the current track changes.
//
// Emitted by track selection, next/prev navigation, and automatic advance
// when a track ends. Not emitted by pause/resume or by a same-track restart.
type TrackChange struct {
	Previous *queue.Track
	Current  *queue.Track
	Index    int
}

// QueueChange is emitted when the queue contents or order change.
type QueueChange struct {
	Tracks []queue.Track
	Index  int
}

// ModeChange is emitted when shuffle or repeat mode changes.
type ModeChange struct {
	Shuffle bool
	Repeat  bool
}

// PositionChange is emitted on seeks and playback progress.
type PositionChange struct {
	Position time.Duration
}

// VolumeChange is emitted when the volume changes.
type VolumeChange struct {
	Level float64
}

// ErrorEvent is emitted when an operation against the media source fails.
type ErrorEvent struct {
	Operation string // e.g. "play", "load"
	Locator   string
	Err       error
}
