package playback

// Status represents the controller's playback state machine.
//
// Valid transitions:
//   - Idle    → Loading (track selected)
//   - Loading → Playing (metadata ready, playing)
//   - Loading → Paused  (metadata ready, paused)
//   - Playing ↔ Paused  (toggle)
//   - Playing → Loading (track change, same-track restart re-enters too)
//   - Playing → Ended   (track completed, nothing further to play)
//   - Ended   → Loading (new selection)
//
// Invalid transitions are handled gracefully as no-ops.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusPlaying
	StatusPaused
	StatusEnded
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusLoading:
		return "Loading"
	case StatusPlaying:
		return "Playing"
	case StatusPaused:
		return "Paused"
	case StatusEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a track is loaded (loading, playing, or paused).
func (s Status) IsActive() bool {
	return s == StatusLoading || s == StatusPlaying || s == StatusPaused
}
