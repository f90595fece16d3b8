package playback

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mpellerin/reel/internal/queue"
	"github.com/mpellerin/reel/internal/source"
)

// ErrNoMetadata is returned for seeks issued before the source has reported
// the track duration. The caller gets an informed no-op, not a silent drop.
var ErrNoMetadata = errors.New("playback: track metadata not yet available")

// playResult is the resolution of an asynchronous play request, tagged with
// the locator it was issued for so stale resolutions can be discarded.
type playResult struct {
	locator string
	err     error
}

// Binder owns the single live binding to the media source. All source
// commands flow through it; no other component touches the source.
// The binder is not self-synchronized: the controller serializes all calls.
type Binder struct {
	src    source.Source
	events *source.Events
	log    *log.Logger

	locator   string
	metaKnown bool

	results chan playResult
}

// NewBinder creates the binder and subscribes to the source's three event
// kinds. Close unsubscribes.
func NewBinder(src source.Source, logger *log.Logger) *Binder {
	return &Binder{
		src:     src,
		events:  src.Subscribe(),
		log:     logger,
		results: make(chan playResult, 4),
	}
}

// SourceEvents returns the subscribed source event channels.
func (b *Binder) SourceEvents() *source.Events {
	return b.events
}

// Results returns the channel carrying play request resolutions.
func (b *Binder) Results() <-chan playResult {
	return b.results
}

// Bind points the source at the given track. A track with the locator that
// is already bound is not reloaded: playback just resumes or pauses per
// playing. A new locator is loaded, invalidating metadata until the source
// reports it again. Returns whether a reload happened.
func (b *Binder) Bind(track queue.Track, playing bool) (reloaded bool, err error) {
	if track.Src == b.locator && b.locator != "" {
		if playing {
			b.startPlay()
		} else {
			b.src.Pause()
		}
		return false, nil
	}

	if err := b.src.Load(track.Src); err != nil {
		return false, err
	}
	b.locator = track.Src
	b.metaKnown = false

	if playing {
		b.startPlay()
	}
	return true, nil
}

// Restart replays the bound track from position zero.
func (b *Binder) Restart() error {
	if err := b.src.SetPosition(0); err != nil {
		return err
	}
	b.startPlay()
	return nil
}

// Play starts or resumes playback of the bound track asynchronously;
// the resolution arrives on Results.
func (b *Binder) Play() {
	b.startPlay()
}

// Pause suspends playback.
func (b *Binder) Pause() {
	b.src.Pause()
}

// startPlay issues the play request without blocking the caller. The result
// carries the locator it was issued for; by the time it resolves the binding
// may have moved on.
func (b *Binder) startPlay() {
	locator := b.locator
	go func() {
		err := b.src.Play()
		select {
		case b.results <- playResult{locator: locator, err: err}:
		default:
			b.log.Warn("dropping play resolution", "locator", locator)
		}
	}()
}

// Seek moves the position. Rejected with ErrNoMetadata until the source has
// reported the track duration.
func (b *Binder) Seek(pos time.Duration) error {
	if !b.metaKnown {
		return ErrNoMetadata
	}
	return b.src.SetPosition(pos)
}

// SetVolume propagates a volume write immediately, regardless of state.
func (b *Binder) SetVolume(level float64) {
	b.src.SetVolume(level)
}

// MarkMetadata records that the source has reported metadata for the bound
// locator, enabling seeks.
func (b *Binder) MarkMetadata() {
	b.metaKnown = true
}

// MetadataKnown reports whether the bound locator's metadata has arrived.
func (b *Binder) MetadataKnown() bool {
	return b.metaKnown
}

// Locator returns the currently bound locator ("" if none).
func (b *Binder) Locator() string {
	return b.locator
}

// Close releases the source subscription.
func (b *Binder) Close() {
	b.src.Unsubscribe(b.events)
}
