// Package playback holds the authoritative playback state machine and the
// binding that translates its decisions into media source commands.
package playback

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mpellerin/reel/internal/queue"
	"github.com/mpellerin/reel/internal/session"
	"github.com/mpellerin/reel/internal/source"
)

// ErrUnknownTrack is returned when a track is selected that is not part of
// the current queue and no replacement queue was supplied.
var ErrUnknownTrack = errors.New("playback: track not in queue")

// Controller is the playback state machine. It owns the queue and the
// playback state exclusively; every mutation runs under one lock, and source
// events are consumed by a single dispatch goroutine, so each transition
// completes before the next event or intent is handled.
type Controller struct {
	mu sync.Mutex

	queue  *queue.Queue
	binder *Binder
	store  session.Interface
	log    *log.Logger
	rng    *rand.Rand

	status   Status
	playing  bool
	position time.Duration
	duration time.Duration
	volume   float64

	// Identity of the track whose position should be restored when the
	// source reloads it (session restore, same-track queue replacement).
	restoreID  string
	restoreSrc string
	restorePos time.Duration

	subs   []*Subscription
	subsMu sync.RWMutex

	done   chan struct{}
	closed bool
}

// New creates the controller, restores the persisted session if one exists,
// and starts consuming source events. rng may be nil for a default source.
func New(src source.Source, store session.Interface, rng *rand.Rand, logger *log.Logger) *Controller {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	c := &Controller{
		queue:  queue.New(),
		binder: NewBinder(src, logger),
		store:  store,
		log:    logger,
		rng:    rng,
		status: StatusIdle,
		volume: 1.0,
		done:   make(chan struct{}),
	}

	c.restoreSession()
	go c.dispatch()
	return c
}

// restoreSession applies the persisted snapshot, if any. A stale index is
// clamped, and the saved position is applied once the track's metadata
// arrives. Playback never starts automatically.
func (c *Controller) restoreSession() {
	snap, err := c.store.Load()
	if err != nil || snap == nil {
		return
	}

	if err := c.queue.SetQueue(snap.Tracks, snap.CurrentIndex); err != nil {
		return
	}
	c.queue.SetRepeat(snap.Repeat)
	if snap.Shuffle {
		c.queue.Repin(c.queue.CurrentIndex(), c.rng)
	}

	c.volume = clampVolume(snap.Volume)
	c.binder.SetVolume(c.volume)

	if cur := c.queue.Current(); cur != nil && snap.Position > 0 {
		c.restoreID = cur.ID
		c.restoreSrc = cur.Src
		c.restorePos = snap.Position
	}
}

// dispatch is the single consumer of source events. Handlers take the
// controller lock, so a transition triggered by a source event finishes
// before any queued user intent runs.
func (c *Controller) dispatch() {
	events := c.binder.SourceEvents()
	for {
		select {
		case <-c.done:
			return
		case d := <-events.MetadataReady:
			c.handleMetadata(d)
		case pos := <-events.TimeUpdated:
			c.handleTime(pos)
		case <-events.Ended:
			c.handleEnded()
		case r := <-c.binder.Results():
			c.handlePlayResult(r)
		}
	}
}

// SelectTrack selects a track for playback, optionally replacing the queue.
// With a replacement queue, shuffle mode is honored by re-pinning the
// selected track. Selecting on an empty queue is rejected with
// ErrInvalidQueue and leaves state unchanged. Playback always starts.
func (c *Controller) SelectTrack(track queue.Track, newQueue []queue.Track) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.queue.Current()

	if len(newQueue) > 0 {
		idx := 0
		for i, t := range newQueue {
			if t.ID == track.ID {
				idx = i
				break
			}
		}
		c.captureRestore(prev, track)
		if err := c.queue.SetQueue(newQueue, idx); err != nil {
			return err
		}
		if c.queue.Shuffle() {
			c.queue.Repin(c.queue.CurrentIndex(), c.rng)
		}
		c.publishQueue()
	} else {
		if c.queue.IsEmpty() {
			return queue.ErrInvalidQueue
		}
		idx := c.queue.IndexOf(track.ID)
		if idx < 0 {
			return ErrUnknownTrack
		}
		c.captureRestore(prev, track)
		c.queue.JumpTo(idx)
	}

	return c.loadCurrentLocked(true, prev)
}

// TogglePlayPause flips the playing flag. No effect on an empty queue.
func (c *Controller) TogglePlayPause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.queue.IsEmpty() {
		return
	}

	c.playing = !c.playing

	// Resuming after the queue ran out: replay the current track from the top.
	if c.playing && c.status == StatusEnded {
		c.position = 0
		if err := c.binder.Restart(); err != nil {
			c.log.Error("restart failed", "err", err)
			c.playing = false
			return
		}
		c.setStatus(StatusPlaying)
		c.publishPosition()
		c.snapshot()
		return
	}

	// First play after startup restore: nothing is bound yet.
	if c.playing && !c.status.IsActive() {
		prev := c.queue.Current()
		if err := c.loadCurrentLocked(true, prev); err != nil {
			c.playing = false
		}
		return
	}

	if c.playing {
		c.binder.Play()
	} else {
		c.binder.Pause()
	}
	if c.binder.MetadataKnown() {
		if c.playing {
			c.setStatus(StatusPlaying)
		} else {
			c.setStatus(StatusPaused)
		}
	}
	c.snapshot()
}

// Next moves to the next track per the repeat policy. At the queue boundary
// without repeat, nothing changes: stopping on exhaustion is the ended
// path's job, not navigation's.
func (c *Controller) Next() {
	c.navigate(queue.Next)
}

// Prev moves to the previous track per the repeat policy.
func (c *Controller) Prev() {
	c.navigate(queue.Prev)
}

func (c *Controller) navigate(dir queue.Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := queue.Decide(dir, c.queue.CurrentIndex(), c.queue.Len(), c.queue.Repeat())
	if d.Kind != queue.Advance {
		return
	}

	prev := c.queue.Current()
	c.queue.JumpTo(d.Index)
	if err := c.loadCurrentLocked(c.playing, prev); err != nil {
		c.log.Error("track change failed", "err", err)
	}
}

// ToggleShuffle flips shuffle mode and returns the new value. The current
// track keeps playing: its locator does not change, so the source is not
// touched.
func (c *Controller) ToggleShuffle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.queue.IsEmpty() {
		return c.queue.Shuffle()
	}

	c.queue.ToggleShuffle(c.rng)
	c.publishQueue()
	c.publishMode()
	c.snapshot()
	return c.queue.Shuffle()
}

// ToggleRepeat flips repeat mode and returns the new value.
func (c *Controller) ToggleRepeat() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.queue.SetRepeat(!c.queue.Repeat())
	c.publishMode()
	c.snapshot()
	return c.queue.Repeat()
}

// Seek moves the playback position, clamped to [0, duration]. Before the
// track's metadata is known the seek is rejected with ErrNoMetadata so the
// caller is informed rather than silently dropped.
func (c *Controller) Seek(pos time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.duration == 0 {
		return ErrNoMetadata
	}

	pos = min(max(pos, 0), c.duration)
	if err := c.binder.Seek(pos); err != nil {
		return err
	}
	c.position = pos
	c.publishPosition()
	c.snapshot()
	return nil
}

// SetVolume clamps the level to [0, 1] and applies it unconditionally,
// regardless of playback state.
func (c *Controller) SetVolume(level float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.volume = clampVolume(level)
	c.binder.SetVolume(c.volume)
	c.publishVolume()
	c.snapshot()
}

// State queries

// Status returns the current playback status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// IsPlaying returns the playing intent flag.
func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Position returns the current playback position.
func (c *Controller) Position() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

// Duration returns the current track duration, 0 until metadata is known.
func (c *Controller) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

// Volume returns the current volume level.
func (c *Controller) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

// CurrentTrack returns a copy of the current track, or nil if none.
func (c *Controller) CurrentTrack() *queue.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyTrack(c.queue.Current())
}

// QueueTracks returns the tracks in play order.
func (c *Controller) QueueTracks() []queue.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Tracks()
}

// QueueIndex returns the current queue index (-1 if empty).
func (c *Controller) QueueIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.CurrentIndex()
}

// ShuffleMode returns whether shuffle is active.
func (c *Controller) ShuffleMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Shuffle()
}

// RepeatMode returns whether repeat is active.
func (c *Controller) RepeatMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Repeat()
}

// Subscribe creates a new event subscription.
func (c *Controller) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	c.subs = append(c.subs, sub)
	return sub
}

// Close shuts down the controller, saving a final snapshot.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	c.snapshot()
	c.binder.Close()
	c.mu.Unlock()

	c.subsMu.Lock()
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	c.subsMu.Unlock()
	return nil
}

// Source event handlers

// handleMetadata transitions Loading to Playing or Paused and applies a
// pending position restore when the reloaded track is the one the position
// was saved for. Identity is track id plus locator, not queue position.
func (c *Controller) handleMetadata(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.duration = d
	c.binder.MarkMetadata()

	cur := c.queue.Current()
	if cur != nil && cur.ID == c.restoreID && cur.Src == c.restoreSrc && c.restorePos > 0 {
		pos := min(c.restorePos, d)
		if err := c.binder.Seek(pos); err == nil {
			c.position = pos
		}
	} else {
		c.position = 0
	}
	c.restoreID, c.restoreSrc, c.restorePos = "", "", 0

	if c.playing {
		c.setStatus(StatusPlaying)
	} else {
		c.setStatus(StatusPaused)
	}
	c.publishPosition()
	c.snapshot()
}

func (c *Controller) handleTime(pos time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusPlaying {
		return
	}
	c.position = pos
	c.publishPosition()
}

// handleEnded applies the repeat policy: single-track repeat restarts the
// current track, queue repeat wraps, otherwise playback stops where it is.
func (c *Controller) handleEnded() {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := queue.DecideEnded(c.queue.CurrentIndex(), c.queue.Len(), c.queue.Repeat())
	switch d.Kind {
	case queue.StayAndRestart:
		c.position = 0
		if err := c.binder.Restart(); err != nil {
			c.log.Error("restart failed", "err", err)
			c.playing = false
			c.setStatus(StatusEnded)
			break
		}
		c.setStatus(StatusPlaying)
		c.publishPosition()
	case queue.Advance:
		prev := c.queue.Current()
		c.queue.JumpTo(d.Index)
		if err := c.loadCurrentLocked(true, prev); err != nil {
			c.log.Error("advance after track end failed", "err", err)
		}
		return // loadCurrentLocked snapshots
	case queue.NoOp:
		c.playing = false
		c.setStatus(StatusEnded)
	}
	c.snapshot()
}

// handlePlayResult applies the resolution of an asynchronous play request.
// A resolution for a locator that is no longer bound is stale and ignored.
func (c *Controller) handlePlayResult(r playResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.locator != c.binder.Locator() {
		return
	}
	if r.err == nil {
		return
	}

	// Source refused to start. Recoverable: revert the playing intent and
	// leave queue and selection untouched.
	c.log.Warn("playback rejected by source", "locator", r.locator, "err", r.err)
	c.playing = false
	if c.binder.MetadataKnown() {
		c.setStatus(StatusPaused)
	} else {
		c.setStatus(StatusIdle)
	}
	c.publishError(ErrorEvent{Operation: "play", Locator: r.locator, Err: r.err})
	c.snapshot()
}

// Internals. All take c.mu held.

// loadCurrentLocked binds the source to the queue's current track. A track
// whose locator is already bound is not reloaded; otherwise the machine
// re-enters Loading until metadata arrives.
func (c *Controller) loadCurrentLocked(playing bool, prev *queue.Track) error {
	cur := c.queue.Current()
	if cur == nil {
		return queue.ErrInvalidQueue
	}

	c.playing = playing

	reloaded, err := c.binder.Bind(*cur, playing)
	if err != nil {
		c.log.Error("failed to load track", "locator", cur.Src, "err", err)
		c.playing = false
		c.setStatus(StatusIdle)
		c.publishError(ErrorEvent{Operation: "load", Locator: cur.Src, Err: err})
		return err
	}

	if reloaded {
		c.duration = 0
		c.position = 0
		c.setStatus(StatusLoading)
	} else if c.binder.MetadataKnown() {
		if playing {
			c.setStatus(StatusPlaying)
		} else {
			c.setStatus(StatusPaused)
		}
	}

	if prev == nil || prev.ID != cur.ID {
		c.publishTrack(TrackChange{
			Previous: copyTrack(prev),
			Current:  copyTrack(cur),
			Index:    c.queue.CurrentIndex(),
		})
	}
	c.snapshot()
	return nil
}

// captureRestore records the position to re-apply if the selected track is
// the one currently loaded and the source ends up reloading it.
func (c *Controller) captureRestore(prev *queue.Track, selected queue.Track) {
	if prev != nil && prev.SameSource(selected) {
		c.restoreID = selected.ID
		c.restoreSrc = selected.Src
		c.restorePos = c.position
	}
}

// snapshot persists the session. When shuffle is active the pre-shuffle
// order is stored, with the index mapped into it. Write failures are logged
// and otherwise ignored.
func (c *Controller) snapshot() {
	tracks := c.queue.OriginalOrder()
	index := c.queue.CurrentIndex()
	if tracks != nil {
		if cur := c.queue.Current(); cur != nil {
			_, index = queue.RestoreOrder(tracks, cur.ID)
		}
	} else {
		tracks = c.queue.Tracks()
	}

	err := c.store.Save(session.Snapshot{
		Tracks:       tracks,
		CurrentIndex: index,
		Position:     c.position,
		Volume:       c.volume,
		Shuffle:      c.queue.Shuffle(),
		Repeat:       c.queue.Repeat(),
	})
	if err != nil {
		c.log.Warn("failed to save session", "err", err)
	}
}

func (c *Controller) setStatus(s Status) {
	if c.status == s {
		return
	}
	prev := c.status
	c.status = s
	c.publish(func(sub *Subscription) {
		sub.sendState(StateChange{Previous: prev, Current: s})
	})
}

func (c *Controller) publishTrack(e TrackChange) {
	c.publish(func(sub *Subscription) { sub.sendTrack(e) })
}

func (c *Controller) publishQueue() {
	e := QueueChange{Tracks: c.queue.Tracks(), Index: c.queue.CurrentIndex()}
	c.publish(func(sub *Subscription) { sub.sendQueue(e) })
}

func (c *Controller) publishMode() {
	e := ModeChange{Shuffle: c.queue.Shuffle(), Repeat: c.queue.Repeat()}
	c.publish(func(sub *Subscription) { sub.sendMode(e) })
}

func (c *Controller) publishPosition() {
	pos := c.position
	c.publish(func(sub *Subscription) { sub.sendPosition(pos) })
}

func (c *Controller) publishVolume() {
	level := c.volume
	c.publish(func(sub *Subscription) { sub.sendVolume(level) })
}

func (c *Controller) publishError(e ErrorEvent) {
	c.publish(func(sub *Subscription) { sub.sendError(e) })
}

func (c *Controller) publish(send func(*Subscription)) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		send(sub)
	}
}

func copyTrack(t *queue.Track) *queue.Track {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

func clampVolume(level float64) float64 {
	if level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}
