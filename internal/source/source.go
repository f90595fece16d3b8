// Package source defines the media source capability consumed by the
// playback controller, and a local-file implementation of it.
//
// The controller treats a Source as opaque: load a locator, start or pause
// playback, move the position, set the volume, and listen for the three
// event kinds. It never reaches into decoding or buffering.
package source

import (
	"errors"
	"sync"
	"time"
)

// ErrNoTrack is returned when an operation requires a loaded track.
var ErrNoTrack = errors.New("source: no track loaded")

// Source is the capability contract for an underlying media backend.
type Source interface {
	// Load binds the source to a new locator, replacing any current one.
	// Playback does not start until Play is called.
	Load(locator string) error
	// Play starts or resumes playback of the loaded locator.
	Play() error
	// Pause suspends playback, keeping the position.
	Pause()
	// SetPosition moves the playback position.
	SetPosition(pos time.Duration) error
	Position() time.Duration
	Duration() time.Duration
	// SetVolume sets the output volume, 0.0 to 1.0.
	SetVolume(level float64)
	Volume() float64
	// Subscribe registers an event listener; Unsubscribe releases it.
	Subscribe() *Events
	Unsubscribe(*Events)
	Close() error
}

const eventBufferSize = 16

// Events carries the three event kinds a source emits.
type Events struct {
	MetadataReady <-chan time.Duration // duration, once known after Load
	TimeUpdated   <-chan time.Duration // playback position progress
	Ended         <-chan struct{}      // track played to completion

	metadataCh chan time.Duration
	timeCh     chan time.Duration
	endedCh    chan struct{}
}

func newEvents() *Events {
	e := &Events{
		metadataCh: make(chan time.Duration, eventBufferSize),
		timeCh:     make(chan time.Duration, eventBufferSize),
		endedCh:    make(chan struct{}, eventBufferSize),
	}
	e.MetadataReady = e.metadataCh
	e.TimeUpdated = e.timeCh
	e.Ended = e.endedCh
	return e
}

// sendMetadata delivers a metadata-ready event (non-blocking).
func (e *Events) sendMetadata(d time.Duration) {
	select {
	case e.metadataCh <- d:
	default:
		// Drop if buffer full
	}
}

func (e *Events) sendTime(pos time.Duration) {
	select {
	case e.timeCh <- pos:
	default:
	}
}

func (e *Events) sendEnded() {
	select {
	case e.endedCh <- struct{}{}:
	default:
	}
}

// broadcaster fans events out to subscribers.
type broadcaster struct {
	mu   sync.Mutex
	subs []*Events
}

func (b *broadcaster) subscribe() *Events {
	b.mu.Lock()
	defer b.mu.Unlock()
	e := newEvents()
	b.subs = append(b.subs, e)
	return e
}

func (b *broadcaster) unsubscribe(e *Events) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub == e {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

func (b *broadcaster) metadata(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		sub.sendMetadata(d)
	}
}

func (b *broadcaster) time(pos time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		sub.sendTime(pos)
	}
}

func (b *broadcaster) ended() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		sub.sendEnded()
	}
}
