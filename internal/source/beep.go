package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
)

const progressInterval = 500 * time.Millisecond

// Beep is a local-file Source backed by the beep speaker.
type Beep struct {
	mu sync.Mutex

	locator  string
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	level   float64 // 0.0 to 1.0
	started bool    // streamer handed to the speaker
	gen     atomic.Uint64

	events broadcaster
	done   chan struct{}
}

var speakerInitialized bool

// NewBeep creates a beep-backed source. The progress loop runs until Close.
func NewBeep() *Beep {
	b := &Beep{
		level: 1.0,
		done:  make(chan struct{}),
	}
	go b.progressLoop()
	return b
}

// Load opens and decodes the file at the given locator. The previous track,
// if any, is released. Emits metadata-ready with the track duration on
// success. Playback stays paused until Play.
func (b *Beep) Load(locator string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.unloadLocked()

	ext := strings.ToLower(filepath.Ext(locator))
	if ext != ".mp3" && ext != ".flac" {
		return fmt.Errorf("unsupported format: %s", ext)
	}

	f, err := os.Open(locator)
	if err != nil {
		return err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	}
	if err != nil {
		f.Close()
		return err
	}

	if !speakerInitialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			streamer.Close()
			f.Close()
			return err
		}
		speakerInitialized = true
	}

	b.locator = locator
	b.file = f
	b.streamer = streamer
	b.format = format
	b.ctrl = &beep.Ctrl{Streamer: streamer, Paused: true}
	b.volume = &effects.Volume{
		Streamer: b.ctrl,
		Base:     2,
		Volume:   levelToVolume(b.level),
		Silent:   b.level <= 0,
	}
	b.started = false

	b.events.metadata(format.SampleRate.D(streamer.Len()))
	return nil
}

// Play starts or resumes playback of the loaded locator.
func (b *Beep) Play() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctrl == nil {
		return ErrNoTrack
	}

	if !b.started {
		b.started = true
		gen := b.gen.Load()
		// The callback fires on the speaker goroutine; no locks here. A Load
		// since this sequence was queued bumps the generation, making the
		// completion stale.
		speaker.Play(beep.Seq(b.volume, beep.Callback(func() {
			if b.gen.Load() == gen {
				b.events.ended()
			}
		})))
	}

	speaker.Lock()
	b.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// Pause suspends playback, keeping the position.
func (b *Beep) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctrl == nil {
		return
	}
	speaker.Lock()
	b.ctrl.Paused = true
	speaker.Unlock()
}

// SetPosition moves the playback position.
func (b *Beep) SetPosition(pos time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.streamer == nil {
		return ErrNoTrack
	}

	n := b.format.SampleRate.N(pos)
	n = min(max(n, 0), b.streamer.Len()-1)

	speaker.Lock()
	err := b.streamer.Seek(n)
	speaker.Unlock()
	return err
}

// Position returns the current playback position.
func (b *Beep) Position() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.positionLocked()
}

func (b *Beep) positionLocked() time.Duration {
	if b.streamer == nil {
		return 0
	}
	// Read without the speaker lock; may be slightly stale but cannot
	// deadlock against the speaker callback.
	return b.format.SampleRate.D(b.streamer.Position())
}

// Duration returns the loaded track duration, 0 if nothing is loaded.
func (b *Beep) Duration() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.streamer == nil {
		return 0
	}
	return b.format.SampleRate.D(b.streamer.Len())
}

// SetVolume sets the output volume level (0.0 to 1.0, clamped).
func (b *Beep) SetVolume(level float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	b.level = level

	if b.volume != nil {
		speaker.Lock()
		b.volume.Volume = levelToVolume(level)
		b.volume.Silent = level <= 0
		speaker.Unlock()
	}
}

// Volume returns the current volume level.
func (b *Beep) Volume() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.level
}

// Subscribe registers an event listener.
func (b *Beep) Subscribe() *Events {
	return b.events.subscribe()
}

// Unsubscribe releases an event listener.
func (b *Beep) Unsubscribe(e *Events) {
	b.events.unsubscribe(e)
}

// Close stops playback and releases resources.
func (b *Beep) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
	default:
		close(b.done)
	}
	b.unloadLocked()
	return nil
}

// unloadLocked releases the current track. Caller holds b.mu.
func (b *Beep) unloadLocked() {
	b.gen.Add(1)
	if b.ctrl == nil {
		return
	}

	speaker.Clear()
	if b.streamer != nil {
		b.streamer.Close()
		b.streamer = nil
	}
	if b.file != nil {
		b.file.Close()
		b.file = nil
	}
	b.ctrl = nil
	b.volume = nil
	b.locator = ""
	b.started = false
}

// progressLoop emits time-updated events while playback runs.
func (b *Beep) progressLoop() {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			b.mu.Lock()
			playing := b.ctrl != nil && b.started && !b.ctrl.Paused
			var pos time.Duration
			if playing {
				pos = b.positionLocked()
			}
			b.mu.Unlock()

			if playing {
				b.events.time(pos)
			}
		}
	}
}

// Verify Beep implements Source at compile time.
var _ Source = (*Beep)(nil)
