package source

import (
	"sync"
	"time"
)

// Mock is a test double for Source.
type Mock struct {
	mu sync.Mutex

	locator  string
	playing  bool
	position time.Duration
	duration time.Duration
	level    float64

	loadErr error
	playErr error

	loadCalls []string
	playCalls int
	pauseOps  int
	seekCalls []time.Duration

	playGate chan struct{} // non-nil: Play blocks until released

	events broadcaster
}

// NewMock creates a new mock source for testing.
func NewMock() *Mock {
	return &Mock{level: 1.0}
}

func (m *Mock) Load(locator string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loadCalls = append(m.loadCalls, locator)
	if m.loadErr != nil {
		return m.loadErr
	}
	m.locator = locator
	m.playing = false
	m.position = 0
	m.duration = 0
	return nil
}

func (m *Mock) Play() error {
	m.mu.Lock()
	gate := m.playGate
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
	if m.playErr != nil {
		return m.playErr
	}
	m.playing = true
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseOps++
	m.playing = false
}

func (m *Mock) SetPosition(pos time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, pos)
	m.position = pos
	return nil
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

func (m *Mock) Subscribe() *Events {
	return m.events.subscribe()
}

func (m *Mock) Unsubscribe(e *Events) {
	m.events.unsubscribe(e)
}

func (m *Mock) Close() error { return nil }

// Test helpers

func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

// BlockPlay makes subsequent Play calls block until ReleasePlay.
func (m *Mock) BlockPlay() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playGate = make(chan struct{})
}

// ReleasePlay unblocks pending and future Play calls.
func (m *Mock) ReleasePlay() {
	m.mu.Lock()
	gate := m.playGate
	m.playGate = nil
	m.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

func (m *Mock) Loaded() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locator
}

func (m *Mock) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loadCalls...)
}

func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

func (m *Mock) SetPositionValue(pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = pos
}

// SimulateMetadata emits a metadata-ready event and records the duration.
func (m *Mock) SimulateMetadata(d time.Duration) {
	m.mu.Lock()
	m.duration = d
	m.mu.Unlock()
	m.events.metadata(d)
}

// SimulateTime emits a time-updated event and records the position.
func (m *Mock) SimulateTime(pos time.Duration) {
	m.mu.Lock()
	m.position = pos
	m.mu.Unlock()
	m.events.time(pos)
}

// SimulateEnded emits an ended event.
func (m *Mock) SimulateEnded() {
	m.events.ended()
}

// Verify Mock implements Source at compile time.
var _ Source = (*Mock)(nil)
