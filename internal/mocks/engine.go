// Package mocks provides in-memory stand-ins for external collaborators,
// used by tests across the module.
package mocks

import (
	"errors"
	"os"
	"sync"

	"github.com/ytget/cyclops/internal/model"
)

// ErrEngine is a generic engine failure for tests
var ErrEngine = errors.New("engine failure")

// Engine is a mock implementation of playback.Engine. Loading a source puts
// it in the playing state with LengthOnLoad as its length; Stop unloads it.
type Engine struct {
	mu sync.Mutex

	PlayerState  model.PlayerState
	TimeMs       int64
	LengthMs     int64
	LengthOnLoad int64
	Rate         float64
	Vol          int

	Sources       []string
	Seeks         []int64
	SnapshotPaths []string
	// SnapshotData is written to the snapshot path; nil writes nothing
	SnapshotData []byte

	LoadErr     error
	SeekErr     error
	TimeErr     error
	LengthErr   error
	SnapshotErr error

	Closed bool
	// Polls counts Status calls
	Polls int
}

// NewEngine creates a stopped mock engine
func NewEngine() *Engine {
	return &Engine{
		PlayerState:  model.PlayerStateStopped,
		Rate:         1,
		Vol:          100,
		SnapshotData: []byte("png"),
	}
}

func (m *Engine) Load(source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return m.LoadErr
	}
	m.Sources = append(m.Sources, source)
	m.PlayerState = model.PlayerStatePlaying
	m.TimeMs = 0
	m.LengthMs = m.LengthOnLoad
	return nil
}

// Play resumes a paused engine. Like idle mpv, a stopped engine stays
// stopped until a source is loaded again.
func (m *Engine) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PlayerState == model.PlayerStatePaused {
		m.PlayerState = model.PlayerStatePlaying
	}
	return nil
}

func (m *Engine) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PlayerState == model.PlayerStatePlaying {
		m.PlayerState = model.PlayerStatePaused
	}
	return nil
}

func (m *Engine) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlayerState = model.PlayerStateStopped
	m.TimeMs = 0
	m.LengthMs = 0
	return nil
}

func (m *Engine) State() (model.PlayerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PlayerState, nil
}

// Status reports state, time and length together, failing like Time and
// Length do
func (m *Engine) Status() (model.EngineStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Polls++
	if m.TimeErr != nil {
		return model.EngineStatus{}, m.TimeErr
	}
	if m.LengthErr != nil {
		return model.EngineStatus{}, m.LengthErr
	}
	return model.EngineStatus{State: m.PlayerState, PositionMs: m.TimeMs, LengthMs: m.LengthMs}, nil
}

func (m *Engine) Time() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TimeErr != nil {
		return 0, m.TimeErr
	}
	return m.TimeMs, nil
}

func (m *Engine) SetTime(ms int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SeekErr != nil {
		return m.SeekErr
	}
	m.Seeks = append(m.Seeks, ms)
	m.TimeMs = ms
	return nil
}

func (m *Engine) Length() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LengthErr != nil {
		return 0, m.LengthErr
	}
	return m.LengthMs, nil
}

func (m *Engine) SetRate(rate float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rate = rate
	return nil
}

func (m *Engine) Volume() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Vol, nil
}

func (m *Engine) SetVolume(volume int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Vol = volume
	return nil
}

func (m *Engine) TakeSnapshot(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SnapshotErr != nil {
		return m.SnapshotErr
	}
	m.SnapshotPaths = append(m.SnapshotPaths, path)
	if m.SnapshotData == nil {
		return nil
	}
	return os.WriteFile(path, m.SnapshotData, 0o600)
}

func (m *Engine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// SeekCalls returns a copy of every SetTime target
func (m *Engine) SeekCalls() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int64, len(m.Seeks))
	copy(out, m.Seeks)
	return out
}

// SetState forces the engine state
func (m *Engine) SetState(state model.PlayerState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlayerState = state
}
