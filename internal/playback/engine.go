// Package playback keeps the displayed playback position consistent with a
// media engine that advances on its own. It holds the engine contract, the
// position synchronizer that reconciles poll ticks with seek gestures, the
// skip controller, and the single clamp policy every seek goes through.
package playback

import "github.com/ytget/cyclops/internal/model"

// Seeker moves the engine to an absolute position
type Seeker interface {
	SetTime(ms int64) error
}

// Clock reads and moves the engine position
type Clock interface {
	Seeker
	Time() (int64, error)
	Length() (int64, error)
}

// Engine is the external media engine: decode, render and device output live
// behind it. Times are milliseconds; Length returns 0 when unknown.
type Engine interface {
	Clock

	Load(source string) error
	Play() error
	Pause() error
	Stop() error
	State() (model.PlayerState, error)

	SetRate(rate float64) error
	Volume() (int, error)
	SetVolume(volume int) error

	// TakeSnapshot writes the current frame to path as PNG
	TakeSnapshot(path string) error

	Close() error
}

// StatusPoller is implemented by engines that report state, position and
// length in a single round trip. Poll ticks use it when available.
type StatusPoller interface {
	Status() (model.EngineStatus, error)
}

// ClampTarget applies the seek policy shared by skips, gesture commits and
// timestamp seeks: never below 0, never past lengthMs when it is known.
func ClampTarget(targetMs, lengthMs int64) int64 {
	if targetMs < 0 {
		return 0
	}
	if lengthMs > 0 && targetMs > lengthMs {
		return lengthMs
	}
	return targetMs
}
