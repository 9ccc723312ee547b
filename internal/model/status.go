package model

// PlayerState represents the state reported by the media engine
type PlayerState string

const (
	// PlayerStateStopped means no media session is active
	PlayerStateStopped PlayerState = "Stopped"

	// PlayerStateOpening means a source was handed to the engine but is not decoded yet
	PlayerStateOpening PlayerState = "Opening"

	// PlayerStatePlaying means the engine is advancing the playback position
	PlayerStatePlaying PlayerState = "Playing"

	// PlayerStatePaused means media is loaded but the position is frozen
	PlayerStatePaused PlayerState = "Paused"

	// PlayerStateError means the engine failed to open or decode the source
	PlayerStateError PlayerState = "Error"
)

// String returns the string representation of PlayerState
func (ps PlayerState) String() string {
	return string(ps)
}

// HasMedia returns true if a media session is loaded and can be captured
func (ps PlayerState) HasMedia() bool {
	return ps == PlayerStatePlaying || ps == PlayerStatePaused
}

// IsPlaying returns true if the engine is actively advancing
func (ps PlayerState) IsPlaying() bool {
	return ps == PlayerStatePlaying
}

// EngineStatus is one poll of the media engine: its state, position and
// length in milliseconds
type EngineStatus struct {
	State      PlayerState
	PositionMs int64
	LengthMs   int64
}
