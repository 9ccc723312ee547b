package playback

import (
	"fmt"
	"math"

	"github.com/ytget/cyclops/internal/model"
	"github.com/ytget/cyclops/internal/timecode"
)

// SliderResolution is the number of discrete steps of the seek control
const SliderResolution = 1000

// Display is what the seek control and its time label show
type Display struct {
	SliderValue int
	Label       string
}

// Commit is the outcome of a finished seek gesture
type Commit struct {
	TargetMs int64
	Applied  bool
}

// Synchronizer reconciles the engine-reported position, the periodic poll
// tick and the user's drag gesture into one display value.
//
// All methods are expected to run on the UI goroutine. Mutual exclusion
// between ticks and gestures comes from the gesture flag, not from a lock.
type Synchronizer struct {
	seeker   Seeker
	position model.PlaybackPosition
	gesture  model.SeekGesture
	display  Display
}

// NewSynchronizer creates a synchronizer that commits seeks to seeker
func NewSynchronizer(seeker Seeker) *Synchronizer {
	s := &Synchronizer{seeker: seeker}
	s.Reset()
	return s
}

// Reset forgets the position and any gesture, as on media unload
func (s *Synchronizer) Reset() {
	s.position.Reset()
	s.gesture = model.SeekGesture{}
	s.display = Display{SliderValue: 0, Label: timecode.Label(0, 0)}
}

// OnTick applies one poll of the engine. The display only changes when no
// gesture is active, the length is known and the engine is playing, so a
// transient "no media" state never flickers the bar to zero. It reports
// whether the display changed.
func (s *Synchronizer) OnTick(positionMs, lengthMs int64, playing bool) bool {
	if s.gesture.Active || !playing || lengthMs <= 0 {
		return false
	}
	s.position.Update(positionMs, lengthMs)
	return s.refresh()
}

// OnSeek records a seek issued outside a gesture (skip, timestamp) so the
// display follows immediately, even while paused.
func (s *Synchronizer) OnSeek(targetMs, lengthMs int64) bool {
	if s.gesture.Active || lengthMs <= 0 {
		return false
	}
	s.position.Update(targetMs, lengthMs)
	return s.refresh()
}

// OnGestureStart suppresses tick updates until OnGestureEnd
func (s *Synchronizer) OnGestureStart() {
	if s.gesture.Active {
		return
	}
	s.gesture.Begin(float64(s.display.SliderValue) / SliderResolution)
}

// OnGestureMove updates the display speculatively from the drag position.
// The engine is not touched.
func (s *Synchronizer) OnGestureMove(normalized float64) {
	if !s.gesture.Active {
		s.OnGestureStart()
	}
	s.gesture.Move(normalized, s.position.TotalMs)
	s.display.SliderValue = sliderValue(s.gesture.Normalized)
	if s.position.Known() {
		s.display.Label = timecode.Label(s.gesture.PendingMs, s.position.TotalMs)
	}
}

// OnGestureEnd converts the drag position into an absolute target and issues
// it to the engine. With an unknown length the commit is a no-op. The
// suppression flag is cleared on every path.
func (s *Synchronizer) OnGestureEnd() (Commit, error) {
	if !s.gesture.Active {
		return Commit{}, nil
	}
	normalized := s.gesture.End()

	if !s.position.Known() {
		s.refresh()
		return Commit{}, nil
	}

	total := s.position.TotalMs
	target := ClampTarget(model.FractionToMs(normalized, total), total)
	if err := s.seeker.SetTime(target); err != nil {
		s.refresh()
		return Commit{}, fmt.Errorf("failed to seek to %d ms: %w", target, err)
	}

	s.position.Update(target, total)
	s.refresh()
	return Commit{TargetMs: target, Applied: true}, nil
}

// CurrentDisplay returns the slider value and label to show
func (s *Synchronizer) CurrentDisplay() Display {
	return s.display
}

// Position returns the last accepted playback position
func (s *Synchronizer) Position() model.PlaybackPosition {
	return s.position
}

// GestureActive reports whether a drag is in progress
func (s *Synchronizer) GestureActive() bool {
	return s.gesture.Active
}

// refresh rebuilds the display from the stored position
func (s *Synchronizer) refresh() bool {
	next := Display{
		SliderValue: sliderValue(s.position.Fraction()),
		Label:       timecode.Label(s.position.CurrentMs, s.position.TotalMs),
	}
	changed := next != s.display
	s.display = next
	return changed
}

func sliderValue(fraction float64) int {
	return int(math.Round(model.ClampFraction(fraction) * SliderResolution))
}
