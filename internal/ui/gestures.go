package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/cyclops/internal/playback"
)

// SeekSlider is a slider that reports user drags and taps as a seek gesture.
// Values set with SetPosition never produce gesture callbacks.
type SeekSlider struct {
	widget.Slider

	// OnGestureStart runs when the user grabs the handle
	OnGestureStart func()
	// OnGestureMove receives the handle position in [0,1] while dragging
	OnGestureMove func(normalized float64)
	// OnGestureEnd runs when the user releases the handle
	OnGestureEnd func()

	active bool
}

// NewSeekSlider creates a slider spanning playback.SliderResolution steps
func NewSeekSlider() *SeekSlider {
	s := &SeekSlider{}
	s.Min = 0
	s.Max = playback.SliderResolution
	s.Step = 1
	s.Slider.OnChanged = s.changed
	s.ExtendBaseWidget(s)
	return s
}

// SetPosition moves the handle without emitting a gesture. It is ignored
// while the user holds the handle.
func (s *SeekSlider) SetPosition(value int) {
	if s.active {
		return
	}
	s.SetValue(float64(value))
}

// Dragging reports whether a gesture is in progress
func (s *SeekSlider) Dragging() bool {
	return s.active
}

// Dragged is called while the handle is dragged
func (s *SeekSlider) Dragged(e *fyne.DragEvent) {
	s.begin()
	s.Slider.Dragged(e)
}

// DragEnd is called when the drag is released
func (s *SeekSlider) DragEnd() {
	s.Slider.DragEnd()
	s.finish()
}

// Tapped jumps to the tapped position as a one-step gesture
func (s *SeekSlider) Tapped(e *fyne.PointEvent) {
	s.begin()
	s.Slider.Tapped(e)
	s.finish()
}

func (s *SeekSlider) begin() {
	if s.active {
		return
	}
	s.active = true
	if s.OnGestureStart != nil {
		s.OnGestureStart()
	}
}

func (s *SeekSlider) finish() {
	if !s.active {
		return
	}
	s.active = false
	if s.OnGestureEnd != nil {
		s.OnGestureEnd()
	}
}

func (s *SeekSlider) changed(value float64) {
	if !s.active || s.OnGestureMove == nil {
		return
	}
	s.OnGestureMove(value / s.Max)
}
