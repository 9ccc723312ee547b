package player

import "fmt"

// Command is a user action routed through Session.Dispatch
type Command int

const (
	CommandPlay Command = iota
	CommandPause
	CommandTogglePlay
	CommandStop
	CommandSkipBackLong
	CommandSkipBackShort
	CommandSkipForwardShort
	CommandSkipForwardLong
	CommandSpeedDown
	CommandSpeedUp
	CommandCapture
	CommandNext
	CommandPrevious
)

var commandNames = map[Command]string{
	CommandPlay:             "play",
	CommandPause:            "pause",
	CommandTogglePlay:       "toggle_play",
	CommandStop:             "stop",
	CommandSkipBackLong:     "skip_back_long",
	CommandSkipBackShort:    "skip_back_short",
	CommandSkipForwardShort: "skip_forward_short",
	CommandSkipForwardLong:  "skip_forward_long",
	CommandSpeedDown:        "speed_down",
	CommandSpeedUp:          "speed_up",
	CommandCapture:          "capture",
	CommandNext:             "next",
	CommandPrevious:         "previous",
}

// String returns the command name used in logs and localization keys
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// Speeds are the selectable playback rates
var Speeds = []float64{0.5, 0.75, 1, 1.25, 1.5, 2, 3, 4}

// DefaultSpeedIndex selects 1x
const DefaultSpeedIndex = 2

// SpeedLabel formats Speeds[index] for display, e.g. "1.25x"
func SpeedLabel(index int) string {
	return fmt.Sprintf("%gx", Speeds[clampSpeedIndex(index)])
}

func clampSpeedIndex(index int) int {
	return max(0, min(index, len(Speeds)-1))
}
