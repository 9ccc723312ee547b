package ui

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/cyclops/internal/player"
)

// keyCommands maps unmodified keys to player commands. They only fire when
// no text field has focus.
var keyCommands = map[fyne.KeyName]player.Command{
	fyne.KeySpace: player.CommandTogglePlay,
	fyne.KeyK:     player.CommandTogglePlay,
	fyne.KeyS:     player.CommandStop,
	fyne.KeyLeft:  player.CommandSkipBackShort,
	fyne.KeyRight: player.CommandSkipForwardShort,
	fyne.KeyJ:     player.CommandSkipBackLong,
	fyne.KeyL:     player.CommandSkipForwardLong,
	fyne.KeyC:     player.CommandCapture,
	fyne.KeyN:     player.CommandNext,
	fyne.KeyP:     player.CommandPrevious,
}

// runeCommands maps typed characters that need Shift on most layouts
var runeCommands = map[rune]player.Command{
	'<': player.CommandSpeedDown,
	'>': player.CommandSpeedUp,
}

// CommandForKey returns the command bound to key
func CommandForKey(key fyne.KeyName) (player.Command, bool) {
	cmd, ok := keyCommands[key]
	return cmd, ok
}

// CommandForRune returns the command bound to a typed character
func CommandForRune(r rune) (player.Command, bool) {
	cmd, ok := runeCommands[r]
	return cmd, ok
}
