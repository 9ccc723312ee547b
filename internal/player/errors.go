package player

import "errors"

var (
	// ErrNoMedia is returned by media commands before anything is loaded
	ErrNoMedia = errors.New("player: no media loaded")
	// ErrBusy is returned when a capture is already running
	ErrBusy = errors.New("player: capture in progress")
	// ErrEmptySource is returned by Load for blank input
	ErrEmptySource = errors.New("player: empty source")
	// ErrQueueEnd is returned by Next/Previous at either end of the queue
	ErrQueueEnd = errors.New("player: no more items in queue")
	// ErrUnknownCommand is returned by Dispatch for unmapped commands
	ErrUnknownCommand = errors.New("player: unknown command")
)
