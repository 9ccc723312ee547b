package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols). Buttons always pair them with localized text.
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconPause    = "⏸"
	IconStop     = "⏹"
	IconFolder   = "📁"
	IconCopy     = "📋"
	IconCamera   = "📷"
	IconPrevious = "⏮"
	IconNext     = "⏭"
	IconBack     = "◀"
	IconForward  = "▶"
)

// Text fragments
const (
	SkipBackFormat    = "%s %ds"
	SkipForwardFormat = "%ds %s"
	QueueItemFormat   = "%d. %s"
	CurrentItemMarker = "▸ "
)

// Layout sizing
const (
	WindowWidth  float32 = 720
	WindowHeight float32 = 560

	TranscriptMinHeight float32 = 140
	SettingsDialogW     float32 = 460
	SettingsDialogH     float32 = 320
	SpeedSelectWidth    float32 = 90
)

// Timing
const (
	// TickInterval is how often the position display polls the engine
	TickInterval = 100 * time.Millisecond

	// NotificationAutoHide clears transient notifications
	NotificationAutoHide = 4 * time.Second

	// LoadTimeout bounds opening a source, playlist expansion included
	LoadTimeout = 60 * time.Second
)
