// Package ui contains the Fyne desktop window of the player. It turns button
// presses, keyboard shortcuts and seek-slider drags into player.Session calls
// and renders the session's display, transcript and notifications. All UI
// strings are localized via Localization.
package ui
