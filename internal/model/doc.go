package model

// Package model defines the player's domain data: playback position, the
// transient seek gesture, engine states, the play queue and the OCR
// transcript. Structures are designed for direct binding in the UI and
// explicit state transitions.
