package model

import "math"

// PlaybackPosition is the last engine position accepted by the synchronizer.
// When TotalMs is 0 the length is unknown and CurrentMs is held at 0.
type PlaybackPosition struct {
	CurrentMs int64 `json:"current_ms"`
	TotalMs   int64 `json:"total_ms"`
}

// Known reports whether the media length is known
func (p PlaybackPosition) Known() bool {
	return p.TotalMs > 0
}

// Fraction returns CurrentMs/TotalMs, or 0 when the length is unknown
func (p PlaybackPosition) Fraction() float64 {
	if !p.Known() {
		return 0
	}
	return float64(p.CurrentMs) / float64(p.TotalMs)
}

// Update stores a new position, keeping CurrentMs within [0, TotalMs]
func (p *PlaybackPosition) Update(currentMs, totalMs int64) {
	if totalMs <= 0 {
		p.Reset()
		return
	}
	if currentMs < 0 {
		currentMs = 0
	}
	if currentMs > totalMs {
		currentMs = totalMs
	}
	p.CurrentMs = currentMs
	p.TotalMs = totalMs
}

// Reset clears the position, as on media unload
func (p *PlaybackPosition) Reset() {
	p.CurrentMs = 0
	p.TotalMs = 0
}

// SeekGesture is an in-progress drag of the seek control. It only exists
// between gesture start and gesture end.
type SeekGesture struct {
	Active     bool
	Normalized float64 // 0.0 to 1.0
	PendingMs  int64   // Normalized mapped onto the last known length
}

// Begin marks the gesture active, starting from the given fraction
func (g *SeekGesture) Begin(normalized float64) {
	g.Active = true
	g.Normalized = ClampFraction(normalized)
	g.PendingMs = 0
}

// Move records the drag position and derives the pending target from totalMs
func (g *SeekGesture) Move(normalized float64, totalMs int64) {
	g.Normalized = ClampFraction(normalized)
	g.PendingMs = FractionToMs(g.Normalized, totalMs)
}

// End clears the gesture and returns the last normalized position
func (g *SeekGesture) End() float64 {
	n := g.Normalized
	*g = SeekGesture{}
	return n
}

// ClampFraction limits f to [0, 1]; NaN maps to 0
func ClampFraction(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// FractionToMs converts a normalized position into milliseconds of totalMs
func FractionToMs(normalized float64, totalMs int64) int64 {
	if totalMs <= 0 {
		return 0
	}
	return int64(math.Round(ClampFraction(normalized) * float64(totalMs)))
}
