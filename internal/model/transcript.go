package model

import (
	"strings"
	"sync"
	"time"
)

// TranscriptEntry is the text recognized from one captured frame
type TranscriptEntry struct {
	ID         string
	Text       string
	Source     string    // media the frame was taken from
	PositionMs int64     // playback position at capture time
	CapturedAt time.Time // when the OCR result arrived
}

// Transcript is the session's append-only list of OCR results. It is never
// persisted.
type Transcript struct {
	mu      sync.RWMutex
	entries []TranscriptEntry
}

// NewTranscript creates an empty transcript
func NewTranscript() *Transcript {
	return &Transcript{entries: make([]TranscriptEntry, 0)}
}

// Append adds an entry at the end
func (t *Transcript) Append(entry TranscriptEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, entry)
}

// Entries returns a copy of all entries in capture order
func (t *Transcript) Entries() []TranscriptEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]TranscriptEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Text joins all entries with newlines, in order, for display
func (t *Transcript) Text() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var b strings.Builder
	for i, e := range t.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(e.Text)
	}
	return b.String()
}
