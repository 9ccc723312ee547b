package model

import (
	"testing"
	"time"
)

func TestTranscript_AppendKeepsOrder(t *testing.T) {
	tr := NewTranscript()

	if tr.Len() != 0 {
		t.Fatalf("Expected empty transcript, got %d entries", tr.Len())
	}

	tr.Append(TranscriptEntry{ID: "a", Text: "first", CapturedAt: time.Now()})
	tr.Append(TranscriptEntry{ID: "b", Text: "second", CapturedAt: time.Now()})

	entries := tr.Entries()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "a" || entries[1].ID != "b" {
		t.Errorf("Entries out of order: %s, %s", entries[0].ID, entries[1].ID)
	}

	if got := tr.Text(); got != "first\nsecond" {
		t.Errorf("Text() = %q, expected %q", got, "first\nsecond")
	}
}

func TestTranscript_EntriesIsACopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append(TranscriptEntry{ID: "a", Text: "first"})

	entries := tr.Entries()
	entries[0].Text = "changed"

	if tr.Entries()[0].Text != "first" {
		t.Error("Mutating the returned slice should not affect the transcript")
	}
}
