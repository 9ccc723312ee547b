// Package capture turns the current video frame into a transcript entry.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/cyclops/internal/model"
	"github.com/ytget/cyclops/internal/ocr"
	"github.com/ytget/cyclops/internal/playback"
)

// DefaultTimeout bounds one OCR round trip
const DefaultTimeout = 8 * time.Second

// Recognizer returns the text found in a PNG image
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Bridge snapshots the engine, sends the frame to a Recognizer and appends
// the result to the transcript.
type Bridge struct {
	engine     playback.Engine
	recognizer Recognizer
	transcript *model.Transcript
	logger     *slog.Logger

	// Timeout bounds the OCR call; zero means DefaultTimeout
	Timeout time.Duration
	// TempDir holds snapshot files; empty means os.TempDir()
	TempDir string
}

// NewBridge creates a capture bridge
func NewBridge(engine playback.Engine, recognizer Recognizer, transcript *model.Transcript, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		engine:     engine,
		recognizer: recognizer,
		transcript: transcript,
		logger:     logger,
		Timeout:    DefaultTimeout,
	}
}

// Capture pauses playback if needed, recognizes the visible frame and
// appends it to the transcript. source is recorded on the entry. The
// snapshot file is removed on every return path.
func (b *Bridge) Capture(ctx context.Context, source string) (model.TranscriptEntry, error) {
	state, err := b.engine.State()
	if err != nil {
		return model.TranscriptEntry{}, fmt.Errorf("%w: %w", ErrNoMedia, err)
	}
	if !state.HasMedia() {
		return model.TranscriptEntry{}, ErrNoMedia
	}

	if state.IsPlaying() {
		if err := b.engine.Pause(); err != nil {
			return model.TranscriptEntry{}, fmt.Errorf("pause before capture: %w", err)
		}
	}

	position, err := b.engine.Time()
	if err != nil {
		b.logger.Warn("Failed to read position for capture", "error", err)
		position = 0
	}

	path := b.snapshotPath()
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			b.logger.Warn("Failed to remove snapshot", "path", path, "error", err)
		}
	}()

	if err := b.engine.TakeSnapshot(path); err != nil {
		return model.TranscriptEntry{}, fmt.Errorf("take snapshot: %w", err)
	}

	image, err := os.ReadFile(path)
	if err != nil {
		return model.TranscriptEntry{}, fmt.Errorf("read snapshot: %w", err)
	}

	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ocrCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := b.recognizer.Recognize(ocrCtx, image)
	if err != nil {
		return model.TranscriptEntry{}, classify(err)
	}

	entry := model.TranscriptEntry{
		ID:         newID(),
		Text:       text,
		Source:     source,
		PositionMs: position,
		CapturedAt: time.Now(),
	}
	b.transcript.Append(entry)

	b.logger.Info("Frame captured", "source", source, "position_ms", position, "chars", len(text))
	return entry, nil
}

func (b *Bridge) snapshotPath() string {
	dir := b.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "cyclops-"+newID()+".png")
}

// classify maps recognizer failures onto the capture error taxonomy
func classify(err error) error {
	var statusErr *ocr.StatusError
	switch {
	case errors.As(err, &statusErr):
		return &OcrRejectedError{Status: statusErr.Status, Body: statusErr.Body}
	case errors.Is(err, ocr.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", ErrOcrUnavailable, err)
	default:
		return &OcrRejectedError{Body: err.Error()}
	}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
