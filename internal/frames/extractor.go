// Package frames reads video metadata and single frames with ffprobe and
// ffmpeg.
package frames

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ytget/cyclops/internal/platform"
)

// Executable and I/O constants
const (
	FFmpegCommand   = "ffmpeg"
	FFprobeCommand  = "ffprobe"
	FFprobeLogLevel = "error"
	FFprobeEntries  = "stream=avg_frame_rate,r_frame_rate,nb_frames,duration:format=duration"
	FFprobeFormat   = "json"
	VideoStream     = "v:0"
	FrameCodec      = "png"
	PipeTarget      = "-"
)

var (
	// ErrUnreadable means the file could not be probed as a video
	ErrUnreadable = errors.New("frames: cannot read video")
	// ErrFrameOutOfRange means the timestamp lies outside the video
	ErrFrameOutOfRange = errors.New("frames: invalid frame in target location")
)

// Metadata describes a video stream
type Metadata struct {
	FPS             float64 `json:"fps"`
	FrameCount      int     `json:"frame_count"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// FrameNumberAt returns the frame nearest to seconds
func (m Metadata) FrameNumberAt(seconds float64) int {
	return int(math.Round(m.FPS * seconds))
}

// Extractor runs ffprobe/ffmpeg
type Extractor struct {
	ffmpeg  string
	ffprobe string
	run     platform.CommandRunner
}

// NewExtractor creates an extractor; empty binaries fall back to PATH lookups
func NewExtractor(ffmpeg, ffprobe string) *Extractor {
	if ffmpeg == "" {
		ffmpeg = FFmpegCommand
	}
	if ffprobe == "" {
		ffprobe = FFprobeCommand
	}
	return &Extractor{
		ffmpeg:  ffmpeg,
		ffprobe: ffprobe,
		run:     platform.RunCommand,
	}
}

type probeOutput struct {
	Streams []struct {
		AvgFrameRate string `json:"avg_frame_rate"`
		RFrameRate   string `json:"r_frame_rate"`
		NbFrames     string `json:"nb_frames"`
		Duration     string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// BuildProbeArgs builds the ffprobe command arguments
func BuildProbeArgs(path string) []string {
	return []string{
		"-v", FFprobeLogLevel,
		"-select_streams", VideoStream,
		"-show_entries", FFprobeEntries,
		"-of", FFprobeFormat,
		path,
	}
}

// BuildFrameArgs builds the ffmpeg arguments that write one PNG frame to
// stdout. The seek goes before -i so ffmpeg jumps instead of decoding from
// the start.
func BuildFrameArgs(path string, frame int, fps float64) []string {
	offset := float64(frame) / fps
	return []string{
		"-v", FFprobeLogLevel,
		"-ss", strconv.FormatFloat(offset, 'f', 6, 64),
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", FrameCodec,
		PipeTarget,
	}
}

// Probe reads fps, frame count and duration. Duration is derived from the
// frame count so the three values agree.
func (e *Extractor) Probe(ctx context.Context, path string) (Metadata, error) {
	out, err := e.run(ctx, nil, e.ffprobe, BuildProbeArgs(path)...)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return ParseProbe(out)
}

// ParseProbe decodes ffprobe JSON output
func ParseProbe(out []byte) (Metadata, error) {
	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return Metadata{}, fmt.Errorf("%w: parse ffprobe output: %w", ErrUnreadable, err)
	}
	if len(probe.Streams) == 0 {
		return Metadata{}, fmt.Errorf("%w: no video stream", ErrUnreadable)
	}
	stream := probe.Streams[0]

	fps, err := ParseFrameRate(stream.AvgFrameRate)
	if err != nil || fps <= 0 {
		fps, err = ParseFrameRate(stream.RFrameRate)
	}
	if err != nil || fps <= 0 {
		return Metadata{}, fmt.Errorf("%w: unknown frame rate", ErrUnreadable)
	}

	frameCount, err := strconv.Atoi(stream.NbFrames)
	if err != nil || frameCount <= 0 {
		duration := parseSeconds(stream.Duration)
		if duration <= 0 {
			duration = parseSeconds(probe.Format.Duration)
		}
		frameCount = int(math.Round(duration * fps))
	}
	if frameCount <= 0 {
		return Metadata{}, fmt.Errorf("%w: unknown frame count", ErrUnreadable)
	}

	return Metadata{
		FPS:             fps,
		FrameCount:      frameCount,
		DurationSeconds: float64(frameCount) / fps,
	}, nil
}

// ParseFrameRate parses ffprobe rates such as "30000/1001" or "25"
func ParseFrameRate(rate string) (float64, error) {
	num, den, found := strings.Cut(strings.TrimSpace(rate), "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate %q", rate)
	}
	if !found {
		return n, nil
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("invalid frame rate %q", rate)
	}
	return n / d, nil
}

// FrameAt returns the PNG frame nearest to seconds
func (e *Extractor) FrameAt(ctx context.Context, path string, seconds float64) ([]byte, error) {
	meta, err := e.Probe(ctx, path)
	if err != nil {
		return nil, err
	}

	// NaN and values far past the end would not survive the int conversion
	if math.IsNaN(seconds) || seconds < 0 || seconds > meta.DurationSeconds {
		return nil, fmt.Errorf("%w: %.3fs", ErrFrameOutOfRange, seconds)
	}
	frame := meta.FrameNumberAt(seconds)
	if frame < 0 || frame >= meta.FrameCount {
		return nil, fmt.Errorf("%w: %.3fs", ErrFrameOutOfRange, seconds)
	}

	out, err := e.run(ctx, nil, e.ffmpeg, BuildFrameArgs(path, frame, meta.FPS)...)
	if err != nil {
		return nil, fmt.Errorf("extract frame %d: %w", frame, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %.3fs", ErrFrameOutOfRange, seconds)
	}
	return out, nil
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
