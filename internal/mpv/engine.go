package mpv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/cyclops/internal/model"
	"github.com/ytget/cyclops/internal/platform"
)

// DefaultBinary is looked up in PATH
const DefaultBinary = "mpv"

const (
	startupTimeout = 5 * time.Second
	dialInterval   = 50 * time.Millisecond
	quitTimeout    = 2 * time.Second
)

// PollTimeout bounds a Status poll. Ticks run on the UI goroutine, so a
// stalled mpv must not hold them for the full request timeout.
const PollTimeout = 250 * time.Millisecond

// Options configure the mpv process
type Options struct {
	Binary string
	// ExtraArgs are appended after the IPC flags
	ExtraArgs []string
	Logger    *slog.Logger
}

// Engine is a playback.Engine backed by an mpv process
type Engine struct {
	*Client

	cmd    *exec.Cmd
	socket string
	exited chan struct{}

	mu     sync.Mutex
	source string
}

// BuildArgs returns the mpv command line for an idle player listening on
// socket.
func BuildArgs(socket string, extra []string) []string {
	args := []string{
		"--idle=yes",
		"--force-window=yes",
		"--keep-open=yes",
		"--no-terminal",
		"--input-ipc-server=" + socket,
	}
	return append(args, extra...)
}

// Start launches mpv and connects to its IPC socket
func Start(ctx context.Context, opts Options) (*Engine, error) {
	binary := opts.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("mpv not found: %w", err)
	}

	socket := platform.SocketPath("cyclops-mpv-" + uuid.NewString())
	cmd := exec.Command(binary, BuildArgs(socket, opts.ExtraArgs)...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start mpv: %w", err)
	}

	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	conn, err := dial(ctx, socket, exited)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = os.Remove(socket)
		return nil, err
	}

	logger.Info("mpv started", "pid", cmd.Process.Pid, "socket", socket)
	return &Engine{
		Client: newClient(conn, logger),
		cmd:    cmd,
		socket: socket,
		exited: exited,
	}, nil
}

// dial waits for mpv to create its socket
func dial(ctx context.Context, socket string, exited <-chan struct{}) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	var d net.Dialer
	for {
		conn, err := d.DialContext(ctx, "unix", socket)
		if err == nil {
			return conn, nil
		}
		select {
		case <-exited:
			return nil, errors.New("mpv exited before opening its IPC socket")
		case <-ctx.Done():
			return nil, fmt.Errorf("connect to mpv: %w", err)
		case <-time.After(dialInterval):
		}
	}
}

// NewEngine wraps an existing IPC connection, e.g. to an mpv started elsewhere
func NewEngine(conn net.Conn, logger *slog.Logger) *Engine {
	return &Engine{Client: newClient(conn, logger)}
}

// Load replaces the current file and starts playback
func (e *Engine) Load(source string) error {
	if _, err := e.Command("loadfile", source, "replace"); err != nil {
		return err
	}
	e.mu.Lock()
	e.source = source
	e.mu.Unlock()
	return e.SetProperty("pause", false)
}

// Play resumes playback. After Stop mpv is idle with an empty playlist, so
// the last loaded source is loaded again from the start.
func (e *Engine) Play() error {
	var idle bool
	if err := e.GetProperty("idle-active", &idle); err != nil {
		return err
	}
	e.mu.Lock()
	source := e.source
	e.mu.Unlock()
	if idle && source != "" {
		return e.Load(source)
	}
	return e.SetProperty("pause", false)
}

func (e *Engine) Pause() error {
	return e.SetProperty("pause", true)
}

func (e *Engine) Stop() error {
	_, err := e.Command("stop")
	return err
}

// State maps idle-active and pause onto a PlayerState
func (e *Engine) State() (model.PlayerState, error) {
	var idle bool
	if err := e.GetProperty("idle-active", &idle); err != nil {
		return model.PlayerStateStopped, err
	}
	if idle {
		return model.PlayerStateStopped, nil
	}

	var paused bool
	if err := e.GetProperty("pause", &paused); err != nil {
		return model.PlayerStateStopped, err
	}
	if paused {
		return model.PlayerStatePaused, nil
	}
	return model.PlayerStatePlaying, nil
}

// Time returns time-pos in milliseconds, 0 while unavailable
func (e *Engine) Time() (int64, error) {
	return e.secondsProperty("time-pos")
}

// SetTime seeks to an absolute position
func (e *Engine) SetTime(ms int64) error {
	_, err := e.Command("seek", float64(ms)/1000, "absolute+exact")
	return err
}

// Length returns duration in milliseconds, 0 while unknown
func (e *Engine) Length() (int64, error) {
	return e.secondsProperty("duration")
}

func (e *Engine) SetRate(rate float64) error {
	return e.SetProperty("speed", rate)
}

// Volume returns the mpv volume clamped to [0, 100]
func (e *Engine) Volume() (int, error) {
	var volume float64
	if err := e.GetProperty("volume", &volume); err != nil {
		return 0, err
	}
	return clampVolume(int(math.Round(volume))), nil
}

func (e *Engine) SetVolume(volume int) error {
	return e.SetProperty("volume", clampVolume(volume))
}

// TakeSnapshot writes the current video frame, without OSD or subtitles
func (e *Engine) TakeSnapshot(path string) error {
	_, err := e.Command("screenshot-to-file", path, "video")
	return err
}

// Close asks mpv to quit, then tears down the connection and socket
func (e *Engine) Close() error {
	if e.cmd != nil {
		_, _ = e.Command("quit")
	}
	err := e.closeConn()

	if e.cmd != nil {
		select {
		case <-e.exited:
		case <-time.After(quitTimeout):
			_ = e.cmd.Process.Kill()
			<-e.exited
		}
		_ = os.Remove(e.socket)
	}
	return err
}

// Status reads idle-active, pause, time-pos and duration in one pipelined
// round trip bounded by PollTimeout
func (e *Engine) Status() (model.EngineStatus, error) {
	results, err := e.batch(PollTimeout,
		[]any{"get_property", "idle-active"},
		[]any{"get_property", "pause"},
		[]any{"get_property", "time-pos"},
		[]any{"get_property", "duration"},
	)
	if err != nil {
		return model.EngineStatus{State: model.PlayerStateStopped}, err
	}

	var idle, paused bool
	if err := decodeResult(results[0], "idle-active", &idle); err != nil {
		return model.EngineStatus{State: model.PlayerStateStopped}, err
	}
	if idle {
		return model.EngineStatus{State: model.PlayerStateStopped}, nil
	}
	if err := decodeResult(results[1], "pause", &paused); err != nil {
		return model.EngineStatus{State: model.PlayerStateStopped}, err
	}

	status := model.EngineStatus{State: model.PlayerStatePlaying}
	if paused {
		status.State = model.PlayerStatePaused
	}
	if status.PositionMs, err = millis(results[2], "time-pos"); err != nil {
		return status, err
	}
	if status.LengthMs, err = millis(results[3], "duration"); err != nil {
		return status, err
	}
	return status, nil
}

func (e *Engine) secondsProperty(name string) (int64, error) {
	data, err := e.Command("get_property", name)
	return millis(result{data: data, err: err}, name)
}

func decodeResult(r result, name string, out any) error {
	if r.err != nil {
		return r.err
	}
	if err := json.Unmarshal(r.data, out); err != nil {
		return fmt.Errorf("decode mpv property %s: %w", name, err)
	}
	return nil
}

// millis converts a seconds property to milliseconds, 0 while unavailable
func millis(r result, name string) (int64, error) {
	var seconds float64
	err := decodeResult(r, name, &seconds)
	if errors.Is(err, ErrPropertyUnavailable) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if seconds < 0 {
		return 0, nil
	}
	return int64(math.Round(seconds * 1000)), nil
}

func clampVolume(v int) int {
	return max(0, min(v, 100))
}
