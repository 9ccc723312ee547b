// Package player holds the playback session: the engine handle, settings,
// recent list, transcript and play queue, plus the command dispatch that the
// UI drives.
package player

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/ytget/cyclops/internal/capture"
	"github.com/ytget/cyclops/internal/config"
	"github.com/ytget/cyclops/internal/model"
	"github.com/ytget/cyclops/internal/platform"
	"github.com/ytget/cyclops/internal/playback"
	"github.com/ytget/cyclops/internal/timecode"
)

// SettingsStore is the persisted player configuration
type SettingsStore interface {
	GetSkipConfig() config.SkipConfig
	SetSkipShort(seconds int)
	SetSkipLong(seconds int)
	GetAPIURL() string
	SetAPIURL(url string)
	GetVolume() int
	SetVolume(volume int)
}

// Recognizer is the OCR collaborator; its endpoint follows the settings
type Recognizer interface {
	capture.Recognizer
	SetURL(url string)
}

// PlaylistExpander turns a playlist URL into a queue
type PlaylistExpander interface {
	Expand(ctx context.Context, source string) (*model.PlayQueue, error)
}

// CaptureHandler receives the outcome of an asynchronous capture. It runs on
// the capture goroutine.
type CaptureHandler func(entry model.TranscriptEntry, err error)

// Deps are the collaborators a Session owns
type Deps struct {
	Engine     playback.Engine
	Settings   SettingsStore
	Recent     *config.RecentList
	Recognizer Recognizer
	Expander   PlaylistExpander
	Logger     *slog.Logger
}

// SettingsUpdate carries the values edited in the settings dialog
type SettingsUpdate struct {
	SkipShort int
	SkipLong  int
	APIURL    string
}

// Session is the explicit context every UI handler works through. Apart
// from CaptureAsync, its methods are meant for the UI goroutine.
type Session struct {
	engine     playback.Engine
	settings   SettingsStore
	recent     *config.RecentList
	recognizer Recognizer
	expander   PlaylistExpander
	logger     *slog.Logger

	transcript *model.Transcript
	sync       *playback.Synchronizer
	skipper    *playback.SkipController
	bridge     *capture.Bridge

	queue      *model.PlayQueue
	source     string
	speedIndex int
	busy       atomic.Bool
	onCapture  CaptureHandler

	handlers map[Command]func(ctx context.Context) error
}

// NewSession wires a session over deps
func NewSession(deps Deps) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	transcript := model.NewTranscript()
	s := &Session{
		engine:     deps.Engine,
		settings:   deps.Settings,
		recent:     deps.Recent,
		recognizer: deps.Recognizer,
		expander:   deps.Expander,
		logger:     logger,
		transcript: transcript,
		sync:       playback.NewSynchronizer(deps.Engine),
		skipper:    playback.NewSkipController(deps.Engine),
		bridge:     capture.NewBridge(deps.Engine, deps.Recognizer, transcript, logger),
		speedIndex: DefaultSpeedIndex,
	}

	s.handlers = map[Command]func(ctx context.Context) error{
		CommandPlay:             s.play,
		CommandPause:            s.pause,
		CommandTogglePlay:       s.togglePlay,
		CommandStop:             s.stop,
		CommandSkipBackLong:     s.skipFn(func(c config.SkipConfig) int { return -c.LongSeconds }),
		CommandSkipBackShort:    s.skipFn(func(c config.SkipConfig) int { return -c.ShortSeconds }),
		CommandSkipForwardShort: s.skipFn(func(c config.SkipConfig) int { return c.ShortSeconds }),
		CommandSkipForwardLong:  s.skipFn(func(c config.SkipConfig) int { return c.LongSeconds }),
		CommandSpeedDown:        func(context.Context) error { return s.SetSpeed(s.speedIndex - 1) },
		CommandSpeedUp:          func(context.Context) error { return s.SetSpeed(s.speedIndex + 1) },
		CommandCapture:          s.captureCommand,
		CommandNext:             s.next,
		CommandPrevious:         s.previous,
	}
	return s
}

// Dispatch runs the handler mapped to cmd
func (s *Session) Dispatch(ctx context.Context, cmd Command) error {
	handler, ok := s.handlers[cmd]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	if err := handler(ctx); err != nil {
		s.logger.Debug("Command failed", "command", cmd.String(), "error", err)
		return err
	}
	return nil
}

// SetCaptureHandler sets the callback used by CommandCapture
func (s *Session) SetCaptureHandler(handler CaptureHandler) {
	s.onCapture = handler
}

// Load opens source. A playlist URL is expanded into the queue and its first
// video is opened. Only successful loads reach the recent list.
func (s *Session) Load(ctx context.Context, source string) error {
	source = strings.TrimSpace(source)
	if source == "" {
		return ErrEmptySource
	}

	if s.expander != nil && platform.IsPlaylistURL(source) {
		queue, err := s.expander.Expand(ctx, source)
		if err != nil {
			return fmt.Errorf("failed to expand playlist: %w", err)
		}
		item, _ := queue.Current()
		if err := s.open(item.URL); err != nil {
			return err
		}
		s.queue = queue
		s.recent.Add(source)
		s.logger.Info("Playlist loaded", "title", queue.Title, "items", queue.Len())
		return nil
	}

	if !platform.IsRemoteSource(source) {
		if err := platform.ValidateLocalSource(source); err != nil {
			return err
		}
	}
	if err := s.open(source); err != nil {
		return err
	}
	s.queue = nil
	s.recent.Add(source)
	return nil
}

// open hands target to the engine and resets the position display
func (s *Session) open(target string) error {
	if err := s.engine.Load(target); err != nil {
		return fmt.Errorf("failed to load %s: %w", target, err)
	}
	s.source = target
	s.sync.Reset()

	if err := s.engine.SetRate(Speeds[s.speedIndex]); err != nil {
		s.logger.Warn("Failed to apply playback speed", "error", err)
	}
	s.logger.Info("Media loaded", "source", target)
	return nil
}

// SeekToTimestamp parses a "minutes:seconds" entry and seeks there. Targets
// past the end land on the end.
func (s *Session) SeekToTimestamp(text string) (int64, error) {
	ms, err := timecode.Parse(text)
	if err != nil {
		return 0, err
	}
	if s.source == "" {
		return 0, ErrNoMedia
	}

	length, err := s.engine.Length()
	if err != nil {
		length = 0
	}
	target := playback.ClampTarget(ms, length)
	if err := s.engine.SetTime(target); err != nil {
		return 0, fmt.Errorf("failed to seek to %d ms: %w", target, err)
	}
	s.sync.OnSeek(target, length)
	return target, nil
}

// SetVolume applies and persists volume, clamped to [0, 100]
func (s *Session) SetVolume(volume int) error {
	volume = max(0, min(volume, 100))
	if err := s.engine.SetVolume(volume); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}
	s.settings.SetVolume(volume)
	return nil
}

// Volume returns the persisted volume
func (s *Session) Volume() int {
	return s.settings.GetVolume()
}

// SetSpeed selects Speeds[index]; out-of-range indexes stop at the ends
func (s *Session) SetSpeed(index int) error {
	index = clampSpeedIndex(index)
	if err := s.engine.SetRate(Speeds[index]); err != nil {
		return fmt.Errorf("failed to set speed: %w", err)
	}
	s.speedIndex = index
	return nil
}

// SpeedIndex returns the selected index into Speeds
func (s *Session) SpeedIndex() int {
	return s.speedIndex
}

// Tick polls the engine once and feeds the synchronizer. It reports whether
// the display changed.
func (s *Session) Tick() (playback.Display, bool) {
	if s.source == "" || s.sync.GestureActive() {
		return s.sync.CurrentDisplay(), false
	}

	status, err := s.poll()
	if err != nil {
		return s.sync.CurrentDisplay(), false
	}

	changed := s.sync.OnTick(status.PositionMs, status.LengthMs, status.State.IsPlaying())
	return s.sync.CurrentDisplay(), changed
}

// poll reads state, position and length, in one call when the engine can
func (s *Session) poll() (model.EngineStatus, error) {
	if poller, ok := s.engine.(playback.StatusPoller); ok {
		return poller.Status()
	}

	var status model.EngineStatus
	var err error
	if status.State, err = s.engine.State(); err != nil {
		return status, err
	}
	if status.PositionMs, err = s.engine.Time(); err != nil {
		return status, err
	}
	if status.LengthMs, err = s.engine.Length(); err != nil {
		return status, err
	}
	return status, nil
}

// GestureStart begins a seek drag
func (s *Session) GestureStart() {
	s.sync.OnGestureStart()
}

// GestureMove previews the drag position without seeking
func (s *Session) GestureMove(normalized float64) playback.Display {
	s.sync.OnGestureMove(normalized)
	return s.sync.CurrentDisplay()
}

// GestureEnd commits the drag as a seek
func (s *Session) GestureEnd() (playback.Commit, error) {
	return s.sync.OnGestureEnd()
}

// Display returns the current seek control state
func (s *Session) Display() playback.Display {
	return s.sync.CurrentDisplay()
}

// State returns the engine state, or Stopped when it cannot be read
func (s *Session) State() model.PlayerState {
	state, err := s.engine.State()
	if err != nil {
		return model.PlayerStateStopped
	}
	return state
}

// CaptureAsync runs a capture on its own goroutine and reports through done.
// A second call while one is running returns ErrBusy.
func (s *Session) CaptureAsync(ctx context.Context, done CaptureHandler) error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}

	source := s.source
	go func() {
		entry, err := s.bridge.Capture(ctx, source)
		s.busy.Store(false)
		if err != nil {
			s.logger.Warn("Capture failed", "error", err)
		}
		if done != nil {
			done(entry, err)
		}
	}()
	return nil
}

// Busy reports whether a capture is running
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Transcript returns the session transcript
func (s *Session) Transcript() *model.Transcript {
	return s.transcript
}

// Source returns the loaded media source, or ""
func (s *Session) Source() string {
	return s.source
}

// Queue returns the expanded playlist, or nil
func (s *Session) Queue() *model.PlayQueue {
	return s.queue
}

// Recent returns the recent sources, most recent first
func (s *Session) Recent() []string {
	return s.recent.List()
}

// ClearRecent empties the recent list. Confirmation belongs to the UI.
func (s *Session) ClearRecent() {
	s.recent.Clear()
}

// SkipConfig returns the configured skip offsets
func (s *Session) SkipConfig() config.SkipConfig {
	return s.settings.GetSkipConfig()
}

// APIURL returns the configured OCR endpoint
func (s *Session) APIURL() string {
	return s.settings.GetAPIURL()
}

// UpdateSettings validates and stores the dialog values. Skip offsets are
// clamped by the store; an invalid URL rejects the whole update.
func (s *Session) UpdateSettings(update SettingsUpdate) error {
	apiURL := strings.TrimSpace(update.APIURL)
	if err := config.ValidateAPIURL(apiURL); err != nil {
		return err
	}

	s.settings.SetSkipShort(update.SkipShort)
	s.settings.SetSkipLong(update.SkipLong)
	s.settings.SetAPIURL(apiURL)
	s.recognizer.SetURL(apiURL)

	s.logger.Info("Settings updated", "skip", s.settings.GetSkipConfig(), "api_url", apiURL)
	return nil
}

// Close releases the engine
func (s *Session) Close() error {
	return s.engine.Close()
}

func (s *Session) requireMedia() error {
	if s.source == "" {
		return ErrNoMedia
	}
	return nil
}

// play resumes playback; a stopped engine has unloaded the media, so the
// current source is opened again from the start
func (s *Session) play(context.Context) error {
	if err := s.requireMedia(); err != nil {
		return err
	}
	if s.State() == model.PlayerStateStopped {
		return s.open(s.source)
	}
	return s.engine.Play()
}

func (s *Session) pause(context.Context) error {
	if err := s.requireMedia(); err != nil {
		return err
	}
	return s.engine.Pause()
}

func (s *Session) togglePlay(ctx context.Context) error {
	if s.State().IsPlaying() {
		return s.pause(ctx)
	}
	return s.play(ctx)
}

func (s *Session) stop(context.Context) error {
	if err := s.requireMedia(); err != nil {
		return err
	}
	if err := s.engine.Stop(); err != nil {
		return err
	}
	s.sync.Reset()
	return nil
}

func (s *Session) skipFn(offset func(config.SkipConfig) int) func(context.Context) error {
	return func(context.Context) error {
		if err := s.requireMedia(); err != nil {
			return err
		}
		target, err := s.skipper.Skip(offset(s.settings.GetSkipConfig()))
		if err != nil {
			return err
		}
		length, err := s.engine.Length()
		if err == nil {
			s.sync.OnSeek(target, length)
		}
		return nil
	}
}

func (s *Session) captureCommand(ctx context.Context) error {
	return s.CaptureAsync(ctx, s.onCapture)
}

func (s *Session) next(context.Context) error {
	item, ok := s.queue.Next()
	if !ok {
		return ErrQueueEnd
	}
	return s.openQueued(item, s.queue.Previous)
}

func (s *Session) previous(context.Context) error {
	item, ok := s.queue.Previous()
	if !ok {
		return ErrQueueEnd
	}
	return s.openQueued(item, s.queue.Next)
}

// openQueued opens a queue item, moving the cursor back with undo on failure
func (s *Session) openQueued(item model.QueueItem, undo func() (model.QueueItem, bool)) error {
	if err := s.open(item.URL); err != nil {
		undo()
		return err
	}
	return nil
}
