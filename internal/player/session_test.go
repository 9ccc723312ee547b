package player

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/cyclops/internal/config"
	"github.com/ytget/cyclops/internal/mocks"
	"github.com/ytget/cyclops/internal/model"
	"github.com/ytget/cyclops/internal/playback"
	"github.com/ytget/cyclops/internal/timecode"
)

type fakeRecognizer struct {
	mu      sync.Mutex
	url     string
	text    string
	err     error
	release chan struct{}
}

func (f *fakeRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	if f.release != nil {
		<-f.release
	}
	return f.text, f.err
}

func (f *fakeRecognizer) SetURL(url string) {
	f.mu.Lock()
	f.url = url
	f.mu.Unlock()
}

type fakeExpander struct {
	queue *model.PlayQueue
	err   error
}

func (f *fakeExpander) Expand(ctx context.Context, source string) (*model.PlayQueue, error) {
	return f.queue, f.err
}

type fixture struct {
	session    *Session
	engine     *mocks.Engine
	settings   *config.Settings
	recognizer *fakeRecognizer
	expander   *fakeExpander
	video      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	settings := config.NewSettings(test.NewApp())
	engine := mocks.NewEngine()
	engine.LengthOnLoad = 600000
	f := &fixture{
		engine:     engine,
		settings:   settings,
		recognizer: &fakeRecognizer{text: "frame text"},
		expander:   &fakeExpander{},
		video:      filepath.Join(t.TempDir(), "lecture.mp4"),
	}
	require.NoError(t, os.WriteFile(f.video, []byte("video"), 0o644))

	f.session = NewSession(Deps{
		Engine:     engine,
		Settings:   settings,
		Recent:     config.NewRecentList(settings, nil),
		Recognizer: f.recognizer,
		Expander:   f.expander,
	})
	return f
}

func (f *fixture) load(t *testing.T) {
	t.Helper()
	require.NoError(t, f.session.Load(context.Background(), f.video))
}

func TestSession_Load(t *testing.T) {
	f := newFixture(t)

	err := f.session.Load(context.Background(), "  "+f.video+"  ")

	require.NoError(t, err)
	assert.Equal(t, []string{f.video}, f.engine.Sources)
	assert.Equal(t, f.video, f.session.Source())
	assert.Equal(t, []string{f.video}, f.session.Recent())
	assert.Equal(t, 1.0, f.engine.Rate)
	assert.Equal(t, timecode.Label(0, 0), f.session.Display().Label)
}

func TestSession_LoadFailures(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.session.Load(context.Background(), "   "), ErrEmptySource)
	})

	t.Run("missing file", func(t *testing.T) {
		f := newFixture(t)
		err := f.session.Load(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
		assert.Error(t, err)
		assert.Empty(t, f.engine.Sources)
		assert.Empty(t, f.session.Recent())
	})

	t.Run("engine failure", func(t *testing.T) {
		f := newFixture(t)
		f.engine.LoadErr = mocks.ErrEngine

		err := f.session.Load(context.Background(), f.video)

		assert.ErrorIs(t, err, mocks.ErrEngine)
		assert.Empty(t, f.session.Recent())
		assert.Empty(t, f.session.Source())
	})

	t.Run("playlist failure", func(t *testing.T) {
		f := newFixture(t)
		f.expander.err = mocks.ErrEngine

		err := f.session.Load(context.Background(), "https://www.youtube.com/playlist?list=PL1")

		assert.ErrorIs(t, err, mocks.ErrEngine)
		assert.Empty(t, f.session.Recent())
		assert.Nil(t, f.session.Queue())
	})
}

func TestSession_LoadRemoteURL(t *testing.T) {
	f := newFixture(t)
	url := "https://www.youtube.com/watch?v=abc123"

	require.NoError(t, f.session.Load(context.Background(), url))

	assert.Equal(t, []string{url}, f.engine.Sources)
	assert.Nil(t, f.session.Queue())
	assert.Equal(t, url, f.session.Recent()[0])
}

func TestSession_PlaylistQueue(t *testing.T) {
	f := newFixture(t)
	playlistURL := "https://www.youtube.com/playlist?list=PLgo"
	f.expander.queue = model.NewPlayQueue("Go", []model.QueueItem{
		{ID: "a", URL: "https://www.youtube.com/watch?v=a"},
		{ID: "b", URL: "https://www.youtube.com/watch?v=b"},
	})
	ctx := context.Background()

	require.NoError(t, f.session.Load(ctx, playlistURL))
	assert.Equal(t, "https://www.youtube.com/watch?v=a", f.session.Source())
	assert.Equal(t, []string{playlistURL}, f.session.Recent())

	require.NoError(t, f.session.Dispatch(ctx, CommandNext))
	assert.Equal(t, "https://www.youtube.com/watch?v=b", f.session.Source())
	assert.ErrorIs(t, f.session.Dispatch(ctx, CommandNext), ErrQueueEnd)

	require.NoError(t, f.session.Dispatch(ctx, CommandPrevious))
	assert.Equal(t, "https://www.youtube.com/watch?v=a", f.session.Source())
	assert.ErrorIs(t, f.session.Dispatch(ctx, CommandPrevious), ErrQueueEnd)

	// queue navigation does not touch the recent list
	assert.Equal(t, []string{playlistURL}, f.session.Recent())
}

func TestSession_NextFailureKeepsCursor(t *testing.T) {
	f := newFixture(t)
	f.expander.queue = model.NewPlayQueue("Go", []model.QueueItem{
		{ID: "a", URL: "https://www.youtube.com/watch?v=a"},
		{ID: "b", URL: "https://www.youtube.com/watch?v=b"},
	})
	ctx := context.Background()
	require.NoError(t, f.session.Load(ctx, "https://www.youtube.com/playlist?list=PLgo"))

	f.engine.LoadErr = mocks.ErrEngine
	assert.ErrorIs(t, f.session.Dispatch(ctx, CommandNext), mocks.ErrEngine)
	assert.Equal(t, 0, f.session.Queue().Index())
}

func TestSession_CommandsRequireMedia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, cmd := range []Command{
		CommandPlay, CommandPause, CommandTogglePlay, CommandStop,
		CommandSkipBackLong, CommandSkipBackShort, CommandSkipForwardShort, CommandSkipForwardLong,
	} {
		t.Run(cmd.String(), func(t *testing.T) {
			assert.ErrorIs(t, f.session.Dispatch(ctx, cmd), ErrNoMedia)
		})
	}
	assert.Empty(t, f.engine.SeekCalls())
}

func TestSession_DispatchUnknown(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.session.Dispatch(context.Background(), Command(99)), ErrUnknownCommand)
}

func TestSession_TogglePlayAndStop(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	ctx := context.Background()

	require.NoError(t, f.session.Dispatch(ctx, CommandTogglePlay))
	assert.Equal(t, model.PlayerStatePaused, f.session.State())

	require.NoError(t, f.session.Dispatch(ctx, CommandTogglePlay))
	assert.Equal(t, model.PlayerStatePlaying, f.session.State())

	f.engine.TimeMs = 60000
	f.session.Tick()
	require.NoError(t, f.session.Dispatch(ctx, CommandStop))
	assert.Equal(t, model.PlayerStateStopped, f.session.State())
	assert.Equal(t, 0, f.session.Display().SliderValue)
}

func TestSession_PlayAfterStopReopensSource(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	ctx := context.Background()

	require.NoError(t, f.session.Dispatch(ctx, CommandStop))
	require.Equal(t, model.PlayerStateStopped, f.session.State())

	require.NoError(t, f.session.Dispatch(ctx, CommandPlay))

	assert.Equal(t, model.PlayerStatePlaying, f.session.State())
	assert.Equal(t, []string{f.video, f.video}, f.engine.Sources)

	f.engine.TimeMs = 300000
	display, changed := f.session.Tick()
	assert.True(t, changed)
	assert.Equal(t, 500, display.SliderValue)
}

func TestSession_TogglePlayAfterStop(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	ctx := context.Background()

	require.NoError(t, f.session.Dispatch(ctx, CommandStop))
	require.NoError(t, f.session.Dispatch(ctx, CommandTogglePlay))

	assert.Equal(t, model.PlayerStatePlaying, f.session.State())
	assert.Len(t, f.engine.Sources, 2)
}

func TestSession_Skip(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	ctx := context.Background()

	require.NoError(t, f.session.Dispatch(ctx, CommandSkipBackShort))
	assert.Equal(t, []int64{0}, f.engine.SeekCalls())

	require.NoError(t, f.session.Dispatch(ctx, CommandSkipForwardLong))
	assert.Equal(t, int64(30000), f.engine.TimeMs)
	assert.Equal(t, "00:30.0 / 10:00.0", f.session.Display().Label)
	assert.Equal(t, 50, f.session.Display().SliderValue)

	f.settings.SetSkipShort(10)
	require.NoError(t, f.session.Dispatch(ctx, CommandSkipForwardShort))
	assert.Equal(t, int64(40000), f.engine.TimeMs)

	require.NoError(t, f.session.Dispatch(ctx, CommandSkipBackLong))
	assert.Equal(t, int64(10000), f.engine.TimeMs)
}

func TestSession_Speed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.session.Dispatch(ctx, CommandSpeedUp))
	assert.Equal(t, 1.25, f.engine.Rate)
	assert.Equal(t, "1.25x", SpeedLabel(f.session.SpeedIndex()))

	for i := 0; i < 10; i++ {
		require.NoError(t, f.session.Dispatch(ctx, CommandSpeedDown))
	}
	assert.Equal(t, 0, f.session.SpeedIndex())
	assert.Equal(t, 0.5, f.engine.Rate)

	require.NoError(t, f.session.SetSpeed(100))
	assert.Equal(t, len(Speeds)-1, f.session.SpeedIndex())
	assert.Equal(t, 4.0, f.engine.Rate)
}

func TestSession_SeekToTimestamp(t *testing.T) {
	f := newFixture(t)

	_, err := f.session.SeekToTimestamp("abc")
	assert.ErrorIs(t, err, timecode.ErrParse)

	_, err = f.session.SeekToTimestamp("2:05")
	assert.ErrorIs(t, err, ErrNoMedia)

	f.load(t)

	target, err := f.session.SeekToTimestamp("2:05")
	require.NoError(t, err)
	assert.Equal(t, int64(125000), target)
	assert.Equal(t, "02:05.0 / 10:00.0", f.session.Display().Label)

	target, err = f.session.SeekToTimestamp("20:00")
	require.NoError(t, err)
	assert.Equal(t, int64(600000), target)
	assert.Equal(t, []int64{125000, 600000}, f.engine.SeekCalls())
}

func TestSession_TickAndGesture(t *testing.T) {
	f := newFixture(t)

	_, changed := f.session.Tick()
	assert.False(t, changed, "tick without media must not change the display")

	f.load(t)
	f.engine.TimeMs = 60000

	display, changed := f.session.Tick()
	assert.True(t, changed)
	assert.Equal(t, 100, display.SliderValue)

	f.session.GestureStart()
	f.engine.TimeMs = 120000
	display, changed = f.session.Tick()
	assert.False(t, changed)
	assert.Equal(t, 100, display.SliderValue)

	display = f.session.GestureMove(0.5)
	assert.Equal(t, 500, display.SliderValue)
	assert.Equal(t, "05:00.0 / 10:00.0", display.Label)
	assert.Empty(t, f.engine.SeekCalls())

	commit, err := f.session.GestureEnd()
	require.NoError(t, err)
	assert.True(t, commit.Applied)
	assert.Equal(t, int64(300000), commit.TargetMs)
	assert.Equal(t, []int64{300000}, f.engine.SeekCalls())
}

func TestSession_TickIgnoresPaused(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	f.engine.TimeMs = 60000
	f.session.Tick()

	f.engine.SetState(model.PlayerStatePaused)
	f.engine.TimeMs = 0

	display, changed := f.session.Tick()
	assert.False(t, changed)
	assert.Equal(t, 100, display.SliderValue)
}

func TestSession_TickPollsOnce(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	f.engine.TimeMs = 150000

	display, changed := f.session.Tick()

	assert.True(t, changed)
	assert.Equal(t, 250, display.SliderValue)
	assert.Equal(t, 1, f.engine.Polls)
}

func TestSession_TickWithoutStatusPoller(t *testing.T) {
	f := newFixture(t)
	session := NewSession(Deps{
		Engine:   struct{ playback.Engine }{f.engine},
		Settings: f.settings,
		Recent:   config.NewRecentList(f.settings, nil),
	})
	require.NoError(t, session.Load(context.Background(), f.video))
	f.engine.TimeMs = 150000

	display, changed := session.Tick()

	assert.True(t, changed)
	assert.Equal(t, 250, display.SliderValue)
	assert.Zero(t, f.engine.Polls)

	f.engine.TimeErr = mocks.ErrEngine
	_, changed = session.Tick()
	assert.False(t, changed)
}

func waitCapture(t *testing.T, ch <-chan captureResult) captureResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("capture did not finish")
		return captureResult{}
	}
}

type captureResult struct {
	entry model.TranscriptEntry
	err   error
}

func TestSession_CaptureAsync(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	f.engine.TimeMs = 42000

	results := make(chan captureResult, 1)
	f.session.SetCaptureHandler(func(entry model.TranscriptEntry, err error) {
		results <- captureResult{entry, err}
	})

	require.NoError(t, f.session.Dispatch(context.Background(), CommandCapture))
	r := waitCapture(t, results)

	require.NoError(t, r.err)
	assert.Equal(t, "frame text", r.entry.Text)
	assert.Equal(t, int64(42000), r.entry.PositionMs)
	assert.Equal(t, f.video, r.entry.Source)
	assert.Equal(t, 1, f.session.Transcript().Len())
	assert.Equal(t, model.PlayerStatePaused, f.session.State())
	assert.False(t, f.session.Busy())
}

func TestSession_CaptureBusy(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	f.recognizer.release = make(chan struct{})

	results := make(chan captureResult, 1)
	done := func(entry model.TranscriptEntry, err error) { results <- captureResult{entry, err} }

	require.NoError(t, f.session.CaptureAsync(context.Background(), done))
	assert.True(t, f.session.Busy())
	assert.ErrorIs(t, f.session.CaptureAsync(context.Background(), done), ErrBusy)

	close(f.recognizer.release)
	r := waitCapture(t, results)
	require.NoError(t, r.err)
	assert.False(t, f.session.Busy())
}

func TestSession_CaptureNoMedia(t *testing.T) {
	f := newFixture(t)

	results := make(chan captureResult, 1)
	require.NoError(t, f.session.CaptureAsync(context.Background(), func(entry model.TranscriptEntry, err error) {
		results <- captureResult{entry, err}
	}))

	r := waitCapture(t, results)
	assert.Error(t, r.err)
	assert.Equal(t, 0, f.session.Transcript().Len())
}

func TestSession_UpdateSettings(t *testing.T) {
	f := newFixture(t)

	err := f.session.UpdateSettings(SettingsUpdate{SkipShort: 10, SkipLong: 60, APIURL: "not a url"})
	assert.Error(t, err)
	assert.Equal(t, config.DefaultSkipShort, f.session.SkipConfig().ShortSeconds)
	assert.Equal(t, config.DefaultAPIURL, f.session.APIURL())

	err = f.session.UpdateSettings(SettingsUpdate{SkipShort: 100, SkipLong: 60, APIURL: " https://ocr.example.com/frame/ocr "})
	require.NoError(t, err)
	assert.Equal(t, config.SkipConfig{ShortSeconds: config.MaxSkipShort, LongSeconds: 60}, f.session.SkipConfig())
	assert.Equal(t, "https://ocr.example.com/frame/ocr", f.session.APIURL())
	assert.Equal(t, "https://ocr.example.com/frame/ocr", f.recognizer.url)
}

func TestSession_VolumeAndRecent(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.session.SetVolume(150))
	assert.Equal(t, 100, f.engine.Vol)
	assert.Equal(t, 100, f.session.Volume())

	require.NoError(t, f.session.SetVolume(35))
	assert.Equal(t, 35, f.session.Volume())

	f.load(t)
	require.Len(t, f.session.Recent(), 1)
	f.session.ClearRecent()
	assert.Empty(t, f.session.Recent())
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "toggle_play", CommandTogglePlay.String())
	assert.Equal(t, "command(99)", Command(99).String())
}
