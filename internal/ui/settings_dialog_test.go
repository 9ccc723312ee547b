package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/cyclops/internal/config"
	"github.com/ytget/cyclops/internal/player"
)

type fakeSettingsStore struct {
	skip    config.SkipConfig
	apiURL  string
	cleared bool
	updates []player.SettingsUpdate
	err     error
}

func (f *fakeSettingsStore) SkipConfig() config.SkipConfig { return f.skip }
func (f *fakeSettingsStore) APIURL() string                { return f.apiURL }
func (f *fakeSettingsStore) ClearRecent()                  { f.cleared = true }

func (f *fakeSettingsStore) UpdateSettings(update player.SettingsUpdate) error {
	if f.err != nil {
		return f.err
	}
	f.updates = append(f.updates, update)
	return nil
}

func newTestDialog(t *testing.T) (*SettingsDialog, *fakeSettingsStore) {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)
	window := test.NewWindow(nil)
	t.Cleanup(window.Close)

	store := &fakeSettingsStore{
		skip:   config.SkipConfig{ShortSeconds: 5, LongSeconds: 30},
		apiURL: config.DefaultAPIURL,
	}
	return NewSettingsDialog(store, NewLocalization(), window), store
}

func TestSettingsDialog_LoadsCurrentValues(t *testing.T) {
	sd, _ := newTestDialog(t)

	assert.Equal(t, config.DefaultAPIURL, sd.apiURLEntry.Text)
	assert.Equal(t, "5", sd.skipShortEntry.Text)
	assert.Equal(t, "30", sd.skipLongEntry.Text)
}

func TestSettingsDialog_Apply(t *testing.T) {
	sd, store := newTestDialog(t)

	sd.apiURLEntry.SetText("http://ocr.local:9000/frame/ocr")
	sd.skipShortEntry.SetText(" 10 ")
	sd.skipLongEntry.SetText("90")

	require.NoError(t, sd.Apply())
	require.Len(t, store.updates, 1)
	assert.Equal(t, player.SettingsUpdate{
		SkipShort: 10,
		SkipLong:  90,
		APIURL:    "http://ocr.local:9000/frame/ocr",
	}, store.updates[0])
}

func TestSettingsDialog_ApplyRejectsNonNumericSkip(t *testing.T) {
	sd, store := newTestDialog(t)

	sd.skipLongEntry.SetText("half a minute")

	assert.ErrorIs(t, sd.Apply(), ErrInvalidSkipSeconds)
	assert.Empty(t, store.updates)
}

func TestSettingsDialog_URLValidator(t *testing.T) {
	sd, _ := newTestDialog(t)

	assert.NoError(t, sd.apiURLEntry.Validator("https://example.com/ocr"))
	assert.Error(t, sd.apiURLEntry.Validator("ftp://example.com"))
	assert.Error(t, sd.apiURLEntry.Validator(""))
}

func TestSettingsDialog_ClearHistory(t *testing.T) {
	sd, store := newTestDialog(t)
	called := false
	sd.OnHistoryCleared = func() { called = true }

	sd.ClearHistory()

	assert.True(t, store.cleared)
	assert.True(t, called)
}
