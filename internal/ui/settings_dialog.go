package ui

import (
	"errors"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/cyclops/internal/config"
	"github.com/ytget/cyclops/internal/player"
)

// ErrInvalidSkipSeconds is returned when a skip field is not a whole number
var ErrInvalidSkipSeconds = errors.New("skip offsets must be whole seconds")

// SettingsStore is what the dialog edits
type SettingsStore interface {
	SkipConfig() config.SkipConfig
	APIURL() string
	UpdateSettings(update player.SettingsUpdate) error
	ClearRecent()
}

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	store        SettingsStore
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog

	// UI components
	apiURLEntry    *widget.Entry
	skipShortEntry *widget.Entry
	skipLongEntry  *widget.Entry
	clearBtn       *widget.Button

	// OnSaved runs after the settings were stored
	OnSaved func()
	// OnHistoryCleared runs after the recent list was emptied
	OnHistoryCleared func()
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(store SettingsStore, localization *Localization, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		store:        store,
		localization: localization,
		window:       window,
	}

	sd.createUI()
	sd.loadCurrentSettings()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	l := sd.localization

	sd.apiURLEntry = widget.NewEntry()
	sd.apiURLEntry.SetPlaceHolder(config.DefaultAPIURL)
	sd.apiURLEntry.Validator = func(s string) error {
		return config.ValidateAPIURL(strings.TrimSpace(s))
	}

	sd.skipShortEntry = widget.NewEntry()
	sd.skipShortEntry.SetPlaceHolder(strconv.Itoa(config.MinSkipShort) + "-" + strconv.Itoa(config.MaxSkipShort))
	sd.skipShortEntry.Validator = validateSeconds

	sd.skipLongEntry = widget.NewEntry()
	sd.skipLongEntry.SetPlaceHolder(strconv.Itoa(config.MinSkipLong) + "-" + strconv.Itoa(config.MaxSkipLong))
	sd.skipLongEntry.Validator = validateSeconds

	sd.clearBtn = widget.NewButton(l.GetText(KeyClearHistory), sd.onClearHistory)
	sd.clearBtn.Importance = widget.DangerImportance

	form := widget.NewForm(
		widget.NewFormItem(l.GetText(KeyAPIURL), sd.apiURLEntry),
		widget.NewFormItem(l.GetText(KeySkipShort), container.NewBorder(nil, nil, nil, widget.NewLabel(l.GetText(KeySeconds)), sd.skipShortEntry)),
		widget.NewFormItem(l.GetText(KeySkipLong), container.NewBorder(nil, nil, nil, widget.NewLabel(l.GetText(KeySeconds)), sd.skipLongEntry)),
	)

	content := container.NewVBox(
		form,
		widget.NewSeparator(),
		sd.clearBtn,
	)

	sd.dialog = dialog.NewCustomConfirm(
		l.GetText(KeySettings),
		l.GetText(KeySave),
		l.GetText(KeyCancel),
		content,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogW, SettingsDialogH))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	skip := sd.store.SkipConfig()
	sd.apiURLEntry.SetText(sd.store.APIURL())
	sd.skipShortEntry.SetText(strconv.Itoa(skip.ShortSeconds))
	sd.skipLongEntry.SetText(strconv.Itoa(skip.LongSeconds))
}

// Apply stores the entered values. Out-of-range skip offsets are clamped by
// the store; an invalid URL or a non-numeric offset rejects everything.
func (sd *SettingsDialog) Apply() error {
	short, err := strconv.Atoi(strings.TrimSpace(sd.skipShortEntry.Text))
	if err != nil {
		return ErrInvalidSkipSeconds
	}
	long, err := strconv.Atoi(strings.TrimSpace(sd.skipLongEntry.Text))
	if err != nil {
		return ErrInvalidSkipSeconds
	}

	return sd.store.UpdateSettings(player.SettingsUpdate{
		SkipShort: short,
		SkipLong:  long,
		APIURL:    sd.apiURLEntry.Text,
	})
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if err := sd.Apply(); err != nil {
		if errors.Is(err, ErrInvalidSkipSeconds) {
			err = errors.New(sd.localization.GetText(KeyInvalidSkipSeconds))
		}
		dialog.ShowError(err, sd.window)
		return
	}

	if sd.OnSaved != nil {
		sd.OnSaved()
	}
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}

// onClearHistory asks before emptying the recent list
func (sd *SettingsDialog) onClearHistory() {
	l := sd.localization
	dialog.ShowConfirm(l.GetText(KeyClearHistory), l.GetText(KeyClearHistoryAsk), func(confirmed bool) {
		if !confirmed {
			return
		}
		sd.ClearHistory()
		dialog.ShowInformation(l.GetText(KeySettings), l.GetText(KeyHistoryCleared), sd.window)
	}, sd.window)
}

// ClearHistory empties the recent list without asking
func (sd *SettingsDialog) ClearHistory() {
	sd.store.ClearRecent()
	if sd.OnHistoryCleared != nil {
		sd.OnHistoryCleared()
	}
}

func validateSeconds(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return ErrInvalidSkipSeconds
	}
	return nil
}
