package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/cyclops/internal/capture"
	"github.com/ytget/cyclops/internal/config"
	"github.com/ytget/cyclops/internal/model"
	"github.com/ytget/cyclops/internal/platform"
	"github.com/ytget/cyclops/internal/playback"
	"github.com/ytget/cyclops/internal/player"
	"github.com/ytget/cyclops/internal/timecode"
)

// PlayerUI is the main player window. Every method runs on the Fyne UI
// goroutine; background work reports back through fyne.Do.
type PlayerUI struct {
	window       fyne.Window
	session      *player.Session
	settings     *config.Settings
	localization *Localization
	logger       *slog.Logger

	// Source row
	recentSelect *widget.Select
	sourceEntry  *widget.Entry
	openBtn      *widget.Button
	loadBtn      *widget.Button
	settingsBtn  *widget.Button

	// Position
	seek      *SeekSlider
	timeLabel *widget.Label

	// Transport
	skipBackLongBtn     *widget.Button
	skipBackShortBtn    *widget.Button
	skipForwardShortBtn *widget.Button
	skipForwardLongBtn  *widget.Button
	playBtn             *widget.Button
	pauseBtn            *widget.Button
	stopBtn             *widget.Button
	speedSelect         *widget.Select
	volumeLabel         *widget.Label
	volumeSlider        *widget.Slider
	timestampEntry      *widget.Entry
	gotoBtn             *widget.Button

	// OCR
	ocrBtn          *widget.Button
	copyBtn         *widget.Button
	transcriptTitle *widget.Label
	transcriptLabel *widget.Label
	transcriptView  *container.Scroll

	queue *QueueView

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite
	notificationSeq       int

	// loading is set while Session.Load runs off the UI goroutine; the
	// session is not touched from here until it clears
	loading bool

	tickDone chan struct{}
	stopOnce sync.Once
}

// NewPlayerUI builds the window content around session
func NewPlayerUI(window fyne.Window, session *player.Session, settings *config.Settings, logger *slog.Logger) *PlayerUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &PlayerUI{
		window:       window,
		session:      session,
		settings:     settings,
		localization: localization,
		logger:       logger,
		tickDone:     make(chan struct{}),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	session.SetCaptureHandler(ui.onCaptureDone)

	ui.setupUI()
	ui.setupShortcuts()

	if err := session.SetVolume(session.Volume()); err != nil {
		logger.Warn("Failed to apply saved volume", "error", err)
	}
	return ui
}

// Start begins polling the engine for the position display
func (ui *PlayerUI) Start() {
	ticker := time.NewTicker(TickInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ui.tickDone:
				return
			case <-ticker.C:
				fyne.Do(ui.tick)
			}
		}
	}()
}

// Stop ends polling. It is safe to call more than once.
func (ui *PlayerUI) Stop() {
	ui.stopOnce.Do(func() { close(ui.tickDone) })
}

// setupUI creates and arranges all UI components
func (ui *PlayerUI) setupUI() {
	l := ui.localization
	ui.createMenu()

	ui.recentSelect = widget.NewSelect(ui.session.Recent(), ui.onRecentSelected)
	ui.recentSelect.PlaceHolder = l.GetText(KeyRecent)
	ui.settingsBtn = widget.NewButton(IconSettings+" "+l.GetText(KeySettings), ui.onShowSettings)
	recentRow := container.NewBorder(nil, nil, nil, ui.settingsBtn, ui.recentSelect)

	ui.sourceEntry = widget.NewEntry()
	ui.sourceEntry.SetPlaceHolder(l.GetText(KeyEnterSource))
	ui.sourceEntry.OnSubmitted = func(string) { ui.onLoadClick() }
	ui.openBtn = widget.NewButton(IconFolder+" "+l.GetText(KeyOpenFile), ui.onOpenFile)
	ui.loadBtn = widget.NewButton(l.GetText(KeyLoad), ui.onLoadClick)
	ui.loadBtn.Importance = widget.HighImportance
	sourceRow := container.NewBorder(nil, nil, ui.openBtn, ui.loadBtn, ui.sourceEntry)

	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Wrapping = fyne.TextWrapWord
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewBorder(nil, nil, ui.notificationSpinner, nil, ui.notificationLabel)
	ui.notificationContainer.Hide()

	ui.queue = NewQueueView(l)
	ui.queue.OnPrevious = ui.command(player.CommandPrevious)
	ui.queue.OnNext = ui.command(player.CommandNext)

	ui.seek = NewSeekSlider()
	ui.seek.OnGestureStart = ui.onGestureStart
	ui.seek.OnGestureMove = ui.onGestureMove
	ui.seek.OnGestureEnd = ui.onGestureEnd
	ui.timeLabel = widget.NewLabel(timecode.Label(0, 0))
	seekRow := container.NewBorder(nil, nil, nil, ui.timeLabel, ui.seek)

	ui.skipBackLongBtn = widget.NewButton("", ui.command(player.CommandSkipBackLong))
	ui.skipBackShortBtn = widget.NewButton("", ui.command(player.CommandSkipBackShort))
	ui.skipForwardShortBtn = widget.NewButton("", ui.command(player.CommandSkipForwardShort))
	ui.skipForwardLongBtn = widget.NewButton("", ui.command(player.CommandSkipForwardLong))
	ui.refreshSkipLabels()
	skipRow := container.NewGridWithColumns(4,
		ui.skipBackLongBtn, ui.skipBackShortBtn, ui.skipForwardShortBtn, ui.skipForwardLongBtn)

	ui.timestampEntry = widget.NewEntry()
	ui.timestampEntry.SetPlaceHolder(l.GetText(KeyTimestampHint))
	ui.timestampEntry.OnSubmitted = func(string) { ui.onGoToTimestamp() }
	ui.gotoBtn = widget.NewButton(l.GetText(KeyGoToTimestamp), ui.onGoToTimestamp)
	timestampRow := container.NewBorder(nil, nil, nil, ui.gotoBtn, ui.timestampEntry)

	ui.playBtn = widget.NewButton(IconPlay+" "+l.GetText(KeyPlay), ui.command(player.CommandPlay))
	ui.pauseBtn = widget.NewButton(IconPause+" "+l.GetText(KeyPause), ui.command(player.CommandPause))
	ui.stopBtn = widget.NewButton(IconStop+" "+l.GetText(KeyStop), ui.command(player.CommandStop))

	speedOptions := make([]string, len(player.Speeds))
	for i := range player.Speeds {
		speedOptions[i] = player.SpeedLabel(i)
	}
	ui.speedSelect = widget.NewSelect(speedOptions, ui.onSpeedSelected)
	ui.speedSelect.SetSelected(player.SpeedLabel(ui.session.SpeedIndex()))

	ui.volumeLabel = widget.NewLabel(l.GetText(KeyVolume))
	ui.volumeSlider = widget.NewSlider(0, 100)
	ui.volumeSlider.Step = 1
	ui.volumeSlider.SetValue(float64(ui.session.Volume()))
	ui.volumeSlider.OnChangeEnded = ui.onVolumeChanged

	transport := container.NewHBox(ui.playBtn, ui.pauseBtn, ui.stopBtn,
		widget.NewLabel(l.GetText(KeySpeed)), ui.speedSelect)
	volumeRow := container.NewBorder(nil, nil, ui.volumeLabel, nil, ui.volumeSlider)

	ui.ocrBtn = widget.NewButton(IconCamera+" "+l.GetText(KeyOCRFrame), ui.command(player.CommandCapture))
	ui.ocrBtn.Importance = widget.HighImportance
	ui.copyBtn = widget.NewButton(IconCopy+" "+l.GetText(KeyCopyTranscript), ui.onCopyTranscript)
	ui.transcriptTitle = widget.NewLabelWithStyle(l.GetText(KeyTranscript), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	ui.transcriptLabel = widget.NewLabel("")
	ui.transcriptLabel.Wrapping = fyne.TextWrapWord
	ui.transcriptView = container.NewVScroll(ui.transcriptLabel)
	ui.transcriptView.SetMinSize(fyne.NewSize(0, TranscriptMinHeight))

	top := container.NewVBox(
		recentRow,
		sourceRow,
		ui.notificationContainer,
		ui.queue.Container(),
		seekRow,
		skipRow,
		timestampRow,
		transport,
		volumeRow,
		container.NewBorder(nil, nil, ui.transcriptTitle, container.NewHBox(ui.copyBtn, ui.ocrBtn)),
	)

	ui.window.SetContent(container.NewBorder(top, nil, nil, nil, ui.transcriptView))
}

// setupShortcuts registers the player keys. Plain keys reach the canvas
// only when no entry has focus, so typing in a field is never hijacked.
func (ui *PlayerUI) setupShortcuts() {
	canvas := ui.window.Canvas()
	canvas.SetOnTypedKey(ui.onTypedKey)
	canvas.SetOnTypedRune(ui.onTypedRune)

	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { ui.onOpenFile() })
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyComma, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { ui.onShowSettings() })
}

func (ui *PlayerUI) onTypedKey(ev *fyne.KeyEvent) {
	if cmd, ok := CommandForKey(ev.Name); ok {
		ui.dispatch(cmd)
	}
}

func (ui *PlayerUI) onTypedRune(r rune) {
	if cmd, ok := CommandForRune(r); ok {
		ui.dispatch(cmd)
	}
}

// createMenu creates the application menu
func (ui *PlayerUI) createMenu() {
	l := ui.localization
	openItem := fyne.NewMenuItem(l.GetText(KeyOpenFile), ui.onOpenFile)
	settingsItem := fyne.NewMenuItem(l.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(l.GetText(KeyLanguage))
	for code, name := range l.GetAvailableLanguages() {
		langCode := code
		item := fyne.NewMenuItem(name, func() { ui.onLanguageChange(langCode) })
		item.Checked = l.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, item)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(l.GetText(KeyFile), openItem, settingsItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *PlayerUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *PlayerUI) refreshUITexts() {
	l := ui.localization
	ui.window.SetTitle(ui.windowTitle())
	ui.recentSelect.PlaceHolder = l.GetText(KeyRecent)
	ui.recentSelect.Refresh()
	ui.settingsBtn.SetText(IconSettings + " " + l.GetText(KeySettings))
	ui.sourceEntry.SetPlaceHolder(l.GetText(KeyEnterSource))
	ui.openBtn.SetText(IconFolder + " " + l.GetText(KeyOpenFile))
	ui.loadBtn.SetText(l.GetText(KeyLoad))
	ui.timestampEntry.SetPlaceHolder(l.GetText(KeyTimestampHint))
	ui.gotoBtn.SetText(l.GetText(KeyGoToTimestamp))
	ui.playBtn.SetText(IconPlay + " " + l.GetText(KeyPlay))
	ui.pauseBtn.SetText(IconPause + " " + l.GetText(KeyPause))
	ui.stopBtn.SetText(IconStop + " " + l.GetText(KeyStop))
	ui.volumeLabel.SetText(l.GetText(KeyVolume))
	ui.ocrBtn.SetText(IconCamera + " " + l.GetText(KeyOCRFrame))
	ui.copyBtn.SetText(IconCopy + " " + l.GetText(KeyCopyTranscript))
	ui.transcriptTitle.SetText(l.GetText(KeyTranscript))
	ui.queue.Update(ui.session.Queue())
}

func (ui *PlayerUI) windowTitle() string {
	title := ui.localization.GetText(KeyAppTitle)
	if source := ui.session.Source(); source != "" {
		return platform.DisplayName(source) + " - " + title
	}
	return title
}

// refreshSkipLabels relabels the skip buttons from the current settings
func (ui *PlayerUI) refreshSkipLabels() {
	cfg := ui.session.SkipConfig()
	ui.skipBackLongBtn.SetText(fmt.Sprintf(SkipBackFormat, IconBack+IconBack, cfg.LongSeconds))
	ui.skipBackShortBtn.SetText(fmt.Sprintf(SkipBackFormat, IconBack, cfg.ShortSeconds))
	ui.skipForwardShortBtn.SetText(fmt.Sprintf(SkipForwardFormat, cfg.ShortSeconds, IconForward))
	ui.skipForwardLongBtn.SetText(fmt.Sprintf(SkipForwardFormat, cfg.LongSeconds, IconForward+IconForward))
}

func (ui *PlayerUI) refreshRecent() {
	ui.recentSelect.Options = ui.session.Recent()
	ui.recentSelect.Refresh()
}

func (ui *PlayerUI) refreshTranscript() {
	ui.transcriptLabel.SetText(ui.session.Transcript().Text())
	ui.transcriptView.ScrollToBottom()
}

func (ui *PlayerUI) applyDisplay(d playback.Display) {
	ui.seek.SetPosition(d.SliderValue)
	ui.timeLabel.SetText(d.Label)
}

// tick runs every TickInterval on the UI goroutine
func (ui *PlayerUI) tick() {
	if ui.loading {
		return
	}
	if display, changed := ui.session.Tick(); changed {
		ui.applyDisplay(display)
	}
}

func (ui *PlayerUI) onGestureStart() {
	if ui.loading {
		return
	}
	ui.session.GestureStart()
}

func (ui *PlayerUI) onGestureMove(normalized float64) {
	if ui.loading {
		return
	}
	ui.timeLabel.SetText(ui.session.GestureMove(normalized).Label)
}

func (ui *PlayerUI) onGestureEnd() {
	if ui.loading {
		return
	}
	if _, err := ui.session.GestureEnd(); err != nil {
		ui.logger.Warn("Seek failed", "error", err)
		ui.showNotification(err.Error(), false)
	}
	ui.applyDisplay(ui.session.Display())
}

// command returns a button handler dispatching cmd
func (ui *PlayerUI) command(cmd player.Command) func() {
	return func() { ui.dispatch(cmd) }
}

// dispatch runs cmd through the session and refreshes what it affects
func (ui *PlayerUI) dispatch(cmd player.Command) {
	if ui.loading {
		return
	}

	if err := ui.session.Dispatch(context.Background(), cmd); err != nil {
		ui.handleCommandError(cmd, err)
		return
	}

	switch cmd {
	case player.CommandSpeedUp, player.CommandSpeedDown:
		ui.speedSelect.SetSelected(player.SpeedLabel(ui.session.SpeedIndex()))
	case player.CommandCapture:
		ui.ocrBtn.Disable()
		ui.showNotification(ui.localization.GetText(KeyCapturing), true)
	case player.CommandNext, player.CommandPrevious:
		ui.afterLoad()
	default:
		ui.applyDisplay(ui.session.Display())
	}
}

func (ui *PlayerUI) handleCommandError(cmd player.Command, err error) {
	l := ui.localization
	switch {
	case errors.Is(err, player.ErrNoMedia):
		ui.showNotification(l.GetText(KeyNoMedia), false)
	case errors.Is(err, player.ErrBusy):
		ui.showNotification(l.GetText(KeyCaptureBusy), false)
	case errors.Is(err, player.ErrQueueEnd):
		ui.showNotification(l.GetText(KeyQueueEnd), false)
	default:
		ui.logger.Error("Command failed", "command", cmd, "error", err)
		dialog.ShowError(err, ui.window)
	}
}

// onCaptureDone runs on the capture goroutine
func (ui *PlayerUI) onCaptureDone(entry model.TranscriptEntry, err error) {
	fyne.Do(func() {
		ui.ocrBtn.Enable()
		if err == nil {
			ui.hideNotification()
			ui.refreshTranscript()
			return
		}
		ui.showCaptureError(err)
	})
}

func (ui *PlayerUI) showCaptureError(err error) {
	l := ui.localization
	var rejected *capture.OcrRejectedError

	switch {
	case errors.Is(err, capture.ErrNoMedia):
		ui.showNotification(l.GetText(KeyNoMedia), false)
	case errors.Is(err, capture.ErrOcrUnavailable):
		ui.hideNotification()
		dialog.ShowError(errors.New(l.GetText(KeyOCRUnavailable)), ui.window)
	case errors.As(err, &rejected) && rejected.Status != 0:
		ui.hideNotification()
		dialog.ShowError(errors.New(l.Textf(KeyOCRRejected, rejected.Body)), ui.window)
	default:
		ui.hideNotification()
		dialog.ShowError(errors.New(l.Textf(KeyCaptureFailed, err)), ui.window)
	}
}

func (ui *PlayerUI) onLoadClick() {
	ui.load(ui.sourceEntry.Text)
}

func (ui *PlayerUI) onRecentSelected(source string) {
	if source == "" || ui.loading {
		return
	}
	ui.sourceEntry.SetText(source)
	ui.load(source)
}

// onOpenFile shows the file picker for local videos
func (ui *PlayerUI) onOpenFile() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, ui.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		ui.sourceEntry.SetText(path)
		ui.load(path)
	}, ui.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter(platform.VideoExtensions))
	if dir, err := platform.GetHomeVideosDir(); err == nil {
		if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			fileDialog.SetLocation(lister)
		}
	}
	fileDialog.Show()
}

// load opens source off the UI goroutine. Playlist expansion and remote
// sources may take seconds.
func (ui *PlayerUI) load(source string) {
	source = strings.TrimSpace(source)
	if source == "" {
		ui.showNotification(ui.localization.GetText(KeyPleaseEnterSource), false)
		return
	}
	if ui.loading {
		return
	}

	ui.loading = true
	ui.loadBtn.Disable()
	ui.showNotification(ui.localization.Textf(KeyLoading, platform.DisplayName(source)), true)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), LoadTimeout)
		defer cancel()

		err := ui.session.Load(ctx, source)
		fyne.Do(func() {
			ui.loading = false
			ui.loadBtn.Enable()
			if err != nil {
				ui.logger.Error("Load failed", "source", source, "error", err)
				ui.hideNotification()
				dialog.ShowError(errors.New(ui.localization.Textf(KeyLoadFailed, err)), ui.window)
				return
			}
			ui.hideNotification()
			ui.afterLoad()
		})
	}()
}

// afterLoad refreshes everything a newly opened source affects
func (ui *PlayerUI) afterLoad() {
	ui.window.SetTitle(ui.windowTitle())
	ui.refreshRecent()
	ui.queue.Update(ui.session.Queue())
	ui.applyDisplay(ui.session.Display())
	ui.speedSelect.SetSelected(player.SpeedLabel(ui.session.SpeedIndex()))
}

func (ui *PlayerUI) onGoToTimestamp() {
	if ui.loading {
		return
	}

	_, err := ui.session.SeekToTimestamp(ui.timestampEntry.Text)
	switch {
	case err == nil:
		ui.timestampEntry.SetText("")
		ui.applyDisplay(ui.session.Display())
	case errors.Is(err, timecode.ErrParse):
		ui.showNotification(ui.localization.GetText(KeyInvalidTimestamp), false)
	case errors.Is(err, player.ErrNoMedia):
		ui.showNotification(ui.localization.GetText(KeyNoMedia), false)
	default:
		ui.logger.Error("Timestamp seek failed", "error", err)
		dialog.ShowError(err, ui.window)
	}
}

func (ui *PlayerUI) onSpeedSelected(label string) {
	if ui.loading {
		return
	}
	for i := range player.Speeds {
		if player.SpeedLabel(i) != label || i == ui.session.SpeedIndex() {
			continue
		}
		if err := ui.session.SetSpeed(i); err != nil {
			ui.logger.Warn("Failed to set speed", "error", err)
		}
		return
	}
}

func (ui *PlayerUI) onVolumeChanged(value float64) {
	if ui.loading {
		return
	}
	if err := ui.session.SetVolume(int(value)); err != nil {
		ui.logger.Warn("Failed to set volume", "error", err)
	}
}

func (ui *PlayerUI) onCopyTranscript() {
	fyne.CurrentApp().Clipboard().SetContent(ui.session.Transcript().Text())
	ui.showNotification(ui.localization.GetText(KeyTranscriptCopied), false)
}

// onShowSettings shows the settings dialog
func (ui *PlayerUI) onShowSettings() {
	if ui.loading {
		return
	}
	sd := NewSettingsDialog(ui.session, ui.localization, ui.window)
	sd.OnSaved = ui.refreshSkipLabels
	sd.OnHistoryCleared = ui.refreshRecent
	sd.Show()
}

// showNotification displays a message under the source row. Messages
// without a spinner hide themselves after NotificationAutoHide.
func (ui *PlayerUI) showNotification(message string, spinning bool) {
	ui.notificationSeq++
	seq := ui.notificationSeq

	ui.notificationLabel.SetText(message)
	if spinning {
		ui.notificationSpinner.Show()
	} else {
		ui.notificationSpinner.Hide()
		time.AfterFunc(NotificationAutoHide, func() {
			fyne.Do(func() {
				if ui.notificationSeq == seq {
					ui.hideNotification()
				}
			})
		})
	}
	ui.notificationContainer.Show()
}

// hideNotification hides the notification panel
func (ui *PlayerUI) hideNotification() {
	ui.notificationSpinner.Hide()
	ui.notificationContainer.Hide()
}
