package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/cyclops/internal/config"
	"github.com/ytget/cyclops/internal/logger"
	"github.com/ytget/cyclops/internal/mpv"
	"github.com/ytget/cyclops/internal/ocr"
	"github.com/ytget/cyclops/internal/platform"
	"github.com/ytget/cyclops/internal/player"
	"github.com/ytget/cyclops/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID = "com.ytget.cyclops"

	// EnvLogLevel selects the log level (debug, info, warn, error)
	EnvLogLevel = "CYCLOPS_LOG_LEVEL"
	// EnvMPV overrides the mpv binary
	EnvMPV = "CYCLOPS_MPV"

	engineStartTimeout = 10 * time.Second
)

func main() {
	log := logger.New(os.Getenv(EnvLogLevel), os.Stderr)
	slog.SetDefault(log)
	log.Info("Cyclops player starting", "version", version)

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewPlayerTheme())

	myWindow := myApp.NewWindow(fmt.Sprintf("Cyclops v%s", version))
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	settings := config.NewSettings(myApp)
	recent := config.NewRecentList(settings, log)
	if err := recent.Load(); err != nil {
		log.Warn("Starting with an empty recent list", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), engineStartTimeout)
	engine, err := mpv.Start(ctx, mpv.Options{
		Binary: os.Getenv(EnvMPV),
		Logger: log,
	})
	cancel()
	if err != nil {
		log.Error("Failed to start media engine", "error", err)
		myWindow.SetContent(widget.NewLabel(fmt.Sprintf("Failed to start mpv: %v", err)))
		myWindow.ShowAndRun()
		os.Exit(1)
	}

	session := player.NewSession(player.Deps{
		Engine:     engine,
		Settings:   settings,
		Recent:     recent,
		Recognizer: ocr.New(settings.GetAPIURL(), log),
		Expander:   platform.NewPlaylistExpander(),
		Logger:     log,
	})

	playerUI := ui.NewPlayerUI(myWindow, session, settings, log)
	myWindow.SetOnClosed(func() {
		playerUI.Stop()
		if err := session.Close(); err != nil {
			log.Warn("Failed to stop media engine", "error", err)
		}
	})

	playerUI.Start()
	myWindow.ShowAndRun()
}
