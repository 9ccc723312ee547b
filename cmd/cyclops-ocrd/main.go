// Command cyclops-ocrd serves video frames and OCR text over HTTP for the
// Cyclops player's capture button.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ytget/cyclops/internal/frames"
	"github.com/ytget/cyclops/internal/logger"
	"github.com/ytget/cyclops/internal/server"
	"github.com/ytget/cyclops/internal/tesseract"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:    "cyclops-ocrd",
		Usage:   "serve video frames and OCR text",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to YAML config",
				EnvVars: []string{"CYCLOPS_OCRD_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address, overrides config",
			},
			&cli.StringFlag{
				Name:  "video-dir",
				Usage: "directory of videos to serve and watch, overrides config",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := server.LoadFromFile(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
	}
	if c.IsSet("video-dir") {
		cfg.VideoDir = c.String("video-dir")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel, os.Stderr)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := server.NewRegistry(cfg.Videos)
	if cfg.VideoDir != "" {
		watcher, err := server.NewDirWatcher(cfg.VideoDir, registry, log)
		if err != nil {
			return err
		}
		go watcher.Run(ctx)
	}

	srv := server.New(server.Options{
		Registry:       registry,
		Frames:         frames.NewExtractor(cfg.FFmpeg, cfg.FFprobe),
		Recognizer:     tesseract.New(cfg.Tesseract.Binary, cfg.Tesseract.Lang),
		Limiter:        server.NewKeyedRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		TrustProxy:     cfg.TrustProxy,
		Logger:         log,
	})

	return serve(ctx, cfg.Addr, srv, log, registry.Len())
}

func serve(ctx context.Context, addr string, handler http.Handler, log *slog.Logger, videos int) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", "addr", addr, "version", version, "videos", videos)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
