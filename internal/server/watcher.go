package server

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ytget/cyclops/internal/platform"
)

// DirWatcher keeps a Registry in step with a video directory
type DirWatcher struct {
	dir      string
	registry *Registry
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
}

// NewDirWatcher scans dir into registry and starts watching it
func NewDirWatcher(dir string, registry *Registry, logger *slog.Logger) (*DirWatcher, error) {
	dir = filepath.Clean(dir)
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return nil, fmt.Errorf("create video dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	count, err := registry.ScanDir(dir)
	if err != nil {
		watcher.Close()
		return nil, err
	}
	logger.Info("Watching video directory", "dir", dir, "videos", count)

	return &DirWatcher{
		dir:      dir,
		registry: registry,
		logger:   logger,
		watcher:  watcher,
	}, nil
}

// Run processes events until ctx is done, then closes the watcher
func (w *DirWatcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Video directory watch error", "error", err)
		}
	}
}

// Close stops watching
func (w *DirWatcher) Close() error {
	return w.watcher.Close()
}

func (w *DirWatcher) handleEvent(event fsnotify.Event) {
	if !platform.IsVideoFile(event.Name) {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		id := IDFromPath(event.Name)
		w.registry.Register(id, event.Name)
		w.logger.Info("Video registered", "id", id, "path", event.Name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.registry.UnregisterPath(event.Name)
		w.logger.Info("Video unregistered", "path", event.Name)
	}
}
