package server

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ytget/cyclops/internal/platform"
)

// Video is a registered video
type Video struct {
	ID   string
	Path string
}

// Registry maps video IDs to files. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	videos map[string]string
}

// NewRegistry creates a registry seeded with videos
func NewRegistry(videos map[string]string) *Registry {
	r := &Registry{videos: make(map[string]string, len(videos))}
	for id, path := range videos {
		r.videos[id] = path
	}
	return r
}

// IDFromPath derives a video ID from a file name without extension
func IDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Register adds or replaces id
func (r *Registry) Register(id, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.videos[id] = path
}

// Unregister removes id
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.videos, id)
}

// UnregisterPath removes every ID pointing at path
func (r *Registry) UnregisterPath(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.videos {
		if p == path {
			delete(r.videos, id)
		}
	}
}

// Lookup returns the path registered for id
func (r *Registry) Lookup(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	path, ok := r.videos[id]
	return path, ok
}

// Len returns the number of videos
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.videos)
}

// List returns all videos sorted by ID
func (r *Registry) List() []Video {
	r.mu.RLock()
	videos := make([]Video, 0, len(r.videos))
	for id, path := range r.videos {
		videos = append(videos, Video{ID: id, Path: path})
	}
	r.mu.RUnlock()

	slices.SortFunc(videos, func(a, b Video) int { return strings.Compare(a.ID, b.ID) })
	return videos
}

// ScanDir registers every video file directly inside dir
func (r *Registry) ScanDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", dir, err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !platform.IsVideoFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		r.Register(IDFromPath(path), path)
		count++
	}
	return count, nil
}
