package config

import (
	"log/slog"
	"slices"
	"strings"
)

// MaxRecentItems caps the recent list
const MaxRecentItems = 10

// Backend persists the recent list
type Backend interface {
	ReadRecent() ([]string, error)
	WriteRecent(items []string) error
}

// RecentList is the most-recent-first list of opened files and URLs.
// Persistence failures never propagate as state: the list keeps working in
// memory and a warning is logged.
type RecentList struct {
	backend Backend
	items   []string
	logger  *slog.Logger
}

// NewRecentList creates an empty list over backend. Call Load to read it.
func NewRecentList(backend Backend, logger *slog.Logger) *RecentList {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecentList{
		backend: backend,
		items:   make([]string, 0, MaxRecentItems),
		logger:  logger,
	}
}

// Load replaces the in-memory list with the persisted one. On failure the
// list is empty and the error is returned for information only.
func (r *RecentList) Load() error {
	items, err := r.backend.ReadRecent()
	if err != nil {
		r.logger.Warn("Failed to load recent items, starting empty", "error", err)
		r.items = r.items[:0]
		return err
	}

	r.items = r.items[:0]
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || slices.Contains(r.items, item) {
			continue
		}
		r.items = append(r.items, item)
		if len(r.items) == MaxRecentItems {
			break
		}
	}
	return nil
}

// Save writes the list to the backend
func (r *RecentList) Save() error {
	if err := r.backend.WriteRecent(r.List()); err != nil {
		r.logger.Warn("Failed to save recent items", "error", err)
		return err
	}
	return nil
}

// Add moves path to the front, removing any earlier occurrence, truncates to
// MaxRecentItems and persists.
func (r *RecentList) Add(path string) {
	if path == "" {
		return
	}
	if i := slices.Index(r.items, path); i >= 0 {
		r.items = slices.Delete(r.items, i, i+1)
	}
	r.items = slices.Insert(r.items, 0, path)
	if len(r.items) > MaxRecentItems {
		r.items = r.items[:MaxRecentItems]
	}
	r.Save()
}

// Clear empties the list and persists. Confirmation belongs to the UI.
func (r *RecentList) Clear() {
	r.items = r.items[:0]
	r.Save()
}

// List returns a copy of the items, most recent first
func (r *RecentList) List() []string {
	return slices.Clone(r.items)
}

// Len returns the number of items
func (r *RecentList) Len() int {
	return len(r.items)
}
