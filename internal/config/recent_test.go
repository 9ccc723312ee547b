package config

import (
	"errors"
	"fmt"
	"testing"
)

type memoryBackend struct {
	items    []string
	readErr  error
	writeErr error
	writes   int
}

func (b *memoryBackend) ReadRecent() ([]string, error) {
	if b.readErr != nil {
		return nil, b.readErr
	}
	return append([]string(nil), b.items...), nil
}

func (b *memoryBackend) WriteRecent(items []string) error {
	b.writes++
	if b.writeErr != nil {
		return b.writeErr
	}
	b.items = append([]string(nil), items...)
	return nil
}

func TestRecentListAddMovesToFront(t *testing.T) {
	backend := &memoryBackend{}
	recent := NewRecentList(backend, nil)

	recent.Add("/a.mp4")
	recent.Add("/b.mp4")
	recent.Add("/a.mp4")

	items := recent.List()
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %v", items)
	}
	if items[0] != "/a.mp4" || items[1] != "/b.mp4" {
		t.Errorf("Unexpected order %v", items)
	}
	if len(backend.items) != 2 || backend.items[0] != "/a.mp4" {
		t.Errorf("Backend not updated: %v", backend.items)
	}
}

func TestRecentListAddTwiceKeepsLength(t *testing.T) {
	recent := NewRecentList(&memoryBackend{}, nil)

	recent.Add("/a.mp4")
	before := recent.Len()
	recent.Add("/a.mp4")

	if recent.Len() != before {
		t.Errorf("Length changed from %d to %d", before, recent.Len())
	}
	if recent.List()[0] != "/a.mp4" {
		t.Error("Re-added item should be at index 0")
	}
}

func TestRecentListCap(t *testing.T) {
	recent := NewRecentList(&memoryBackend{}, nil)

	for i := 0; i < MaxRecentItems+1; i++ {
		recent.Add(fmt.Sprintf("/video%d.mp4", i))
	}

	items := recent.List()
	if len(items) != MaxRecentItems {
		t.Fatalf("Expected %d items, got %d", MaxRecentItems, len(items))
	}
	if items[0] != "/video10.mp4" {
		t.Errorf("Newest item should be first, got %s", items[0])
	}
	for _, item := range items {
		if item == "/video0.mp4" {
			t.Error("Oldest item should have been dropped")
		}
	}
}

func TestRecentListIgnoresEmpty(t *testing.T) {
	backend := &memoryBackend{}
	recent := NewRecentList(backend, nil)

	recent.Add("")

	if recent.Len() != 0 || backend.writes != 0 {
		t.Error("Empty path should be ignored")
	}
}

func TestRecentListClear(t *testing.T) {
	backend := &memoryBackend{}
	recent := NewRecentList(backend, nil)
	recent.Add("/a.mp4")
	recent.Add("/b.mp4")

	recent.Clear()

	if recent.Len() != 0 {
		t.Errorf("Expected empty list, got %v", recent.List())
	}
	if len(backend.items) != 0 {
		t.Errorf("Expected empty backend, got %v", backend.items)
	}
}

func TestRecentListLoad(t *testing.T) {
	items := []string{"/a.mp4", "", "/b.mp4", "/a.mp4"}
	for i := 0; i < 12; i++ {
		items = append(items, fmt.Sprintf("/extra%d.mp4", i))
	}
	recent := NewRecentList(&memoryBackend{items: items}, nil)

	if err := recent.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got := recent.List()
	if len(got) != MaxRecentItems {
		t.Fatalf("Expected %d items, got %d", MaxRecentItems, len(got))
	}
	if got[0] != "/a.mp4" || got[1] != "/b.mp4" || got[2] != "/extra0.mp4" {
		t.Errorf("Unexpected items %v", got)
	}
}

func TestRecentListLoadFailureFallsBackToEmpty(t *testing.T) {
	backend := &memoryBackend{readErr: errors.New("corrupt")}
	recent := NewRecentList(backend, nil)

	if err := recent.Load(); err == nil {
		t.Error("Expected load error to be reported")
	}
	if recent.Len() != 0 {
		t.Error("Expected empty list after failed load")
	}

	recent.Add("/a.mp4")
	if recent.Len() != 1 {
		t.Error("List should keep working after failed load")
	}
}

func TestRecentListSaveFailureKeepsMemoryState(t *testing.T) {
	backend := &memoryBackend{writeErr: errors.New("read-only")}
	recent := NewRecentList(backend, nil)

	recent.Add("/a.mp4")
	recent.Add("/b.mp4")

	if err := recent.Save(); err == nil {
		t.Error("Expected save error to be reported")
	}
	got := recent.List()
	if len(got) != 2 || got[0] != "/b.mp4" {
		t.Errorf("In-memory state lost: %v", got)
	}
}

func TestRecentListReturnsCopy(t *testing.T) {
	recent := NewRecentList(&memoryBackend{}, nil)
	recent.Add("/a.mp4")

	items := recent.List()
	items[0] = "/mutated.mp4"

	if recent.List()[0] != "/a.mp4" {
		t.Error("List should return a copy")
	}
}
