package platform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ytget/cyclops/internal/model"
)

type fakeFetcher struct {
	entries []PlaylistEntry
	err     error
	gotID   string
}

func (f *fakeFetcher) FetchPlaylist(ctx context.Context, playlistID string) ([]PlaylistEntry, error) {
	f.gotID = playlistID
	return f.entries, f.err
}

func TestNewPlaylistExpander(t *testing.T) {
	expander := NewPlaylistExpander()

	if expander == nil {
		t.Fatal("expander should not be nil")
	}
	if expander.timeout != DefaultExpandTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultExpandTimeout, expander.timeout)
	}

	expander.SetTimeout(5 * time.Second)
	if expander.timeout != 5*time.Second {
		t.Errorf("expected timeout %v, got %v", 5*time.Second, expander.timeout)
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "playlist page",
			url:      "https://www.youtube.com/playlist?list=PL1234567890",
			expected: "PL1234567890",
		},
		{
			name:     "watch URL with list",
			url:      "https://www.youtube.com/watch?v=abc123&list=PLxyz&index=2",
			expected: "PLxyz",
		},
		{
			name:     "list followed by radio flag",
			url:      "https://www.youtube.com/watch?v=abc123&list=RDabc&start_radio=1",
			expected: "RDabc",
		},
		{
			name:     "no list parameter",
			url:      "https://www.youtube.com/watch?v=abc123",
			expected: "",
		},
		{
			name:     "malformed URL",
			url:      "https://www.youtube.com/%zz?list=PLbroken&x=1",
			expected: "PLbroken",
		},
		{
			name:     "empty",
			url:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractPlaylistID(tt.url); got != tt.expected {
				t.Errorf("ExtractPlaylistID(%q) = %q, expected %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestIsPlaylistURL(t *testing.T) {
	tests := []struct {
		source   string
		expected bool
	}{
		{"https://www.youtube.com/playlist?list=PL123", true},
		{"https://www.youtube.com/watch?v=abc", false},
		{"/videos/list=weird.mp4", false},
	}

	for _, tt := range tests {
		if got := IsPlaylistURL(tt.source); got != tt.expected {
			t.Errorf("IsPlaylistURL(%q) = %v, expected %v", tt.source, got, tt.expected)
		}
	}
}

func TestExpand(t *testing.T) {
	fetcher := &fakeFetcher{entries: []PlaylistEntry{
		{VideoID: "vid1", Title: "Go Concurrency Patterns - Part 1"},
		{VideoID: "", Title: "Deleted video"},
		{VideoID: "vid2", Title: "Go Concurrency Patterns - Part 2"},
	}}
	expander := NewPlaylistExpanderWithFetcher(fetcher)

	queue, err := expander.Expand(context.Background(), "https://www.youtube.com/playlist?list=PLgo")
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}

	if fetcher.gotID != "PLgo" {
		t.Errorf("expected playlist ID PLgo, got %q", fetcher.gotID)
	}
	if queue.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", queue.Len())
	}
	if queue.Items[0].URL != "https://www.youtube.com/watch?v=vid1" {
		t.Errorf("unexpected item URL %s", queue.Items[0].URL)
	}
	if queue.Title != "Go Concurrency Patterns - Part Playlist" {
		t.Errorf("unexpected title %q", queue.Title)
	}
	current, ok := queue.Current()
	if !ok || current.ID != "vid1" {
		t.Errorf("queue should start on the first item, got %+v", current)
	}
}

func TestExpandErrors(t *testing.T) {
	fetchErr := errors.New("network down")

	tests := []struct {
		name    string
		url     string
		fetcher *fakeFetcher
		wantErr error
	}{
		{
			name:    "no playlist ID",
			url:     "https://www.youtube.com/watch?v=abc",
			fetcher: &fakeFetcher{},
		},
		{
			name:    "fetch failure",
			url:     "https://www.youtube.com/playlist?list=PL1",
			fetcher: &fakeFetcher{err: fetchErr},
			wantErr: fetchErr,
		},
		{
			name:    "empty playlist",
			url:     "https://www.youtube.com/playlist?list=PL1",
			fetcher: &fakeFetcher{},
			wantErr: ErrEmptyPlaylist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlaylistExpanderWithFetcher(tt.fetcher).Expand(context.Background(), tt.url)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPlaylistTitle(t *testing.T) {
	tests := []struct {
		name     string
		titles   []string
		expected string
	}{
		{name: "empty", titles: nil, expected: DefaultPlaylistName},
		{name: "single", titles: []string{"Intro"}, expected: "Intro Playlist"},
		{name: "short prefix", titles: []string{"Intro", "Index"}, expected: "Intro Playlist"},
		{name: "long prefix", titles: []string{"Lecture series: week 1", "Lecture series: week 2"}, expected: "Lecture series: week Playlist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var items []model.QueueItem
			for _, title := range tt.titles {
				items = append(items, model.QueueItem{Title: title})
			}
			if got := playlistTitle(items); got != tt.expected {
				t.Errorf("playlistTitle() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestCommonPrefix(t *testing.T) {
	tests := []struct {
		s1, s2   string
		expected string
	}{
		{"abcdef", "abcxyz", "abc"},
		{"same", "same", "same"},
		{"short", "shorter", "short"},
		{"", "abc", ""},
	}

	for _, tt := range tests {
		if got := commonPrefix(tt.s1, tt.s2); got != tt.expected {
			t.Errorf("commonPrefix(%q, %q) = %q, expected %q", tt.s1, tt.s2, got, tt.expected)
		}
	}
}
