package platform

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/cyclops/internal/model"
)

// Timeout constants
const (
	DefaultExpandTimeout = 60 * time.Second
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	ParamSeparator = "&"
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// Playlist title constants
const (
	DefaultPlaylistName = "Unknown Playlist"
	MinPrefixLength     = 10
	PlaylistSuffix      = " Playlist"
)

// ErrEmptyPlaylist is returned when a playlist has no playable entries
var ErrEmptyPlaylist = errors.New("playlist has no videos")

// PlaylistEntry is one video reported by a PlaylistFetcher
type PlaylistEntry struct {
	VideoID string
	Title   string
}

// PlaylistFetcher lists the videos of a playlist by ID
type PlaylistFetcher interface {
	FetchPlaylist(ctx context.Context, playlistID string) ([]PlaylistEntry, error)
}

// ytdlpFetcher fetches playlist items through the ytdlp library
type ytdlpFetcher struct{}

func (ytdlpFetcher) FetchPlaylist(ctx context.Context, playlistID string) ([]PlaylistEntry, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}
	entries := make([]PlaylistEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, PlaylistEntry{VideoID: it.VideoID, Title: it.Title})
	}
	return entries, nil
}

// PlaylistExpander turns a YouTube playlist URL into a play queue
type PlaylistExpander struct {
	fetcher PlaylistFetcher
	timeout time.Duration
}

// NewPlaylistExpander creates an expander backed by ytdlp
func NewPlaylistExpander() *PlaylistExpander {
	return NewPlaylistExpanderWithFetcher(ytdlpFetcher{})
}

// NewPlaylistExpanderWithFetcher creates an expander over fetcher
func NewPlaylistExpanderWithFetcher(fetcher PlaylistFetcher) *PlaylistExpander {
	return &PlaylistExpander{
		fetcher: fetcher,
		timeout: DefaultExpandTimeout,
	}
}

// SetTimeout sets the timeout for expand operations
func (p *PlaylistExpander) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// IsPlaylistURL reports whether source is a web URL carrying a playlist ID
func IsPlaylistURL(source string) bool {
	return IsRemoteSource(source) && ExtractPlaylistID(source) != ""
}

// ExtractPlaylistID returns the value of the list parameter, or ""
func ExtractPlaylistID(source string) string {
	if parsed, err := url.Parse(source); err == nil {
		if id := parsed.Query().Get("list"); id != "" {
			return id
		}
	}

	// Tolerate hand-typed URLs that url.Parse rejects
	if _, after, found := strings.Cut(source, PlaylistParam); found {
		id, _, _ := strings.Cut(after, ParamSeparator)
		return id
	}
	return ""
}

// Expand fetches the playlist behind source. The queue starts on the first
// video.
func (p *PlaylistExpander) Expand(ctx context.Context, source string) (*model.PlayQueue, error) {
	playlistID := ExtractPlaylistID(source)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", source)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	entries, err := p.fetcher.FetchPlaylist(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	items := make([]model.QueueItem, 0, len(entries))
	for _, e := range entries {
		if e.VideoID == "" {
			continue
		}
		items = append(items, model.QueueItem{
			ID:    e.VideoID,
			Title: e.Title,
			URL:   fmt.Sprintf(YouTubeVideoURLTemplate, e.VideoID),
		})
	}
	if len(items) == 0 {
		return nil, ErrEmptyPlaylist
	}

	return model.NewPlayQueue(playlistTitle(items), items), nil
}

// playlistTitle derives a title from the shared prefix of the first titles
func playlistTitle(items []model.QueueItem) string {
	if len(items) == 0 {
		return DefaultPlaylistName
	}
	if len(items) > 1 {
		prefix := commonPrefix(items[0].Title, items[1].Title)
		if len(prefix) > MinPrefixLength {
			return strings.TrimSpace(prefix) + PlaylistSuffix
		}
	}
	return items[0].Title + PlaylistSuffix
}

// commonPrefix finds the common prefix between two strings
func commonPrefix(s1, s2 string) string {
	minLen := min(len(s1), len(s2))
	for i := 0; i < minLen; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:minLen]
}
