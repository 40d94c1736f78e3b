package platform

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/yt-web-downloader/internal/model"
)

// Timeout constants
const (
	DefaultPlaylistParseTimeout = 60 * time.Second
)

// URL parameters
const (
	PlaylistURLParam = "list"
)

// Playlist title constants
const (
	DefaultPlaylistTitle = "Untitled Playlist"
	MinPrefixLength      = 10
	MaxTitleLength       = 50
	TitleTruncateSuffix  = "..."
)

// playlistItem is the subset of a native playlist entry the parser needs
type playlistItem struct {
	ID    string
	Title string
}

// itemsFetcher returns every entry of the playlist with the given id
type itemsFetcher func(ctx context.Context, playlistID string) ([]playlistItem, error)

// PlaylistParser enumerates playlists without the yt-dlp executable.
// It is used when the executable cannot produce a listing.
type PlaylistParser struct {
	timeout time.Duration
	fetch   itemsFetcher
}

// NewPlaylistParser creates a new playlist parser backed by github.com/ytget/ytdlp
func NewPlaylistParser() *PlaylistParser {
	return &PlaylistParser{
		timeout: DefaultPlaylistParseTimeout,
		fetch:   fetchPlaylistItems,
	}
}

// SetTimeout sets the timeout for playlist parsing
func (p *PlaylistParser) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

func fetchPlaylistItems(ctx context.Context, playlistID string) ([]playlistItem, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}

	out := make([]playlistItem, 0, len(items))
	for _, it := range items {
		out = append(out, playlistItem{ID: it.VideoID, Title: it.Title})
	}
	return out, nil
}

// ListPlaylist returns the summary of the playlist referenced by rawURL.
// Durations are not available from the native listing and are left unknown.
func (p *PlaylistParser) ListPlaylist(ctx context.Context, rawURL string) (*model.CollectionSummary, error) {
	playlistID, err := extractPlaylistID(rawURL)
	if err != nil {
		return nil, err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	items, err := p.fetch(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("playlist %s has no items", playlistID)
	}

	log.WithFields(log.Fields{"playlist": playlistID, "items": len(items)}).Debug("Native playlist listing succeeded")

	summary := &model.CollectionSummary{
		Title:     extractPlaylistTitle(items),
		ItemCount: len(items),
	}

	for i, it := range items {
		if i >= model.MaxPreviewEntries {
			break
		}
		summary.Items = append(summary.Items, model.CollectionEntry{Title: it.Title})
	}

	return summary, nil
}

// extractPlaylistID extracts the playlist ID from a playlist or watch URL
func extractPlaylistID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("invalid playlist URL: %w", err)
	}

	values := u.Query()
	if !values.Has(PlaylistURLParam) {
		return "", fmt.Errorf("URL does not contain playlist parameter")
	}

	playlistID := values.Get(PlaylistURLParam)
	if playlistID == "" {
		return "", fmt.Errorf("empty playlist ID")
	}

	return playlistID, nil
}

// extractPlaylistTitle derives a title from the common prefix of the first two
// items, falling back to the first item's title
func extractPlaylistTitle(items []playlistItem) string {
	if len(items) == 0 {
		return DefaultPlaylistTitle
	}

	if len(items) > 1 {
		// Numbered series share everything but the trailing index
		commonPrefix := strings.TrimRight(findCommonPrefix(items[0].Title, items[1].Title), " -|:#0123456789")
		if len(commonPrefix) > MinPrefixLength {
			return commonPrefix
		}
	}

	title := []rune(items[0].Title)
	if len(title) > MaxTitleLength {
		return string(title[:MaxTitleLength]) + TitleTruncateSuffix
	}
	if len(title) == 0 {
		return DefaultPlaylistTitle
	}
	return string(title)
}

// findCommonPrefix finds the common prefix between two strings on rune boundaries
func findCommonPrefix(s1, s2 string) string {
	r1, r2 := []rune(s1), []rune(s2)
	minLen := min(len(r1), len(r2))
	for i := 0; i < minLen; i++ {
		if r1[i] != r2[i] {
			return string(r1[:i])
		}
	}
	return string(r1[:minLen])
}
