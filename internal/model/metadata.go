package model

import "fmt"

// MaxPreviewEntries caps the number of collection entries returned for preview
const MaxPreviewEntries = 10

// ItemMetadata is the preview information for a single item
type ItemMetadata struct {
	Title        string
	Duration     string // "m:ss"
	DurationSec  int
	Uploader     string
	ViewCount    int64
	ThumbnailURL string
	Description  string
}

// CollectionEntry is one previewed item of a collection
type CollectionEntry struct {
	Title       string
	DurationSec int // 0 when unknown
}

// DurationString formats the entry duration as "m:ss", or "" when unknown
func (e CollectionEntry) DurationString() string {
	if e.DurationSec <= 0 {
		return ""
	}
	return FormatDuration(e.DurationSec)
}

// CollectionSummary is the preview information for a collection
type CollectionSummary struct {
	Title     string
	Uploader  string
	ItemCount int
	Items     []CollectionEntry
}

// FormatDuration renders seconds as minutes:seconds with minutes unbounded
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
