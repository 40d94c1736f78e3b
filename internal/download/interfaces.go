package download

import (
	"context"

	"github.com/ytget/yt-web-downloader/internal/model"
)

// Retriever defines the interface for the retrieval facade.
// Download operations report failure in the returned result, never as a panic.
type Retriever interface {
	FetchItemInfo(ctx context.Context, url string) (*model.ItemMetadata, error)
	FetchCollectionInfo(ctx context.Context, url string) (*model.CollectionSummary, error)

	DownloadItem(ctx context.Context, url string, quality model.Quality, progress chan<- model.ProgressEvent) model.DownloadResult
	DownloadAudioOnly(ctx context.Context, url string, format model.AudioFormat, progress chan<- model.ProgressEvent) model.DownloadResult

	// DownloadCollection downloads every item, skipping the ones that fail
	DownloadCollection(ctx context.Context, url string, media model.MediaKind, quality model.Quality, format model.AudioFormat, progress chan<- model.ProgressEvent) model.DownloadResult
}

// PlaylistLister enumerates a playlist without the yt-dlp executable.
type PlaylistLister interface {
	ListPlaylist(ctx context.Context, url string) (*model.CollectionSummary, error)
}
