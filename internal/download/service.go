package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ytget/yt-web-downloader/internal/model"
	"github.com/ytget/yt-web-downloader/internal/platform"
)

// Defaults applied when Config leaves a value empty
const (
	DefaultExecutable       = "yt-dlp"
	DefaultMetadataTimeout  = 60 * time.Second
	DefaultProgressInterval = 500 * time.Millisecond
)

// ErrNotFound is returned by the preview operations for any lookup failure
var ErrNotFound = errors.New("content not found or unreachable")

// Config configures the retrieval facade
type Config struct {
	OutputDir        string
	Executable       string
	MetadataTimeout  time.Duration
	ProgressInterval time.Duration
	// PlaylistLister is consulted when yt-dlp cannot list a playlist. Optional.
	PlaylistLister PlaylistLister
}

// Service implements Retriever on top of yt-dlp
type Service struct {
	cfg    Config
	runner runner
}

// NewService creates a new retrieval service
func NewService(cfg Config) *Service {
	if cfg.Executable == "" {
		cfg.Executable = DefaultExecutable
	}
	if cfg.MetadataTimeout <= 0 {
		cfg.MetadataTimeout = DefaultMetadataTimeout
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = DefaultProgressInterval
	}
	return &Service{
		cfg:    cfg,
		runner: &ytdlpRunner{executable: cfg.Executable, interval: cfg.ProgressInterval},
	}
}

// OutputDir returns the directory downloads are written to
func (s *Service) OutputDir() string {
	return s.cfg.OutputDir
}

// FetchItemInfo returns preview metadata for a single item
func (s *Service) FetchItemInfo(ctx context.Context, url string) (*model.ItemMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.MetadataTimeout)
	defer cancel()

	logger := log.WithField("url", url)

	stdout, err := s.runner.Run(ctx, itemInfoOptions(), url, nil)
	if err != nil {
		logger.WithError(err).Warn("Item lookup failed")
		return nil, ErrNotFound
	}

	meta, err := parseItemInfo(stdout)
	if err != nil {
		logger.WithError(err).Warn("Item lookup returned unusable output")
		return nil, ErrNotFound
	}

	return meta, nil
}

// FetchCollectionInfo returns preview metadata for a collection
func (s *Service) FetchCollectionInfo(ctx context.Context, url string) (*model.CollectionSummary, error) {
	summary, err := s.listCollection(ctx, url)
	if err != nil {
		log.WithField("url", url).WithError(err).Warn("Collection lookup failed")
		return nil, ErrNotFound
	}
	return summary, nil
}

// listCollection runs a flat listing, trying the native lister when yt-dlp fails
func (s *Service) listCollection(ctx context.Context, url string) (*model.CollectionSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.MetadataTimeout)
	defer cancel()

	stdout, err := s.runner.Run(ctx, collectionInfoOptions(), url, nil)
	if err == nil {
		return parseCollectionInfo(stdout)
	}

	if s.cfg.PlaylistLister != nil && ctx.Err() == nil {
		summary, listErr := s.cfg.PlaylistLister.ListPlaylist(ctx, url)
		if listErr == nil {
			log.WithField("url", url).WithError(err).Info("yt-dlp listing failed, used native playlist listing")
			return summary, nil
		}
		log.WithField("url", url).WithError(listErr).Debug("Native playlist listing failed")
	}

	return nil, err
}

// DownloadItem downloads one item as merged mp4 video
func (s *Service) DownloadItem(ctx context.Context, url string, quality model.Quality, progress chan<- model.ProgressEvent) model.DownloadResult {
	logger := log.WithFields(log.Fields{"url": url, "quality": quality.String()})

	if err := platform.CreateDirectoryIfNotExists(s.cfg.OutputDir); err != nil {
		return model.Failed(fmt.Sprintf("failed to create output directory: %v", err))
	}

	tracker := newProgressForwarder(progress)
	stdout, err := s.runner.Run(ctx, itemOptions(s.cfg.OutputDir, quality), url, tracker.forward)
	if err != nil {
		logger.WithError(err).Warn("Video download failed")
		tracker.finish(model.PhaseError)
		return model.Failed(err.Error())
	}

	result := model.DownloadResult{Success: true, Title: tracker.lastTitle()}
	if files := parseSavedFiles(stdout); len(files) > 0 {
		last := files[len(files)-1]
		result.OutputPath = last.Filepath
		if last.Title != "" {
			result.Title = last.Title
		}
	} else {
		logger.Warn("yt-dlp did not report the output file")
	}

	tracker.finish(model.PhaseFinished)
	logger.WithFields(log.Fields{"title": result.Title, "path": result.OutputPath}).Info("Video downloaded")
	return result
}

// DownloadAudioOnly downloads one item and extracts its audio track
func (s *Service) DownloadAudioOnly(ctx context.Context, url string, format model.AudioFormat, progress chan<- model.ProgressEvent) model.DownloadResult {
	logger := log.WithFields(log.Fields{"url": url, "format": string(format)})

	if err := platform.CreateDirectoryIfNotExists(s.cfg.OutputDir); err != nil {
		return model.Failed(fmt.Sprintf("failed to create output directory: %v", err))
	}

	tracker := newProgressForwarder(progress)
	stdout, err := s.runner.Run(ctx, audioOptions(s.cfg.OutputDir, format), url, tracker.forward)
	if err != nil {
		logger.WithError(err).Warn("Audio download failed")
		tracker.finish(model.PhaseError)
		return model.Failed(err.Error())
	}

	result := model.DownloadResult{Success: true, Title: tracker.lastTitle()}
	if files := parseSavedFiles(stdout); len(files) > 0 {
		last := files[len(files)-1]
		result.OutputPath = last.Filepath
		if last.Title != "" {
			result.Title = last.Title
		}
	} else if result.Title != "" {
		// Fall back to the path the template would produce. Only a file whose
		// name matches the title is accepted.
		computed := filepath.Join(s.cfg.OutputDir, platform.SanitizeFilename(result.Title)+"."+string(format))
		if found, findErr := platform.FindSimilarFile(computed); findErr == nil {
			result.OutputPath = found
		} else {
			logger.WithField("path", computed).Warn("yt-dlp did not report the output file")
			result.OutputPath = computed
		}
	}

	tracker.finish(model.PhaseFinished)
	logger.WithFields(log.Fields{"title": result.Title, "path": result.OutputPath}).Info("Audio downloaded")
	return result
}

// DownloadCollection downloads every item of a collection into its own folder.
// Items that fail are skipped; the result is successful when yt-dlp exits
// cleanly or at least one item was saved.
func (s *Service) DownloadCollection(ctx context.Context, url string, media model.MediaKind, quality model.Quality, format model.AudioFormat, progress chan<- model.ProgressEvent) model.DownloadResult {
	logger := log.WithFields(log.Fields{"url": url, "media": string(media)})

	summary, err := s.listCollection(ctx, url)
	if err != nil {
		logger.WithError(err).Warn("Collection listing failed")
		return model.Failed(err.Error())
	}

	if err := platform.CreateDirectoryIfNotExists(s.cfg.OutputDir); err != nil {
		return model.Failed(fmt.Sprintf("failed to create output directory: %v", err))
	}

	tracker := newProgressForwarder(progress)
	opts := collectionOptions(s.cfg.OutputDir, media, quality, format)
	stdout, runErr := s.runner.Run(ctx, opts, url, tracker.forward)

	files := parseSavedFiles(stdout)
	result := model.DownloadResult{
		Success:    runErr == nil || len(files) > 0,
		Title:      summary.Title,
		ItemCount:  summary.ItemCount,
		Saved:      len(files),
		Collection: true,
	}

	if len(files) > 0 {
		result.OutputPath = filepath.Dir(files[0].Filepath)
	} else {
		result.OutputPath = filepath.Join(s.cfg.OutputDir, platform.SanitizeFilename(summary.Title))
	}

	if runErr != nil {
		// Partial success keeps the tool's errors as a report of skipped items
		result.Message = runErr.Error()
	}
	if !result.Success {
		result.OutputPath = ""
		tracker.finish(model.PhaseError)
		logger.WithError(runErr).Warn("Collection download failed")
		return result
	}

	tracker.finish(model.PhaseFinished)
	logger.WithFields(log.Fields{
		"title": summary.Title,
		"total": result.ItemCount,
		"saved": result.Saved,
		"path":  result.OutputPath,
	}).Info("Collection downloaded")
	return result
}

// progressForwarder copies runner progress to an optional subscriber channel
// without ever blocking the transfer
type progressForwarder struct {
	ch    chan<- model.ProgressEvent
	mu    sync.Mutex
	title string
}

func newProgressForwarder(ch chan<- model.ProgressEvent) *progressForwarder {
	return &progressForwarder{ch: ch}
}

func (p *progressForwarder) forward(ev model.ProgressEvent) {
	p.mu.Lock()
	if ev.Title != "" {
		p.title = ev.Title
	}
	p.mu.Unlock()
	p.send(ev)
}

func (p *progressForwarder) lastTitle() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title
}

func (p *progressForwarder) finish(phase model.Phase) {
	p.send(model.ProgressEvent{Phase: phase, Title: p.lastTitle()})
}

func (p *progressForwarder) send(ev model.ProgressEvent) {
	if p.ch == nil {
		return
	}
	select {
	case p.ch <- ev:
	default:
	}
}
