package download

import (
	"context"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-web-downloader/internal/model"
)

// runner executes yt-dlp with the given options and returns its stdout
type runner interface {
	Run(ctx context.Context, opts Options, url string, onProgress func(model.ProgressEvent)) (string, error)
}

// runError carries yt-dlp's own error text
type runError struct {
	msg string
	err error
}

func (e *runError) Error() string { return e.msg }

func (e *runError) Unwrap() error { return e.err }

// ytdlpRunner runs the real executable through go-ytdlp
type ytdlpRunner struct {
	executable string
	interval   time.Duration
}

func (r *ytdlpRunner) Run(ctx context.Context, opts Options, url string, onProgress func(model.ProgressEvent)) (string, error) {
	cmd := opts.Command(r.executable)

	if onProgress != nil {
		cmd.ProgressFunc(r.interval, func(update ytdlp.ProgressUpdate) {
			var title, filename string
			if update.Info != nil {
				if update.Info.Title != nil {
					title = *update.Info.Title
				}
				if update.Info.Filename != nil {
					filename = *update.Info.Filename
				}
			}
			onProgress(progressEvent(string(update.Status), int64(update.DownloadedBytes), int64(update.TotalBytes), title, filename))
		})
	}

	result, err := cmd.Run(ctx, url)

	var stdout, stderr string
	if result != nil {
		stdout, stderr = result.Stdout, result.Stderr
	}
	if err != nil {
		return stdout, &runError{msg: errorMessage(stderr, err), err: err}
	}
	return stdout, nil
}

// progressEvent maps a go-ytdlp progress status onto a model event
func progressEvent(status string, done, total int64, title, filename string) model.ProgressEvent {
	var phase model.Phase
	switch status {
	case "starting":
		phase = model.PhaseStarting
	case "post_processing":
		phase = model.PhasePostProcessing
	case "finished":
		phase = model.PhaseFinished
	case "error":
		phase = model.PhaseError
	default:
		phase = model.PhaseDownloading
	}

	if total < 0 {
		total = 0
	}
	return model.ProgressEvent{
		Phase:      phase,
		BytesDone:  done,
		BytesTotal: total,
		Title:      title,
		Filename:   filename,
	}
}
