package download

import (
	"fmt"
	"path/filepath"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-web-downloader/internal/model"
)

// Format selectors and post-processing settings
const (
	FormatBestVideo        = "bestvideo+bestaudio/best"
	FormatMaxHeightVideo   = "bestvideo[height<=%d]+bestaudio/best"
	FormatBestAudio        = "bestaudio/best"
	MergeOutputFormat      = "mp4"
	AudioQuality           = "192K"
	ItemOutputTemplate     = "%(title)s.%(ext)s"
	CollectionItemTemplate = "%(playlist)s/%(playlist_index)s - %(title)s.%(ext)s"
)

// savedMarker prefixes the lines yt-dlp prints for every file moved into place
const savedMarker = "ytwd-saved:"

// savedPrintTemplate makes yt-dlp report each final file as a JSON object
const savedPrintTemplate = "after_move:" + savedMarker + "%(.{id,title,ext,filepath,playlist_index})j"

// Options is the subset of yt-dlp switches the facade uses
type Options struct {
	Format         string
	OutputTemplate string
	MergeFormat    string
	ExtractAudio   bool
	AudioFormat    string
	AudioQuality   string
	NoPlaylist     bool
	YesPlaylist    bool
	IgnoreErrors   bool
	FlatPlaylist   bool
	DumpSingleJSON bool
	PrintSaved     bool
}

// formatSelector returns the yt-dlp format expression for a video quality
func formatSelector(q model.Quality) string {
	if q.IsBest() {
		return FormatBestVideo
	}
	return fmt.Sprintf(FormatMaxHeightVideo, q.MaxHeight())
}

// audioQuality returns the bitrate hint for a format; wav is lossless and keeps the default
func audioQuality(f model.AudioFormat) string {
	if f == model.AudioWAV {
		return ""
	}
	return AudioQuality
}

func itemInfoOptions() Options {
	return Options{DumpSingleJSON: true, NoPlaylist: true}
}

func collectionInfoOptions() Options {
	return Options{DumpSingleJSON: true, FlatPlaylist: true, YesPlaylist: true}
}

func itemOptions(outputDir string, q model.Quality) Options {
	return Options{
		Format:         formatSelector(q),
		MergeFormat:    MergeOutputFormat,
		OutputTemplate: filepath.Join(outputDir, ItemOutputTemplate),
		NoPlaylist:     true,
		PrintSaved:     true,
	}
}

func audioOptions(outputDir string, f model.AudioFormat) Options {
	return Options{
		Format:         FormatBestAudio,
		ExtractAudio:   true,
		AudioFormat:    string(f),
		AudioQuality:   audioQuality(f),
		OutputTemplate: filepath.Join(outputDir, ItemOutputTemplate),
		NoPlaylist:     true,
		PrintSaved:     true,
	}
}

func collectionOptions(outputDir string, media model.MediaKind, q model.Quality, f model.AudioFormat) Options {
	var opts Options
	if media == model.MediaAudio {
		opts = audioOptions(outputDir, f)
	} else {
		opts = itemOptions(outputDir, q)
	}
	opts.OutputTemplate = filepath.Join(outputDir, CollectionItemTemplate)
	opts.NoPlaylist = false
	opts.YesPlaylist = true
	opts.IgnoreErrors = true
	return opts
}

// Command translates the options into a go-ytdlp command
func (o Options) Command(executable string) *ytdlp.Command {
	cmd := ytdlp.New().NoWarnings()
	if executable != "" {
		cmd.SetExecutable(executable)
	}

	if o.Format != "" {
		cmd.Format(o.Format)
	}
	if o.OutputTemplate != "" {
		cmd.Output(o.OutputTemplate)
	}
	if o.MergeFormat != "" {
		cmd.MergeOutputFormat(o.MergeFormat)
	}
	if o.ExtractAudio {
		cmd.ExtractAudio()
		if o.AudioFormat != "" {
			cmd.AudioFormat(o.AudioFormat)
		}
		if o.AudioQuality != "" {
			cmd.AudioQuality(o.AudioQuality)
		}
	}
	if o.NoPlaylist {
		cmd.NoPlaylist()
	}
	if o.YesPlaylist {
		cmd.YesPlaylist()
	}
	if o.IgnoreErrors {
		cmd.IgnoreErrors()
	}
	if o.FlatPlaylist {
		cmd.FlatPlaylist()
	}
	if o.DumpSingleJSON {
		cmd.DumpSingleJSON()
	}
	if o.PrintSaved {
		cmd.Print(savedPrintTemplate).NoSimulate()
	}

	return cmd
}
