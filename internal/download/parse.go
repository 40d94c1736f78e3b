package download

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ytget/yt-web-downloader/internal/model"
)

// MaxDescriptionLength is the number of characters kept from a description
const MaxDescriptionLength = 300

// DescriptionEllipsis is appended to truncated descriptions
const DescriptionEllipsis = "..."

// errNotCollection is returned when yt-dlp resolved the URL to a single item
var errNotCollection = errors.New("not a collection")

// ytDlpJSON is the subset of yt-dlp's --dump-single-json output the facade reads
type ytDlpJSON struct {
	Type          string       `json:"_type"`
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Duration      float64      `json:"duration"`
	Uploader      string       `json:"uploader"`
	Channel       string       `json:"channel"`
	ViewCount     int64        `json:"view_count"`
	Thumbnail     string       `json:"thumbnail"`
	Description   string       `json:"description"`
	PlaylistCount int          `json:"playlist_count"`
	Entries       []*ytDlpJSON `json:"entries"`
}

// savedFile is one line printed by yt-dlp after a file was moved into place
type savedFile struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Ext           string `json:"ext"`
	Filepath      string `json:"filepath"`
	PlaylistIndex int    `json:"playlist_index"`
}

// decodeSingleJSON decodes the first JSON object found in stdout
func decodeSingleJSON(stdout string) (*ytDlpJSON, error) {
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var data ytDlpJSON
		if err := json.Unmarshal([]byte(line), &data); err != nil {
			return nil, fmt.Errorf("failed to decode yt-dlp output: %w", err)
		}
		return &data, nil
	}
	return nil, errors.New("yt-dlp produced no JSON output")
}

func uploaderOf(data *ytDlpJSON) string {
	if data.Uploader != "" {
		return data.Uploader
	}
	return data.Channel
}

func durationSeconds(d float64) int {
	if d <= 0 || math.IsNaN(d) {
		return 0
	}
	return int(d)
}

func parseItemInfo(stdout string) (*model.ItemMetadata, error) {
	data, err := decodeSingleJSON(stdout)
	if err != nil {
		return nil, err
	}

	seconds := durationSeconds(data.Duration)
	return &model.ItemMetadata{
		Title:        data.Title,
		Duration:     model.FormatDuration(seconds),
		DurationSec:  seconds,
		Uploader:     uploaderOf(data),
		ViewCount:    data.ViewCount,
		ThumbnailURL: data.Thumbnail,
		Description:  TruncateDescription(data.Description),
	}, nil
}

func parseCollectionInfo(stdout string) (*model.CollectionSummary, error) {
	data, err := decodeSingleJSON(stdout)
	if err != nil {
		return nil, err
	}
	if data.Type != "playlist" && len(data.Entries) == 0 {
		return nil, errNotCollection
	}

	summary := &model.CollectionSummary{
		Title:     data.Title,
		Uploader:  uploaderOf(data),
		ItemCount: len(data.Entries),
	}
	if data.PlaylistCount > summary.ItemCount {
		summary.ItemCount = data.PlaylistCount
	}

	for _, entry := range data.Entries {
		if len(summary.Items) >= model.MaxPreviewEntries {
			break
		}
		if entry == nil {
			continue
		}
		summary.Items = append(summary.Items, model.CollectionEntry{
			Title:       entry.Title,
			DurationSec: durationSeconds(entry.Duration),
		})
	}

	return summary, nil
}

// parseSavedFiles collects the marker lines yt-dlp printed after moving files
func parseSavedFiles(stdout string) []savedFile {
	var files []savedFile
	scanner := bufio.NewScanner(strings.NewReader(stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		payload, ok := strings.CutPrefix(line, savedMarker)
		if !ok {
			continue
		}
		var f savedFile
		if err := json.Unmarshal([]byte(payload), &f); err != nil || f.Filepath == "" {
			continue
		}
		files = append(files, f)
	}
	return files
}

// TruncateDescription keeps the first MaxDescriptionLength characters and
// appends an ellipsis only when something was cut
func TruncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxDescriptionLength {
		return s
	}
	return string(runes[:MaxDescriptionLength]) + DescriptionEllipsis
}

// errorMessage extracts yt-dlp's ERROR lines from stderr, falling back to the process error
func errorMessage(stderr string, err error) string {
	var lines []string
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "ERROR:") {
			lines = append(lines, line)
		}
	}
	if len(lines) > 0 {
		return strings.Join(lines, "\n")
	}
	if err != nil {
		return err.Error()
	}
	return "yt-dlp failed"
}
