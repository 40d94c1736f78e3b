package model

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// ContentKind tells whether a URL is treated as one item or as a collection
type ContentKind string

const (
	ContentSingle     ContentKind = "single"
	ContentCollection ContentKind = "collection"
)

// MediaKind selects between merged video and extracted audio
type MediaKind string

const (
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

// AudioFormat is the target container/codec for audio extraction
type AudioFormat string

const (
	AudioMP3  AudioFormat = "mp3"
	AudioM4A  AudioFormat = "m4a"
	AudioWAV  AudioFormat = "wav"
	AudioOpus AudioFormat = "opus"
)

// AudioFormats lists the supported audio formats in display order
var AudioFormats = []AudioFormat{AudioMP3, AudioM4A, AudioWAV, AudioOpus}

// QualityChoices lists the video quality options offered by the form
var QualityChoices = []string{"best", "1080p", "720p", "480p", "360p"}

var qualityPattern = regexp.MustCompile(`^([0-9]+)p$`)

// Quality is either "best" or a maximum vertical resolution.
// The zero value means best.
type Quality struct {
	maxHeight int
}

// BestQuality returns the unconstrained quality value
func BestQuality() Quality {
	return Quality{}
}

// MaxHeightQuality returns a quality capped at the given height
func MaxHeightQuality(height int) Quality {
	return Quality{maxHeight: height}
}

// IsBest reports whether no height limit applies
func (q Quality) IsBest() bool {
	return q.maxHeight <= 0
}

// MaxHeight returns the height limit, or 0 for best
func (q Quality) MaxHeight() int {
	if q.IsBest() {
		return 0
	}
	return q.maxHeight
}

// String returns the form representation ("best" or "<N>p")
func (q Quality) String() string {
	if q.IsBest() {
		return "best"
	}
	return strconv.Itoa(q.maxHeight) + "p"
}

// ValidationError reports a malformed request field
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// ParseQuality parses "best" or "<digits>p" into a Quality
func ParseQuality(s string) (Quality, error) {
	value := strings.ToLower(strings.TrimSpace(s))
	if value == "best" {
		return BestQuality(), nil
	}

	m := qualityPattern.FindStringSubmatch(value)
	if m == nil {
		return Quality{}, &ValidationError{Field: "quality", Value: s, Reason: `expected "best" or "<height>p"`}
	}

	height, err := strconv.Atoi(m[1])
	if err != nil || height <= 0 {
		return Quality{}, &ValidationError{Field: "quality", Value: s, Reason: "height must be a positive number"}
	}

	return MaxHeightQuality(height), nil
}

// ParseAudioFormat parses one of the supported audio formats
func ParseAudioFormat(s string) (AudioFormat, error) {
	value := AudioFormat(strings.ToLower(strings.TrimSpace(s)))
	for _, f := range AudioFormats {
		if f == value {
			return f, nil
		}
	}
	return "", &ValidationError{Field: "audio_format", Value: s, Reason: "unsupported audio format"}
}

// DownloadRequest is a validated user submission.
// Quality is only meaningful for video, AudioFormat only for audio.
type DownloadRequest struct {
	URL         string
	Content     ContentKind
	Media       MediaKind
	Quality     Quality
	AudioFormat AudioFormat
}

// IsCollection reports whether the request targets a collection
func (r DownloadRequest) IsCollection() bool {
	return r.Content == ContentCollection
}

// ValidateURL checks that raw is a non-empty absolute http(s) URL
func ValidateURL(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", &ValidationError{Field: "url", Value: raw, Reason: "must not be empty"}
	}

	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", &ValidationError{Field: "url", Value: raw, Reason: "must be an http or https URL"}
	}

	return value, nil
}

// ParseDownloadRequest builds a DownloadRequest from raw form values
func ParseDownloadRequest(rawURL, content, media, quality, audioFormat string) (DownloadRequest, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		return DownloadRequest{}, err
	}

	req := DownloadRequest{URL: u}

	switch ContentKind(strings.TrimSpace(content)) {
	case ContentSingle, "":
		req.Content = ContentSingle
	case ContentCollection:
		req.Content = ContentCollection
	default:
		return DownloadRequest{}, &ValidationError{Field: "content", Value: content, Reason: "expected single or collection"}
	}

	switch MediaKind(strings.TrimSpace(media)) {
	case MediaVideo, "":
		req.Media = MediaVideo
		q, err := ParseQuality(quality)
		if err != nil {
			return DownloadRequest{}, err
		}
		req.Quality = q
	case MediaAudio:
		req.Media = MediaAudio
		f, err := ParseAudioFormat(audioFormat)
		if err != nil {
			return DownloadRequest{}, err
		}
		req.AudioFormat = f
	default:
		return DownloadRequest{}, &ValidationError{Field: "media", Value: media, Reason: "expected video or audio"}
	}

	return req, nil
}
