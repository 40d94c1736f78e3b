package ui

import "time"

// Routes
const (
	RouteIndex    = "GET /{$}"
	RoutePreview  = "POST /preview"
	RouteDownload = "POST /download"
	RouteProgress = "GET /progress/{job}"
	RouteFiles    = "GET /files/{path...}"
	RouteHealth   = "GET /healthz"

	FilesPrefix    = "/files/"
	ProgressPrefix = "/progress/"
)

// Form field names
const (
	FieldURL         = "url"
	FieldContent     = "content"
	FieldMedia       = "media"
	FieldQuality     = "quality"
	FieldAudioFormat = "audio_format"
	FieldJob         = "job"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
)

// Progress tracking
const (
	ProgressBufferSize  = 16
	ProgressGracePeriod = 2 * time.Minute
)

// Request limits
const (
	MaxFormBytes = 64 << 10
)

// Content types
const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain; charset=utf-8"
)
