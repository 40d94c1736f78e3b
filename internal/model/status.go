package model

// Phase represents the stage a download is in when a progress event is emitted
type Phase string

const (
	// PhaseStarting means yt-dlp was launched but no bytes arrived yet
	PhaseStarting Phase = "starting"

	// PhaseDownloading means media bytes are being transferred
	PhaseDownloading Phase = "downloading"

	// PhasePostProcessing means remuxing or audio extraction is running
	PhasePostProcessing Phase = "post_processing"

	// PhaseFinished means the item was written to its final location
	PhaseFinished Phase = "finished"

	// PhaseError means the item failed
	PhaseError Phase = "error"
)

// String returns the string representation of Phase
func (p Phase) String() string {
	return string(p)
}

// IsActive returns true if work is still in progress
func (p Phase) IsActive() bool {
	return p == PhaseStarting || p == PhaseDownloading || p == PhasePostProcessing
}

// IsFinished returns true if the phase is terminal (finished or error)
func (p Phase) IsFinished() bool {
	return p == PhaseFinished || p == PhaseError
}

// ProgressEvent is an advisory notification about an in-flight download.
// BytesTotal is zero when the size is unknown.
type ProgressEvent struct {
	Phase      Phase  `json:"phase"`
	BytesDone  int64  `json:"bytes_done"`
	BytesTotal int64  `json:"bytes_total"`
	Title      string `json:"title,omitempty"`
	Filename   string `json:"filename,omitempty"`
}

// Percent returns transfer progress in the range 0..100, or -1 if unknown
func (e ProgressEvent) Percent() int {
	if e.Phase == PhaseFinished {
		return 100
	}
	if e.BytesTotal <= 0 {
		return -1
	}
	percent := int(e.BytesDone * 100 / e.BytesTotal)
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	return percent
}
