package model

// DownloadResult is the outcome of a download operation.
// Failure is reported in-band with Success=false and a Message.
type DownloadResult struct {
	Success bool
	// Title names the downloaded item or collection on success
	Title      string
	Message    string
	OutputPath string
	// ItemCount is the total number of collection entries reported by yt-dlp
	ItemCount int
	// Saved is the number of collection entries actually written
	Saved      int
	Collection bool
}

// Failed builds an unsuccessful result carrying msg
func Failed(msg string) DownloadResult {
	return DownloadResult{Success: false, Message: msg}
}
