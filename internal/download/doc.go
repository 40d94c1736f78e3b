package download

// Package download implements the retrieval facade built on top of yt-dlp
// (via github.com/lrstanley/go-ytdlp). It translates validated request values
// into yt-dlp options, runs the tool synchronously, normalizes its JSON output
// and error text, and forwards progress as advisory events.
