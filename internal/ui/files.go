package ui

import (
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"lukechampine.com/blake3"

	"github.com/ytget/yt-web-downloader/internal/platform"
)

// etagKey identifies one version of a file
type etagKey struct {
	path    string
	size    int64
	modTime time.Time
}

// etagCache remembers content hashes so large files are hashed once per version
type etagCache struct {
	mu      sync.Mutex
	entries map[etagKey]string
}

func newETagCache() *etagCache {
	return &etagCache{entries: make(map[etagKey]string)}
}

// get returns the quoted BLAKE3 ETag for the open file
func (c *etagCache) get(path string, f *os.File, info os.FileInfo) (string, error) {
	key := etagKey{path: path, size: info.Size(), modTime: info.ModTime()}

	c.mu.Lock()
	tag, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		return tag, nil
	}

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	tag = `"` + hex.EncodeToString(h.Sum(nil)) + `"`

	c.mu.Lock()
	for k := range c.entries {
		if k.path == path {
			delete(c.entries, k)
		}
	}
	c.entries[key] = tag
	c.mu.Unlock()

	return tag, nil
}

// fileURL returns the retrieval link for a path under outputDir, or "" if the
// path lies outside it
func fileURL(outputDir, path string) string {
	if path == "" || !platform.IsWithinDir(outputDir, path) {
		return ""
	}
	absDir, err := filepath.Abs(outputDir)
	if err != nil {
		return ""
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return ""
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return FilesPrefix + strings.Join(parts, "/")
}

// handleFile serves a downloaded file as an attachment
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	rel := r.PathValue("path")
	target := filepath.Join(s.outputDir, filepath.FromSlash(rel))
	logger := log.WithField("path", rel)

	if rel == "" || !platform.IsWithinDir(s.outputDir, target) {
		logger.Warn("Rejected file request outside the output directory")
		http.NotFound(w, r)
		return
	}

	// Symlinks could point outside the output directory
	info, err := os.Lstat(target)
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}
	if !s.resolvesWithin(target) {
		logger.Warn("Rejected file request through a symlinked directory")
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(target)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	tag, err := s.etags.get(target, f, info)
	if err != nil {
		logger.WithError(err).Error("Failed to hash file")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	name := filepath.Base(target)
	w.Header().Set("ETag", tag)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}

	logger.WithField("size", info.Size()).Debug("Serving file")
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// resolvesWithin checks containment again after every symlink on the
// path has been resolved
func (s *Server) resolvesWithin(target string) bool {
	realDir, err := filepath.EvalSymlinks(s.outputDir)
	if err != nil {
		return false
	}
	realTarget, err := filepath.EvalSymlinks(target)
	if err != nil {
		return false
	}
	return platform.IsWithinDir(realDir, realTarget)
}

func describeSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
