package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// File length thresholds
const (
	MinFileNameLength    = 10
	MediumFileNameLength = 15
	LongFileNameLength   = 20
	MaxNameDifference    = 10
	MaxSanitizedLength   = 200
)

// Scoring system constants
const (
	ScoreForLongName    = 3
	ScoreForMediumName  = 2
	ScoreForShortName   = 1
	ScoreForSpaces      = 2
	ScoreForUnderscores = 1
	ScoreForHyphens     = 1
	ScoreForMediaWords  = 2
)

// DefaultSanitizedName is used when nothing survives sanitizing
const DefaultSanitizedName = "untitled"

// Media-related words for file detection
var (
	MediaRelatedWords = []string{"video", "music", "song", "track", "mix", "playlist", "album", "live", "official", "audio"}
)

// File extensions to skip
var (
	SkippedExtensions = []string{".part", ".ytdl", ".tmp"}
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// SanitizeFilename turns an arbitrary title into a single safe path element.
// Path separators, control characters and characters reserved on Windows are
// replaced with '_', surrounding dots and spaces are trimmed.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\':
			b.WriteRune('_')
		case strings.ContainsRune(`<>:"|?*`, r):
			b.WriteRune('_')
		case unicode.IsControl(r):
			continue
		default:
			b.WriteRune(r)
		}
	}

	result := strings.Trim(b.String(), " .")
	if len([]rune(result)) > MaxSanitizedLength {
		result = strings.TrimRight(string([]rune(result)[:MaxSanitizedLength]), " .")
	}
	if result == "" {
		return DefaultSanitizedName
	}
	return result
}

// IsWithinDir reports whether path resolves to a location inside dir
func IsWithinDir(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	if rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// FindFileWithFallback tries to find a file by its original path, and if not found,
// searches for files with similar names in the same directory. yt-dlp rewrites
// some characters of the title when it builds the filename, so the path computed
// from a title does not always exist verbatim.
func FindFileWithFallback(filePath string) (string, error) {
	return findFile(filePath, true)
}

// FindSimilarFile is FindFileWithFallback restricted to names similar to the
// requested one. Unrelated files in the directory are never returned.
func FindSimilarFile(filePath string) (string, error) {
	return findFile(filePath, false)
}

func findFile(filePath string, allowUnrelated bool) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path is empty")
	}

	if strings.HasPrefix(filePath, "http://") || strings.HasPrefix(filePath, "https://") {
		return "", fmt.Errorf("file path appears to be a URL: %s", filePath)
	}

	if _, err := os.Stat(filePath); err == nil {
		return filePath, nil
	}

	dir := filepath.Dir(filePath)
	originalName := filepath.Base(filePath)
	originalExt := filepath.Ext(originalName)
	baseName := normalizeName(strings.TrimSuffix(originalName, originalExt))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var candidates []string
	var fallbackCandidates []string

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		entryName := entry.Name()
		entryExt := filepath.Ext(entryName)
		if !strings.EqualFold(entryExt, originalExt) || isSkippedFile(entryName) {
			continue
		}

		entryBase := normalizeName(strings.TrimSuffix(entryName, entryExt))
		if isSimilarFileName(entryBase, baseName) {
			candidates = append(candidates, filepath.Join(dir, entryName))
			continue
		}

		if allowUnrelated && isLikelyDownloadedFile(entryName) {
			fallbackCandidates = append(fallbackCandidates, filepath.Join(dir, entryName))
		}
	}

	if len(candidates) > 0 {
		sort.Strings(candidates)
		return candidates[0], nil
	}

	if len(fallbackCandidates) > 0 {
		// Most recent first, descriptive score breaks ties
		sort.Slice(fallbackCandidates, func(i, j int) bool {
			infoI, errI := os.Stat(fallbackCandidates[i])
			infoJ, errJ := os.Stat(fallbackCandidates[j])
			if errI == nil && errJ == nil && !infoI.ModTime().Equal(infoJ.ModTime()) {
				return infoI.ModTime().After(infoJ.ModTime())
			}
			return getDescriptiveScore(filepath.Base(fallbackCandidates[i])) >
				getDescriptiveScore(filepath.Base(fallbackCandidates[j]))
		})
		return fallbackCandidates[0], nil
	}

	return "", fmt.Errorf("file not found: %s", filePath)
}

// normalizeName maps characters yt-dlp commonly substitutes to a canonical form
func normalizeName(name string) string {
	replacer := strings.NewReplacer(
		"｜", "|", "⧸", "/", "＂", `"`, "？", "?", "：", ":", "＊", "*", "＜", "<", "＞", ">",
	)
	name = replacer.Replace(name)
	return strings.ToLower(strings.TrimSpace(SanitizeFilename(name)))
}

// isSimilarFileName checks if two normalized names are similar enough to be the same file
func isSimilarFileName(name1, name2 string) bool {
	if name1 == name2 {
		return true
	}

	for _, sep := range []string{"-", "_", " "} {
		if name1 == sep+name2 || name1 == name2+sep || name2 == sep+name1 || name2 == name1+sep {
			return true
		}
	}

	// Truncated names
	if strings.Contains(name1, name2) || strings.Contains(name2, name1) {
		diff := len(name1) - len(name2)
		if diff < 0 {
			diff = -diff
		}
		return diff <= MaxNameDifference
	}

	return false
}

func isSkippedFile(filename string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

// isLikelyDownloadedFile checks if a filename looks like it could be a downloaded file
func isLikelyDownloadedFile(filename string) bool {
	if isSkippedFile(filename) || len(filename) < MinFileNameLength {
		return false
	}

	if strings.ContainsAny(filename, " _-") {
		return true
	}

	lower := strings.ToLower(filename)
	for _, word := range MediaRelatedWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// getDescriptiveScore calculates a score indicating how descriptive a filename is
func getDescriptiveScore(filename string) int {
	score := 0

	if len(filename) > LongFileNameLength {
		score += ScoreForLongName
	} else if len(filename) > MediumFileNameLength {
		score += ScoreForMediumName
	} else if len(filename) > MinFileNameLength {
		score += ScoreForShortName
	}

	if strings.Contains(filename, " ") {
		score += ScoreForSpaces
	}
	if strings.Contains(filename, "_") {
		score += ScoreForUnderscores
	}
	if strings.Contains(filename, "-") {
		score += ScoreForHyphens
	}

	lower := strings.ToLower(filename)
	for _, word := range MediaRelatedWords {
		if strings.Contains(lower, word) {
			score += ScoreForMediaWords
			break
		}
	}

	return score
}
