package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir", "nested")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	err := CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	err = CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"My Playlist", "My Playlist"},
		{"AC/DC Live", "AC_DC Live"},
		{`a\b`, "a_b"},
		{"../../etc/passwd", "_.._etc_passwd"},
		{"What? Now: <yes>", "What_ Now_ _yes_"},
		{"  .hidden.  ", "hidden"},
		{"line\nbreak", "linebreak"},
		{"", DefaultSanitizedName},
		{"..", DefaultSanitizedName},
		{"Русский плейлист", "Русский плейлист"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := SanitizeFilename(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
			if strings.ContainsAny(result, `/\`) {
				t.Errorf("sanitized name %q still contains a separator", result)
			}
		})
	}
}

func TestSanitizeFilename_Long(t *testing.T) {
	result := SanitizeFilename(strings.Repeat("я", MaxSanitizedLength+50))
	if n := len([]rune(result)); n != MaxSanitizedLength {
		t.Errorf("expected %d runes, got %d", MaxSanitizedLength, n)
	}
}

func TestIsWithinDir(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"direct child", filepath.Join(base, "a.mp4"), true},
		{"nested child", filepath.Join(base, "list", "01 - a.mp4"), true},
		{"base itself", base, false},
		{"parent", filepath.Dir(base), false},
		{"traversal", filepath.Join(base, "..", "secret"), false},
		{"sibling with common prefix", base + "-other/file", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWithinDir(base, tt.path); got != tt.expected {
				t.Errorf("IsWithinDir(%q, %q) = %v, expected %v", base, tt.path, got, tt.expected)
			}
		})
	}
}

func TestFindFileWithFallback_ExistingFile(t *testing.T) {
	tempFile, err := os.CreateTemp(t.TempDir(), "test_file_*.txt")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tempFile.Close()

	foundPath, err := FindFileWithFallback(tempFile.Name())
	if err != nil {
		t.Fatalf("Failed to find existing file: %v", err)
	}

	if foundPath != tempFile.Name() {
		t.Errorf("Expected path %s, got %s", tempFile.Name(), foundPath)
	}
}

func TestFindFileWithFallback_SimilarFileName(t *testing.T) {
	tempDir := t.TempDir()

	originalPath := filepath.Join(tempDir, "test_video.mp4")
	similarPath := filepath.Join(tempDir, "-test_video.mp4")

	if err := os.WriteFile(similarPath, nil, 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	foundPath, err := FindFileWithFallback(originalPath)
	if err != nil {
		t.Fatalf("Failed to find similar file: %v", err)
	}

	if foundPath != similarPath {
		t.Errorf("Expected path %s, got %s", similarPath, foundPath)
	}
}

func TestFindFileWithFallback_SubstitutedCharacters(t *testing.T) {
	tempDir := t.TempDir()

	// yt-dlp writes full-width lookalikes for reserved characters
	actualPath := filepath.Join(tempDir, "Band ｜ Song.mp3")
	if err := os.WriteFile(actualPath, []byte("audio"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	// unrelated file with another extension must be ignored
	if err := os.WriteFile(filepath.Join(tempDir, "Band ｜ Song.webm.part"), nil, 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	foundPath, err := FindFileWithFallback(filepath.Join(tempDir, "Band | Song.mp3"))
	if err != nil {
		t.Fatalf("Failed to find file: %v", err)
	}
	if foundPath != actualPath {
		t.Errorf("Expected path %s, got %s", actualPath, foundPath)
	}
}

func TestFindFileWithFallback_PrefersRecentDescriptiveFile(t *testing.T) {
	tempDir := t.TempDir()

	older := filepath.Join(tempDir, "older download track.mp3")
	newer := filepath.Join(tempDir, "newer download track.mp3")
	for _, p := range []string{older, newer} {
		if err := os.WriteFile(p, nil, 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}

	foundPath, err := FindFileWithFallback(filepath.Join(tempDir, "completely different.mp3"))
	if err != nil {
		t.Fatalf("Expected a fallback candidate, got %v", err)
	}
	if foundPath != newer {
		t.Errorf("Expected %s, got %s", newer, foundPath)
	}
}

func TestFindFileWithFallback_NoSimilarFile(t *testing.T) {
	tempDir := t.TempDir()

	// too short and no descriptive elements
	differentPath := filepath.Join(tempDir, "a.mp4")
	if err := os.WriteFile(differentPath, nil, 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	originalPath := filepath.Join(tempDir, "test_video.mp4")
	_, err := FindFileWithFallback(originalPath)
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}

	expectedError := "file not found: " + originalPath
	if err.Error() != expectedError {
		t.Errorf("Expected error message %s, got %v", expectedError, err)
	}
}

func TestFindFileWithFallback_InvalidInput(t *testing.T) {
	if _, err := FindFileWithFallback(""); err == nil {
		t.Error("Expected error for empty path")
	}
	if _, err := FindFileWithFallback("https://example.com/v.mp4"); err == nil {
		t.Error("Expected error for URL")
	}
}

func TestFindSimilarFile_IgnoresUnrelatedFiles(t *testing.T) {
	tempDir := t.TempDir()

	unrelated := filepath.Join(tempDir, "Someone else private_recording.mp3")
	if err := os.WriteFile(unrelated, []byte("audio"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	requested := filepath.Join(tempDir, "New Song.mp3")
	if _, err := FindSimilarFile(requested); err == nil {
		t.Fatal("Expected error when only unrelated files exist")
	}

	// the permissive lookup would have picked it
	if found, err := FindFileWithFallback(requested); err != nil || found != unrelated {
		t.Errorf("Expected fallback to return %s, got %s (%v)", unrelated, found, err)
	}
}

func TestFindSimilarFile_SubstitutedCharacters(t *testing.T) {
	tempDir := t.TempDir()

	actualPath := filepath.Join(tempDir, "Band ｜ Song.mp3")
	if err := os.WriteFile(actualPath, []byte("audio"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	foundPath, err := FindSimilarFile(filepath.Join(tempDir, "Band | Song.mp3"))
	if err != nil {
		t.Fatalf("Failed to find file: %v", err)
	}
	if foundPath != actualPath {
		t.Errorf("Expected path %s, got %s", actualPath, foundPath)
	}
}

func TestIsSimilarFileName(t *testing.T) {
	tests := []struct {
		name1, name2 string
		expected     bool
	}{
		{"test", "test", true},
		{"test", "-test", true},
		{"test", "test-", true},
		{"test", "_test", true},
		{"test", "test_", true},
		{"test", " test", true},
		{"test", "test ", true},
		{"test", "other", false},
		{"test_video", "test_video_long", true},
		{"test_video_long", "test_video", true},
		{"test_video_very_long_name", "test_video", false}, // too different
	}

	for _, tt := range tests {
		t.Run(tt.name1+"_"+tt.name2, func(t *testing.T) {
			result := isSimilarFileName(tt.name1, tt.name2)
			if result != tt.expected {
				t.Errorf("isSimilarFileName(%q, %q) = %v, expected %v",
					tt.name1, tt.name2, result, tt.expected)
			}
		})
	}
}

func TestGetDescriptiveScore(t *testing.T) {
	tests := []struct {
		filename string
		expected int
	}{
		{"short.mp4", 0},                      // short name (len=9 < 10)
		{"medium_name.mp4", 2},                // medium name with underscore
		{"long descriptive name.mp4", 5},      // long name with spaces
		{"Band_-_Song_Official_Video.mp4", 7}, // contains media word
		{"a.mp4", 0},                          // very short name
		{"music_mix.mp4", 4},                  // contains music word
		{"artist-song.mp4", 4},                // contains hyphens
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			result := getDescriptiveScore(tt.filename)
			if result != tt.expected {
				t.Errorf("getDescriptiveScore(%q) = %d, expected %d",
					tt.filename, result, tt.expected)
			}
		})
	}
}
