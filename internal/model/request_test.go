package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuality(t *testing.T) {
	tests := []struct {
		input     string
		best      bool
		maxHeight int
		wantErr   bool
	}{
		{"best", true, 0, false},
		{" BEST ", true, 0, false},
		{"1080p", false, 1080, false},
		{"720p", false, 720, false},
		{"360p", false, 360, false},
		{"144P", false, 144, false},
		{"0p", false, 0, true},
		{"720", false, 0, true},
		{"p", false, 0, true},
		{"hd", false, 0, true},
		{"", false, 0, true},
		{"-720p", false, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			q, err := ParseQuality(tt.input)
			if tt.wantErr {
				var ve *ValidationError
				require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
				assert.Equal(t, "quality", ve.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.best, q.IsBest())
			assert.Equal(t, tt.maxHeight, q.MaxHeight())
		})
	}
}

func TestQuality_String(t *testing.T) {
	assert.Equal(t, "best", BestQuality().String())
	assert.Equal(t, "480p", MaxHeightQuality(480).String())
	assert.True(t, Quality{}.IsBest())
}

func TestParseAudioFormat(t *testing.T) {
	for _, f := range []string{"mp3", "m4a", "wav", "opus", "MP3"} {
		got, err := ParseAudioFormat(f)
		require.NoError(t, err, f)
		assert.Contains(t, AudioFormats, got)
	}

	_, err := ParseAudioFormat("flac")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "audio_format", ve.Field)
	assert.Equal(t, "flac", ve.Value)
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://www.youtube.com/watch?v=abc", false},
		{"http with spaces", "  http://example.com/v  ", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"no scheme", "www.youtube.com/watch?v=abc", true},
		{"ftp", "ftp://example.com/file", true},
		{"no host", "https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateURL(tt.input)
			if tt.wantErr {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "url", ve.Field)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseDownloadRequest(t *testing.T) {
	t.Run("video ignores audio format", func(t *testing.T) {
		req, err := ParseDownloadRequest("https://example.com/v", "single", "video", "720p", "garbage")
		require.NoError(t, err)
		assert.Equal(t, MediaVideo, req.Media)
		assert.Equal(t, 720, req.Quality.MaxHeight())
		assert.Equal(t, AudioFormat(""), req.AudioFormat)
		assert.False(t, req.IsCollection())
	})

	t.Run("audio ignores quality", func(t *testing.T) {
		req, err := ParseDownloadRequest("https://example.com/v", "collection", "audio", "nonsense", "opus")
		require.NoError(t, err)
		assert.Equal(t, MediaAudio, req.Media)
		assert.Equal(t, AudioOpus, req.AudioFormat)
		assert.True(t, req.Quality.IsBest())
		assert.True(t, req.IsCollection())
	})

	t.Run("defaults", func(t *testing.T) {
		req, err := ParseDownloadRequest("https://example.com/v", "", "", "best", "")
		require.NoError(t, err)
		assert.Equal(t, ContentSingle, req.Content)
		assert.Equal(t, MediaVideo, req.Media)
	})

	t.Run("bad quality for video", func(t *testing.T) {
		_, err := ParseDownloadRequest("https://example.com/v", "single", "video", "ultra", "")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "quality", ve.Field)
	})

	t.Run("bad content", func(t *testing.T) {
		_, err := ParseDownloadRequest("https://example.com/v", "channel", "video", "best", "")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "content", ve.Field)
	})

	t.Run("bad media", func(t *testing.T) {
		_, err := ParseDownloadRequest("https://example.com/v", "single", "image", "best", "")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "media", ve.Field)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := ParseDownloadRequest("", "single", "video", "best", "")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "url", ve.Field)
		assert.Contains(t, ve.Error(), "invalid url")
	})
}
