package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
)

// Default values
const (
	DefaultConfigFile       = "config.toml"
	DefaultOutputDir        = "downloads"
	DefaultListenAddr       = ":8080"
	DefaultYtDlpPath        = "yt-dlp"
	DefaultMetadataTimeout  = 60 * time.Second
	DefaultProgressInterval = 500 * time.Millisecond
	DefaultLanguage         = "system"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

// Bounds applied by the setters
const (
	MinMetadataTimeout  = 5 * time.Second
	MaxMetadataTimeout  = 10 * time.Minute
	MinProgressInterval = 100 * time.Millisecond
	MaxProgressInterval = 10 * time.Second
)

// Settings holds the application configuration.
// Durations are stored as integers so they stay plain in TOML and env vars.
type Settings struct {
	OutputDir              string `toml:"output_dir"`
	ListenAddr             string `toml:"listen"`
	YtDlpPath              string `toml:"yt_dlp"`
	MetadataTimeoutSeconds int    `toml:"metadata_timeout_seconds"`
	ProgressIntervalMillis int    `toml:"progress_interval_ms"`
	Language               string `toml:"language"`
	LogLevel               string `toml:"log_level"`
	LogFormat              string `toml:"log_format"`
}

// NewSettings returns settings populated with defaults
func NewSettings() *Settings {
	return &Settings{
		OutputDir:              DefaultOutputDir,
		ListenAddr:             DefaultListenAddr,
		YtDlpPath:              DefaultYtDlpPath,
		MetadataTimeoutSeconds: int(DefaultMetadataTimeout / time.Second),
		ProgressIntervalMillis: int(DefaultProgressInterval / time.Millisecond),
		Language:               DefaultLanguage,
		LogLevel:               DefaultLogLevel,
		LogFormat:              DefaultLogFormat,
	}
}

// Load reads the TOML file at path on top of the defaults.
// A missing file is not an error: defaults are returned and a warning is logged.
func Load(path string) (*Settings, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	s := NewSettings()
	if _, err := toml.DecodeFile(path, s); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warnf("Config file %s not found, using defaults", path)
			s.Normalize()
			return s, nil
		}
		return nil, fmt.Errorf("error loading config file %s: %w", path, err)
	}

	s.Normalize()
	log.Debugf("Configuration loaded from %s", path)
	return s, nil
}

// Normalize fills empty values with defaults and clamps numeric ranges
func (s *Settings) Normalize() {
	if strings.TrimSpace(s.OutputDir) == "" {
		s.OutputDir = DefaultOutputDir
	}
	if strings.TrimSpace(s.ListenAddr) == "" {
		s.ListenAddr = DefaultListenAddr
	}
	if strings.TrimSpace(s.YtDlpPath) == "" {
		s.YtDlpPath = DefaultYtDlpPath
	}
	if s.MetadataTimeoutSeconds <= 0 {
		s.MetadataTimeoutSeconds = int(DefaultMetadataTimeout / time.Second)
	}
	s.SetMetadataTimeout(s.GetMetadataTimeout())
	if s.ProgressIntervalMillis <= 0 {
		s.ProgressIntervalMillis = int(DefaultProgressInterval / time.Millisecond)
	}
	s.SetProgressInterval(s.GetProgressInterval())
	if _, ok := s.GetLanguageOptions()[s.Language]; !ok {
		s.Language = DefaultLanguage
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		s.LogLevel = DefaultLogLevel
	}
	if s.LogFormat != "text" && s.LogFormat != "json" {
		s.LogFormat = DefaultLogFormat
	}
}

// GetMetadataTimeout returns the preview lookup timeout
func (s *Settings) GetMetadataTimeout() time.Duration {
	return time.Duration(s.MetadataTimeoutSeconds) * time.Second
}

// SetMetadataTimeout sets the preview lookup timeout, clamped to its bounds
func (s *Settings) SetMetadataTimeout(d time.Duration) {
	if d < MinMetadataTimeout {
		d = MinMetadataTimeout
	}
	if d > MaxMetadataTimeout {
		d = MaxMetadataTimeout
	}
	s.MetadataTimeoutSeconds = int(d / time.Second)
}

// GetProgressInterval returns how often yt-dlp progress is sampled
func (s *Settings) GetProgressInterval() time.Duration {
	return time.Duration(s.ProgressIntervalMillis) * time.Millisecond
}

// SetProgressInterval sets the progress sampling interval, clamped to its bounds
func (s *Settings) SetProgressInterval(d time.Duration) {
	if d < MinProgressInterval {
		d = MinProgressInterval
	}
	if d > MaxProgressInterval {
		d = MaxProgressInterval
	}
	s.ProgressIntervalMillis = int(d / time.Millisecond)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}
