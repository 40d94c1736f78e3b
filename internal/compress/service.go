package compress

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/ytget/yt-web-downloader/internal/platform"
)

// Archive constants
const (
	ArchiveExtension = ".zip"
	TempFilePattern  = ".archive-*.zip.tmp"
)

// ErrFileSystem is returned when the source folder or the archive cannot be read or written
var ErrFileSystem = errors.New("filesystem error")

// Service builds zip archives inside a fixed output directory
type Service struct {
	outputDir string
}

// NewService creates a new archive service writing into outputDir
func NewService(outputDir string) *Service {
	return &Service{outputDir: outputDir}
}

// CreateArchive compresses every regular file under sourceFolder into
// <outputDir>/<archiveBaseName>.zip. Entry names are relative to the parent of
// sourceFolder, so the archive contains one top-level folder. Symlinks and
// special files are skipped. On failure no archive is left behind.
func (s *Service) CreateArchive(ctx context.Context, sourceFolder, archiveBaseName string) (string, error) {
	info, err := os.Stat(sourceFolder)
	if err != nil {
		return "", fmt.Errorf("%w: source folder %s: %w", ErrFileSystem, sourceFolder, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: source %s is not a directory", ErrFileSystem, sourceFolder)
	}

	if err := platform.CreateDirectoryIfNotExists(s.outputDir); err != nil {
		return "", fmt.Errorf("%w: create output directory %s: %w", ErrFileSystem, s.outputDir, err)
	}

	archivePath := filepath.Join(s.outputDir, platform.SanitizeFilename(archiveBaseName)+ArchiveExtension)

	tmp, err := os.CreateTemp(s.outputDir, TempFilePattern)
	if err != nil {
		return "", fmt.Errorf("%w: create temp archive: %w", ErrFileSystem, err)
	}
	tmpPath := tmp.Name()

	logger := log.WithFields(log.Fields{"source": sourceFolder, "archive": archivePath})
	logger.Info("Creating archive")

	entries, err := writeArchive(ctx, tmp, sourceFolder)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("%w: close temp archive: %w", ErrFileSystem, closeErr)
	}
	if err != nil {
		os.Remove(tmpPath)
		logger.WithError(err).Warn("Archive creation failed")
		return "", err
	}

	if err := os.Rename(tmpPath, archivePath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: move archive into place: %w", ErrFileSystem, err)
	}

	var size int64
	if st, err := os.Stat(archivePath); err == nil {
		size = st.Size()
	}
	logger.WithFields(log.Fields{"entries": entries, "bytes": size}).Info("Archive created")

	return archivePath, nil
}

// writeArchive streams the folder into w and returns the number of entries written
func writeArchive(ctx context.Context, w io.Writer, sourceFolder string) (int, error) {
	zw := zip.NewWriter(w)
	root := filepath.Dir(filepath.Clean(sourceFolder))
	entries := 0

	walkErr := filepath.WalkDir(sourceFolder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: walk %s: %w", ErrFileSystem, path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("%w: relative path for %s: %w", ErrFileSystem, path, err)
		}

		if err := addFile(zw, path, filepath.ToSlash(rel)); err != nil {
			return err
		}
		entries++
		return nil
	})
	if walkErr != nil {
		zw.Close()
		return 0, walkErr
	}

	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("%w: finalize archive: %w", ErrFileSystem, err)
	}
	return entries, nil
}

func addFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrFileSystem, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrFileSystem, path, err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("%w: header for %s: %w", ErrFileSystem, path, err)
	}
	header.Name = name
	header.Method = zip.Deflate

	dst, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("%w: add %s: %w", ErrFileSystem, name, err)
	}
	if _, err := io.Copy(dst, f); err != nil {
		return fmt.Errorf("%w: copy %s: %w", ErrFileSystem, path, err)
	}
	return nil
}
