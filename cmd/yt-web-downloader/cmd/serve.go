package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-web-downloader/internal/compress"
	"github.com/ytget/yt-web-downloader/internal/download"
	"github.com/ytget/yt-web-downloader/internal/platform"
	"github.com/ytget/yt-web-downloader/internal/ui"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web interface",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	checkTools(settings.YtDlpPath)

	if err := platform.CreateDirectoryIfNotExists(settings.OutputDir); err != nil {
		return err
	}

	parser := platform.NewPlaylistParser()
	parser.SetTimeout(settings.GetMetadataTimeout())

	retriever := download.NewService(download.Config{
		OutputDir:        settings.OutputDir,
		Executable:       settings.YtDlpPath,
		MetadataTimeout:  settings.GetMetadataTimeout(),
		ProgressInterval: settings.GetProgressInterval(),
		PlaylistLister:   parser,
	})
	archiver := compress.NewService(settings.OutputDir)

	loc := ui.NewLocalization()
	loc.SetLanguage(settings.Language)

	server, err := ui.NewServer(retriever, archiver, settings, loc)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              settings.ListenAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Listening on http://%s, saving to %s", settings.ListenAddr, settings.OutputDir)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// checkTools warns about missing external tools; the server still starts
func checkTools(ytDlp string) {
	if _, err := exec.LookPath(ytDlp); err != nil {
		log.Warnf("yt-dlp not found (%s): downloads will fail until it is installed", ytDlp)
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		log.Warn("ffmpeg not found: merging formats and audio extraction will fail")
	}
}
