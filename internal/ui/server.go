package ui

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ytget/yt-web-downloader/internal/compress"
	"github.com/ytget/yt-web-downloader/internal/config"
	"github.com/ytget/yt-web-downloader/internal/download"
	"github.com/ytget/yt-web-downloader/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// formValues echoes the submitted form back into the page
type formValues struct {
	URL         string
	Content     string
	Media       string
	Quality     string
	AudioFormat string
}

// resultView is the rendered outcome of a download submission
type resultView struct {
	Success    bool
	Collection bool
	Title      string
	Message    string
	Notice     string
	Link       string
	FileName   string
	FileSize   string
	Saved      int
	ItemCount  int
}

// pageData is the data passed to the index template
type pageData struct {
	Lang           string
	JobID          string
	Form           formValues
	QualityChoices []string
	AudioFormats   []model.AudioFormat
	Item           *model.ItemMetadata
	Collection     *model.CollectionSummary
	Result         *resultView
	Error          string
}

// Server is the HTTP form surface over the retrieval facade and the archive builder
type Server struct {
	retriever download.Retriever
	archiver  compress.Archiver
	settings  *config.Settings
	loc       *Localization
	outputDir string
	progress  *progressTracker
	etags     *etagCache
	tmpl      *template.Template
}

// NewServer creates the web server
func NewServer(retriever download.Retriever, archiver compress.Archiver, settings *config.Settings, loc *Localization) (*Server, error) {
	if loc == nil {
		loc = NewLocalization()
		loc.SetLanguage(settings.Language)
	}

	s := &Server{
		retriever: retriever,
		archiver:  archiver,
		settings:  settings,
		loc:       loc,
		outputDir: settings.OutputDir,
		progress:  newProgressTracker(ProgressGracePeriod),
		etags:     newETagCache(),
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"t":     s.loc.GetText,
		"tf":    s.loc.Sprintf,
		"count": s.loc.FormatCount,
		"dash": func(v string) string {
			if v == "" {
				return DashPlaceholder
			}
			return v
		},
		"sep": func() string { return MiddleDotSeparator },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	s.tmpl = tmpl

	return s, nil
}

// Handler returns the HTTP handler with all routes registered
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(RouteIndex, s.handleIndex)
	mux.HandleFunc(RoutePreview, s.handlePreview)
	mux.HandleFunc(RouteDownload, s.handleDownload)
	mux.HandleFunc(RouteProgress, s.handleProgress)
	mux.HandleFunc(RouteFiles, s.handleFile)
	mux.HandleFunc(RouteHealth, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", ContentTypeText)
		w.Write([]byte("ok"))
	})
	return logRequests(mux)
}

func (s *Server) newPage(form formValues) *pageData {
	if form.Content == "" {
		form.Content = string(model.ContentSingle)
	}
	if form.Media == "" {
		form.Media = string(model.MediaVideo)
	}
	if form.Quality == "" {
		form.Quality = model.QualityChoices[0]
	}
	if form.AudioFormat == "" {
		form.AudioFormat = string(model.AudioMP3)
	}
	return &pageData{
		Lang:           s.loc.GetCurrentLanguage(),
		JobID:          newJobID(),
		Form:           form,
		QualityChoices: model.QualityChoices,
		AudioFormats:   model.AudioFormats,
	}
}

func (s *Server) render(w http.ResponseWriter, status int, page *pageData) {
	w.Header().Set("Content-Type", ContentTypeHTML)
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, "index.html", page); err != nil {
		log.WithError(err).Error("Failed to render page")
	}
}

func readForm(r *http.Request) formValues {
	return formValues{
		URL:         r.PostFormValue(FieldURL),
		Content:     r.PostFormValue(FieldContent),
		Media:       r.PostFormValue(FieldMedia),
		Quality:     r.PostFormValue(FieldQuality),
		AudioFormat: r.PostFormValue(FieldAudioFormat),
	}
}

// validationMessage maps a validation error onto a localized message
func (s *Server) validationMessage(err error) string {
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	if ve.Field == FieldURL {
		if ve.Value == "" {
			return s.loc.GetText(KeyPleaseEnterURL)
		}
		return s.loc.GetText(KeyInvalidURL)
	}
	return s.loc.GetText(KeyInvalidOption) + ": " + ve.Field + " " + ve.Value
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, s.newPage(formValues{}))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	form := readForm(r)
	page := s.newPage(form)

	url, err := model.ValidateURL(form.URL)
	if err != nil {
		page.Error = s.validationMessage(err)
		s.render(w, http.StatusBadRequest, page)
		return
	}

	if model.ContentKind(form.Content) == model.ContentCollection {
		page.Collection, err = s.retriever.FetchCollectionInfo(r.Context(), url)
	} else {
		page.Item, err = s.retriever.FetchItemInfo(r.Context(), url)
	}
	if err != nil {
		page.Error = s.loc.GetText(KeyNotFound)
		status := http.StatusOK
		if !errors.Is(err, download.ErrNotFound) {
			status = http.StatusInternalServerError
		}
		s.render(w, status, page)
		return
	}

	s.render(w, http.StatusOK, page)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	form := readForm(r)
	page := s.newPage(form)

	req, err := model.ParseDownloadRequest(form.URL, form.Content, form.Media, form.Quality, form.AudioFormat)
	if err != nil {
		page.Error = s.validationMessage(err)
		s.render(w, http.StatusBadRequest, page)
		return
	}

	jobID := r.PostFormValue(FieldJob)
	if !validJobID(jobID) {
		jobID = newJobID()
	}
	progress, stop, ok := s.progress.Start(jobID)
	if !ok {
		// a resubmitted form must not take over a running job
		log.WithField("job", jobID).Warn("Job id already in use, issuing a new one")
		jobID = newJobID()
		progress, stop, _ = s.progress.Start(jobID)
	}
	result := s.runDownload(r.Context(), req, progress)
	stop()

	page.Result = s.buildResult(r.Context(), req, result)
	s.render(w, http.StatusOK, page)
}

// runDownload dispatches the request to the matching facade operation
func (s *Server) runDownload(ctx context.Context, req model.DownloadRequest, progress chan<- model.ProgressEvent) model.DownloadResult {
	logger := log.WithFields(log.Fields{"url": req.URL, "content": string(req.Content), "media": string(req.Media)})
	logger.Info("Download requested")

	switch {
	case req.IsCollection():
		return s.retriever.DownloadCollection(ctx, req.URL, req.Media, req.Quality, req.AudioFormat, progress)
	case req.Media == model.MediaAudio:
		return s.retriever.DownloadAudioOnly(ctx, req.URL, req.AudioFormat, progress)
	default:
		return s.retriever.DownloadItem(ctx, req.URL, req.Quality, progress)
	}
}

// buildResult turns a facade result into a view, packaging collections into a zip
func (s *Server) buildResult(ctx context.Context, req model.DownloadRequest, result model.DownloadResult) *resultView {
	view := &resultView{
		Success:    result.Success,
		Collection: result.Collection,
		Title:      result.Title,
		Message:    result.Message,
		Saved:      result.Saved,
		ItemCount:  result.ItemCount,
	}
	if !result.Success {
		return view
	}

	path := result.OutputPath
	if req.IsCollection() {
		if result.Message != "" {
			view.Notice = s.loc.GetText(KeySkippedItems)
		}
		archivePath, err := s.archiver.CreateArchive(ctx, result.OutputPath, filepath.Base(result.OutputPath))
		if err != nil {
			log.WithError(err).WithField("folder", result.OutputPath).Error("Failed to package collection")
			view.Notice = s.loc.GetText(KeyArchiveFailed)
			return view
		}
		path = archivePath
	}

	view.Link = fileURL(s.outputDir, path)
	if view.Link == "" {
		view.Notice = s.loc.GetText(KeyFileMissing)
		return view
	}

	view.FileName = filepath.Base(path)
	if info, err := os.Stat(path); err == nil {
		view.FileSize = describeSize(info.Size())
	}
	return view
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	job, ok := s.progress.Get(r.PathValue("job"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", ContentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(job); err != nil {
		log.WithError(err).Debug("Failed to write progress")
	}
}

// statusRecorder captures the response status for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).Round(time.Millisecond),
		}).Debug("HTTP request")
	})
}
