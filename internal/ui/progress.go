package ui

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/yt-web-downloader/internal/model"
)

// jobProgress is the latest known state of one download job
type jobProgress struct {
	Event model.ProgressEvent `json:"event"`
	// Percent is -1 while the size is unknown
	Percent int  `json:"percent"`
	Done    bool `json:"done"`
}

// progressTracker keeps the last progress event per job for polling clients
type progressTracker struct {
	mu    sync.Mutex
	jobs  map[string]*jobProgress
	grace time.Duration
}

func newProgressTracker(grace time.Duration) *progressTracker {
	return &progressTracker{
		jobs:  make(map[string]*jobProgress),
		grace: grace,
	}
}

// newJobID returns a time-ordered job identifier
func newJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// validJobID reports whether id looks like an identifier issued by newJobID
func validJobID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Start registers a job and returns the channel the facade should publish to.
// The caller must call the returned stop function once the download returned.
// ok is false when id belongs to a job that is still running; nothing is
// registered in that case.
func (t *progressTracker) Start(id string) (progress chan<- model.ProgressEvent, stop func(), ok bool) {
	entry := &jobProgress{Event: model.ProgressEvent{Phase: model.PhaseStarting}, Percent: -1}

	t.mu.Lock()
	if job, exists := t.jobs[id]; exists && !job.Done {
		t.mu.Unlock()
		return nil, nil, false
	}
	t.jobs[id] = entry
	t.mu.Unlock()

	ch := make(chan model.ProgressEvent, ProgressBufferSize)
	drained := make(chan struct{})

	// every update goes to this start's entry only, so a later job reusing
	// the id is never touched
	go func() {
		defer close(drained)
		for ev := range ch {
			t.mu.Lock()
			entry.Event = ev
			entry.Percent = ev.Percent()
			t.mu.Unlock()
		}
	}()

	stop = func() {
		close(ch)
		<-drained

		t.mu.Lock()
		entry.Done = true
		t.mu.Unlock()

		time.AfterFunc(t.grace, func() { t.remove(id, entry) })
	}

	return ch, stop, true
}

// Get returns a snapshot of the job state
func (t *progressTracker) Get(id string) (jobProgress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok {
		return jobProgress{}, false
	}
	return *job, true
}

func (t *progressTracker) remove(id string, entry *jobProgress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.jobs[id] == entry {
		delete(t.jobs, id)
	}
}
