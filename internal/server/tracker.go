package server

import (
	"sync"
	"time"

	"github.com/Tiliavir/leave-calendar/internal/webhook"
)

// Tracker admits at most one scrape at a time and remembers the outcome of
// the last one.
type Tracker struct {
	mu         sync.Mutex
	running    bool
	lastRun    *time.Time
	lastResult *string
	lastError  *string
	runID      string
	now        func() time.Time
}

// NewTracker returns an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// TryStart marks a run as started. It reports false, without blocking, if a
// run is already in flight. On success the returned finish func must be
// called exactly once with the run's outcome.
func (t *Tracker) TryStart() (finish func(runID string, err error), ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return nil, false
	}
	t.running = true
	started := t.now().UTC()

	var once sync.Once
	return func(runID string, err error) {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			t.running = false
			t.lastRun = &started
			t.runID = runID
			result := webhook.ResultSuccess
			t.lastError = nil
			if err != nil {
				result = webhook.ResultError
				msg := err.Error()
				t.lastError = &msg
			}
			t.lastResult = &result
		})
	}, true
}

// Status returns a snapshot for GET /status.
func (t *Tracker) Status() webhook.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return webhook.Status{
		Running:    t.running,
		LastRun:    t.lastRun,
		LastResult: t.lastResult,
		LastError:  t.lastError,
		RunID:      t.runID,
	}
}
