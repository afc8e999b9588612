// Package webhook holds the trigger server's wire format and a client for
// it.
package webhook

import "time"

// Outcomes reported in Status.LastResult.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Health is the body of GET /health.
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Status is the body of GET /status.
type Status struct {
	Running    bool       `json:"running"`
	LastRun    *time.Time `json:"lastRun"`
	LastResult *string    `json:"lastResult"`
	LastError  *string    `json:"lastError"`
	RunID      string     `json:"runId,omitempty"`
}

// ScrapeResponse is the body of POST /scrape.
type ScrapeResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
	RunID    string `json:"runId,omitempty"`
	Entries  int    `json:"entries,omitempty"`
	Holidays int    `json:"holidays,omitempty"`
}

// ErrorResponse is the body of 401 and 404 responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
