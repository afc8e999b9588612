// Package server exposes the scrape pipeline over HTTP for remote refresh
// and optionally hosts the calendar site and its data.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Tiliavir/leave-calendar/internal/config"
	"github.com/Tiliavir/leave-calendar/internal/pipeline"
	"github.com/Tiliavir/leave-calendar/internal/storage"
	"github.com/Tiliavir/leave-calendar/internal/webhook"
)

// ErrNoToken is returned when the server is started without a webhook token.
var ErrNoToken = errors.New("webhook token not configured")

// RunFunc performs one scrape.
type RunFunc func(ctx context.Context) (pipeline.Result, error)

// Server is the trigger server.
type Server struct {
	cfg     *config.Config
	run     RunFunc
	tracker *Tracker
	log     *slog.Logger
	base    context.Context
	now     func() time.Time
}

// New returns a server triggering run. cfg.Webhook.Token must be set.
func New(cfg *config.Config, run RunFunc, log *slog.Logger) (*Server, error) {
	if cfg.Webhook.Token == "" {
		return nil, ErrNoToken
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{
		cfg:     cfg,
		run:     run,
		tracker: NewTracker(),
		log:     log,
		base:    context.Background(),
		now:     time.Now,
	}, nil
}

// Tracker returns the run tracker.
func (s *Server) Tracker() *Tracker { return s.tracker }

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	r.Post("/scrape", s.handleScrape)

	data := r.With(noStore)
	data.Get("/data/"+storage.AggregateFile, s.handleAggregate)
	data.Get("/data/history/{file}", s.handleArchive)
	if dir := s.cfg.Server.SiteDir; dir != "" {
		r.Get("/*", siteHandler(dir))
	}

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// A scrape in flight is cancelled with ctx.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.base = ctx
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("trigger server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, webhook.Health{Status: "ok", Timestamp: s.now().UTC()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Status())
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, webhook.ErrorResponse{Error: "Unauthorized"})
		return
	}

	finish, ok := s.tracker.TryStart()
	if !ok {
		writeJSON(w, http.StatusConflict, webhook.ScrapeResponse{Success: false, Error: "scraper already running"})
		return
	}

	// The run outlives a disconnected client but not the server.
	res, err := s.run(s.base)
	finish(res.RunID, err)
	if err != nil {
		s.log.Error("scrape failed", "run", res.RunID, "error", err)
		writeJSON(w, http.StatusInternalServerError, webhook.ScrapeResponse{Success: false, Error: err.Error(), RunID: res.RunID})
		return
	}
	writeJSON(w, http.StatusOK, webhook.ScrapeResponse{
		Success:  true,
		Message:  "Scraper completed",
		RunID:    res.RunID,
		Entries:  res.Entries,
		Holidays: res.Holidays,
	})
}

// authorized accepts the token as a bearer header or a token query
// parameter.
func (s *Server) authorized(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		token = r.URL.Query().Get("token")
	}
	return token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.Webhook.Token)) == 1
}

// handleAggregate serves leaves.json; the data directory is not listed.
func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	serveData(w, r, storage.AggregatePath(s.cfg.Storage.DataDir))
}

// handleArchive serves one month archive by its canonical file name.
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	ym, ok := storage.ParseArchiveName(chi.URLParam(r, "file"))
	if !ok {
		notFound(w, r)
		return
	}
	serveData(w, r, storage.MonthPath(s.cfg.Storage.DataDir, ym))
}

func serveData(w http.ResponseWriter, r *http.Request, file string) {
	if info, err := os.Stat(file); err != nil || info.IsDir() {
		notFound(w, r)
		return
	}
	http.ServeFile(w, r, file)
}

// siteHandler serves the static site in dir. Paths with no file behind them
// get the JSON not found response.
func siteHandler(dir string) http.HandlerFunc {
	files := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+chi.URLParam(r, "*"))))
		info, err := os.Stat(name)
		if err == nil && info.IsDir() {
			_, err = os.Stat(filepath.Join(name, "index.html"))
		}
		if err != nil {
			notFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, webhook.ErrorResponse{Error: "Not found"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}
