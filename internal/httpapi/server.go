// Package httpapi serves the daemon's health, status and metrics endpoints.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"seasonsweep/internal/logging"
)

const requestTimeout = 15 * time.Second

// RunStatus summarises one finished pass.
type RunStatus struct {
	RunID          string    `json:"run_id"`
	Trigger        string    `json:"trigger"`
	DryRun         bool      `json:"dry_run"`
	Started        time.Time `json:"started"`
	Finished       time.Time `json:"finished"`
	SeasonsPlanned int       `json:"seasons_planned"`
	FilesDeleted   int       `json:"files_deleted"`
	BytesReclaimed uint64    `json:"bytes_reclaimed"`
	Failures       int       `json:"failures"`
	Error          string    `json:"error,omitempty"`
}

// Status is the /status payload.
type Status struct {
	Version  string     `json:"version"`
	Schedule string     `json:"schedule"`
	NextRun  *time.Time `json:"next_run,omitempty"`
	Sweeping bool       `json:"sweeping"`
	LastRun  *RunStatus `json:"last_run,omitempty"`
}

// StatusProvider reports current daemon state.
type StatusProvider interface {
	Status() Status
}

// Server holds the route dependencies.
type Server struct {
	status  StatusProvider
	metrics http.Handler
	logger  *slog.Logger
}

// NewServer creates a server. metrics may be nil, in which case /metrics is
// not mounted.
func NewServer(status StatusProvider, metrics http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{status: status, metrics: metrics, logger: logging.NewComponentLogger(logger, "httpapi")}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealth)
	r.Get("/status", s.handleStatus)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	if s.status == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "status unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, s.status.Status())
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", ww.Status()),
			logging.Duration("duration", time.Since(start)),
			logging.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
