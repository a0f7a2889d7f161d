// Package api provides the HTTP surface for the umbrella service. It creates
// a chi router and enforces cross-cutting concerns -- panic recovery, request
// correlation, structured request logging -- before requests reach the
// domain handlers.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jiten-project/umbrella-app/internal/config"
	"github.com/jiten-project/umbrella-app/internal/service"
	"github.com/jiten-project/umbrella-app/internal/types"
)

// Server encapsulates all dependencies for the umbrella API, allowing for
// easy injection during testing.
type Server struct {
	Config  *config.Config
	Service *service.Service
	Logger  *slog.Logger

	router *chi.Mux
}

// NewServer initializes dependencies and prepares the server for route
// mounting. The caller is responsible for calling MountRoutes afterwards;
// this separation allows tests to customize route registration.
func NewServer(cfg *config.Config, svc *service.Service, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if svc == nil {
		return nil, fmt.Errorf("service must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		Config:  cfg,
		Service: svc,
		Logger:  logger,
		router:  chi.NewRouter(),
	}, nil
}

// Handler returns the mounted router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// MountRoutes defines the routing hierarchy: the global middleware chain,
// the /v1 API group, and the top-level health check.
func (s *Server) MountRoutes() {
	s.router.Use(s.recoverer)
	s.router.Use(requestIDMiddleware)
	s.router.Use(s.requestLogger)

	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/umbrella", s.HandleCheck)
		r.Get("/forecast/{areaCode}/hourly", s.HandleHourly)
		r.Get("/forecast/{areaCode}/temperature", s.HandleTemperature)
		r.Get("/settings", s.HandleGetSettings)
		r.Put("/settings", s.HandlePutSettings)
		r.Get("/reminders/next", s.HandleNextReminders)
	})

	s.router.Get("/healthz", s.HandleHealth)
}

// recoverer catches handler panics and converts them into 500 responses,
// keeping the process alive.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.Logger.Error("handler panic",
					"panic", rec,
					"path", r.URL.Path,
					"request_id", types.GetRequestID(r.Context()),
				)
				Error(w, r, types.NewAppError(types.ErrCodeInternalUnexpected,
					"an unexpected error occurred", nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware attaches a correlation ID to every request, honoring a
// caller-provided X-Request-Id header.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(types.WithRequestID(r.Context(), id)))
	})
}

// requestLogger emits one structured line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.Logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", types.GetRequestID(r.Context()),
		)
	})
}

// statusWriter captures the response status for logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// HandleHealth reports process liveness.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	JSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": s.Config.Service,
	})
}
