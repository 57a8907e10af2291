// Package server implements the FlowBoard HTTP API.
//
// The API exposes CRUD operations over workflow documents plus export
// endpoints. Handlers are thin: validation and serialization live in
// pkg/workflow, persistence behind pkg/store, rendering in pkg/render.
//
// # Routes
//
//	GET    /healthz
//	GET    /api/v1/workflows
//	POST   /api/v1/workflows
//	GET    /api/v1/workflows/{id}
//	PUT    /api/v1/workflows/{id}
//	DELETE /api/v1/workflows/{id}
//	GET    /api/v1/workflows/{id}/export?format=svg|png|dot
//
// Errors are returned as JSON envelopes carrying a machine-readable code:
//
//	{"error": {"code": "WORKFLOW_NOT_FOUND", "message": "..."}}
package server

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/flowboardhq/flowboard/pkg/errors"
	"github.com/flowboardhq/flowboard/pkg/observability"
	"github.com/flowboardhq/flowboard/pkg/store"
)

// Server holds the API's dependencies.
type Server struct {
	store  store.Store
	logger *log.Logger
	now    func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithClock overrides the timestamp source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a Server backed by the given store.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{
		store:  st,
		logger: log.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1/workflows", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handleUpdate)
			r.Delete("/", s.handleDelete)
			r.Get("/export", s.handleExport)
		})
	})

	return r
}

// observe logs each request and reports it to the registered HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), duration)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", duration.Round(time.Millisecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError renders an error as the API's JSON envelope. Store-level
// ErrNotFound is translated to the API's not-found code; everything without
// a code becomes an internal error.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if stderrors.Is(err, store.ErrNotFound) {
		err = errors.Wrap(errors.ErrCodeWorkflowNotFound, err, "workflow not found")
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}

	writeJSON(w, errors.HTTPStatus(err), errorEnvelope{
		Error: errorBody{Code: string(code), Message: errors.UserMessage(err)},
	})
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
