// Package api exposes the item lifecycle over HTTP. Handlers validate at
// the boundary, translate wire shapes, and delegate to the service; every
// non-2xx response uses the shared error envelope.
package api

import (
	"context"
	"io"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nhle/todo-service/internal/model"
	"github.com/nhle/todo-service/internal/service"
)

// requestIDHeader carries the correlation id. Inbound values are reused so
// callers can trace a request across systems; otherwise one is generated.
const requestIDHeader = "X-Request-Id"

type ctxKey int

const requestIDKey ctxKey = iota

// Server wires the lifecycle service into the HTTP routes.
type Server struct {
	svc         service.Service
	log         *log.Logger
	corsOrigins []string

	// now supplies the clock for due-date validation; tests pin it.
	now func() time.Time
}

// NewServer builds a Server over the given service. A nil logger silences
// request logging.
func NewServer(svc service.Service, cfg model.ServerConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		svc:         svc,
		log:         logger,
		corsOrigins: cfg.CORSOrigins,
		now:         time.Now,
	}
}

// Handler returns the fully wired route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /todo", s.handleList)
	mux.HandleFunc("GET /todo/deleted", s.handleListDeleted)
	mux.HandleFunc("GET /todo/deleted/{id}", s.handleGetDeleted)
	mux.HandleFunc("GET /todo/{id}", s.handleGet)
	mux.HandleFunc("POST /todo", s.handleCreate)
	mux.HandleFunc("PUT /todo/{id}", s.handleUpdate)
	mux.HandleFunc("PATCH /todo/{id}/toggle", s.handleToggle)
	mux.HandleFunc("DELETE /todo/{id}", s.handleDelete)
	mux.HandleFunc("PATCH /todo/{id}/restore", s.handleRestore)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	var h http.Handler = mux
	h = s.withCORS(h)
	h = s.withRecovery(h)
	h = s.withLogging(h)
	h = withRequestID(h)
	return h
}

// withRequestID stamps each request with a correlation id, echoed on the
// response and available to downstream log lines.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestID returns the id stamped by withRequestID, or "" outside a request.
func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// statusRecorder captures the response code for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", requestID(r.Context()),
		)
	})
}

// withRecovery converts handler panics into the generic internal error
// response instead of tearing down the connection.
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("panic recovered",
					"panic", rec,
					"path", r.URL.Path,
					"request_id", requestID(r.Context()),
					"stack", string(debug.Stack()),
				)
				writeInternal(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withCORS answers preflight requests and stamps allow-origin headers for
// configured origins. With no origins configured it is a no-op.
func (s *Server) withCORS(next http.Handler) http.Handler {
	if len(s.corsOrigins) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.corsOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
