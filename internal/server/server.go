// Package server exposes editor sessions over HTTP and a websocket gesture
// stream.
package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	sessionrepo "github.com/aasedek/Analytica-AI-Product-1/internal/adapters/repository/session"
	"github.com/aasedek/Analytica-AI-Product-1/internal/app/editor"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/catalog"
	"github.com/aasedek/Analytica-AI-Product-1/internal/infrastructure/metrics"
	"github.com/aasedek/Analytica-AI-Product-1/pkg/validation"
)

const shutdownTimeout = 10 * time.Second

// Option configures a Server
type Option func(*Server)

// WithLogger sets the server logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithExecutor sets the execute collaborator handed to new sessions
func WithExecutor(e editor.Executor) Option {
	return func(s *Server) { s.executor = e }
}

// WithOptimizer sets the optimize collaborator handed to new sessions
func WithOptimizer(o editor.Optimizer) Option {
	return func(s *Server) { s.optimizer = o }
}

// WithSessions replaces the session store
func WithSessions(r *sessionrepo.InMemorySessionRepository) Option {
	return func(s *Server) {
		if r != nil {
			s.sessions = r
		}
	}
}

// Server is the HTTP front of the editor
// PRINCIPLES:
// - One editor.Session per client, kept in the session repository
// - Every session access goes through the repository lock
// - Remote calls run on a snapshot, outside the lock
type Server struct {
	catalog   *catalog.Catalog
	sessions  *sessionrepo.InMemorySessionRepository
	executor  editor.Executor
	optimizer editor.Optimizer
	validate  *validation.Middleware
	upgrader  websocket.Upgrader
	logger    *zap.Logger
}

// New creates a server editing against c
func New(c *catalog.Catalog, opts ...Option) *Server {
	s := &Server{
		catalog:  c,
		sessions: sessionrepo.NewInMemorySessionRepository(),
		validate: validation.NewMiddleware(nil),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /api/catalog", s.handleCatalog)

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)

	mux.Handle("POST /api/sessions/{id}/events",
		s.validate.ValidateJSON(editor.Event{})(http.HandlerFunc(s.handleEvent)))
	mux.Handle("PUT /api/sessions/{id}/nodes/{nodeId}/config",
		s.validate.ValidateJSON(configRequest{})(http.HandlerFunc(s.handleUpdateConfig)))
	mux.HandleFunc("DELETE /api/sessions/{id}/nodes/{nodeId}", s.handleDeleteNode)
	mux.HandleFunc("DELETE /api/sessions/{id}/connections/{connId}", s.handleDeleteConnection)

	mux.HandleFunc("GET /api/sessions/{id}/export", s.handleExport)
	mux.HandleFunc("POST /api/sessions/{id}/import", s.handleImport)

	mux.Handle("POST /api/sessions/{id}/optimize",
		s.validate.ValidateJSON(optimizeRequest{})(http.HandlerFunc(s.handleOptimize)))
	mux.HandleFunc("POST /api/sessions/{id}/execute", s.handleExecute)

	mux.HandleFunc("GET /api/sessions/{id}/ws", s.handleWebSocket)

	return s.logRequests(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}
