package httpserver

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/canela-app/canela/internal/config"
)

// Server wraps an http.Server with configured routes and middleware.
type Server struct {
	inner *http.Server
}

// New wires middleware and routes and returns a ready server. Everything
// under /api/v1/ requires a valid session token; /healthz does not.
func New(cfg config.Config, handlers *Handlers, log *zap.Logger) *Server {
	api := http.NewServeMux()
	handlers.Register(api)

	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, "ok", nil)
	})
	root.Handle("/api/v1/", Auth([]byte(cfg.SessionSecret), api))

	handler := CORS(cfg.CORSOrigins, Logging(log, Recover(log, root)))

	return &Server{inner: &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
