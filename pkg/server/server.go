package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/getmockd/echoidp/pkg/config"
	"github.com/getmockd/echoidp/pkg/httputil"
	"github.com/getmockd/echoidp/pkg/logging"
	"github.com/getmockd/echoidp/pkg/metrics"
	"github.com/getmockd/echoidp/pkg/oauth"
)

// PathHealth is the liveness endpoint.
const PathHealth = "/healthz"

// PathMetrics is the Prometheus scrape endpoint.
const PathMetrics = "/metrics"

// Server is the echoidp HTTP server.
type Server struct {
	cfg        config.Config
	log        *slog.Logger
	metrics    *metrics.Collector
	provider   *oauth.Provider
	router     chi.Router
	httpServer *http.Server
}

// Option is a functional option for configuring a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics sets the metrics collector. When unset and metrics are
// enabled in the configuration, the server creates its own.
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a server for cfg. cfg is expected to be validated.
func New(cfg config.Config, opts ...Option) *Server {
	s := &Server{
		cfg: cfg,
		log: logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !cfg.Metrics {
		s.metrics = nil
	} else if s.metrics == nil {
		s.metrics = metrics.New()
	}

	providerOpts := []oauth.Option{oauth.WithLogger(s.log)}
	if s.metrics != nil {
		providerOpts = append(providerOpts, oauth.WithRecorder(s.metrics))
	}
	s.provider = oauth.NewProvider(cfg.Host, providerOpts...)
	s.router = s.routes()

	s.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.router,
		ReadTimeout:       cfg.ReadTimeoutDuration(),
		ReadHeaderTimeout: cfg.ReadTimeoutDuration(),
		WriteTimeout:      cfg.WriteTimeoutDuration(),
		IdleTimeout:       cfg.IdleTimeout(),
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	r.Use(RequestID)
	r.Use(logging.Middleware(s.log))
	r.Use(middleware.Recoverer)

	h := oauth.NewHandler(s.provider)
	// The OAuth handlers check the method themselves so that a wrong method
	// gets an OAuth error body.
	r.HandleFunc(oauth.PathDiscovery, h.HandleDiscovery)
	r.HandleFunc(oauth.PathAuthorize, h.HandleAuthorize)
	r.HandleFunc(oauth.PathToken, h.HandleAuthorize)
	r.HandleFunc(oauth.PathIntrospect, h.HandleIntrospect)

	r.Get(PathHealth, handleHealth)
	if s.metrics != nil {
		r.Handle(PathMetrics, s.metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, http.StatusNotFound, oauth.ErrInvalidRequest, "unknown endpoint "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, http.StatusMethodNotAllowed, oauth.ErrInvalidRequest, "method not allowed")
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Provider returns the OAuth provider backing the endpoints.
func (s *Server) Provider() *oauth.Provider {
	return s.provider
}

// Run listens on the configured port and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured drain timeout. It closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	port := s.cfg.Port
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}
	s.log.Debug(fmt.Sprintf("started server %s on port %d", s.cfg.Host, port))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeoutDuration())
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	s.log.Debug("closed server")
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	return nil
}
