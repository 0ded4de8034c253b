// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/0xcro3dile/prism/internal/domain/ports"
	"github.com/0xcro3dile/prism/internal/domain/usecases"
	"github.com/0xcro3dile/prism/internal/logger"
)

// Options configures the server.
type Options struct {
	Addr            string
	MaxBodyBytes    int64    // Upper bound on a request body
	CORSOrigins     []string // "*" allows any origin
	ShutdownTimeout time.Duration
	Logger          logger.Logger
}

// Server is the HTTP server for the chunk inspection API.
type Server struct {
	process *usecases.ProcessUseCase
	tokens  ports.TokenCounter
	metrics *metrics
	opts    Options
	log     logger.Logger
	router  chi.Router
}

// NewServer creates a new HTTP server. tokens backs requests that measure
// chunks in tokens.
func NewServer(process *usecases.ProcessUseCase, tokens ports.TokenCounter, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetDefault()
	}

	s := &Server{
		process: process,
		tokens:  tokens,
		metrics: newMetrics(),
		opts:    opts,
		log:     opts.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(s.opts.CORSOrigins))

	r.Post("/process-text", s.handleProcess)
	r.Route("/api", func(api chi.Router) {
		api.Post("/process", s.handleProcess)
		api.Get("/health", s.handleHealth)
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return r
}

// Handler exposes the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	s.log.Info("prism server starting", "addr", s.opts.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	s.log.Info("prism server shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
