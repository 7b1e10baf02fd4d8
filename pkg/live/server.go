package live

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/keyed/internal/config"
	"github.com/vango-dev/keyed/pkg/keyed"
	"github.com/vango-dev/keyed/pkg/middleware"
	"github.com/vango-dev/keyed/pkg/observe"
)

// Server runs a board behind the HTTP API described by a config.
type Server struct {
	config *config.Config
	logger *slog.Logger

	board    *Board
	hub      *Hub
	registry *prometheus.Registry
	handler  http.Handler

	httpServer *http.Server
}

// NewServer builds the board, hub, observers and routes for cfg.
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")

	s := &Server{
		config:   cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}

	var (
		observers []keyed.Observer
		hubOpts   []HubOption
		routes    = RouterConfig{Logger: logger}
	)
	if cfg.Metrics.Enabled {
		labels := prometheus.Labels{"board": cfg.Name}
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		observers = append(observers, observe.Prometheus(
			observe.WithRegistry(s.registry),
			observe.WithNamespace(cfg.Metrics.Namespace),
			observe.WithConstLabels(labels),
		))

		httpMetrics := middleware.Prometheus(
			middleware.WithRegistry(s.registry),
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithConstLabels(labels),
		)
		hubOpts = append(hubOpts, WithHubObserver(httpMetrics))
		routes.Middlewares = append(routes.Middlewares, httpMetrics.Handler)
		routes.MetricsPath = cfg.Metrics.Path
		routes.Metrics = promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
	}
	if cfg.Tracing.Enabled {
		observers = append(observers, observe.Tracing(observe.WithTracerName(cfg.Tracing.TracerName)))
		routes.Middlewares = append(routes.Middlewares, middleware.OpenTelemetry(middleware.WithTracerName(cfg.Tracing.TracerName)))
	}

	s.hub = NewHub(logger, hubOpts...)

	s.board = NewBoard(BoardConfig{
		Name:        cfg.Name,
		Seed:        cfg.Board.Seed,
		MaxRows:     cfg.Board.MaxRows,
		ShuffleSeed: cfg.Board.ShuffleSeed,
		Logger:      logger,
		Observer:    observe.Multi(observers...),
		OnRender:    s.hub.Broadcast,
	})

	s.handler = NewRouter(s.board, s.hub, routes)

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Board returns the served board.
func (s *Server) Board() *Board {
	return s.board
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		s.board.Close()
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.board.Close()
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes websocket clients, stops the HTTP server and disposes
// the board.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout())
	defer cancel()

	s.hub.Close()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.board.Close()

	s.logger.Info("server shutdown complete")
	return nil
}
