// If you are AI: This file implements the HTTP server lifecycle and routing.
// Two listeners run side by side: health/metrics and media/websocket/API.

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"vodflv/internal/config"
	"vodflv/internal/core/seek"
	"vodflv/internal/logging"
	"vodflv/internal/metrics"
	"vodflv/internal/svc/api"
	"vodflv/internal/svc/health"
	"vodflv/internal/svc/httpflv"
	"vodflv/internal/svc/media"
	"vodflv/internal/svc/wsflv"
)

// Server wraps the HTTP servers and their dependencies.
type Server struct {
	healthServer *http.Server
	mediaServer  *http.Server
	healthSvc    *health.Service
	streams      *wsflv.Service
	logger       zerolog.Logger
}

// New creates a new server instance with the given configuration.
// The server is not started until Start is called.
func New(cfg *config.Config, logger zerolog.Logger, version string) *Server {
	base := logger
	logger = logging.Component(base, "server")

	roots := make([]string, 0, len(cfg.Locations))
	for _, l := range cfg.Locations {
		roots = append(roots, l.Root)
	}
	healthSvc := health.New(roots)

	reg := prometheus.NewRegistry()
	metrics.Register(reg)
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	healthMux := http.NewServeMux()
	healthSvc.RegisterRoutes(healthMux)
	healthMux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	planner := seek.NewPlanner(seek.Options{
		MaxScanBytes:       cfg.Media.MaxMetadataScanBytes,
		MaxConcurrentScans: cfg.Media.MaxConcurrentScans,
	})
	mediaSvc := media.NewService(media.NewLibrary(cfg.Locations), planner, cfg.Media.WSChunkBytes, base)

	mediaMux := http.NewServeMux()
	httpflv.NewService(mediaSvc).RegisterRoutes(mediaMux)
	streams := wsflv.NewService(mediaSvc)
	streams.RegisterRoutes(mediaMux)
	api.NewService(mediaSvc, version).RegisterRoutes(mediaMux)

	var handler http.Handler = otelhttp.NewHandler(mediaMux, "vodflv",
		otelhttp.WithFilter(func(r *http.Request) bool {
			// Websocket transfers outlive any useful span.
			return !strings.HasPrefix(r.URL.Path, "/ws/")
		}),
	)
	if cfg.Limits.RequestsPerSecond > 0 {
		handler = rateLimitMiddleware(cfg.Limits.RequestsPerSecond, cfg.Limits.Burst, handler)
	}
	handler = requestIDMiddleware(logger, loggingMiddleware(recoveryMiddleware(metricsMiddleware(handler))))

	return &Server{
		healthServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.HealthPort),
			Handler: healthMux,
		},
		mediaServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
			Handler: handler,
		},
		healthSvc: healthSvc,
		streams:   streams,
		logger:    logger,
	}
}

// HealthHandler returns the handler of the health listener.
func (s *Server) HealthHandler() http.Handler {
	return s.healthServer.Handler
}

// MediaHandler returns the handler of the media listener.
func (s *Server) MediaHandler() http.Handler {
	return s.mediaServer.Handler
}

// Start begins serving HTTP requests on both listeners.
// This method blocks until the servers are stopped or one fails.
func (s *Server) Start() error {
	if err := s.healthSvc.Check(); err != nil {
		s.logger.Warn().Err(err).Msg("media roots not ready")
	}

	g, ctx := errgroup.WithContext(context.Background())
	go func() {
		// One listener failing stops the other.
		<-ctx.Done()
		_ = s.Shutdown(context.Background())
	}()
	for _, srv := range []*http.Server{s.healthServer, s.mediaServer} {
		g.Go(func() error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			s.logger.Info().Str("addr", srv.Addr).Msg("listening")
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// Shutdown gracefully stops both servers.
// Websocket streams are hijacked out of the media server, so they get the
// rest of ctx to finish and are cut off when it expires.
// Returns an error if shutdown fails or the context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return errors.Join(
		s.mediaServer.Shutdown(ctx),
		s.streams.Shutdown(ctx),
		s.healthServer.Shutdown(ctx),
	)
}
