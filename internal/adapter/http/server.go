package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/climate-spiral/internal/adapter/chart"
	"github.com/couchcryptid/climate-spiral/internal/domain"
	"github.com/couchcryptid/climate-spiral/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LayoutResolver returns the configured layout of a kind.
type LayoutResolver interface {
	Layout(kind domain.LayoutKind) (domain.Layout, bool)
}

// Options carries the read-only state the API serves.
type Options struct {
	Series   domain.Series
	Layouts  LayoutResolver
	Renderer chart.Renderer
	Ready    sharedobs.ReadinessChecker
	Metrics  *observability.Metrics
}

// Server exposes the spiral API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	api        *api
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, the
// /api/v1 routes and the rendered ring images.
func NewServer(addr string, opts Options, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		api: &api{
			series:   opts.Series,
			layouts:  opts.Layouts,
			renderer: opts.Renderer,
			metrics:  opts.Metrics,
			logger:   logger,
		},
	}

	ready := opts.Ready
	if ready == nil {
		ready = SeriesReadiness(opts.Series)
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/months", s.api.handleMonths)
	mux.HandleFunc("GET /api/v1/observations", s.api.handleObservations)
	mux.HandleFunc("GET /api/v1/segments", s.api.handleSegments)
	mux.HandleFunc("GET /api/v1/points", s.api.handlePoints)
	mux.HandleFunc("GET /api/v1/labels", s.api.handleLabels)
	mux.HandleFunc("GET /spiral.png", s.api.handleImage(chart.FormatPNG))
	mux.HandleFunc("GET /spiral.svg", s.api.handleImage(chart.FormatSVG))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type readinessFunc func(ctx context.Context) error

func (f readinessFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

// SeriesReadiness reports ready once the series holds at least one observation.
func SeriesReadiness(series domain.Series) sharedobs.ReadinessChecker {
	return readinessFunc(func(context.Context) error {
		if series.Len() == 0 {
			return errNoObservations
		}
		return nil
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // response already committed
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
