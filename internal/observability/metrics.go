package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "climate_spiral"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	SeriesObservations prometheus.Gauge

	// Projection metrics.
	Projections        *prometheus.CounterVec // labels: layout={ring,helix}
	ProjectionDuration prometheus.Histogram

	// Rendering metrics.
	Renders        *prometheus.CounterVec // labels: format={png,svg}, cache={hit,miss}
	RenderDuration *prometheus.HistogramVec

	// Playback metrics.
	FramesEmitted    prometheus.Counter
	FrameErrors      prometheus.Counter
	PlaybackRunning  prometheus.Gauge
	PlaybackProgress prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SeriesObservations,
		m.Projections,
		m.ProjectionDuration,
		m.Renders,
		m.RenderDuration,
		m.FramesEmitted,
		m.FrameErrors,
		m.PlaybackRunning,
		m.PlaybackProgress,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SeriesObservations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "series_observations",
			Help:      "Number of observations in the loaded series.",
		}),
		Projections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projections_total",
			Help:      "Spiral projections served, by layout.",
		}, []string{"layout"}),
		ProjectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "projection_duration_seconds",
			Help:      "Duration of a single spiral projection.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Rendered ring images by format and cache result.",
		}, []string{"format", "cache"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of an uncached ring render.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"format"}),
		FramesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_emitted_total",
			Help:      "Playback frames written to the sink.",
		}),
		FrameErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frame_errors_total",
			Help:      "Playback frames the sink rejected.",
		}),
		PlaybackRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "playback_running",
			Help:      "1 while playback is active, 0 otherwise.",
		}),
		PlaybackProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "playback_progress",
			Help:      "Current playback reveal cursor position.",
		}),
	}
}
