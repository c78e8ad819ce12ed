// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "docbuilder"

// Result label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	GenerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "generation_total",
			Help:      "Total number of document content generations",
		},
		[]string{"kind", "language", "status"},
	)

	RenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pdf",
			Name:      "render_duration_seconds",
			Help:      "PDF render duration in seconds, browser launch included",
			Buckets:   []float64{.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
	)

	RenderFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pdf",
			Name:      "render_failures_total",
			Help:      "Total number of failed PDF renders by stage",
		},
		[]string{"stage"},
	)

	RendersInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pdf",
			Name:      "renders_in_flight",
			Help:      "Current number of PDF renders holding a browser",
		},
	)
)

// ObserveGeneration counts one content generation.
func ObserveGeneration(kind, language string, err error) {
	GenerationTotal.WithLabelValues(kind, language, statusOf(err)).Inc()
}

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
