// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "astrogen_generation_requests_total",
			Help: "Total number of generation requests sent to the backend",
		},
		[]string{"category"},
	)

	GenerationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "astrogen_generation_failures_total",
			Help: "Total number of items that failed after exhausting retries",
		},
		[]string{"category", "error_code"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "astrogen_generation_duration_seconds",
			Help: "Duration of a single generation request in seconds",
		},
		[]string{"category"},
	)

	ItemsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "astrogen_items_processed_total",
			Help: "Total number of catalog items processed",
		},
		[]string{"category", "language"},
	)

	DocumentsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "astrogen_documents_written_total",
			Help: "Total number of output documents written",
		},
		[]string{"category", "language"},
	)
)
