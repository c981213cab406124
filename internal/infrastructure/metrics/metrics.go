// Package metrics holds the Prometheus collectors for the compressor. All
// collectors register with the default registry on package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Job outcome labels for JobsTotal.
const (
	ResultSuccess     = "success"
	ResultOverBudget  = "over_budget"
	ResultProbeError  = "probe_error"
	ResultEncodeError = "encode_error"
	ResultCanceled    = "canceled"
)

// Attempt outcome labels for AttemptsTotal.
const (
	AttemptUnderTarget = "under_target"
	AttemptOverTarget  = "over_target"
	AttemptFailed      = "failed"
)

// Compression metrics
var (
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discompress_jobs_total",
			Help: "Total number of compression jobs by result",
		},
		[]string{"result"},
	)

	AttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discompress_attempts_total",
			Help: "Total number of encoder attempts by outcome",
		},
		[]string{"outcome"},
	)

	JobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discompress_job_duration_seconds",
			Help:    "Wall time of a compression job, queue wait excluded",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200},
		},
	)

	QueueRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "discompress_queue_running",
			Help: "Number of jobs holding an encode slot",
		},
	)

	QueuePending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "discompress_queue_pending",
			Help: "Number of jobs waiting for an encode slot",
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discompress_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discompress_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
