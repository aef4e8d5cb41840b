// Package metrics holds the Prometheus collectors shared by the blob store
// and the HTTP file adapter. Collectors register on the default registry so
// the serve command only has to expose promhttp.Handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation label values used with OperationsTotal.
const (
	OpWrite          = "write"
	OpDelete         = "delete"
	OpDeleteByPrefix = "delete_by_prefix"
	OpURLFor         = "url_for"
)

// Outcome label values used with OperationsTotal.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	// OperationsTotal counts blob store operations by operation and outcome.
	// Swallowed best-effort delete failures count as errors here even though
	// the caller never sees them.
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filevault_blob_operations_total",
		Help: "Blob store operations by operation and outcome.",
	}, []string{"op", "outcome"})

	// BytesWrittenTotal counts bytes flushed to disk by successful writes.
	BytesWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filevault_blob_bytes_written_total",
		Help: "Bytes written to the blob store.",
	})

	// RequestsTotal counts static file requests by method and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filevault_http_requests_total",
		Help: "Static file requests by method and status code.",
	}, []string{"code", "method"})

	// RequestDuration observes static file request latency.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "filevault_http_request_duration_seconds",
		Help:    "Static file request duration.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)
