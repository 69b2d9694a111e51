// Package metrics exposes Prometheus counters for CSV exports.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SinkHTTP labels exports served over HTTP.
const SinkHTTP = "http"

// Status labels.
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusCanceled = "canceled"
)

// ExportBuckets spans small API downloads to multi-minute dumps.
var ExportBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300}

var (
	// ExportsTotal counts finished exports by sink and outcome.
	ExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csvstream_exports_total",
			Help: "Finished CSV exports",
		},
		[]string{"sink", "status"},
	)

	// ExportBytesTotal counts encoded bytes handed to a sink.
	ExportBytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csvstream_export_bytes_total",
			Help: "Encoded CSV bytes written",
		},
		[]string{"sink"},
	)

	// ExportChunksTotal counts chunks handed to a sink.
	ExportChunksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csvstream_export_chunks_total",
			Help: "Encoded CSV chunks written",
		},
		[]string{"sink"},
	)

	// ExportDuration records export wall time in seconds.
	ExportDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "csvstream_export_duration_seconds",
			Help:    "Export duration",
			Buckets: ExportBuckets,
		},
		[]string{"sink"},
	)

	// ActiveExports tracks exports in progress.
	ActiveExports = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "csvstream_exports_active",
			Help: "Exports in progress",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ExportsTotal,
		ExportBytesTotal,
		ExportChunksTotal,
		ExportDuration,
		ActiveExports,
	)
}

// Status maps an export error to its status label.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCanceled
	default:
		return StatusError
	}
}

// Track marks an export as started. The returned func records its outcome
// and must be called exactly once.
func Track(sink string) func(chunks int, bytes int64, err error) {
	start := time.Now()
	ActiveExports.Inc()
	return func(chunks int, bytes int64, err error) {
		ActiveExports.Dec()
		ExportsTotal.WithLabelValues(sink, Status(err)).Inc()
		ExportChunksTotal.WithLabelValues(sink).Add(float64(chunks))
		ExportBytesTotal.WithLabelValues(sink).Add(float64(bytes))
		ExportDuration.WithLabelValues(sink).Observe(time.Since(start).Seconds())
	}
}
