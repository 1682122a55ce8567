// Package metrics defines and registers all custom Prometheus metrics for the
// portfolio API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation through promauto; /metrics exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portfolio"

// ── Image metrics ─────────────────────────────────────────────────────────────

// ImagesProcessedTotal counts uploaded images by outcome.
// Labels:
//   - kind: "image" (fit inside a box) or "thumbnail" (crop to fill)
//   - outcome: "encoded", "fallback" (original bytes stored) or "failed"
var ImagesProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "images_processed_total",
		Help:      "Total number of uploaded images processed, by kind and outcome.",
	},
	[]string{"kind", "outcome"},
)

// ImageProcessingDuration measures decode, resize and encode time of one image.
// Label:
//   - kind: "image" or "thumbnail"
var ImageProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "image_processing_duration_seconds",
		Help:      "Duration of a single image encode in the worker pool.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	},
	[]string{"kind"},
)

// ImageQueueDepth tracks encode jobs waiting for a worker.
var ImageQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "image_queue_depth",
		Help:      "Current number of image encode jobs waiting in the pool channel.",
	},
)

// AssetCleanupFailuresTotal counts best-effort deletions that failed.
// Label:
//   - scope: "file" or "dir"
var AssetCleanupFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "asset_cleanup_failures_total",
		Help:      "Total number of asset deletions that failed and were ignored.",
	},
	[]string{"scope"},
)

// ── Entity metrics ────────────────────────────────────────────────────────────

// ProjectsMutatedTotal counts successful project writes.
// Label:
//   - op: "create", "update" or "delete"
var ProjectsMutatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projects_mutated_total",
		Help:      "Total number of project writes, by operation.",
	},
	[]string{"op"},
)

// ClientsMutatedTotal counts successful client writes.
var ClientsMutatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clients_mutated_total",
		Help:      "Total number of client writes, by operation.",
	},
	[]string{"op"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - action: "register" or "login"
//   - result: "success", "invalid", "conflict" or "throttled"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by action and result.",
	},
	[]string{"action", "result"},
)
