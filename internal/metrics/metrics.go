// internal/metrics/metrics.go

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Detection counters, labelled by outcome. Confidence is advisory in the
// product, so the score distribution is tracked here for audit instead of
// gating anything.
var (
	DetectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitefix_detections_total",
		Help: "Completed detections by method",
	}, []string{"method"})

	DetectionFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitefix_detection_failures_total",
		Help: "Failed detections by failure class",
	}, []string{"reason"})

	RetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sitefix_detection_retries_total",
		Help: "Retry attempts after transient detection failures",
	})

	FallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sitefix_manual_fallbacks_total",
		Help: "Manual-selection contexts built after detection was exhausted",
	})

	DetectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sitefix_detection_duration_seconds",
		Help:    "End-to-end detection latency",
		Buckets: prometheus.DefBuckets,
	})

	DetectionConfidence = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sitefix_detection_confidence",
		Help:    "Confidence score distribution of completed detections",
		Buckets: []float64{0.0, 0.2, 0.4, 0.5, 0.6, 0.7, 0.75, 0.8, 0.9, 1.0},
	})
)
