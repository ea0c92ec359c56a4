// If you are AI: This file declares the Prometheus collectors exported by vodflv.
// Collectors are package globals; Register adds them to a registry once at startup.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vodflv",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vodflv",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds, including the media transfer.",
		Buckets:   []float64{0.005, 0.025, 0.1, 0.5, 1, 5, 30, 120},
	}, []string{"method", "route"})

	SeekRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vodflv",
		Name:      "seek_requests_total",
		Help:      "Planned media requests by serving mode and outcome.",
	}, []string{"mode", "outcome"})

	DegradationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vodflv",
		Name:      "seek_degradations_total",
		Help:      "Features dropped while planning, by reason.",
	}, []string{"reason"})

	PlanDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vodflv",
		Name:      "seek_plan_duration_seconds",
		Help:      "Time spent reading the scan window and planning a response.",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.25},
	}, []string{"mode"})

	ScanWindowBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "vodflv",
		Name:      "seek_scan_window_bytes",
		Help:      "Bytes of the file prefix examined per request.",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
	})

	PlannedBytesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vodflv",
		Name:      "planned_bytes_total",
		Help:      "Content length of planned responses by serving mode.",
	}, []string{"mode"})

	SentBytesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vodflv",
		Name:      "sent_bytes_total",
		Help:      "Response bytes actually written by transport.",
	}, []string{"transport"})

	ActiveStreams = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "vodflv",
		Name:      "active_streams",
		Help:      "Responses currently transferring media by transport.",
	}, []string{"transport"})

	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vodflv",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter.",
	})
)

// Register adds every collector to reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		SeekRequestsTotal,
		DegradationsTotal,
		PlanDuration,
		ScanWindowBytes,
		PlannedBytesTotal,
		SentBytesTotal,
		ActiveStreams,
		RateLimitedTotal,
	)
}
