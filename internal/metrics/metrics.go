package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamtube_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamtube_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Auth Metrics
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamtube_registrations_total",
			Help: "Total number of registration attempts",
		},
		[]string{"outcome"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamtube_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"outcome"},
	)

	TokenRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamtube_token_refreshes_total",
			Help: "Total number of refresh-token exchanges",
		},
		[]string{"outcome"},
	)

	// Media Metrics
	MediaUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamtube_media_uploads_total",
			Help: "Total number of media-host uploads",
		},
		[]string{"kind", "outcome"},
	)

	AssetCleanupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamtube_asset_cleanups_total",
			Help: "Total number of asset-cleanup tasks processed by the worker",
		},
		[]string{"outcome"},
	)

	CleanupQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamtube_cleanup_queue_depth",
			Help: "Number of asset-cleanup tasks waiting in the queue",
		},
	)
)

// Outcome label values
const (
	OutcomeSuccess      = "success"
	OutcomeConflict     = "conflict"
	OutcomeInvalid      = "invalid"
	OutcomeUnauthorized = "unauthorized"
	OutcomeError        = "error"
)
