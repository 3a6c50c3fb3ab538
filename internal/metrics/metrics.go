package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediatheque_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediatheque_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Stream resolution metrics
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediatheque_stream_resolutions_total",
			Help: "Total number of stream resolution attempts",
		},
		[]string{"quality", "outcome"},
	)

	// Manifest synthesis metrics
	ManifestsWrittenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mediatheque_manifests_written_total",
			Help: "Total number of manifest sets synthesized",
		},
	)

	ManifestWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mediatheque_manifest_write_failures_total",
			Help: "Total number of failed manifest syntheses",
		},
	)

	// Progress sync metrics
	ProgressSyncsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediatheque_progress_syncs_total",
			Help: "Total number of progress pushes to the history service",
		},
		[]string{"status"},
	)

	ActivePlaySessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mediatheque_active_play_sessions",
			Help: "Number of playback sessions currently synchronized",
		},
	)

	// Upstream metrics
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediatheque_upstream_request_duration_seconds",
			Help:    "Upstream API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scope"},
	)

	UpstreamFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediatheque_upstream_failures_total",
			Help: "Total number of failed upstream API calls",
		},
		[]string{"scope"},
	)
)
