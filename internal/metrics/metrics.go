// Package metrics defines the Prometheus instrumentation of the playlist
// resolver. All metrics are prefixed with "ytloop_".
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytloop_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ytloop_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ytloop_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Resolver metrics
var (
	PlaylistResolvesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytloop_playlist_resolves_total",
			Help: "Total number of playlist resolves by outcome",
		},
		[]string{"outcome"},
	)

	UpstreamRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ytloop_upstream_request_duration_seconds",
			Help:    "Duration of YouTube Data API playlistItems calls",
			Buckets: prometheus.DefBuckets,
		},
	)

	PlaylistVideosReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ytloop_playlist_videos_returned",
			Help:    "Number of videos returned per successful resolve",
			Buckets: []float64{0, 1, 5, 10, 20, 30, 40, 50},
		},
	)
)
