package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ToggleTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_toggle_total",
			Help: "Favorite and comment-like toggles by kind and resulting state",
		},
		[]string{"kind", "result"},
	)
)

// Toggle kinds.
const (
	ToggleFavorite    = "favorite"
	ToggleCommentLike = "comment_like"
)

// RecordToggle counts one toggle; on is the membership after the flip.
func RecordToggle(kind string, on bool) {
	result := "off"
	if on {
		result = "on"
	}
	ToggleTotal.WithLabelValues(kind, result).Inc()
}
