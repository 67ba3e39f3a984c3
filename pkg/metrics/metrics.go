// Package metrics holds the Prometheus collectors shared by the services.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeblog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipeblog_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "route"},
	)

	// outcome: "created" or "duplicate"
	LikesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeblog_likes_total",
			Help: "Like attempts by outcome",
		},
		[]string{"outcome"},
	)

	RatingsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipeblog_ratings_total",
			Help: "Total number of rating upserts",
		},
	)

	// action: "submitted", "approved" or "removed"
	CommentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeblog_comments_total",
			Help: "Comment moderation actions",
		},
		[]string{"action"},
	)

	PostsPublishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipeblog_posts_published_total",
			Help: "Total number of publish actions",
		},
	)

	// type: routing key of the consumed event
	ModerationEventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeblog_moderation_events_consumed_total",
			Help: "Moderation queue events handled by the moderation service",
		},
		[]string{"type"},
	)

	// result: "hit" or "miss"
	TopIngredientsCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeblog_top_ingredients_cache_total",
			Help: "Top ingredients cache lookups",
		},
		[]string{"result"},
	)
)

func RecordHTTPRequest(service, method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(service, method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(service, method, route).Observe(duration.Seconds())
}
