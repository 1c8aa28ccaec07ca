// Package metrics provides Prometheus metrics for the news front end.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchTotal counts content-store queries by outcome.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulse",
			Name:      "contentstore_fetch_total",
			Help:      "Total number of content store queries",
		},
		[]string{"status"},
	)

	// FetchDuration measures content-store round trips.
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pulse",
			Name:      "contentstore_fetch_duration_seconds",
			Help:      "Duration of content store queries in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// CacheLookups counts response cache hits and misses.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulse",
			Name:      "contentstore_cache_lookups_total",
			Help:      "Response cache lookups by result",
		},
		[]string{"result"},
	)

	// AdSlotsRendered counts in-article ad slots emitted.
	AdSlotsRendered = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pulse",
			Name:      "ad_slots_rendered_total",
			Help:      "Total number of in-article ad slots inserted",
		},
	)

	// RequestsTotal counts HTTP requests by route and status code.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulse",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "code"},
	)
)

// RecordFetch records a content-store query.
func RecordFetch(status string, seconds float64) {
	FetchTotal.WithLabelValues(status).Inc()
	FetchDuration.Observe(seconds)
}

// RecordCache records a cache lookup.
func RecordCache(hit bool) {
	if hit {
		CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CacheLookups.WithLabelValues("miss").Inc()
}
