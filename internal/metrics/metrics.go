// Package metrics exposes Prometheus instrumentation for the recommender.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "course_recommender_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "course_recommender_recommendations_total",
			Help: "Recommendation requests by pipeline path (similarity, fallback, error)",
		},
		[]string{"path"},
	)

	RecommendationSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "course_recommender_recommendation_size",
			Help:    "Number of courses returned per recommendation",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)

	CacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "course_recommender_cache_results_total",
			Help: "Recommendation cache lookups by outcome (hit, miss, error)",
		},
		[]string{"outcome"},
	)

	CatalogCourses = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "course_recommender_catalog_courses",
			Help: "Courses in the active catalog snapshot",
		},
		[]string{"kind"}, // "all", "embedded"
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "course_recommender_catalog_reloads_total",
			Help: "Catalog load attempts by result",
		},
		[]string{"result"},
	)
)

// ObserveHTTP records a finished HTTP request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// SetCatalogSize publishes the size of a freshly installed catalog.
func SetCatalogSize(all, embedded int) {
	CatalogCourses.WithLabelValues("all").Set(float64(all))
	CatalogCourses.WithLabelValues("embedded").Set(float64(embedded))
}
