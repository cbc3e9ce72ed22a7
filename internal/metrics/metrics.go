// Package metrics holds Prometheus instruments that are used across the
// site.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_http_requests_total",
			Help: "HTTP requests served, by method, route pattern, and status code.",
		}, []string{"method", "route", "code"})

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})

	ContactSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_contact_submissions_total",
			Help: "Contact form submissions, by outcome: success, error, forbidden, or bad_request.",
		}, []string{"status"})

	TemplateCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "folio_template_cache_hits_total",
			Help: "Parsed template sets served from the LRU.",
		})

	TemplateCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "folio_template_cache_misses_total",
			Help: "Template sets parsed because the LRU had no entry.",
		})

	ContentReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_content_reloads_total",
			Help: "Content and config reloads, by outcome (ok or error).",
		}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ContactSubmissionsTotal,
		TemplateCacheHits,
		TemplateCacheMisses,
		ContentReloadsTotal,
	)
}

// ObserveRequest records one finished request.  route should be the chi
// route pattern, never the raw path, to keep label cardinality bounded.
func ObserveRequest(method, route string, code int, seconds float64) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// Reload records a reload attempt.
func Reload(err error) {
	if err != nil {
		ContentReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	ContentReloadsTotal.WithLabelValues("ok").Inc()
}
