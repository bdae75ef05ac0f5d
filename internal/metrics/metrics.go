// Package metrics provides Prometheus metrics for the media web console.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Labels stay low cardinality: route patterns, never raw paths or ids.
var (
	// HTTPRequestsTotal counts served requests by route pattern, method and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_web_http_requests_total",
		Help: "Total number of HTTP requests, by route, method and status.",
	}, []string{"route", "method", "status"})

	// HTTPRequestDuration observes request latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "media_web_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds, by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// CatalogReloadsTotal counts catalog file reload attempts by result.
	CatalogReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_web_catalog_reloads_total",
		Help: "Total number of catalog file reloads, by result (ok/error).",
	}, []string{"result"})

	// CatalogRecords reports the size of the published record set.
	CatalogRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "media_web_catalog_records",
		Help: "Number of records in the currently published catalog.",
	})

	// UpstreamRequestsTotal counts metadata upstream calls by operation and outcome.
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_web_upstream_requests_total",
		Help: "Total number of upstream metadata requests, by operation and outcome.",
	}, []string{"op", "outcome"})

	// UpstreamCacheTotal counts response cache lookups by result (hit/miss).
	UpstreamCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_web_upstream_cache_total",
		Help: "Total number of upstream response cache lookups, by result.",
	}, []string{"result"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency per chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		route := routePattern(r)
		HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(m.Code)).Inc()
		HTTPRequestDuration.WithLabelValues(route).Observe(m.Duration.Seconds())
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
