// Package metrics holds the Prometheus instruments used by the API server.
// All collectors are registered with the default registry and exposed on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkwell_http_requests_total",
			Help: "HTTP requests served, by method, route pattern and status code.",
		}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inkwell_http_request_duration_seconds",
			Help:    "HTTP request latency, by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})

	AuthFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkwell_auth_failures_total",
			Help: "Rejected requests at the authorization guard, by reason.",
		}, []string{"reason"})

	MediaBytesUploadedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inkwell_media_bytes_uploaded_total",
			Help: "Cumulative bytes of accepted media uploads.",
		})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		AuthFailuresTotal,
		MediaBytesUploadedTotal,
	)
}
