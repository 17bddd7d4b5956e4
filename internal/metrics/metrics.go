// Package metrics exposes the Prometheus collectors of the API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager holds custom Prometheus metrics on a private registry.
type MetricsManager struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestLatency  *prometheus.HistogramVec
	EventsPublished *prometheus.CounterVec
	RateLimited     prometheus.Counter
}

// NewMetricsManager initializes and registers the collectors under namespace.
func NewMetricsManager(namespace string) *MetricsManager {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	requestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	eventsPublished := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Domain events handed to the broker, by subject and outcome.",
	}, []string{"subject", "outcome"})

	rateLimited := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected by the rate limiter.",
	})

	registry.MustRegister(
		requestsTotal,
		requestLatency,
		eventsPublished,
		rateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:        registry,
		RequestsTotal:   requestsTotal,
		RequestLatency:  requestLatency,
		EventsPublished: eventsPublished,
		RateLimited:     rateLimited,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
