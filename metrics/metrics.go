// Package metrics exposes Prometheus collectors for the portal.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	staleDiscarded  prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	upstreamLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_upstream_request_duration_seconds",
		Help:    "Duration of calls to the course service",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "outcome"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_cache_lookups_total",
		Help: "Query cache lookups by layer and result",
	}, []string{"layer", "result"})

	staleDiscarded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portal_cache_stale_discarded_total",
		Help: "Upstream responses dropped because a fresher one was already stored",
	})

	registry.MustRegister(
		requestDuration, requestTotal, upstreamLatency, cacheLookups, staleDiscarded,
		collectors.NewGoCollector(),
	)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		upstreamLatency: upstreamLatency,
		cacheLookups:    cacheLookups,
		staleDiscarded:  staleDiscarded,
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, route, code).Observe(d.Seconds())
	m.requestTotal.WithLabelValues(method, route, code).Inc()
}

func (m *Metrics) ObserveUpstream(method, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(method, outcome).Observe(d.Seconds())
}

// CacheLookup counts a hit or miss on layer ("local" or "shared").
func (m *Metrics) CacheLookup(layer string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(layer, result).Inc()
}

func (m *Metrics) StaleDiscarded() {
	if m == nil {
		return
	}
	m.staleDiscarded.Inc()
}
