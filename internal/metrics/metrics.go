// Package metrics provides Prometheus metrics for the discovery API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "discovery"

// Metrics holds every collector the service exports
type Metrics struct {
	registry *prometheus.Registry

	// SearchDuration measures a whole search fan-out by requested type
	SearchDuration *prometheus.HistogramVec
	// SearchTotal counts searches by requested type and outcome
	SearchTotal *prometheus.CounterVec
	// EmptyQueries counts searches answered without touching the store
	EmptyQueries prometheus.Counter
	// CacheRequests counts response cache lookups by result
	CacheRequests *prometheus.CounterVec
}

// New registers a fresh set of collectors on their own registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SearchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Duration of search requests in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"type"},
		),
		SearchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_total",
				Help:      "Total number of search requests",
			},
			[]string{"type", "status"},
		),
		EmptyQueries: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_empty_query_total",
				Help:      "Searches short-circuited because no term, category or tag was given",
			},
		),
		CacheRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "response_cache_requests_total",
				Help:      "Response cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveSearch records one completed search
func (m *Metrics) ObserveSearch(contentType string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.SearchTotal.WithLabelValues(contentType, status).Inc()
	m.SearchDuration.WithLabelValues(contentType).Observe(d.Seconds())
}

// ObserveEmptyQuery records a short-circuited search
func (m *Metrics) ObserveEmptyQuery() {
	if m == nil {
		return
	}
	m.EmptyQueries.Inc()
}

// ObserveCache records a cache lookup result: hit, miss or bypass
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry for tests and custom collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus exposition handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
