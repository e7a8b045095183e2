package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "catalog_listing"

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeDegraded = "degraded"
)

// Metrics holds the listing engine collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	queries        *prometheus.CounterVec
	queryDuration  *prometheus.HistogramVec
	staleResponses prometheus.Counter
	cacheLookups   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. Passing nil uses a
// private registry, which keeps tests isolated.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Catalog queries by variant, query kind and outcome.",
		}, []string{"variant", "query", "outcome"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Catalog query latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"variant", "query"}),
		staleResponses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_total",
			Help:      "Responses discarded because a newer query superseded them.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "facet_cache_lookups_total",
			Help:      "Facet cache lookups by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.queries, m.queryDuration, m.staleResponses, m.cacheLookups)
	return m
}

// ObserveQuery records one query with its outcome and latency.
func (m *Metrics) ObserveQuery(variant, query, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(variant, query, outcome).Inc()
	m.queryDuration.WithLabelValues(variant, query).Observe(elapsed.Seconds())
}

// StaleResponse counts a discarded superseded response.
func (m *Metrics) StaleResponse() {
	if m == nil {
		return
	}
	m.staleResponses.Inc()
}

// CacheHit counts a facet cache hit.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("hit").Inc()
}

// CacheMiss counts a facet cache miss.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}
