package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveQuery(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveQuery("remote", "products", OutcomeOK, 20*time.Millisecond)
	m.ObserveQuery("remote", "products", OutcomeOK, 30*time.Millisecond)
	m.ObserveQuery("remote", "facets", OutcomeDegraded, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.queries.WithLabelValues("remote", "products", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues("remote", "facets", OutcomeDegraded)))

	count, err := testutil.GatherAndCount(reg, "catalog_listing_query_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_Counters(t *testing.T) {
	m := New(nil)

	m.StaleResponse()
	m.CacheHit()
	m.CacheHit()
	m.CacheMiss()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.staleResponses))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveQuery("local", "products", OutcomeOK, time.Millisecond)
		m.StaleResponse()
		m.CacheHit()
		m.CacheMiss()
	})
}
