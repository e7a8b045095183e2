package repo

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/light-bringer/catalog-listing/internal/app/listing/contracts"
	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
	"github.com/light-bringer/catalog-listing/internal/pkg/metrics"
)

// DefaultFacetLoadTimeout bounds a shared facet load, which runs detached
// from its callers.
const DefaultFacetLoadTimeout = 10 * time.Second

// FacetStore is the cache used by CachedFacets. *cache.Cache satisfies it.
type FacetStore interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// CachedFacets decorates a CatalogBackend with a cache-aside facet cache.
// Facets depend only on the search query, so one entry serves every
// selection made under that query. Product queries pass through.
type CachedFacets struct {
	contracts.CatalogBackend

	store       FacetStore
	logger      *zap.Logger
	metrics     *metrics.Metrics
	loadTimeout time.Duration
	group       singleflight.Group
}

var _ contracts.CatalogBackend = (*CachedFacets)(nil)

// NewCachedFacets wraps backend. m may be nil.
func NewCachedFacets(backend contracts.CatalogBackend, store FacetStore, logger *zap.Logger, m *metrics.Metrics) *CachedFacets {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedFacets{
		CatalogBackend: backend,
		store:          store,
		logger:         logger,
		metrics:        m,
		loadTimeout:    DefaultFacetLoadTimeout,
	}
}

// WithLoadTimeout replaces the bound on a shared backend load. Non-positive
// values keep the default.
func (c *CachedFacets) WithLoadTimeout(d time.Duration) *CachedFacets {
	if d > 0 {
		c.loadTimeout = d
	}
	return c
}

// FetchFacets returns cached facets for the search query, loading them from
// the backend once per key on a miss. Cache errors fall through to the
// backend. The load runs detached from ctx: a caller that gives up returns
// its own ctx error while the others keep waiting for the shared result.
func (c *CachedFacets) FetchFacets(ctx context.Context, vars contracts.FacetVariables) (*domain.Facets, error) {
	key := facetKey(vars)

	var cached domain.Facets
	found, err := c.store.Get(ctx, key, &cached)
	if err != nil {
		c.logger.Warn("facet cache read failed", zap.String("key", key), zap.Error(err))
	}
	if found {
		c.metrics.CacheHit()
		return &cached, nil
	}
	c.metrics.CacheMiss()

	ch := c.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()

		facets, err := c.CatalogBackend.FetchFacets(loadCtx, vars)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(loadCtx, key, facets); err != nil {
			c.logger.Warn("facet cache write failed", zap.String("key", key), zap.Error(err))
		}
		return facets, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("facet load shared", zap.String("key", key))
		}
		return res.Val.(*domain.Facets), nil
	}
}

func facetKey(vars contracts.FacetVariables) string {
	return "facets:" + strings.ToLower(strings.TrimSpace(vars.SearchQuery))
}
