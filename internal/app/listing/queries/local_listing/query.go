package local_listing

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/light-bringer/catalog-listing/internal/app/listing/contracts"
	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
	"github.com/light-bringer/catalog-listing/internal/pkg/clock"
	"github.com/light-bringer/catalog-listing/internal/pkg/metrics"
)

const variant = "local"

// Query evaluates filter states against an in-memory catalog. The catalog is
// loaded from the source on first use and kept until Invalidate.
type Query struct {
	source  contracts.ProductSource
	logger  *zap.Logger
	metrics *metrics.Metrics
	clock   clock.Clock

	mu       sync.Mutex
	snapshot *snapshot
}

type snapshot struct {
	products []domain.Product
	tree     []domain.Category
	brands   []domain.Brand
	facets   *domain.Facets
	cc       domain.CatalogContext
}

// Option configures a Query.
type Option func(*Query)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(q *Query) { q.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(q *Query) { q.metrics = m }
}

// WithClock sets the clock used for latency measurement.
func WithClock(c clock.Clock) Option {
	return func(q *Query) { q.clock = c }
}

// NewQuery creates a new local listing query.
func NewQuery(source contracts.ProductSource, opts ...Option) *Query {
	q := &Query{
		source: source,
		logger: zap.NewNop(),
		clock:  clock.NewRealClock(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// SortModes lists the orderings the in-memory engine supports.
func (q *Query) SortModes() []domain.SortMode {
	return domain.LocalSortModes
}

// Execute filters, sorts and paginates the catalog for req.State. Catalog
// price bounds are applied to the state first, so an untouched range
// accepts every product.
func (q *Query) Execute(ctx context.Context, req *contracts.ListingRequest) (*contracts.ListingResult, error) {
	start := q.clock.Now()

	snap, err := q.load(ctx)
	if err != nil {
		q.metrics.ObserveQuery(variant, "products", metrics.OutcomeError, q.clock.Since(start))
		return nil, err
	}

	state := req.State.WithBounds(snap.facets.Bounds())
	page := domain.Evaluate(snap.products, state, req.Seed, snap.cc)

	q.metrics.ObserveQuery(variant, "products", metrics.OutcomeOK, q.clock.Since(start))
	q.logger.Debug("local listing evaluated",
		zap.Int("total", page.TotalCount),
		zap.Int("page", page.Page),
		zap.String("sort", string(state.SortMode)),
	)

	return &contracts.ListingResult{
		State:  state,
		Page:   page,
		Facets: snap.facets,
	}, nil
}

// Facets returns the facets of the products matching searchQuery alone. The
// user's other selections never narrow them.
func (q *Query) Facets(ctx context.Context, searchQuery string) (*domain.Facets, error) {
	snap, err := q.load(ctx)
	if err != nil {
		return nil, err
	}
	if searchQuery == "" {
		return snap.facets, nil
	}
	scope := domain.NewFilterState(domain.Seed{SearchQuery: searchQuery})
	matched := domain.Filter(snap.products, scope, snap.cc)
	return domain.FacetsFromProducts(matched, snap.tree, snap.brands), nil
}

// Invalidate drops the loaded catalog; the next call reloads it.
func (q *Query) Invalidate() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.snapshot = nil
}

func (q *Query) load(ctx context.Context) (*snapshot, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.snapshot != nil {
		return q.snapshot, nil
	}

	raw, err := q.source.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}
	tree, brands, err := q.source.Taxonomy(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}

	products := make([]domain.Product, 0, len(raw))
	for _, p := range raw {
		if err := p.Validate(); err != nil {
			q.logger.Warn("skipping invalid product", zap.String("product_id", p.ID), zap.Error(err))
			continue
		}
		products = append(products, p)
	}

	facets := domain.FacetsFromProducts(products, tree, brands)
	q.snapshot = &snapshot{
		products: products,
		tree:     facets.Categories,
		brands:   facets.Brands,
		facets:   facets,
		cc:       facets.Context(),
	}
	q.logger.Info("catalog loaded", zap.Int("products", len(products)), zap.Int("skipped", len(raw)-len(products)))
	return q.snapshot, nil
}
