package remote_listing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/light-bringer/catalog-listing/internal/app/listing/contracts"
	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
	"github.com/light-bringer/catalog-listing/internal/pkg/clock"
	"github.com/light-bringer/catalog-listing/internal/pkg/metrics"
)

const (
	variant = "remote"

	// DefaultTimeout bounds each remote evaluation.
	DefaultTimeout = 10 * time.Second

	tracerName = "github.com/light-bringer/catalog-listing/remote_listing"
)

// Query evaluates filter states by delegating filtering, sorting and
// pagination to a catalog backend. Facets and products are fetched
// concurrently on every evaluation.
type Query struct {
	backend contracts.CatalogBackend
	timeout time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
	clock   clock.Clock
	tracer  trace.Tracer
	newID   func() string
}

// Option configures a Query.
type Option func(*Query)

// WithTimeout bounds each evaluation. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(q *Query) {
		if d > 0 {
			q.timeout = d
		}
	}
}

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

// WithRequestIDs overrides request ID generation.
func WithRequestIDs(gen func() string) Option {
	return func(q *Query) { q.newID = gen }
}

// NewQuery creates a new remote listing query.
func NewQuery(backend contracts.CatalogBackend, opts ...Option) *Query {
	q := &Query{
		backend: backend,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
		clock:   clock.NewRealClock(),
		tracer:  otel.Tracer(tracerName),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// SortModes lists the orderings the backend accepts.
func (q *Query) SortModes() []domain.SortMode {
	return domain.RemoteSortModes
}

// Execute runs the facet and product queries for req.State. A product
// failure returns a *domain.FetchError. A facet failure is logged and
// reported through FacetsUnavailable; the page is still returned.
func (q *Query) Execute(ctx context.Context, req *contracts.ListingRequest) (*contracts.ListingResult, error) {
	requestID := q.newID()
	ctx, span := q.tracer.Start(ctx, "remote_listing.Execute", trace.WithAttributes(
		attribute.String("listing.request_id", requestID),
		attribute.String("listing.sort", string(req.State.SortMode)),
		attribute.Int("listing.page", req.State.Page),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	facetVars := FacetVariables(req.State)
	productVars := ProductVariables(req.State, domain.PageSize)

	var (
		facets     *domain.Facets
		facetErr   error
		page       *contracts.ProductPage
		productErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		facets, facetErr = q.fetchFacets(gctx, facetVars)
		return nil
	})
	g.Go(func() error {
		page, productErr = q.fetchProducts(gctx, productVars)
		return productErr
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "product query failed")
		q.logger.Warn("product query failed", zap.String("request_id", requestID), zap.Error(err))
		return nil, &domain.FetchError{Op: "products", RequestID: requestID, Err: err}
	}

	result := &contracts.ListingResult{
		State:     req.State,
		Facets:    facets,
		RequestID: requestID,
	}
	labels := req.KnownFacets
	if facetErr != nil {
		result.FacetsUnavailable = true
		q.logger.Warn("facet query failed, omitting filters",
			zap.String("request_id", requestID),
			zap.Error(&domain.FetchError{Op: "facets", RequestID: requestID, Err: facetErr}),
		)
	} else {
		result.State = req.State.WithBounds(facets.Bounds())
		labels = facets
	}
	result.Page = toResultPage(page, result.State, req.Seed, labels.Context())
	span.SetAttributes(attribute.Int("listing.total", result.Page.TotalCount))
	return result, nil
}

// Facets fetches the facets for a search query on their own.
func (q *Query) Facets(ctx context.Context, searchQuery string) (*domain.Facets, error) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	facets, err := q.fetchFacets(ctx, contracts.FacetVariables{SearchQuery: searchQuery})
	if err != nil {
		return nil, &domain.FetchError{Op: "facets", Err: err}
	}
	return facets, nil
}

func (q *Query) fetchFacets(ctx context.Context, vars contracts.FacetVariables) (*domain.Facets, error) {
	ctx, span := q.tracer.Start(ctx, "remote_listing.facets")
	defer span.End()

	start := q.clock.Now()
	facets, err := q.backend.FetchFacets(ctx, vars)
	if err == nil && facets == nil {
		err = domain.ErrFacetsUnavailable
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "facet query failed")
		q.metrics.ObserveQuery(variant, "facets", metrics.OutcomeDegraded, q.clock.Since(start))
		return nil, err
	}
	q.metrics.ObserveQuery(variant, "facets", metrics.OutcomeOK, q.clock.Since(start))
	return facets, nil
}

func (q *Query) fetchProducts(ctx context.Context, vars contracts.ProductVariables) (*contracts.ProductPage, error) {
	ctx, span := q.tracer.Start(ctx, "remote_listing.products")
	defer span.End()

	start := q.clock.Now()
	page, err := q.backend.QueryProducts(ctx, vars)
	if err == nil && page == nil {
		err = domain.ErrCatalogUnavailable
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "product query failed")
		q.metrics.ObserveQuery(variant, "products", metrics.OutcomeError, q.clock.Since(start))
		return nil, err
	}
	q.metrics.ObserveQuery(variant, "products", metrics.OutcomeOK, q.clock.Since(start))
	return page, nil
}

func toResultPage(page *contracts.ProductPage, s domain.FilterState, seed domain.Seed, cc domain.CatalogContext) *domain.ResultPage {
	current := page.PaginatorInfo.CurrentPage
	if current < 1 {
		current = s.Page
	}
	if current < 1 {
		current = 1
	}
	items := page.Items
	if items == nil {
		items = []domain.Product{}
	}
	total := page.PaginatorInfo.Total
	return &domain.ResultPage{
		Items:      items,
		TotalCount: total,
		TotalPages: domain.TotalPages(total, domain.PageSize),
		Page:       current,
		PageSize:   domain.PageSize,
		Badges:     domain.DeriveBadges(s, seed, cc),
	}
}
