// Package controller holds the long-lived state of one listing view and
// drives an engine on every filter change.
package controller

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/light-bringer/catalog-listing/internal/app/listing/contracts"
	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
	"github.com/light-bringer/catalog-listing/internal/pkg/metrics"
)

var (
	// ErrSuperseded is returned when a newer change replaced the query
	// before it completed. The visible view was not touched.
	ErrSuperseded = errors.New("query superseded by a newer change")
	// ErrProductNotOnPage is returned for product actions on items that are
	// not in the visible page.
	ErrProductNotOnPage = errors.New("product is not on the current page")
)

// Status is the lifecycle of the visible result.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// View is a snapshot of what the listing displays.
type View struct {
	State  domain.FilterState
	Page   *domain.ResultPage
	Facets *domain.Facets
	// FacetsUnavailable hides the filter sections after a facet failure.
	FacetsUnavailable bool
	Status            Status
	// Err is the fatal product query failure when Status is StatusFailed.
	Err        error
	Generation uint64
}

// Empty reports whether a loaded result matched nothing, in which case the
// view offers to clear filters.
func (v View) Empty() bool {
	return v.Status == StatusReady && v.Page.Empty()
}

// Callbacks are fire-and-forget notifications to the hosting view.
type Callbacks struct {
	OnProductClick  func(domain.Product)
	OnAddToCart     func(domain.Product)
	OnAddToWishlist func(domain.Product)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithMetrics sets the metrics sink for discarded responses.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithCallbacks installs product action callbacks.
func WithCallbacks(cb Callbacks) Option {
	return func(c *Controller) { c.callbacks = cb }
}

// Controller owns one FilterState. Every mutator applies a pure transition
// and re-evaluates through the engine; only the latest generation may
// update the view. Safe for concurrent use.
type Controller struct {
	engine    contracts.ListingEngine
	seed      domain.Seed
	logger    *zap.Logger
	metrics   *metrics.Metrics
	callbacks Callbacks

	mu         sync.Mutex
	state      domain.FilterState
	generation uint64
	view       View
	known      *domain.Facets
	cancel     context.CancelFunc
}

// New creates a controller for a view opened with seed. Call Load to run
// the first query.
func New(engine contracts.ListingEngine, seed domain.Seed, opts ...Option) *Controller {
	c := &Controller{
		engine: engine,
		seed:   seed,
		logger: zap.NewNop(),
		state:  domain.NewFilterState(seed),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.view = View{State: c.state, Status: StatusIdle}
	return c
}

// View returns the current snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// State returns the current filter state.
func (c *Controller) State() domain.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load runs the query for the current state.
func (c *Controller) Load(ctx context.Context) (View, error) {
	return c.apply(ctx, func(s domain.FilterState) domain.FilterState { return s })
}

// Retry re-runs the query after a fatal failure.
func (c *Controller) Retry(ctx context.Context) (View, error) {
	c.mu.Lock()
	failed := c.view.Status == StatusFailed
	view := c.view
	c.mu.Unlock()
	if !failed {
		return view, domain.ErrNoQueryToRetry
	}
	return c.Load(ctx)
}

// SetCategory selects a category and clears subcategories.
func (c *Controller) SetCategory(ctx context.Context, slug string) (View, error) {
	return c.apply(ctx, func(s domain.FilterState) domain.FilterState { return s.SetCategory(slug) })
}

// ToggleSubcategory adds or removes a subcategory.
func (c *Controller) ToggleSubcategory(ctx context.Context, slug string, included bool) (View, error) {
	return c.apply(ctx, func(s domain.FilterState) domain.FilterState { return s.ToggleSubcategory(slug, included) })
}

// ToggleBrand adds or removes a brand.
func (c *Controller) ToggleBrand(ctx context.Context, id string, included bool) (View, error) {
	return c.apply(ctx, func(s domain.FilterState) domain.FilterState { return s.ToggleBrand(id, included) })
}

// SetPriceRange narrows the price range. Reversed or out-of-bounds input is
// normalised.
func (c *Controller) SetPriceRange(ctx context.Context, minPrice, maxPrice float64) (View, error) {
	return c.apply(ctx, func(s domain.FilterState) domain.FilterState { return s.SetPriceRange(minPrice, maxPrice) })
}

// SetMinRating sets the rating threshold.
func (c *Controller) SetMinRating(ctx context.Context, n int) (View, error) {
	return c.apply(ctx, func(s domain.FilterState) domain.FilterState { return s.SetMinRating(n) })
}

// SetInStockOnly sets the stock filter.
func (c *Controller) SetInStockOnly(ctx context.Context, v bool) (View, error) {
	return c.apply(ctx, func(s domain.FilterState) domain.FilterState { return s.SetInStockOnly(v) })
}

// SetSearchQuery replaces the search query.
func (c *Controller) SetSearchQuery(ctx context.Context, q string) (View, error) {
	return c.apply(ctx, func(s domain.FilterState) domain.FilterState { return s.SetSearchQuery(q) })
}

// SetSortMode changes the ordering. Modes the engine does not support fall
// back to relevance.
func (c *Controller) SetSortMode(ctx context.Context, mode domain.SortMode) (View, error) {
	if !domain.SupportsSortMode(c.engine.SortModes(), mode) {
		c.logger.Debug("unsupported sort mode, using relevance", zap.String("sort", string(mode)))
		mode = domain.SortRelevance
	}
	return c.apply(ctx, func(s domain.FilterState) domain.FilterState { return s.SetSortMode(mode) })
}

// SetPage moves to page n, clamped to the last known page count.
func (c *Controller) SetPage(ctx context.Context, n int) (View, error) {
	return c.apply(ctx, func(s domain.FilterState) domain.FilterState {
		total := 0
		if c.view.Page != nil {
			total = c.view.Page.TotalPages
		}
		return s.SetPage(n, total)
	})
}

// ClearAll resets every filter to the seeded defaults.
func (c *Controller) ClearAll(ctx context.Context) (View, error) {
	return c.apply(ctx, func(s domain.FilterState) domain.FilterState { return s.ClearAll(c.seed) })
}

// Dismiss removes the dimension a badge stands for.
func (c *Controller) Dismiss(ctx context.Context, badge domain.Badge) (View, error) {
	return c.apply(ctx, func(s domain.FilterState) domain.FilterState { return domain.Dismiss(s, badge, c.seed) })
}

// SetViewMode switches between grid and list. It never re-queries.
func (c *Controller) SetViewMode(mode domain.ViewMode) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.SetViewMode(mode)
	c.view.State = c.state
	return c.view
}

// ClickProduct notifies the host that a product on the page was opened.
func (c *Controller) ClickProduct(id string) error {
	return c.notify(id, c.callbacks.OnProductClick)
}

// AddToCart notifies the host that a product on the page was added to the cart.
func (c *Controller) AddToCart(id string) error {
	return c.notify(id, c.callbacks.OnAddToCart)
}

// AddToWishlist notifies the host that a product on the page was wishlisted.
func (c *Controller) AddToWishlist(id string) error {
	return c.notify(id, c.callbacks.OnAddToWishlist)
}

func (c *Controller) notify(id string, fn func(domain.Product)) error {
	c.mu.Lock()
	page := c.view.Page
	c.mu.Unlock()

	if page != nil {
		for _, p := range page.Items {
			if p.ID == id {
				if fn != nil {
					fn(p)
				}
				return nil
			}
		}
	}
	return ErrProductNotOnPage
}

// apply runs transition under the lock, starts a new generation and
// evaluates it. The in-flight query of the previous generation is
// cancelled.
func (c *Controller) apply(ctx context.Context, transition func(domain.FilterState) domain.FilterState) (View, error) {
	c.mu.Lock()
	c.state = transition(c.state)
	c.generation++
	gen := c.generation
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	req := &contracts.ListingRequest{State: c.state, Seed: c.seed, KnownFacets: c.known}
	c.view.State = c.state
	c.view.Status = StatusLoading
	c.view.Generation = gen
	c.mu.Unlock()
	defer cancel()

	res, err := c.engine.Execute(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.metrics.StaleResponse()
		c.logger.Debug("discarding superseded response", zap.Uint64("generation", gen), zap.Uint64("current", c.generation))
		return c.view, ErrSuperseded
	}
	c.cancel = nil

	if err != nil {
		c.view.Status = StatusFailed
		c.view.Err = err
		c.logger.Warn("listing query failed", zap.Uint64("generation", gen), zap.Error(err))
		return c.view, err
	}

	if !res.FacetsUnavailable && res.Facets != nil {
		c.state = c.state.WithBounds(res.Facets.Bounds())
		c.known = res.Facets
	}
	c.view = View{
		State:             c.state,
		Page:              res.Page,
		Facets:            res.Facets,
		FacetsUnavailable: res.FacetsUnavailable,
		Status:            StatusReady,
		Generation:        gen,
	}
	if res.FacetsUnavailable {
		c.view.Facets = nil
	}
	return c.view, nil
}
