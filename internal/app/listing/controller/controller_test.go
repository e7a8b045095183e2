package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/catalog-listing/internal/app/listing/contracts"
	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
	"github.com/light-bringer/catalog-listing/internal/app/listing/queries/local_listing"
	"github.com/light-bringer/catalog-listing/internal/pkg/metrics"
)

type staticSource struct {
	products []domain.Product
}

func (s staticSource) Products(context.Context) ([]domain.Product, error) {
	return s.products, nil
}

func (s staticSource) Taxonomy(context.Context) ([]domain.Category, []domain.Brand, error) {
	return []domain.Category{
			{ID: "1", Slug: "electronics", Name: "Electronics", Children: []domain.Category{
				{ID: "2", Slug: "phones", Name: "Phones"},
			}},
			{ID: "3", Slug: "auto-parts", Name: "Auto Parts"},
		}, []domain.Brand{
			{ID: "A", Name: "Acme"}, {ID: "B", Name: "Bolt"}, {ID: "C", Name: "Crux"},
		}, nil
}

// catalog returns 20 products: brand A x8, B x7, C x5, priced 10..200.
func catalog() []domain.Product {
	counts := []struct {
		brand string
		n     int
	}{{"A", 8}, {"B", 7}, {"C", 5}}
	var out []domain.Product
	id := 1
	for _, c := range counts {
		for i := 0; i < c.n; i++ {
			category, sub := "electronics", "phones"
			if id%4 == 0 {
				category, sub = "auto-parts", ""
			}
			out = append(out, domain.Product{
				ID:          fmt.Sprint(id),
				Name:        fmt.Sprintf("Item %02d", id),
				Brand:       c.brand,
				Category:    category,
				Subcategory: sub,
				Price:       float64(id * 10),
				Rating:      float64(id % 6),
				InStock:     id%3 != 0,
			})
			id++
		}
	}
	return out
}

func newLocalController(opts ...Option) *Controller {
	engine := local_listing.NewQuery(staticSource{products: catalog()})
	return New(engine, domain.Seed{}, opts...)
}

// scriptedEngine answers through respond and records every request.
type scriptedEngine struct {
	mu      sync.Mutex
	calls   []*contracts.ListingRequest
	respond func(ctx context.Context, req *contracts.ListingRequest) (*contracts.ListingResult, error)
}

func (e *scriptedEngine) Execute(ctx context.Context, req *contracts.ListingRequest) (*contracts.ListingResult, error) {
	e.mu.Lock()
	e.calls = append(e.calls, req)
	e.mu.Unlock()
	return e.respond(ctx, req)
}

func (e *scriptedEngine) Facets(context.Context, string) (*domain.Facets, error) {
	return nil, nil
}

func (e *scriptedEngine) SortModes() []domain.SortMode {
	return domain.RemoteSortModes
}

func (e *scriptedEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func okResult(req *contracts.ListingRequest, facets *domain.Facets) *contracts.ListingResult {
	return &contracts.ListingResult{
		State:  req.State,
		Page:   &domain.ResultPage{Items: []domain.Product{{ID: "1", Price: 10}}, TotalCount: 1, TotalPages: 1, Page: 1, PageSize: domain.PageSize},
		Facets: facets,
	}
}

func TestController_LoadAndBrandSelection(t *testing.T) {
	c := newLocalController()
	ctx := context.Background()

	view, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusReady, view.Status)
	assert.Equal(t, 20, view.Page.TotalCount)
	assert.Equal(t, domain.PriceRange{Min: 10, Max: 200}, view.State.PriceRange)

	view, err = c.ToggleBrand(ctx, "A", true)
	require.NoError(t, err)
	assert.Equal(t, 8, view.Page.TotalCount)
	assert.Equal(t, 1, view.Page.TotalPages)
	assert.Len(t, view.Page.Items, 8)
}

func TestController_MutatorsResetPage(t *testing.T) {
	ctx := context.Background()
	mutators := map[string]func(c *Controller) (View, error){
		"SetCategory":       func(c *Controller) (View, error) { return c.SetCategory(ctx, "electronics") },
		"ToggleSubcategory": func(c *Controller) (View, error) { return c.ToggleSubcategory(ctx, "phones", true) },
		"ToggleBrand":       func(c *Controller) (View, error) { return c.ToggleBrand(ctx, "B", true) },
		"SetPriceRange":     func(c *Controller) (View, error) { return c.SetPriceRange(ctx, 20, 150) },
		"SetMinRating":      func(c *Controller) (View, error) { return c.SetMinRating(ctx, 1) },
		"SetInStockOnly":    func(c *Controller) (View, error) { return c.SetInStockOnly(ctx, true) },
		"SetSortMode":       func(c *Controller) (View, error) { return c.SetSortMode(ctx, domain.SortPriceDesc) },
		"SetSearchQuery":    func(c *Controller) (View, error) { return c.SetSearchQuery(ctx, "item") },
		"ClearAll":          func(c *Controller) (View, error) { return c.ClearAll(ctx) },
	}

	for name, mutate := range mutators {
		t.Run(name, func(t *testing.T) {
			c := newLocalController()
			_, err := c.Load(ctx)
			require.NoError(t, err)
			view, err := c.SetPage(ctx, 2)
			require.NoError(t, err)
			require.Equal(t, 2, view.State.Page)

			view, err = mutate(c)
			require.NoError(t, err)
			assert.Equal(t, 1, view.State.Page)
		})
	}
}

func TestController_SetPageClampsToKnownPages(t *testing.T) {
	c := newLocalController()
	ctx := context.Background()
	_, err := c.Load(ctx)
	require.NoError(t, err)

	view, err := c.SetPage(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, 2, view.State.Page)
	assert.Len(t, view.Page.Items, 8)
}

func TestController_SetViewModeDoesNotQuery(t *testing.T) {
	engine := &scriptedEngine{respond: func(_ context.Context, req *contracts.ListingRequest) (*contracts.ListingResult, error) {
		return okResult(req, nil), nil
	}}
	c := New(engine, domain.Seed{})
	ctx := context.Background()
	_, err := c.Load(ctx)
	require.NoError(t, err)
	_, err = c.SetPage(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 2, engine.callCount())

	view := c.SetViewMode(domain.ViewList)

	assert.Equal(t, 2, engine.callCount())
	assert.Equal(t, domain.ViewList, view.State.ViewMode)
	assert.Equal(t, domain.ViewList, c.State().ViewMode)
}

func TestController_StaleResponseIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	firstStarted := make(chan struct{})
	var firstCtxErr error

	var once sync.Once
	engine := &scriptedEngine{}
	engine.respond = func(ctx context.Context, req *contracts.ListingRequest) (*contracts.ListingResult, error) {
		blocking := false
		once.Do(func() { blocking = true })
		if blocking {
			close(firstStarted)
			<-release
			firstCtxErr = ctx.Err()
			res := okResult(req, nil)
			res.Page.TotalCount = 999
			return res, nil
		}
		return okResult(req, nil), nil
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	c := New(engine, domain.Seed{}, WithMetrics(m))
	ctx := context.Background()

	type outcome struct {
		view View
		err  error
	}
	slow := make(chan outcome, 1)
	go func() {
		v, err := c.ToggleBrand(ctx, "slow", true)
		slow <- outcome{v, err}
	}()
	<-firstStarted

	fast, err := c.ToggleBrand(ctx, "fast", true)
	require.NoError(t, err)
	assert.Equal(t, 1, fast.Page.TotalCount)

	close(release)
	select {
	case got := <-slow:
		assert.ErrorIs(t, got.err, ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded query never returned")
	}

	assert.ErrorIs(t, firstCtxErr, context.Canceled, "superseded query is cancelled")
	view := c.View()
	assert.Equal(t, 1, view.Page.TotalCount, "stale response must not reach the view")
	assert.Equal(t, []string{"slow", "fast"}, view.State.SelectedBrands)

	expected := `
# HELP catalog_listing_stale_responses_total Responses discarded because a newer query superseded them.
# TYPE catalog_listing_stale_responses_total counter
catalog_listing_stale_responses_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "catalog_listing_stale_responses_total"))
}

func TestController_ProductFailureAndRetry(t *testing.T) {
	fail := true
	engine := &scriptedEngine{}
	engine.respond = func(_ context.Context, req *contracts.ListingRequest) (*contracts.ListingResult, error) {
		if fail {
			return nil, &domain.FetchError{Op: "products", Err: errors.New("503")}
		}
		return okResult(req, nil), nil
	}
	c := New(engine, domain.Seed{})
	ctx := context.Background()

	_, err := c.Retry(ctx)
	assert.ErrorIs(t, err, domain.ErrNoQueryToRetry)

	view, err := c.ToggleBrand(ctx, "A", true)
	require.Error(t, err)
	assert.True(t, domain.IsFetchError(err))
	assert.Equal(t, StatusFailed, view.Status)
	assert.True(t, domain.IsFetchError(view.Err))

	fail = false
	view, err = c.Retry(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusReady, view.Status)
	assert.NoError(t, view.Err)
	assert.Equal(t, []string{"A"}, engine.calls[len(engine.calls)-1].State.SelectedBrands, "retry re-runs the same state")
}

func TestController_FacetFailureDegrades(t *testing.T) {
	facets := &domain.Facets{MinPrice: 10, MaxPrice: 200}
	facetsDown := false
	engine := &scriptedEngine{}
	engine.respond = func(_ context.Context, req *contracts.ListingRequest) (*contracts.ListingResult, error) {
		if facetsDown {
			res := okResult(req, nil)
			res.FacetsUnavailable = true
			return res, nil
		}
		return okResult(req, facets), nil
	}
	c := New(engine, domain.Seed{})
	ctx := context.Background()

	view, err := c.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, view.Facets)

	facetsDown = true
	view, err = c.ToggleBrand(ctx, "A", true)
	require.NoError(t, err)

	assert.Equal(t, StatusReady, view.Status)
	assert.True(t, view.FacetsUnavailable)
	assert.Nil(t, view.Facets)
	assert.NotEmpty(t, view.Page.Items)
	assert.Equal(t, domain.PriceRange{Min: 10, Max: 200}, view.State.Bounds, "bounds from the last good facets survive")
	assert.Same(t, facets, engine.calls[1].KnownFacets)
}

func TestController_PriceRangeInitialisedUnlessNarrowed(t *testing.T) {
	bounds := domain.PriceRange{Min: 10, Max: 200}
	engine := &scriptedEngine{}
	engine.respond = func(_ context.Context, req *contracts.ListingRequest) (*contracts.ListingResult, error) {
		return okResult(req, &domain.Facets{MinPrice: bounds.Min, MaxPrice: bounds.Max}), nil
	}
	c := New(engine, domain.Seed{})
	ctx := context.Background()

	view, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, bounds, view.State.PriceRange)

	view, err = c.SetPriceRange(ctx, 50, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.PriceRange{Min: 50, Max: 100}, view.State.PriceRange, "refetch must not clobber a narrowed range")

	bounds = domain.PriceRange{Min: 60, Max: 300}
	view, err = c.SetInStockOnly(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, domain.PriceRange{Min: 60, Max: 100}, view.State.PriceRange)

	view, err = c.ClearAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, bounds, view.State.PriceRange)
}

func TestController_UnsupportedSortFallsBack(t *testing.T) {
	c := newLocalController()
	ctx := context.Background()

	view, err := c.SetSortMode(ctx, domain.SortNameDesc)
	require.NoError(t, err)
	assert.Equal(t, domain.SortRelevance, view.State.SortMode)

	view, err = c.SetSortMode(ctx, domain.SortPriceAsc)
	require.NoError(t, err)
	assert.Equal(t, domain.SortPriceAsc, view.State.SortMode)
	assert.Equal(t, 10.0, view.Page.Items[0].Price)
}

func TestController_DismissBadge(t *testing.T) {
	c := newLocalController()
	ctx := context.Background()

	_, err := c.ToggleBrand(ctx, "A", true)
	require.NoError(t, err)
	view, err := c.SetInStockOnly(ctx, true)
	require.NoError(t, err)
	require.Len(t, view.Page.Badges, 2)

	var brandBadge domain.Badge
	for _, b := range view.Page.Badges {
		if b.Kind == domain.BadgeBrand {
			brandBadge = b
		}
	}
	assert.Equal(t, "Acme", brandBadge.Label)

	view, err = c.Dismiss(ctx, brandBadge)
	require.NoError(t, err)
	assert.Empty(t, view.State.SelectedBrands)
	assert.True(t, view.State.InStockOnly)
	require.Len(t, view.Page.Badges, 1)
	assert.Equal(t, domain.BadgeInStock, view.Page.Badges[0].Kind)
}

func TestController_ClearAllKeepsDisplayPreferences(t *testing.T) {
	c := newLocalController()
	ctx := context.Background()

	_, err := c.SetSortMode(ctx, domain.SortPriceDesc)
	require.NoError(t, err)
	c.SetViewMode(domain.ViewList)
	_, err = c.ToggleBrand(ctx, "B", true)
	require.NoError(t, err)

	view, err := c.ClearAll(ctx)
	require.NoError(t, err)

	assert.Empty(t, view.State.SelectedBrands)
	assert.Equal(t, domain.SortPriceDesc, view.State.SortMode)
	assert.Equal(t, domain.ViewList, view.State.ViewMode)
	assert.Equal(t, 20, view.Page.TotalCount)
}

func TestController_EmptyResult(t *testing.T) {
	c := newLocalController()
	ctx := context.Background()

	view, err := c.SetSearchQuery(ctx, "no such thing")
	require.NoError(t, err)

	assert.True(t, view.Empty())
	assert.Empty(t, view.Page.Items)
	assert.Equal(t, 0, view.Page.TotalPages)
}

func TestController_Callbacks(t *testing.T) {
	var clicked, carted []string
	c := newLocalController(WithCallbacks(Callbacks{
		OnProductClick: func(p domain.Product) { clicked = append(clicked, p.ID) },
		OnAddToCart:    func(p domain.Product) { carted = append(carted, p.ID) },
	}))
	ctx := context.Background()
	_, err := c.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, c.ClickProduct("1"))
	require.NoError(t, c.AddToCart("2"))
	require.NoError(t, c.AddToWishlist("3"), "missing callback is a no-op")
	assert.ErrorIs(t, c.ClickProduct("20"), ErrProductNotOnPage, "product 20 is on page 2")

	assert.Equal(t, []string{"1"}, clicked)
	assert.Equal(t, []string{"2"}, carted)
}

func TestController_CategoryScenario(t *testing.T) {
	c := newLocalController()
	ctx := context.Background()

	_, err := c.SetCategory(ctx, "electronics")
	require.NoError(t, err)
	view, err := c.ToggleSubcategory(ctx, "phones", true)
	require.NoError(t, err)
	require.Equal(t, []string{"phones"}, view.State.SelectedSubcategorySlugs)

	view, err = c.SetCategory(ctx, "auto-parts")
	require.NoError(t, err)

	assert.Empty(t, view.State.SelectedSubcategorySlugs)
	assert.Equal(t, 5, view.Page.TotalCount)
}
