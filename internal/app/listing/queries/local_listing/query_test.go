package local_listing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/catalog-listing/internal/app/listing/contracts"
	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
)

type stubSource struct {
	products []domain.Product
	tree     []domain.Category
	brands   []domain.Brand
	err      error
	loads    int
}

func (s *stubSource) Products(context.Context) ([]domain.Product, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func (s *stubSource) Taxonomy(context.Context) ([]domain.Category, []domain.Brand, error) {
	return s.tree, s.brands, nil
}

// brandCatalog returns 20 products: brand A x8, B x7, C x5, priced 10..200.
func brandCatalog() []domain.Product {
	brands := []string{"A", "B", "C"}
	counts := map[string]int{"A": 8, "B": 7, "C": 5}
	var out []domain.Product
	id := 1
	for _, b := range brands {
		for i := 0; i < counts[b]; i++ {
			out = append(out, domain.Product{
				ID:       fmt.Sprint(id),
				Name:     fmt.Sprintf("Product %d", id),
				Brand:    b,
				Category: "electronics",
				Price:    float64(id * 10),
				Rating:   float64(id%5) + 0.5,
				InStock:  id%2 == 0,
			})
			id++
		}
	}
	return out
}

func execute(t *testing.T, q *Query, state domain.FilterState) *contracts.ListingResult {
	t.Helper()
	res, err := q.Execute(context.Background(), &contracts.ListingRequest{State: state})
	require.NoError(t, err)
	return res
}

func TestQuery_BrandSelection(t *testing.T) {
	q := NewQuery(&stubSource{products: brandCatalog()})

	state := domain.NewFilterState(domain.Seed{}).ToggleBrand("A", true)
	res := execute(t, q, state)

	assert.Equal(t, 8, res.Page.TotalCount)
	assert.Equal(t, 1, res.Page.TotalPages)
	assert.Len(t, res.Page.Items, 8)
	require.Len(t, res.Page.Badges, 1)
	assert.Equal(t, domain.BadgeBrand, res.Page.Badges[0].Kind)
}

func TestQuery_AppliesCatalogBounds(t *testing.T) {
	q := NewQuery(&stubSource{products: brandCatalog()})

	res := execute(t, q, domain.NewFilterState(domain.Seed{}))

	assert.Equal(t, domain.PriceRange{Min: 10, Max: 200}, res.State.Bounds)
	assert.Equal(t, res.State.Bounds, res.State.PriceRange)
	assert.Equal(t, 20, res.Page.TotalCount)
	assert.Len(t, res.Page.Items, domain.PageSize)
	assert.Equal(t, 2, res.Page.TotalPages)
}

func TestQuery_NarrowedRangeSurvivesBounds(t *testing.T) {
	q := NewQuery(&stubSource{products: brandCatalog()})

	state := domain.NewFilterState(domain.Seed{}).
		WithBounds(domain.PriceRange{Min: 10, Max: 200}).
		SetPriceRange(100, 100)
	res := execute(t, q, state)

	require.Equal(t, 1, res.Page.TotalCount)
	assert.Equal(t, 100.0, res.Page.Items[0].Price)
	assert.Equal(t, domain.PriceRange{Min: 100, Max: 100}, res.State.PriceRange)
}

func TestQuery_FacetsIgnoreSelection(t *testing.T) {
	q := NewQuery(&stubSource{products: brandCatalog()})

	all := execute(t, q, domain.NewFilterState(domain.Seed{}))
	narrowed := execute(t, q, domain.NewFilterState(domain.Seed{}).ToggleBrand("C", true).SetInStockOnly(true))

	assert.Equal(t, all.Facets, narrowed.Facets)
	assert.Len(t, narrowed.Facets.Brands, 3)
}

func TestQuery_FacetsScopedBySearch(t *testing.T) {
	q := NewQuery(&stubSource{products: brandCatalog()})

	facets, err := q.Facets(context.Background(), "product 2")
	require.NoError(t, err)

	// "Product 2" and "Product 20".
	assert.Equal(t, 20.0, facets.MinPrice)
	assert.Equal(t, 200.0, facets.MaxPrice)
	require.Len(t, facets.Categories, 1)
	assert.Equal(t, 2, facets.Categories[0].ProductCount)
}

func TestQuery_SkipsInvalidProducts(t *testing.T) {
	products := append(brandCatalog(), domain.Product{ID: "bad", Brand: "A", Price: -1})
	q := NewQuery(&stubSource{products: products})

	res := execute(t, q, domain.NewFilterState(domain.Seed{}))

	assert.Equal(t, 20, res.Page.TotalCount)
}

func TestQuery_SourceFailureIsRetryable(t *testing.T) {
	src := &stubSource{err: errors.New("disk on fire")}
	q := NewQuery(src)

	_, err := q.Execute(context.Background(), &contracts.ListingRequest{State: domain.NewFilterState(domain.Seed{})})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)

	src.err = nil
	src.products = brandCatalog()
	res := execute(t, q, domain.NewFilterState(domain.Seed{}))
	assert.Equal(t, 20, res.Page.TotalCount)
}

func TestQuery_CachesUntilInvalidated(t *testing.T) {
	src := &stubSource{products: brandCatalog()}
	q := NewQuery(src)

	execute(t, q, domain.NewFilterState(domain.Seed{}))
	execute(t, q, domain.NewFilterState(domain.Seed{}))
	assert.Equal(t, 1, src.loads)

	q.Invalidate()
	execute(t, q, domain.NewFilterState(domain.Seed{}))
	assert.Equal(t, 2, src.loads)
}

func TestQuery_SortModes(t *testing.T) {
	q := NewQuery(&stubSource{})

	assert.Contains(t, q.SortModes(), domain.SortRatingDesc)
	assert.NotContains(t, q.SortModes(), domain.SortNameDesc)
}
