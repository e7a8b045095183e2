package domain

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches_Dimensions(t *testing.T) {
	cc := NewCatalogContext(testTree(), []Brand{{ID: "b-1", Name: "Acme"}})
	p := Product{
		ID:          "1",
		Name:        "Galaxy Phone",
		Description: "Flagship handset",
		Brand:       "b-1",
		Category:    "electronics",
		Subcategory: "phones",
		Price:       100,
		Rating:      4.2,
		Reviews:     3,
		InStock:     true,
		Tags:        []string{"Android", "5G"},
	}
	base := NewFilterState(Seed{})

	t.Run("no filters matches", func(t *testing.T) {
		assert.True(t, Matches(p, base, cc))
	})

	t.Run("parent category matches through chain", func(t *testing.T) {
		assert.True(t, Matches(p, base.SetCategory("electronics"), cc))
		assert.True(t, Matches(p, base.SetCategory("phones"), cc))
		assert.False(t, Matches(p, base.SetCategory("auto-parts"), cc))
	})

	t.Run("subcategory membership", func(t *testing.T) {
		assert.True(t, Matches(p, base.ToggleSubcategory("laptops", true).ToggleSubcategory("phones", true), cc))
		assert.False(t, Matches(p, base.ToggleSubcategory("laptops", true), cc))
	})

	t.Run("search is case-insensitive across fields", func(t *testing.T) {
		for _, q := range []string{"galaxy", "HANDSET", "acme", "b-1", "android", "5g"} {
			assert.True(t, Matches(p, base.SetSearchQuery(q), cc), q)
		}
		assert.False(t, Matches(p, base.SetSearchQuery("iphone"), cc))
	})

	t.Run("brand membership", func(t *testing.T) {
		assert.True(t, Matches(p, base.ToggleBrand("b-1", true), cc))
		assert.False(t, Matches(p, base.ToggleBrand("b-2", true), cc))
	})

	t.Run("price range inclusive on both ends", func(t *testing.T) {
		bounded := base.WithBounds(PriceRange{Min: 1, Max: 1000})
		assert.True(t, Matches(p, bounded.SetPriceRange(100, 200), cc))
		assert.True(t, Matches(p, bounded.SetPriceRange(50, 100), cc))
		assert.False(t, Matches(p, bounded.SetPriceRange(101, 200), cc))
	})

	t.Run("rating threshold", func(t *testing.T) {
		assert.True(t, Matches(p, base.SetMinRating(4), cc))
		assert.False(t, Matches(p, base.SetMinRating(5), cc))
	})

	t.Run("stock", func(t *testing.T) {
		out := p
		out.InStock = false
		assert.True(t, Matches(out, base, cc))
		assert.False(t, Matches(out, base.SetInStockOnly(true), cc))
	})
}

func TestMatches_DegeneratePriceRange(t *testing.T) {
	products := []Product{
		newTestProduct("1", "A", 99.99),
		newTestProduct("2", "A", 100),
		newTestProduct("3", "A", 100.01),
		newTestProduct("4", "B", 100),
	}
	s := NewFilterState(Seed{}).WithBounds(PriceRange{Min: 1, Max: 200}).SetPriceRange(100, 100)

	got := Filter(products, s, CatalogContext{})
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, 100.0, p.Price)
	}
}

// TestMatches_Conjunction checks that Matches is true exactly when every
// individually active dimension accepts the product.
func TestMatches_Conjunction(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cc := NewCatalogContext(testTree(), nil)
	brands := []string{"A", "B", "C"}
	subcats := []string{"phones", "laptops", "brakes"}
	parentOf := map[string]string{"phones": "electronics", "laptops": "electronics", "brakes": "auto-parts"}
	words := []string{"alpha", "beta", "gamma"}

	products := make([]Product, 0, 200)
	for i := 0; i < 200; i++ {
		sub := subcats[rng.Intn(len(subcats))]
		products = append(products, Product{
			ID:          string(rune('a'+i%26)) + strings.Repeat("x", i/26),
			Name:        words[rng.Intn(len(words))],
			Brand:       brands[rng.Intn(len(brands))],
			Category:    parentOf[sub],
			Subcategory: sub,
			Price:       float64(1 + rng.Intn(100)),
			Rating:      float64(rng.Intn(6)),
			InStock:     rng.Intn(2) == 0,
			Tags:        []string{words[rng.Intn(len(words))]},
		})
	}

	for i := 0; i < 300; i++ {
		s := NewFilterState(Seed{}).WithBounds(PriceRange{Min: 1, Max: 100})
		if rng.Intn(2) == 0 {
			s = s.SetCategory([]string{"electronics", "auto-parts"}[rng.Intn(2)])
		}
		if rng.Intn(2) == 0 {
			s = s.ToggleSubcategory(subcats[rng.Intn(len(subcats))], true)
		}
		if rng.Intn(2) == 0 {
			s = s.ToggleBrand(brands[rng.Intn(len(brands))], true)
		}
		if rng.Intn(2) == 0 {
			s = s.SetPriceRange(float64(rng.Intn(100)), float64(rng.Intn(100)))
		}
		if rng.Intn(2) == 0 {
			s = s.SetMinRating(rng.Intn(6))
		}
		if rng.Intn(2) == 0 {
			s = s.SetInStockOnly(true)
		}
		if rng.Intn(2) == 0 {
			s = s.SetSearchQuery(words[rng.Intn(len(words))][:3])
		}

		for _, p := range products {
			want := true
			if s.SelectedCategorySlug != "" {
				want = want && (p.Category == s.SelectedCategorySlug || p.Subcategory == s.SelectedCategorySlug)
			}
			if len(s.SelectedSubcategorySlugs) > 0 {
				want = want && s.HasSubcategory(p.Subcategory)
			}
			if len(s.SelectedBrands) > 0 {
				want = want && s.HasBrand(p.Brand)
			}
			want = want && p.Price >= s.PriceRange.Min && p.Price <= s.PriceRange.Max
			if s.MinRating > 0 {
				want = want && p.Rating >= float64(s.MinRating)
			}
			if s.InStockOnly {
				want = want && p.InStock
			}
			if s.SearchQuery != "" {
				hit := strings.Contains(p.Name, s.SearchQuery) || strings.Contains(p.Tags[0], s.SearchQuery)
				want = want && hit
			}
			require.Equal(t, want, Matches(p, s, cc), "product %+v state %+v", p, s)
		}
	}
}

func TestCatalogContext_Chain(t *testing.T) {
	cc := NewCatalogContext(testTree(), nil)
	p := Product{Category: "electronics", Subcategory: "phones"}

	assert.Equal(t, []string{"phones", "electronics"}, cc.Chain(p))
	assert.Equal(t, "Phones", cc.CategoryLabel("phones"))
	assert.Equal(t, "unknown", cc.CategoryLabel("unknown"))
}

func TestMatches_ZeroCatalogContextTreatsCategoriesAsRoots(t *testing.T) {
	var cc CatalogContext
	p := Product{Category: "electronics", Subcategory: "phones"}

	assert.True(t, cc.InCategory(p, "electronics"))
	assert.Equal(t, "b-9", cc.BrandLabel("b-9"))
}
