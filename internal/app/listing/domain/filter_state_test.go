package domain

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boundedState() FilterState {
	return NewFilterState(Seed{}).WithBounds(PriceRange{Min: 10, Max: 500})
}

func TestNewFilterState_Defaults(t *testing.T) {
	s := NewFilterState(Seed{CategorySlug: " electronics ", SearchQuery: "phone"})

	assert.Equal(t, "electronics", s.SelectedCategorySlug)
	assert.Equal(t, "phone", s.SearchQuery)
	assert.Equal(t, SortRelevance, s.SortMode)
	assert.Equal(t, ViewGrid, s.ViewMode)
	assert.Equal(t, 1, s.Page)
	assert.Empty(t, s.SelectedBrands)
	assert.Zero(t, s.MinRating)
	assert.False(t, s.InStockOnly)
}

func TestFilterState_PageResetOnEveryFilterTransition(t *testing.T) {
	base := boundedState().SetPage(7, 0)
	require.Equal(t, 7, base.Page)

	transitions := map[string]func(FilterState) FilterState{
		"set category":       func(s FilterState) FilterState { return s.SetCategory("electronics") },
		"toggle subcategory": func(s FilterState) FilterState { return s.ToggleSubcategory("phones", true) },
		"untoggle missing":   func(s FilterState) FilterState { return s.ToggleSubcategory("phones", false) },
		"toggle brand":       func(s FilterState) FilterState { return s.ToggleBrand("A", true) },
		"set price range":    func(s FilterState) FilterState { return s.SetPriceRange(900, -5) },
		"set min rating":     func(s FilterState) FilterState { return s.SetMinRating(9) },
		"in stock only":      func(s FilterState) FilterState { return s.SetInStockOnly(true) },
		"sort mode":          func(s FilterState) FilterState { return s.SetSortMode(SortPriceAsc) },
		"search query":       func(s FilterState) FilterState { return s.SetSearchQuery("phone") },
		"clear all":          func(s FilterState) FilterState { return s.ClearAll(Seed{}) },
	}

	for name, apply := range transitions {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 1, apply(base).Page)
		})
	}

	t.Run("set view mode keeps page", func(t *testing.T) {
		assert.Equal(t, 7, base.SetViewMode(ViewList).Page)
	})

	t.Run("set page keeps filters", func(t *testing.T) {
		s := base.ToggleBrand("A", true).SetPage(3, 0)
		assert.Equal(t, 3, s.Page)
		assert.Equal(t, []string{"A"}, s.SelectedBrands)
	})
}

func TestFilterState_SetCategoryClearsSubcategories(t *testing.T) {
	s := NewFilterState(Seed{}).
		SetCategory("electronics").
		ToggleSubcategory("phones", true)
	require.Equal(t, []string{"phones"}, s.SelectedSubcategorySlugs)
	require.Equal(t, "electronics", s.SelectedCategorySlug)

	s = s.SetCategory("auto-parts")
	assert.Empty(t, s.SelectedSubcategorySlugs)
	assert.Equal(t, "auto-parts", s.SelectedCategorySlug)
}

func TestFilterState_ToggleSubcategoryKeepsCategory(t *testing.T) {
	s := NewFilterState(Seed{}).SetCategory("electronics").ToggleSubcategory("phones", true)
	s = s.ToggleSubcategory("phones", false)
	assert.Equal(t, "electronics", s.SelectedCategorySlug)
	assert.Empty(t, s.SelectedSubcategorySlugs)
}

func TestFilterState_ToggleBrand(t *testing.T) {
	s := NewFilterState(Seed{}).ToggleBrand("B", true).ToggleBrand("A", true).ToggleBrand("B", true)
	assert.Equal(t, []string{"B", "A"}, s.SelectedBrands, "insertion order kept, no duplicates")

	s = s.ToggleBrand("B", false)
	assert.Equal(t, []string{"A"}, s.SelectedBrands)
}

func TestFilterState_TransitionsDoNotMutateReceiver(t *testing.T) {
	before := NewFilterState(Seed{}).ToggleBrand("A", true).ToggleSubcategory("phones", true)
	_ = before.ToggleBrand("B", true)
	_ = before.ToggleBrand("A", false)
	_ = before.SetCategory("x")

	assert.Equal(t, []string{"A"}, before.SelectedBrands)
	assert.Equal(t, []string{"phones"}, before.SelectedSubcategorySlugs)
}

func TestFilterState_SetPriceRange(t *testing.T) {
	t.Run("reversed ends are swapped", func(t *testing.T) {
		s := boundedState().SetPriceRange(200, 50)
		assert.Equal(t, PriceRange{Min: 50, Max: 200}, s.PriceRange)
	})

	t.Run("out of bounds ends are clamped", func(t *testing.T) {
		s := boundedState().SetPriceRange(-20, 9000)
		assert.Equal(t, PriceRange{Min: 10, Max: 500}, s.PriceRange)
	})

	t.Run("range entirely above bounds collapses to max", func(t *testing.T) {
		s := boundedState().SetPriceRange(800, 900)
		assert.Equal(t, PriceRange{Min: 500, Max: 500}, s.PriceRange)
	})

	t.Run("degenerate point range is kept", func(t *testing.T) {
		s := boundedState().SetPriceRange(100, 100)
		assert.Equal(t, PriceRange{Min: 100, Max: 100}, s.PriceRange)
	})

	t.Run("NaN end is open", func(t *testing.T) {
		s := boundedState().SetPriceRange(math.NaN(), 50)
		assert.Equal(t, PriceRange{Min: 10, Max: 50}, s.PriceRange)

		s = boundedState().SetPriceRange(20, math.NaN())
		assert.Equal(t, PriceRange{Min: 20, Max: 500}, s.PriceRange)

		s = boundedState().SetPriceRange(math.NaN(), math.NaN())
		assert.Equal(t, s.Bounds, s.PriceRange)
		assert.False(t, s.PriceNarrowed())
	})

	t.Run("infinite ends are clamped", func(t *testing.T) {
		s := boundedState().SetPriceRange(math.Inf(1), math.Inf(-1))
		assert.Equal(t, PriceRange{Min: 10, Max: 500}, s.PriceRange)

		s = NewFilterState(Seed{}).SetPriceRange(5, math.Inf(1))
		assert.Equal(t, PriceRange{Min: 5, Max: math.MaxFloat64}, s.PriceRange)
	})

	t.Run("unknown bounds only normalise", func(t *testing.T) {
		s := NewFilterState(Seed{}).SetPriceRange(300, -1)
		assert.Equal(t, PriceRange{Min: 0, Max: 300}, s.PriceRange)
	})
}

func TestFilterState_SetPriceRangeAlwaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := boundedState()
	for i := 0; i < 1000; i++ {
		lo := rng.Float64()*1200 - 300
		hi := rng.Float64()*1200 - 300
		switch i % 50 {
		case 0:
			lo = math.NaN()
		case 1:
			hi = math.Inf(1)
		case 2:
			lo, hi = math.Inf(-1), math.NaN()
		}
		r := base.SetPriceRange(lo, hi).PriceRange

		require.LessOrEqual(t, r.Min, r.Max, "min <= max for (%v, %v)", lo, hi)
		require.GreaterOrEqual(t, r.Min, base.Bounds.Min)
		require.LessOrEqual(t, r.Max, base.Bounds.Max)
	}
}

func TestFilterState_SetMinRatingIsClamped(t *testing.T) {
	assert.Equal(t, 5, NewFilterState(Seed{}).SetMinRating(9).MinRating)
	assert.Equal(t, 0, NewFilterState(Seed{}).SetMinRating(-2).MinRating)
	assert.Equal(t, 3, NewFilterState(Seed{}).SetMinRating(4).SetMinRating(3).MinRating)
}

func TestFilterState_SetPage(t *testing.T) {
	s := NewFilterState(Seed{})

	assert.Equal(t, 2, s.SetPage(5, 2).Page, "clamped to known total pages")
	assert.Equal(t, 5, s.SetPage(5, 0).Page, "accepted when total unknown")
	assert.Equal(t, 1, s.SetPage(0, 3).Page)
	assert.Equal(t, 1, s.SetPage(-4, 0).Page)
}

func TestFilterState_ClearAllKeepsDisplayPreferences(t *testing.T) {
	seed := Seed{CategorySlug: "electronics"}
	s := NewFilterState(seed).WithBounds(PriceRange{Min: 10, Max: 500}).
		SetCategory("auto-parts").
		ToggleSubcategory("brakes", true).
		ToggleBrand("A", true).
		SetPriceRange(20, 30).
		SetMinRating(4).
		SetInStockOnly(true).
		SetSortMode(SortPriceDesc).
		SetViewMode(ViewList).
		SetPage(3, 0)

	cleared := s.ClearAll(seed)

	assert.Equal(t, "electronics", cleared.SelectedCategorySlug)
	assert.Empty(t, cleared.SelectedSubcategorySlugs)
	assert.Empty(t, cleared.SelectedBrands)
	assert.Equal(t, PriceRange{Min: 10, Max: 500}, cleared.PriceRange)
	assert.Zero(t, cleared.MinRating)
	assert.False(t, cleared.InStockOnly)
	assert.Equal(t, 1, cleared.Page)
	assert.Equal(t, SortPriceDesc, cleared.SortMode)
	assert.Equal(t, ViewList, cleared.ViewMode)
}

func TestFilterState_WithBounds(t *testing.T) {
	t.Run("untouched range follows bounds", func(t *testing.T) {
		s := boundedState().WithBounds(PriceRange{Min: 5, Max: 50})
		assert.Equal(t, PriceRange{Min: 5, Max: 50}, s.PriceRange)
		assert.False(t, s.PriceNarrowed())
	})

	t.Run("narrowed range survives a refetch", func(t *testing.T) {
		s := boundedState().SetPriceRange(20, 40).WithBounds(PriceRange{Min: 10, Max: 500})
		assert.Equal(t, PriceRange{Min: 20, Max: 40}, s.PriceRange)
		assert.True(t, s.PriceNarrowed())
	})

	t.Run("narrowed range is clamped into new bounds", func(t *testing.T) {
		s := boundedState().SetPriceRange(20, 400).WithBounds(PriceRange{Min: 30, Max: 100})
		assert.Equal(t, PriceRange{Min: 30, Max: 100}, s.PriceRange)
	})

	t.Run("range chosen before bounds is kept", func(t *testing.T) {
		s := NewFilterState(Seed{}).SetPriceRange(20, 40).WithBounds(PriceRange{Min: 10, Max: 500})
		assert.Equal(t, PriceRange{Min: 20, Max: 40}, s.PriceRange)
		assert.True(t, s.PriceNarrowed())
	})

	t.Run("page is kept", func(t *testing.T) {
		s := boundedState().SetPage(4, 0).WithBounds(PriceRange{Min: 1, Max: 2})
		assert.Equal(t, 4, s.Page)
	})
}

func TestParseSortMode(t *testing.T) {
	mode, err := ParseSortMode(" PRICE_ASC ")
	require.NoError(t, err)
	assert.Equal(t, SortPriceAsc, mode)

	mode, err = ParseSortMode("")
	require.NoError(t, err)
	assert.Equal(t, SortRelevance, mode)

	_, err = ParseSortMode("cheapest")
	assert.ErrorIs(t, err, ErrUnknownSortMode)

	assert.True(t, SupportsSortMode(LocalSortModes, SortRatingDesc))
	assert.False(t, SupportsSortMode(RemoteSortModes, SortRatingDesc))
}

func TestParseViewMode(t *testing.T) {
	mode, err := ParseViewMode("list")
	require.NoError(t, err)
	assert.Equal(t, ViewList, mode)

	_, err = ParseViewMode("table")
	assert.ErrorIs(t, err, ErrUnknownViewMode)
}

func TestFilterState_PriceFilterActive(t *testing.T) {
	s := NewFilterState(Seed{})
	assert.False(t, s.PriceFilterActive(), "unset range")

	s = s.WithBounds(PriceRange{Min: 10, Max: 200})
	assert.False(t, s.PriceFilterActive(), "range follows bounds")

	s = s.SetPriceRange(50, 100)
	assert.True(t, s.PriceFilterActive())

	explicit := NewFilterState(Seed{}).SetPriceRange(5, 15)
	assert.True(t, explicit.PriceFilterActive(), "explicit range without bounds")
}
