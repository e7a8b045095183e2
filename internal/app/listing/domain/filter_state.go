package domain

import (
	"math"
	"strings"
)

const (
	// MaxRating is the upper bound of product ratings and rating filters.
	MaxRating = 5
)

// Seed carries the navigation context a listing view is opened with.
type Seed struct {
	CategorySlug string
	SearchQuery  string
}

// PriceRange is an inclusive (Min, Max) price interval.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// IsZero reports whether the range was never set.
func (r PriceRange) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// Contains reports whether price lies inside the range, both ends inclusive.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// normalize swaps reversed ends and clamps negatives to zero. A NaN end is
// open: NaN Min becomes 0 and NaN Max the largest price. Infinite ends are
// pulled into the finite range.
func (r PriceRange) normalize() PriceRange {
	if math.IsNaN(r.Min) {
		r.Min = 0
	}
	if math.IsNaN(r.Max) {
		r.Max = math.MaxFloat64
	}
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	r.Min = finitePrice(r.Min)
	r.Max = finitePrice(r.Max)
	return r
}

func finitePrice(v float64) float64 {
	return math.Min(math.Max(v, 0), math.MaxFloat64)
}

// clampTo clamps both ends into bounds. The result keeps Min <= Max.
func (r PriceRange) clampTo(bounds PriceRange) PriceRange {
	if bounds.IsZero() {
		return r
	}
	r.Min = math.Min(math.Max(r.Min, bounds.Min), bounds.Max)
	r.Max = math.Min(math.Max(r.Max, bounds.Min), bounds.Max)
	return r
}

// FilterState is the complete user selection of a listing view. It is a
// value type: every transition returns a new state and leaves the receiver
// untouched.
type FilterState struct {
	SearchQuery              string     `json:"searchQuery,omitempty"`
	SelectedBrands           []string   `json:"selectedBrands"`
	SelectedCategorySlug     string     `json:"selectedCategorySlug,omitempty"`
	SelectedSubcategorySlugs []string   `json:"selectedSubcategorySlugs"`
	PriceRange               PriceRange `json:"priceRange"`
	Bounds                   PriceRange `json:"bounds"`
	MinRating                int        `json:"minRating"`
	InStockOnly              bool       `json:"inStockOnly"`
	SortMode                 SortMode   `json:"sortMode"`
	Page                     int        `json:"page"`
	ViewMode                 ViewMode   `json:"viewMode"`
}

// NewFilterState returns the default state for a view opened with seed.
func NewFilterState(seed Seed) FilterState {
	return FilterState{
		SearchQuery:          strings.TrimSpace(seed.SearchQuery),
		SelectedCategorySlug: strings.TrimSpace(seed.CategorySlug),
		SortMode:             SortRelevance,
		Page:                 1,
		ViewMode:             ViewGrid,
	}
}

// PriceNarrowed reports whether the user restricted the price range below
// the catalog bounds.
func (s FilterState) PriceNarrowed() bool {
	if s.PriceRange.IsZero() || s.Bounds.IsZero() {
		return false
	}
	return s.PriceRange != s.Bounds
}

// PriceFilterActive reports whether the range must be sent to a backend: it
// is set and differs from the bounds it would otherwise follow.
func (s FilterState) PriceFilterActive() bool {
	return !s.PriceRange.IsZero() && s.PriceRange != s.Bounds
}

// HasBrand reports whether id is selected.
func (s FilterState) HasBrand(id string) bool {
	return contains(s.SelectedBrands, id)
}

// HasSubcategory reports whether slug is selected.
func (s FilterState) HasSubcategory(slug string) bool {
	return contains(s.SelectedSubcategorySlugs, slug)
}

// SetCategory selects a category, clearing subcategories.
func (s FilterState) SetCategory(slug string) FilterState {
	s.SelectedCategorySlug = strings.TrimSpace(slug)
	s.SelectedSubcategorySlugs = nil
	s.Page = 1
	return s
}

// ToggleSubcategory adds or removes slug. The category is kept.
func (s FilterState) ToggleSubcategory(slug string, included bool) FilterState {
	s.SelectedSubcategorySlugs = toggle(s.SelectedSubcategorySlugs, strings.TrimSpace(slug), included)
	s.Page = 1
	return s
}

// ToggleBrand adds or removes a brand identifier.
func (s FilterState) ToggleBrand(id string, included bool) FilterState {
	s.SelectedBrands = toggle(s.SelectedBrands, strings.TrimSpace(id), included)
	s.Page = 1
	return s
}

// SetPriceRange stores the range with reversed ends swapped and both ends
// clamped to the catalog bounds.
func (s FilterState) SetPriceRange(minPrice, maxPrice float64) FilterState {
	s.PriceRange = PriceRange{Min: minPrice, Max: maxPrice}.normalize().clampTo(s.Bounds)
	s.Page = 1
	return s
}

// SetMinRating replaces the rating threshold. Zero disables the filter.
func (s FilterState) SetMinRating(n int) FilterState {
	s.MinRating = clampInt(n, 0, MaxRating)
	s.Page = 1
	return s
}

// SetInStockOnly replaces the stock filter.
func (s FilterState) SetInStockOnly(v bool) FilterState {
	s.InStockOnly = v
	s.Page = 1
	return s
}

// SetSortMode replaces the ordering.
func (s FilterState) SetSortMode(mode SortMode) FilterState {
	if mode == "" {
		mode = SortRelevance
	}
	s.SortMode = mode
	s.Page = 1
	return s
}

// SetSearchQuery replaces the free-text query.
func (s FilterState) SetSearchQuery(q string) FilterState {
	s.SearchQuery = strings.TrimSpace(q)
	s.Page = 1
	return s
}

// SetPage moves to page n. When totalPages is known (> 0) n is clamped to
// [1, totalPages]; otherwise any n >= 1 is accepted.
func (s FilterState) SetPage(n, totalPages int) FilterState {
	if n < 1 {
		n = 1
	}
	if totalPages > 0 && n > totalPages {
		n = totalPages
	}
	s.Page = n
	return s
}

// SetViewMode replaces the display mode.
func (s FilterState) SetViewMode(mode ViewMode) FilterState {
	if mode == "" {
		mode = ViewGrid
	}
	s.ViewMode = mode
	return s
}

// ClearAll resets every filter to the defaults for seed. Sort and view
// modes are display preferences and survive.
func (s FilterState) ClearAll(seed Seed) FilterState {
	cleared := NewFilterState(seed)
	cleared.SortMode = s.SortMode
	cleared.ViewMode = s.ViewMode
	cleared.Bounds = s.Bounds
	cleared.PriceRange = s.Bounds
	return cleared
}

// WithBounds installs catalog price bounds. An untouched range follows the
// new bounds; a narrowed one, or one chosen before any bounds were known, is
// clamped into them. The page is kept.
func (s FilterState) WithBounds(bounds PriceRange) FilterState {
	bounds = bounds.normalize()
	narrowed := s.PriceNarrowed() || (s.Bounds.IsZero() && !s.PriceRange.IsZero())
	s.Bounds = bounds
	if !narrowed {
		s.PriceRange = bounds
		return s
	}
	s.PriceRange = s.PriceRange.clampTo(bounds)
	return s
}

func toggle(set []string, v string, included bool) []string {
	if v == "" {
		return set
	}
	has := contains(set, v)
	switch {
	case included && !has:
		out := make([]string, len(set), len(set)+1)
		copy(out, set)
		return append(out, v)
	case !included && has:
		out := make([]string, 0, len(set)-1)
		for _, m := range set {
			if m != v {
				out = append(out, m)
			}
		}
		return out
	default:
		return set
	}
}

func contains(set []string, v string) bool {
	for _, m := range set {
		if m == v {
			return true
		}
	}
	return false
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
