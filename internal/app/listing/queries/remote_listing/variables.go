package remote_listing

import (
	"strings"

	"github.com/light-bringer/catalog-listing/internal/app/listing/contracts"
	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
)

// FacetVariables maps a state to facet query variables. Only the search
// query scopes facets; brand, category, price, rating and stock selections
// are never passed, so every option stays selectable after narrowing.
func FacetVariables(s domain.FilterState) contracts.FacetVariables {
	return contracts.FacetVariables{SearchQuery: strings.TrimSpace(s.SearchQuery)}
}

// ProductVariables maps a state to product query variables. Inactive
// dimensions are omitted. Sort modes the backend does not know are sent as
// relevance.
func ProductVariables(s domain.FilterState, perPage int) contracts.ProductVariables {
	vars := contracts.ProductVariables{
		SearchQuery:  strings.TrimSpace(s.SearchQuery),
		CategorySlug: s.SelectedCategorySlug,
		SortBy:       string(domain.SortRelevance),
		Page:         s.Page,
		PerPage:      perPage,
	}
	if vars.Page < 1 {
		vars.Page = 1
	}
	if vars.PerPage < 1 {
		vars.PerPage = domain.PageSize
	}
	if domain.SupportsSortMode(domain.RemoteSortModes, s.SortMode) {
		vars.SortBy = string(s.SortMode)
	}
	if len(s.SelectedSubcategorySlugs) > 0 {
		vars.SubcategorySlugs = append([]string(nil), s.SelectedSubcategorySlugs...)
	}
	if len(s.SelectedBrands) > 0 {
		vars.BrandIDs = append([]string(nil), s.SelectedBrands...)
	}
	if s.PriceFilterActive() {
		minPrice, maxPrice := s.PriceRange.Min, s.PriceRange.Max
		vars.MinPrice = &minPrice
		vars.MaxPrice = &maxPrice
	}
	if s.MinRating > 0 {
		rating := s.MinRating
		vars.MinRating = &rating
	}
	if s.InStockOnly {
		inStock := true
		vars.InStock = &inStock
	}
	return vars
}
