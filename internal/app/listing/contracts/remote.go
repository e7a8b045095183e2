package contracts

import (
	"context"

	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
)

// FacetVariables scope the facet query. They carry only the
// search query: facets must never be narrowed by the user's own selection.
type FacetVariables struct {
	SearchQuery string `json:"searchQuery,omitempty"`
}

// ProductVariables scope the product query.
type ProductVariables struct {
	SearchQuery      string   `json:"searchQuery,omitempty"`
	CategorySlug     string   `json:"categorySlug,omitempty"`
	SubcategorySlugs []string `json:"subcategorySlugs,omitempty"`
	BrandIDs         []string `json:"brandIds,omitempty"`
	MinPrice         *float64 `json:"minPrice,omitempty"`
	MaxPrice         *float64 `json:"maxPrice,omitempty"`
	MinRating        *int     `json:"minRating,omitempty"`
	InStock          *bool    `json:"inStock,omitempty"`
	SortBy           string   `json:"sortBy"`
	Page             int      `json:"page"`
	PerPage          int      `json:"perPage"`
}

// PaginatorInfo describes where a product page sits in the full result.
type PaginatorInfo struct {
	Total       int `json:"total"`
	LastPage    int `json:"lastPage"`
	CurrentPage int `json:"currentPage"`
}

// ProductPage is one backend page of already filtered and sorted products.
type ProductPage struct {
	Items         []domain.Product `json:"items"`
	PaginatorInfo PaginatorInfo    `json:"paginatorInfo"`
}

// FacetReader fetches filter facets from a catalog backend.
type FacetReader interface {
	FetchFacets(ctx context.Context, vars FacetVariables) (*domain.Facets, error)
}

// ProductReader fetches a filtered, sorted, paginated product page from a
// catalog backend.
type ProductReader interface {
	QueryProducts(ctx context.Context, vars ProductVariables) (*ProductPage, error)
}

// CatalogBackend serves both remote queries.
type CatalogBackend interface {
	FacetReader
	ProductReader
}
