package contracts

import (
	"context"

	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
)

// ListingRequest asks an engine for the page described by State.
type ListingRequest struct {
	State domain.FilterState
	Seed  domain.Seed
	// KnownFacets are the last facets the caller holds. Remote engines use
	// them for badge labels when the facet query fails.
	KnownFacets *domain.Facets
}

// ListingResult is one engine evaluation.
type ListingResult struct {
	// State is the request state with the catalog price bounds applied.
	State             domain.FilterState
	Page              *domain.ResultPage
	Facets            *domain.Facets
	FacetsUnavailable bool
	RequestID         string
}

// ListingEngine evaluates filter states against a catalog.
type ListingEngine interface {
	Execute(ctx context.Context, req *ListingRequest) (*ListingResult, error)
	// Facets returns the facets for a search query, independent of any
	// other selection.
	Facets(ctx context.Context, searchQuery string) (*domain.Facets, error)
	// SortModes lists the orderings this engine supports.
	SortModes() []domain.SortMode
}
