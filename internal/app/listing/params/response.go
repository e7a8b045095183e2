package params

import (
	"github.com/light-bringer/catalog-listing/internal/app/listing/contracts"
	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
)

// ListingResponse is the wire form of a listing result.
type ListingResponse struct {
	RequestID         string             `json:"requestId,omitempty"`
	State             domain.FilterState `json:"state"`
	Items             []domain.Product   `json:"items"`
	TotalCount        int                `json:"totalCount"`
	TotalPages        int                `json:"totalPages"`
	Page              int                `json:"page"`
	PageSize          int                `json:"pageSize"`
	Empty             bool               `json:"empty"`
	Badges            []domain.Badge     `json:"activeFilterBadges"`
	Facets            *domain.Facets     `json:"facets,omitempty"`
	FacetsUnavailable bool               `json:"facetsUnavailable"`
	SortModes         []domain.SortMode  `json:"sortModes"`
}

// NewListingResponse flattens res for encoding.
func NewListingResponse(res *contracts.ListingResult, modes []domain.SortMode) ListingResponse {
	out := ListingResponse{
		RequestID:         res.RequestID,
		State:             res.State,
		Items:             []domain.Product{},
		Badges:            []domain.Badge{},
		FacetsUnavailable: res.FacetsUnavailable,
		SortModes:         modes,
		Empty:             res.Page.Empty(),
	}
	if !res.FacetsUnavailable {
		out.Facets = res.Facets
	}
	if p := res.Page; p != nil {
		if p.Items != nil {
			out.Items = p.Items
		}
		if p.Badges != nil {
			out.Badges = p.Badges
		}
		out.TotalCount = p.TotalCount
		out.TotalPages = p.TotalPages
		out.Page = p.Page
		out.PageSize = p.PageSize
	}
	return out
}
