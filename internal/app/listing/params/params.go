// Package params translates query-string style parameters into listing
// requests and listing results into wire responses. The HTTP and gRPC
// transports share it so both accept the same parameters.
package params

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/light-bringer/catalog-listing/internal/app/listing/contracts"
	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
)

// Parameter names.
const (
	Search       = "q"
	SeedCategory = "seed_category"
	Category     = "category"
	Subcategory  = "subcategory"
	Brand        = "brand"
	MinPrice     = "min_price"
	MaxPrice     = "max_price"
	MinRating    = "min_rating"
	InStock      = "in_stock"
	Sort         = "sort"
	Page         = "page"
	View         = "view"
)

// ErrInvalidParameter is wrapped by every parse failure.
var ErrInvalidParameter = errors.New("invalid parameter")

func invalid(name, raw string, err error) error {
	return fmt.Errorf("%w %s=%q: %v", ErrInvalidParameter, name, raw, err)
}

// ParseListingRequest builds a request from values. The seed carries the
// search query and seed_category; category selects a category on top of
// it. Multi-valued parameters accept repeats and comma-separated lists.
// An open-ended price range is closed by the catalog bounds later.
func ParseListingRequest(values url.Values) (*contracts.ListingRequest, error) {
	seed := domain.Seed{
		CategorySlug: strings.TrimSpace(values.Get(SeedCategory)),
		SearchQuery:  strings.TrimSpace(values.Get(Search)),
	}
	s := domain.NewFilterState(seed)

	if category := strings.TrimSpace(values.Get(Category)); category != "" {
		s = s.SetCategory(category)
	}
	for _, slug := range list(values, Subcategory) {
		s = s.ToggleSubcategory(slug, true)
	}
	for _, id := range list(values, Brand) {
		s = s.ToggleBrand(id, true)
	}

	minPrice, hasMin, err := floatParam(values, MinPrice)
	if err != nil {
		return nil, err
	}
	maxPrice, hasMax, err := floatParam(values, MaxPrice)
	if err != nil {
		return nil, err
	}
	if hasMin || hasMax {
		if !hasMax {
			maxPrice = math.MaxFloat64
		}
		s = s.SetPriceRange(minPrice, maxPrice)
	}

	if raw := values.Get(MinRating); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 0 || n > domain.MaxRating {
			return nil, invalid(MinRating, raw, fmt.Errorf("want 0..%d", domain.MaxRating))
		}
		s = s.SetMinRating(n)
	}
	if raw := values.Get(InStock); raw != "" {
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, invalid(InStock, raw, err)
		}
		s = s.SetInStockOnly(v)
	}
	if raw := values.Get(Sort); raw != "" {
		mode, err := domain.ParseSortMode(raw)
		if err != nil {
			return nil, invalid(Sort, raw, err)
		}
		s = s.SetSortMode(mode)
	}
	if raw := values.Get(View); raw != "" {
		mode, err := domain.ParseViewMode(raw)
		if err != nil {
			return nil, invalid(View, raw, err)
		}
		s = s.SetViewMode(mode)
	}
	if raw := values.Get(Page); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 1 {
			return nil, invalid(Page, raw, domain.ErrInvalidPage)
		}
		s = s.SetPage(n, 0)
	}

	return &contracts.ListingRequest{State: s, Seed: seed}, nil
}

// SupportedSort replaces a sort mode the engine cannot serve with relevance,
// keeping the requested page.
func SupportedSort(req *contracts.ListingRequest, modes []domain.SortMode) {
	if domain.SupportsSortMode(modes, req.State.SortMode) {
		return
	}
	page := req.State.Page
	req.State = req.State.SetSortMode(domain.SortRelevance).SetPage(page, 0)
}

func list(values url.Values, name string) []string {
	var out []string
	for _, raw := range values[name] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func floatParam(values url.Values, name string) (float64, bool, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false, invalid(name, raw, errors.New("want a non-negative number"))
	}
	return v, true, nil
}
