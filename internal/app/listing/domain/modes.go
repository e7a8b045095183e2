package domain

import (
	"fmt"
	"strings"
)

// SortMode selects the ordering of a result set.
type SortMode string

const (
	SortRelevance  SortMode = "relevance"
	SortPriceAsc   SortMode = "price_asc"
	SortPriceDesc  SortMode = "price_desc"
	SortRatingDesc SortMode = "rating_desc"
	SortNewest     SortMode = "newest"
	SortNameAsc    SortMode = "name_asc"
	SortNameDesc   SortMode = "name_desc"
)

// LocalSortModes are the orderings the in-memory engine offers.
var LocalSortModes = []SortMode{
	SortRelevance,
	SortPriceAsc,
	SortPriceDesc,
	SortRatingDesc,
	SortNewest,
	SortNameAsc,
}

// RemoteSortModes are the orderings the catalog backend accepts.
var RemoteSortModes = []SortMode{
	SortRelevance,
	SortNewest,
	SortPriceAsc,
	SortPriceDesc,
	SortNameAsc,
	SortNameDesc,
}

// ParseSortMode converts a query-string value into a SortMode. The empty
// string maps to relevance.
func ParseSortMode(raw string) (SortMode, error) {
	switch mode := SortMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "":
		return SortRelevance, nil
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortRatingDesc, SortNewest, SortNameAsc, SortNameDesc:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSortMode, raw)
	}
}

// SupportsSortMode reports whether mode is one of modes.
func SupportsSortMode(modes []SortMode, mode SortMode) bool {
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}

// ViewMode is a display preference; it never affects the result set.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// ParseViewMode converts a query-string value into a ViewMode. The empty
// string maps to grid.
func ParseViewMode(raw string) (ViewMode, error) {
	switch mode := ViewMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "":
		return ViewGrid, nil
	case ViewGrid, ViewList:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownViewMode, raw)
	}
}
