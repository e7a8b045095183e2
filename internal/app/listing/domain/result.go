package domain

// ResultPage is the derived view of a FilterState over a catalog. It is
// recomputed on every state change and never mutated in place.
type ResultPage struct {
	Items      []Product `json:"items"`
	TotalCount int       `json:"totalCount"`
	TotalPages int       `json:"totalPages"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	Badges     []Badge   `json:"activeFilterBadges"`
}

// Empty reports whether no product matched. Callers render a "no results,
// clear filters" affordance in that case.
func (r *ResultPage) Empty() bool {
	return r == nil || r.TotalCount == 0
}

// Facets are the filterable dimensions offered to the user, computed
// independently of the user's own selection.
type Facets struct {
	Categories []Category `json:"categories"`
	Brands     []Brand    `json:"brands"`
	MinPrice   float64    `json:"minPrice"`
	MaxPrice   float64    `json:"maxPrice"`
}

// Bounds returns the facet price bounds as a range.
func (f *Facets) Bounds() PriceRange {
	if f == nil {
		return PriceRange{}
	}
	return PriceRange{Min: f.MinPrice, Max: f.MaxPrice}
}

// Context builds the catalog context for labels and category ancestry.
func (f *Facets) Context() CatalogContext {
	if f == nil {
		return NewCatalogContext(nil, nil)
	}
	return NewCatalogContext(f.Categories, f.Brands)
}

// Evaluate runs the in-memory pipeline: filter, stable sort, paginate.
func Evaluate(products []Product, s FilterState, seed Seed, cc CatalogContext) *ResultPage {
	matched := Filter(products, s, cc)
	sorted := SortProducts(matched, s.SortMode)
	page := s.Page
	if page < 1 {
		page = 1
	}
	return &ResultPage{
		Items:      Paginate(sorted, page, PageSize),
		TotalCount: len(matched),
		TotalPages: TotalPages(len(matched), PageSize),
		Page:       page,
		PageSize:   PageSize,
		Badges:     DeriveBadges(s, seed, cc),
	}
}
