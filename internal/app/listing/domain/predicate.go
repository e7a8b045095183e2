package domain

import "strings"

// Matches reports whether p satisfies every active dimension of s. Inactive
// dimensions (empty sets, zero rating, unset range) accept every product.
func Matches(p Product, s FilterState, cc CatalogContext) bool {
	return matchesCategory(p, s, cc) &&
		matchesSubcategory(p, s) &&
		matchesSearch(p, s.SearchQuery, cc) &&
		matchesBrand(p, s) &&
		matchesPrice(p, s) &&
		matchesRating(p, s) &&
		matchesStock(p, s)
}

// Filter returns the products matching s, preserving input order.
func Filter(products []Product, s FilterState, cc CatalogContext) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if Matches(p, s, cc) {
			out = append(out, p)
		}
	}
	return out
}

func matchesCategory(p Product, s FilterState, cc CatalogContext) bool {
	if s.SelectedCategorySlug == "" {
		return true
	}
	return cc.InCategory(p, s.SelectedCategorySlug)
}

func matchesSubcategory(p Product, s FilterState) bool {
	if len(s.SelectedSubcategorySlugs) == 0 {
		return true
	}
	return s.HasSubcategory(p.Subcategory)
}

func matchesSearch(p Product, query string, cc CatalogContext) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	fields := []string{p.Name, p.Description, p.Brand, cc.BrandLabel(p.Brand)}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func matchesBrand(p Product, s FilterState) bool {
	if len(s.SelectedBrands) == 0 {
		return true
	}
	return s.HasBrand(p.Brand)
}

func matchesPrice(p Product, s FilterState) bool {
	if s.PriceRange.IsZero() {
		return true
	}
	return s.PriceRange.Contains(p.Price)
}

func matchesRating(p Product, s FilterState) bool {
	if s.MinRating <= 0 {
		return true
	}
	return p.Rating >= float64(s.MinRating)
}

func matchesStock(p Product, s FilterState) bool {
	return !s.InStockOnly || p.InStock
}
