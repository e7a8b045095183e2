package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// BadgeKind names the filter dimension a badge stands for.
type BadgeKind string

const (
	BadgeBrand       BadgeKind = "brand"
	BadgeSubcategory BadgeKind = "subcategory"
	BadgeRating      BadgeKind = "rating"
	BadgeInStock     BadgeKind = "in_stock"
	BadgeCategory    BadgeKind = "category"
	BadgePrice       BadgeKind = "price"
)

// Badge is one dismissible active filter.
type Badge struct {
	Kind  BadgeKind `json:"kind"`
	Value string    `json:"value,omitempty"`
	Label string    `json:"label"`
}

// DeriveBadges lists the active, non-default filter dimensions of s in
// display order.
func DeriveBadges(s FilterState, seed Seed, cc CatalogContext) []Badge {
	badges := make([]Badge, 0, len(s.SelectedBrands)+len(s.SelectedSubcategorySlugs)+4)
	for _, id := range s.SelectedBrands {
		badges = append(badges, Badge{Kind: BadgeBrand, Value: id, Label: cc.BrandLabel(id)})
	}
	for _, slug := range s.SelectedSubcategorySlugs {
		badges = append(badges, Badge{Kind: BadgeSubcategory, Value: slug, Label: cc.CategoryLabel(slug)})
	}
	if s.MinRating > 0 {
		badges = append(badges, Badge{
			Kind:  BadgeRating,
			Value: strconv.Itoa(s.MinRating),
			Label: fmt.Sprintf("%d+ stars", s.MinRating),
		})
	}
	if s.InStockOnly {
		badges = append(badges, Badge{Kind: BadgeInStock, Label: "In stock only"})
	}
	if s.SelectedCategorySlug != "" && s.SelectedCategorySlug != strings.TrimSpace(seed.CategorySlug) {
		badges = append(badges, Badge{
			Kind:  BadgeCategory,
			Value: s.SelectedCategorySlug,
			Label: cc.CategoryLabel(s.SelectedCategorySlug),
		})
	}
	if s.PriceNarrowed() {
		badges = append(badges, Badge{
			Kind:  BadgePrice,
			Value: fmt.Sprintf("%g-%g", s.PriceRange.Min, s.PriceRange.Max),
			Label: fmt.Sprintf("Price %.2f to %.2f", s.PriceRange.Min, s.PriceRange.Max),
		})
	}
	return badges
}

// Dismiss undoes the single dimension b stands for. Dismissing the category
// restores the seeded category, which also clears subcategories since they
// are scoped to it.
func Dismiss(s FilterState, b Badge, seed Seed) FilterState {
	switch b.Kind {
	case BadgeBrand:
		return s.ToggleBrand(b.Value, false)
	case BadgeSubcategory:
		return s.ToggleSubcategory(b.Value, false)
	case BadgeRating:
		return s.SetMinRating(0)
	case BadgeInStock:
		return s.SetInStockOnly(false)
	case BadgeCategory:
		return s.SetCategory(seed.CategorySlug)
	case BadgePrice:
		return s.SetPriceRange(s.Bounds.Min, s.Bounds.Max)
	default:
		return s
	}
}
