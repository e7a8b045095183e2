package domain

import (
	"cmp"
	"slices"
	"strings"
)

// Comparator orders two products, returning a negative number when a sorts
// before b, zero when they are equal, and a positive number otherwise.
type Comparator func(a, b Product) int

// ComparatorFor maps a sort mode to its comparator. Relevance and unknown
// modes return a comparator that treats every pair as equal, which keeps
// input order under a stable sort.
func ComparatorFor(mode SortMode) Comparator {
	switch mode {
	case SortPriceAsc:
		return func(a, b Product) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceDesc:
		return func(a, b Product) int { return cmp.Compare(b.Price, a.Price) }
	case SortRatingDesc:
		return func(a, b Product) int {
			if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
				return c
			}
			return cmp.Compare(b.Reviews, a.Reviews)
		}
	case SortNewest:
		return compareNewest
	case SortNameAsc:
		return func(a, b Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortNameDesc:
		return func(a, b Product) int {
			return strings.Compare(strings.ToLower(b.Name), strings.ToLower(a.Name))
		}
	default:
		return func(Product, Product) int { return 0 }
	}
}

// compareNewest orders by numeric ID descending when both IDs are numeric,
// otherwise by CreatedAt descending when both are set. Anything else is a
// tie.
func compareNewest(a, b Product) int {
	ai, aok := a.NumericID()
	bi, bok := b.NumericID()
	if aok && bok {
		return cmp.Compare(bi, ai)
	}
	if !a.CreatedAt.IsZero() && !b.CreatedAt.IsZero() {
		return b.CreatedAt.Compare(a.CreatedAt)
	}
	return 0
}

// SortProducts returns a stably sorted copy of products.
func SortProducts(products []Product, mode SortMode) []Product {
	out := slices.Clone(products)
	if mode == SortRelevance || mode == "" {
		return out
	}
	slices.SortStableFunc(out, ComparatorFor(mode))
	return out
}
