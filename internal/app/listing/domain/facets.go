package domain

import (
	"math"
	"sort"
)

// FacetsFromProducts derives facets for an in-memory catalog. When tree is
// empty the category tree is inferred from product category/subcategory
// pairs; when brands is empty the brand list is inferred from products.
// Counts cover each whole branch.
func FacetsFromProducts(products []Product, tree []Category, brands []Brand) *Facets {
	if len(tree) == 0 {
		tree = inferCategoryTree(products)
	}
	if len(brands) == 0 {
		brands = inferBrands(products)
	}

	cc := NewCatalogContext(tree, brands)
	counts := make(map[string]int)
	minPrice, maxPrice := math.Inf(1), math.Inf(-1)
	for _, p := range products {
		for _, slug := range cc.Chain(p) {
			counts[slug]++
		}
		minPrice = math.Min(minPrice, p.Price)
		maxPrice = math.Max(maxPrice, p.Price)
	}
	if len(products) == 0 {
		minPrice, maxPrice = 0, 0
	}

	return &Facets{
		Categories: WithCounts(tree, counts),
		Brands:     brands,
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
	}
}

// WithCounts returns a copy of the tree with ProductCount set from counts.
func WithCounts(nodes []Category, counts map[string]int) []Category {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Category, len(nodes))
	for i, n := range nodes {
		n.ProductCount = counts[n.Slug]
		n.Children = WithCounts(n.Children, counts)
		out[i] = n
	}
	return out
}

func inferCategoryTree(products []Product) []Category {
	children := make(map[string]map[string]struct{})
	var roots []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := children[p.Category]; !ok {
			children[p.Category] = make(map[string]struct{})
			roots = append(roots, p.Category)
		}
		if p.Subcategory != "" && p.Subcategory != p.Category {
			children[p.Category][p.Subcategory] = struct{}{}
		}
	}
	sort.Strings(roots)

	tree := make([]Category, 0, len(roots))
	for _, slug := range roots {
		subs := make([]string, 0, len(children[slug]))
		for sub := range children[slug] {
			subs = append(subs, sub)
		}
		sort.Strings(subs)
		node := Category{ID: slug, Slug: slug, Name: slug}
		for _, sub := range subs {
			node.Children = append(node.Children, Category{ID: sub, Slug: sub, Name: sub})
		}
		tree = append(tree, node)
	}
	return tree
}

func inferBrands(products []Product) []Brand {
	seen := make(map[string]struct{})
	var brands []Brand
	for _, p := range products {
		if p.Brand == "" {
			continue
		}
		if _, ok := seen[p.Brand]; ok {
			continue
		}
		seen[p.Brand] = struct{}{}
		brands = append(brands, Brand{ID: p.Brand, Name: p.Brand})
	}
	sort.Slice(brands, func(i, j int) bool { return brands[i].Name < brands[j].Name })
	return brands
}
