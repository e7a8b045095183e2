package domain

// Category is a node of the category tree.
type Category struct {
	ID           string     `json:"id"`
	Slug         string     `json:"slug"`
	Name         string     `json:"name"`
	ProductCount int        `json:"productCount"`
	Children     []Category `json:"children,omitempty"`
}

// Brand is a selectable brand facet value.
type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CatalogContext resolves category ancestry and display labels. The zero
// value treats every category as a root and every identifier as its own
// label.
type CatalogContext struct {
	parents        map[string]string
	children       map[string][]string
	categoryLabels map[string]string
	brandLabels    map[string]string
}

// NewCatalogContext indexes a category tree and brand list.
func NewCatalogContext(categories []Category, brands []Brand) CatalogContext {
	cc := CatalogContext{
		parents:        make(map[string]string),
		children:       make(map[string][]string),
		categoryLabels: make(map[string]string),
		brandLabels:    make(map[string]string, len(brands)),
	}
	var walk func(parent string, nodes []Category)
	walk = func(parent string, nodes []Category) {
		for _, n := range nodes {
			if parent != "" {
				cc.parents[n.Slug] = parent
				cc.children[parent] = append(cc.children[parent], n.Slug)
			}
			if n.Name != "" {
				cc.categoryLabels[n.Slug] = n.Name
			}
			walk(n.Slug, n.Children)
		}
	}
	walk("", categories)
	for _, b := range brands {
		if b.Name != "" {
			cc.brandLabels[b.ID] = b.Name
		}
	}
	return cc
}

// Chain returns the product's resolved category chain: its subcategory,
// its category and every ancestor of both.
func (cc CatalogContext) Chain(p Product) []string {
	chain := make([]string, 0, 4)
	seen := make(map[string]struct{}, 4)
	for _, start := range []string{p.Subcategory, p.Category} {
		for slug := start; slug != ""; slug = cc.parents[slug] {
			if _, ok := seen[slug]; ok {
				break
			}
			seen[slug] = struct{}{}
			chain = append(chain, slug)
		}
	}
	return chain
}

// InCategory reports whether slug appears in the product's category chain.
func (cc CatalogContext) InCategory(p Product, slug string) bool {
	for _, c := range cc.Chain(p) {
		if c == slug {
			return true
		}
	}
	return false
}

// Descendants returns slug followed by every category below it. Backends
// that filter in SQL use it to expand a category selection.
func (cc CatalogContext) Descendants(slug string) []string {
	out := []string{slug}
	for i := 0; i < len(out); i++ {
		out = append(out, cc.children[out[i]]...)
	}
	return out
}

// CategoryLabel returns the display name of a category slug.
func (cc CatalogContext) CategoryLabel(slug string) string {
	if name, ok := cc.categoryLabels[slug]; ok {
		return name
	}
	return slug
}

// BrandLabel returns the display name of a brand identifier.
func (cc CatalogContext) BrandLabel(id string) string {
	if name, ok := cc.brandLabels[id]; ok {
		return name
	}
	return id
}
