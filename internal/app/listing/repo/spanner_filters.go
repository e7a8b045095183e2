package repo

import (
	"sort"
	"strings"

	"github.com/light-bringer/catalog-listing/internal/app/listing/contracts"
	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
	"github.com/light-bringer/catalog-listing/internal/models/m_category"
	"github.com/light-bringer/catalog-listing/internal/models/m_product"
	"github.com/light-bringer/catalog-listing/internal/pkg/query"
)

// searchCondition matches name, description, brand id, brand display name
// or any tag, ignoring case. It returns nil for a blank term.
func searchCondition(term string, brands []domain.Brand) query.Condition {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	conds := []query.Condition{
		query.ContainsFold(m_product.Name, term),
		query.ContainsFold(m_product.Description, term),
		query.ContainsFold(m_product.BrandID, term),
	}
	lower := strings.ToLower(term)
	var labelled []string
	for _, b := range brands {
		if strings.Contains(strings.ToLower(b.Name), lower) {
			labelled = append(labelled, b.ID)
		}
	}
	if len(labelled) > 0 {
		conds = append(conds, query.In(m_product.BrandID, labelled))
	}
	conds = append(conds, query.ArrayContainsFold(m_product.Tags, term))
	return query.Or(conds...)
}

// facetConditions scope facet queries: active products matching the search.
func facetConditions(vars contracts.FacetVariables, brands []domain.Brand) []query.Condition {
	conds := []query.Condition{query.Eq(m_product.Status, m_product.StatusActive)}
	if search := searchCondition(vars.SearchQuery, brands); search != nil {
		conds = append(conds, search)
	}
	return conds
}

// productConditions translate product query variables into WHERE clauses.
// A category selection matches the category or any descendant, on either
// the category or the subcategory column.
func productConditions(vars contracts.ProductVariables, cc domain.CatalogContext, brands []domain.Brand) []query.Condition {
	conds := []query.Condition{query.Eq(m_product.Status, m_product.StatusActive)}
	if search := searchCondition(vars.SearchQuery, brands); search != nil {
		conds = append(conds, search)
	}
	if vars.CategorySlug != "" {
		slugs := cc.Descendants(vars.CategorySlug)
		conds = append(conds, query.Or(
			query.In(m_product.CategorySlug, slugs),
			query.In(m_product.SubcategorySlug, slugs),
		))
	}
	if len(vars.SubcategorySlugs) > 0 {
		conds = append(conds, query.In(m_product.SubcategorySlug, vars.SubcategorySlugs))
	}
	if len(vars.BrandIDs) > 0 {
		conds = append(conds, query.In(m_product.BrandID, vars.BrandIDs))
	}
	if vars.MinPrice != nil && vars.MaxPrice != nil && *vars.MinPrice > *vars.MaxPrice {
		minPrice, maxPrice := *vars.MaxPrice, *vars.MinPrice
		vars.MinPrice, vars.MaxPrice = &minPrice, &maxPrice
	}
	if vars.MinPrice != nil {
		conds = append(conds, query.Gte(m_product.EffectivePrice, *vars.MinPrice))
	}
	if vars.MaxPrice != nil {
		conds = append(conds, query.Lte(m_product.EffectivePrice, *vars.MaxPrice))
	}
	if vars.MinRating != nil && *vars.MinRating > 0 {
		conds = append(conds, query.Gte(m_product.Rating, float64(*vars.MinRating)))
	}
	if vars.InStock != nil && *vars.InStock {
		conds = append(conds, query.Eq(m_product.InStock, true))
	}
	return conds
}

type orderKey struct {
	column    string
	direction query.Direction
}

// orderFor maps a sort mode to ORDER BY keys. product_id is always the last
// key so pages never overlap.
func orderFor(sortBy string) []orderKey {
	var keys []orderKey
	switch domain.SortMode(sortBy) {
	case domain.SortPriceAsc:
		keys = []orderKey{{m_product.EffectivePrice, query.Asc}}
	case domain.SortPriceDesc:
		keys = []orderKey{{m_product.EffectivePrice, query.Desc}}
	case domain.SortRatingDesc:
		keys = []orderKey{{m_product.Rating, query.Desc}, {m_product.ReviewCount, query.Desc}}
	case domain.SortNewest:
		// numeric IDs first, then creation time, as compareNewest orders them
		keys = []orderKey{{"SAFE_CAST(" + m_product.ProductID + " AS INT64)", query.Desc}, {m_product.CreatedAt, query.Desc}}
	case domain.SortNameAsc:
		keys = []orderKey{{"LOWER(" + m_product.Name + ")", query.Asc}}
	case domain.SortNameDesc:
		keys = []orderKey{{"LOWER(" + m_product.Name + ")", query.Desc}}
	}
	return append(keys, orderKey{m_product.ProductID, query.Asc})
}

func applyConditions(b *query.Builder, conds []query.Condition) *query.Builder {
	for _, c := range conds {
		b = b.Where(c)
	}
	return b
}

// productPageQuery builds the page query and its matching count query.
func productPageQuery(vars contracts.ProductVariables, cc domain.CatalogContext, brands []domain.Brand) (page, count *query.Builder) {
	perPage := vars.PerPage
	if perPage < 1 {
		perPage = domain.PageSize
	}
	pageNum := vars.Page
	if pageNum < 1 {
		pageNum = 1
	}

	base := applyConditions(query.From(m_product.TableName), productConditions(vars, cc, brands))
	page = base.Select(m_product.ReadColumns...)
	for _, k := range orderFor(vars.SortBy) {
		page = page.OrderBy(k.column, k.direction)
	}
	page = page.Limit(int64(perPage)).Offset(int64(domain.PageOffset(pageNum, perPage)))
	return page, base.Count()
}

// buildCategoryTree assembles category rows into a tree ordered by
// position then name. Rows whose parent is unknown become roots.
func buildCategoryTree(rows []m_category.Data) []domain.Category {
	known := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		known[r.CategorySlug] = struct{}{}
	}

	ordered := append([]m_category.Data(nil), rows...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Position != ordered[j].Position {
			return ordered[i].Position < ordered[j].Position
		}
		return ordered[i].Name < ordered[j].Name
	})

	children := make(map[string][]m_category.Data)
	var roots []m_category.Data
	for _, r := range ordered {
		parent := r.ParentSlug.StringVal
		if _, ok := known[parent]; !r.ParentSlug.Valid || !ok || parent == r.CategorySlug {
			roots = append(roots, r)
			continue
		}
		children[parent] = append(children[parent], r)
	}

	var build func(nodes []m_category.Data, depth int) []domain.Category
	build = func(nodes []m_category.Data, depth int) []domain.Category {
		if len(nodes) == 0 || depth > len(rows) {
			return nil
		}
		out := make([]domain.Category, 0, len(nodes))
		for _, n := range nodes {
			out = append(out, domain.Category{
				ID:       n.CategorySlug,
				Slug:     n.CategorySlug,
				Name:     n.Name,
				Children: build(children[n.CategorySlug], depth+1),
			})
		}
		return out
	}
	return build(roots, 0)
}

// categoryGroup is one (category, subcategory) product count.
type categoryGroup struct {
	category    string
	subcategory string
	count       int
}

// branchCounts sums grouped counts over every node of each group's chain.
func branchCounts(groups []categoryGroup, cc domain.CatalogContext) map[string]int {
	counts := make(map[string]int)
	for _, g := range groups {
		chain := cc.Chain(domain.Product{Category: g.category, Subcategory: g.subcategory})
		for _, slug := range chain {
			counts[slug] += g.count
		}
	}
	return counts
}

// brandsWithProducts keeps the brands present in counts, in input order.
func brandsWithProducts(brands []domain.Brand, counts map[string]int) []domain.Brand {
	out := make([]domain.Brand, 0, len(counts))
	for _, b := range brands {
		if counts[b.ID] > 0 {
			out = append(out, b)
		}
	}
	return out
}
