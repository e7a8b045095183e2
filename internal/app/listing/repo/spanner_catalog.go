package repo

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/catalog-listing/internal/app/listing/contracts"
	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
	"github.com/light-bringer/catalog-listing/internal/models/m_brand"
	"github.com/light-bringer/catalog-listing/internal/models/m_category"
	"github.com/light-bringer/catalog-listing/internal/models/m_product"
	"github.com/light-bringer/catalog-listing/internal/pkg/query"
)

// SpannerCatalog serves the catalog from Cloud Spanner. It is both a
// ProductSource for the in-memory engine and a CatalogBackend that filters,
// sorts and paginates in SQL.
type SpannerCatalog struct {
	client *spanner.Client
	logger *zap.Logger
}

var (
	_ contracts.ProductSource  = (*SpannerCatalog)(nil)
	_ contracts.CatalogBackend = (*SpannerCatalog)(nil)
)

// NewSpannerCatalog creates a catalog over client.
func NewSpannerCatalog(client *spanner.Client, logger *zap.Logger) *SpannerCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpannerCatalog{client: client, logger: logger}
}

// Products returns every active product.
func (c *SpannerCatalog) Products(ctx context.Context) ([]domain.Product, error) {
	stmt := query.From(m_product.TableName).
		Select(m_product.ReadColumns...).
		Where(query.Eq(m_product.Status, m_product.StatusActive)).
		OrderBy(m_product.ProductID, query.Asc).
		Build()
	return c.readProducts(ctx, stmt, 0)
}

// Taxonomy returns the category tree and brand list.
func (c *SpannerCatalog) Taxonomy(ctx context.Context) ([]domain.Category, []domain.Brand, error) {
	var (
		tree   []domain.Category
		brands []domain.Brand
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tree, err = c.categories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		brands, err = c.brands(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return tree, brands, nil
}

// QueryProducts returns one filtered, sorted page and the total match count.
func (c *SpannerCatalog) QueryProducts(ctx context.Context, vars contracts.ProductVariables) (*contracts.ProductPage, error) {
	tree, brands, err := c.Taxonomy(ctx)
	if err != nil {
		return nil, err
	}
	pageQuery, countQuery := productPageQuery(vars, domain.NewCatalogContext(tree, brands), brands)

	var (
		items []domain.Product
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = c.readProducts(gctx, pageQuery.Build(), vars.PerPage)
		return err
	})
	g.Go(func() error {
		return c.each(gctx, countQuery.Build(), func(row *spanner.Row) error {
			return row.Columns(&total)
		})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	perPage := vars.PerPage
	if perPage < 1 {
		perPage = domain.PageSize
	}
	current := vars.Page
	if current < 1 {
		current = 1
	}
	return &contracts.ProductPage{
		Items: items,
		PaginatorInfo: contracts.PaginatorInfo{
			Total:       int(total),
			LastPage:    domain.TotalPages(int(total), perPage),
			CurrentPage: current,
		},
	}, nil
}

// FetchFacets computes facets over the active products matching the search
// query only.
func (c *SpannerCatalog) FetchFacets(ctx context.Context, vars contracts.FacetVariables) (*domain.Facets, error) {
	tree, brands, err := c.Taxonomy(ctx)
	if err != nil {
		return nil, err
	}
	conds := facetConditions(vars, brands)
	base := applyConditions(query.From(m_product.TableName), conds)

	var (
		groups      []categoryGroup
		brandCounts = make(map[string]int)
		minPrice    spanner.NullFloat64
		maxPrice    spanner.NullFloat64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stmt := base.
			Select(m_product.CategorySlug, m_product.SubcategorySlug, "COUNT(*)").
			GroupBy(m_product.CategorySlug, m_product.SubcategorySlug).
			Build()
		return c.each(gctx, stmt, func(row *spanner.Row) error {
			var (
				cat   string
				sub   spanner.NullString
				count int64
			)
			if err := row.Columns(&cat, &sub, &count); err != nil {
				return err
			}
			groups = append(groups, categoryGroup{category: cat, subcategory: sub.StringVal, count: int(count)})
			return nil
		})
	})
	g.Go(func() error {
		stmt := base.
			Select(m_product.BrandID, "COUNT(*)").
			GroupBy(m_product.BrandID).
			Build()
		return c.each(gctx, stmt, func(row *spanner.Row) error {
			var (
				id    string
				count int64
			)
			if err := row.Columns(&id, &count); err != nil {
				return err
			}
			brandCounts[id] = int(count)
			return nil
		})
	})
	g.Go(func() error {
		stmt := base.
			Select("MIN("+m_product.EffectivePrice+")", "MAX("+m_product.EffectivePrice+")").
			Build()
		return c.each(gctx, stmt, func(row *spanner.Row) error {
			return row.Columns(&minPrice, &maxPrice)
		})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(brands))
	for _, b := range brands {
		known[b.ID] = struct{}{}
	}
	var unlisted []domain.Brand
	for id := range brandCounts {
		if _, ok := known[id]; !ok {
			unlisted = append(unlisted, domain.Brand{ID: id, Name: id})
		}
	}
	sort.Slice(unlisted, func(i, j int) bool { return unlisted[i].ID < unlisted[j].ID })

	cc := domain.NewCatalogContext(tree, brands)
	return &domain.Facets{
		Categories: domain.WithCounts(tree, branchCounts(groups, cc)),
		Brands:     append(brandsWithProducts(brands, brandCounts), unlisted...),
		MinPrice:   minPrice.Float64,
		MaxPrice:   maxPrice.Float64,
	}, nil
}

func (c *SpannerCatalog) categories(ctx context.Context) ([]domain.Category, error) {
	stmt := query.From(m_category.TableName).
		Select(m_category.CategorySlug, m_category.ParentSlug, m_category.Name, m_category.Position).
		Build()
	var rows []m_category.Data
	err := c.each(ctx, stmt, func(row *spanner.Row) error {
		var data m_category.Data
		if err := row.ToStruct(&data); err != nil {
			return fmt.Errorf("failed to parse category: %w", err)
		}
		rows = append(rows, data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buildCategoryTree(rows), nil
}

func (c *SpannerCatalog) brands(ctx context.Context) ([]domain.Brand, error) {
	stmt := query.From(m_brand.TableName).
		Select(m_brand.BrandID, m_brand.Name).
		OrderBy(m_brand.Name, query.Asc).
		Build()
	var brands []domain.Brand
	err := c.each(ctx, stmt, func(row *spanner.Row) error {
		var data m_brand.Data
		if err := row.ToStruct(&data); err != nil {
			return fmt.Errorf("failed to parse brand: %w", err)
		}
		brands = append(brands, domain.Brand{ID: data.BrandID, Name: data.Name})
		return nil
	})
	return brands, err
}

func (c *SpannerCatalog) readProducts(ctx context.Context, stmt spanner.Statement, sizeHint int) ([]domain.Product, error) {
	products := make([]domain.Product, 0, sizeHint)
	err := c.each(ctx, stmt, func(row *spanner.Row) error {
		var data m_product.Data
		if err := row.ToStruct(&data); err != nil {
			return fmt.Errorf("failed to parse product: %w", err)
		}
		p, err := dataToProduct(&data)
		if err != nil {
			c.logger.Warn("skipping unreadable product", zap.String("product_id", data.ProductID), zap.Error(err))
			return nil
		}
		products = append(products, p)
		return nil
	})
	return products, err
}

// each runs stmt in a single-use read-only transaction and calls fn per row.
func (c *SpannerCatalog) each(ctx context.Context, stmt spanner.Statement, fn func(*spanner.Row) error) error {
	iter := c.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to iterate %q: %w", stmt.SQL, err)
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

// dataToProduct normalises a products row. An unusable special price is
// ignored rather than failing the row.
func dataToProduct(data *m_product.Data) (domain.Product, error) {
	base, err := domain.NewMoney(data.BasePriceNumerator, data.BasePriceDenominator)
	if err != nil {
		return domain.Product{}, fmt.Errorf("invalid base price: %w", err)
	}
	var special *domain.Money
	if data.SpecialPriceNumerator.Valid && data.SpecialPriceDenominator.Valid {
		if m, err := domain.NewMoney(data.SpecialPriceNumerator.Int64, data.SpecialPriceDenominator.Int64); err == nil {
			special = m
		}
	}
	price, original, err := domain.NormalizePrice(base, special)
	if err != nil {
		return domain.Product{}, err
	}

	p := domain.Product{
		ID:            data.ProductID,
		Name:          data.Name,
		Description:   data.Description,
		Brand:         data.BrandID,
		Category:      data.CategorySlug,
		Subcategory:   data.SubcategorySlug.StringVal,
		Price:         price,
		OriginalPrice: original,
		Rating:        data.Rating,
		Reviews:       int(data.ReviewCount),
		InStock:       data.InStock,
		Tags:          data.Tags,
		CreatedAt:     data.CreatedAt,
	}
	if err := p.Validate(); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
