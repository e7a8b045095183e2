package repo

import (
	"fmt"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
	"github.com/light-bringer/catalog-listing/internal/models/m_brand"
	"github.com/light-bringer/catalog-listing/internal/models/m_category"
	"github.com/light-bringer/catalog-listing/internal/models/m_product"
	"github.com/light-bringer/catalog-listing/internal/pkg/committer"
)

// SeedOptions controls CatalogPlan.
type SeedOptions struct {
	// Replace deletes existing rows before writing the catalog.
	Replace bool
}

// CatalogPlan converts a catalog file into Spanner mutations. Entries that
// fail validation abort the plan so a seed never writes a partial catalog.
func CatalogPlan(f *CatalogFile, opts SeedOptions) (*committer.CommitPlan, error) {
	products := m_product.NewModel()
	categories := m_category.NewModel()
	brands := m_brand.NewModel()

	plan := committer.NewPlan()
	if opts.Replace {
		plan.Add(products.DeleteAllMut())
		plan.Add(categories.DeleteAllMut())
		plan.Add(brands.DeleteAllMut())
	}

	for _, b := range f.Brands {
		if b.ID == "" {
			return nil, fmt.Errorf("brand %q: empty id", b.Name)
		}
		plan.Add(brands.UpsertMut(&m_brand.Data{BrandID: b.ID, Name: b.Name}))
	}

	var walk func(entries []CategoryEntry, parent string) error
	walk = func(entries []CategoryEntry, parent string) error {
		for i, e := range entries {
			if e.Slug == "" {
				return fmt.Errorf("category %q: empty slug", e.Name)
			}
			plan.Add(categories.UpsertMut(&m_category.Data{
				CategorySlug: e.Slug,
				ParentSlug:   spanner.NullString{StringVal: parent, Valid: parent != ""},
				Name:         e.Name,
				Position:     int64(i + 1),
			}))
			if err := walk(e.Children, e.Slug); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(f.Categories, ""); err != nil {
		return nil, err
	}

	for _, e := range f.Products {
		data, err := productData(e)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", e.ID, err)
		}
		plan.Add(products.UpsertMut(data))
	}
	return plan, nil
}

func productData(e ProductEntry) (*m_product.Data, error) {
	if _, err := e.Product(); err != nil {
		return nil, err
	}
	base, special, err := e.Prices()
	if err != nil {
		return nil, err
	}
	baseNum, baseDen, err := rational(base)
	if err != nil {
		return nil, err
	}

	data := &m_product.Data{
		ProductID:            e.ID,
		Name:                 e.Name,
		Description:          e.Description,
		BrandID:              e.Brand,
		CategorySlug:         e.Category,
		SubcategorySlug:      spanner.NullString{StringVal: e.Subcategory, Valid: e.Subcategory != ""},
		BasePriceNumerator:   baseNum,
		BasePriceDenominator: baseDen,
		Rating:               e.Rating,
		ReviewCount:          int64(e.Reviews),
		InStock:              e.InStock,
		Tags:                 e.Tags,
		Status:               m_product.StatusActive,
		CreatedAt:            e.CreatedAt,
	}
	if special != nil {
		num, den, err := rational(special)
		if err != nil {
			return nil, err
		}
		data.SpecialPriceNumerator = spanner.NullInt64{Int64: num, Valid: true}
		data.SpecialPriceDenominator = spanner.NullInt64{Int64: den, Valid: true}
	}
	return data, nil
}

func rational(m *domain.Money) (int64, int64, error) {
	r := m.Rat()
	if !r.Num().IsInt64() || !r.Denom().IsInt64() {
		return 0, 0, fmt.Errorf("amount %s out of range", m)
	}
	return r.Num().Int64(), r.Denom().Int64(), nil
}
