package m_product

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the products table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut creates a mutation that inserts or replaces a product. A zero
// CreatedAt is stamped with the commit timestamp.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	var createdAt interface{} = data.CreatedAt
	if data.CreatedAt.IsZero() {
		createdAt = spanner.CommitTimestamp
	}
	return spanner.InsertOrUpdate(
		TableName,
		[]string{
			ProductID,
			Name,
			Description,
			BrandID,
			CategorySlug,
			SubcategorySlug,
			BasePriceNumerator,
			BasePriceDenominator,
			SpecialPriceNumerator,
			SpecialPriceDenominator,
			Rating,
			ReviewCount,
			InStock,
			Tags,
			Status,
			CreatedAt,
			UpdatedAt,
		},
		[]interface{}{
			data.ProductID,
			data.Name,
			data.Description,
			data.BrandID,
			data.CategorySlug,
			data.SubcategorySlug,
			data.BasePriceNumerator,
			data.BasePriceDenominator,
			data.SpecialPriceNumerator,
			data.SpecialPriceDenominator,
			data.Rating,
			data.ReviewCount,
			data.InStock,
			data.Tags,
			data.Status,
			createdAt,
			spanner.CommitTimestamp,
		},
	)
}

// DeleteAllMut creates a mutation that removes every product.
func (m *Model) DeleteAllMut() *spanner.Mutation {
	return spanner.Delete(TableName, spanner.AllKeys())
}
