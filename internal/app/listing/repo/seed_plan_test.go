package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/catalog-listing/internal/models/m_product"
)

func TestCatalogPlan_Bundled(t *testing.T) {
	f, err := BundledCatalog()
	require.NoError(t, err)

	plan, err := CatalogPlan(f, SeedOptions{})
	require.NoError(t, err)

	// 4 brands, 3 roots with 7 children, 20 products
	assert.Equal(t, 4+10+20, plan.Count())

	replacing, err := CatalogPlan(f, SeedOptions{Replace: true})
	require.NoError(t, err)
	assert.Equal(t, plan.Count()+3, replacing.Count())
}

func TestCatalogPlan_RejectsInvalidProduct(t *testing.T) {
	f := &CatalogFile{Products: []ProductEntry{{ID: "1", BasePrice: "-5"}}}

	_, err := CatalogPlan(f, SeedOptions{})
	assert.Error(t, err)
}

func TestCatalogPlan_RejectsEmptySlug(t *testing.T) {
	f := &CatalogFile{Categories: []CategoryEntry{{Name: "Nameless"}}}

	_, err := CatalogPlan(f, SeedOptions{})
	assert.Error(t, err)
}

func TestProductData_StoresExactRationals(t *testing.T) {
	data, err := productData(ProductEntry{
		ID:           "8",
		Name:         "Ceramic Brake Pads",
		Brand:        "bolt",
		Category:     "auto-parts",
		Subcategory:  "brakes",
		BasePrice:    "49.99",
		SpecialPrice: "39.99",
		Rating:       4.8,
		Reviews:      87,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(4999), data.BasePriceNumerator)
	assert.Equal(t, int64(100), data.BasePriceDenominator)
	assert.True(t, data.SpecialPriceNumerator.Valid)
	assert.Equal(t, int64(3999), data.SpecialPriceNumerator.Int64)
	assert.Equal(t, "brakes", data.SubcategorySlug.StringVal)
	assert.Equal(t, m_product.StatusActive, data.Status)

	// round trip through the row reader
	p, err := dataToProduct(data)
	require.NoError(t, err)
	assert.Equal(t, 39.99, p.Price)
}

func TestProductData_NoSpecialPrice(t *testing.T) {
	data, err := productData(ProductEntry{ID: "2", Category: "phones", BasePrice: "499"})
	require.NoError(t, err)

	assert.False(t, data.SpecialPriceNumerator.Valid)
	assert.False(t, data.SubcategorySlug.Valid)
	assert.Equal(t, int64(1), data.BasePriceDenominator)
}
