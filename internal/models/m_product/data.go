package m_product

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the products table. Prices are
// stored as exact rationals; effective_price is a generated column used for
// range filters and ordering only.
type Data struct {
	ProductID               string             `spanner:"product_id"`
	Name                    string             `spanner:"name"`
	Description             string             `spanner:"description"`
	BrandID                 string             `spanner:"brand_id"`
	CategorySlug            string             `spanner:"category_slug"`
	SubcategorySlug         spanner.NullString `spanner:"subcategory_slug"`
	BasePriceNumerator      int64              `spanner:"base_price_numerator"`
	BasePriceDenominator    int64              `spanner:"base_price_denominator"`
	SpecialPriceNumerator   spanner.NullInt64  `spanner:"special_price_numerator"`
	SpecialPriceDenominator spanner.NullInt64  `spanner:"special_price_denominator"`
	Rating                  float64            `spanner:"rating"`
	ReviewCount             int64              `spanner:"review_count"`
	InStock                 bool               `spanner:"in_stock"`
	Tags                    []string           `spanner:"tags"`
	Status                  string             `spanner:"status"`
	CreatedAt               time.Time          `spanner:"created_at"`
}
