package m_product

// Field name constants for the products table.
const (
	TableName = "products"

	ProductID               = "product_id"
	Name                    = "name"
	Description             = "description"
	BrandID                 = "brand_id"
	CategorySlug            = "category_slug"
	SubcategorySlug         = "subcategory_slug"
	BasePriceNumerator      = "base_price_numerator"
	BasePriceDenominator    = "base_price_denominator"
	SpecialPriceNumerator   = "special_price_numerator"
	SpecialPriceDenominator = "special_price_denominator"
	EffectivePrice          = "effective_price"
	Rating                  = "rating"
	ReviewCount             = "review_count"
	InStock                 = "in_stock"
	Tags                    = "tags"
	Status                  = "status"
	CreatedAt               = "created_at"
	UpdatedAt               = "updated_at"
)

// Product statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ReadColumns are the columns a listing read selects, in Data field order.
var ReadColumns = []string{
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
}
