package contracts

import (
	"context"

	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
)

// ProductSource supplies a fully loaded in-memory catalog.
type ProductSource interface {
	// Products returns every product of the catalog, already normalised.
	Products(ctx context.Context) ([]domain.Product, error)

	// Taxonomy returns the category tree and brand list. Either may be empty,
	// in which case they are inferred from the products.
	Taxonomy(ctx context.Context) ([]domain.Category, []domain.Brand, error)
}
