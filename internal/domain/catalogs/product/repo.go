package product

import (
	"context"

	"opticore/internal/core/id"
	"opticore/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// ListByBrand returns active products of a brand.
	ListByBrand(ctx context.Context, brandID id.ID) ([]*Product, error)

	// GetMany loads products by ID in one query (for bulk pricing).
	GetMany(ctx context.Context, ids []id.ID) ([]*Product, error)
}

// VariantRepository defines persistence for product variants.
// Variants are not a code/name catalog, so they get their own interface
// instead of the generic CatalogRepository.
type VariantRepository interface {
	Create(ctx context.Context, v *Variant) error
	GetByID(ctx context.Context, id id.ID) (*Variant, error)
	GetBySKU(ctx context.Context, productID id.ID, sku string) (*Variant, error)
	Update(ctx context.Context, v *Variant) error
	ListByProduct(ctx context.Context, productID id.ID, includeInactive bool) ([]*Variant, error)
	SetActive(ctx context.Context, id id.ID, active bool) error
}
