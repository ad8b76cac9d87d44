package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"opticore/internal/core/id"
	"opticore/internal/domain/catalogs/product"
	"opticore/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*product.Product](
			txm,
			productTable,
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

// ListByBrand returns active products of a brand.
func (r *ProductRepo) ListByBrand(ctx context.Context, brandID id.ID) ([]*product.Product, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"brand_id": brandID}).
		Where(squirrel.Eq{"active": true}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name")

	return r.FindMany(ctx, q)
}

// GetMany loads products by ID in one query.
func (r *ProductRepo) GetMany(ctx context.Context, ids []id.ID) ([]*product.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"id": ids})

	return r.FindMany(ctx, q)
}
