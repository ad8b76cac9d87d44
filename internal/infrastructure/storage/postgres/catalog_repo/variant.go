package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/domain/catalogs/product"
	"opticore/internal/infrastructure/storage/postgres"
)

const variantTable = "cat_product_variants"

// VariantRepo implements product.VariantRepository.
// Variants are not a code/name catalog: lookups go by product and SKU,
// and the generic search/tree operations do not apply.
type VariantRepo struct {
	*BaseCatalogRepo[*product.Variant]
}

// NewVariantRepo creates a new variant repository.
func NewVariantRepo(txm *postgres.TxManager) *VariantRepo {
	return &VariantRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*product.Variant](
			txm,
			variantTable,
			postgres.ExtractDBColumns[product.Variant](),
			func() *product.Variant { return &product.Variant{} },
		),
	}
}

// GetBySKU retrieves a variant by product and warehouse code.
func (r *VariantRepo) GetBySKU(ctx context.Context, productID id.ID, sku string) (*product.Variant, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"product_id": productID}).
		Where(squirrel.Eq{"sku": sku}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	v, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("variant", sku)
		}
		return nil, err
	}
	return v, nil
}

// ListByProduct returns a product's variants ordered by prescription.
func (r *VariantRepo) ListByProduct(ctx context.Context, productID id.ID, includeInactive bool) ([]*product.Variant, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"product_id": productID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("sphere", "cylinder")

	if !includeInactive {
		q = q.Where(squirrel.Eq{"active": true})
	}

	return r.FindMany(ctx, q)
}

// SetActive toggles a variant's availability for ordering.
func (r *VariantRepo) SetActive(ctx context.Context, variantID id.ID, active bool) error {
	q := r.Builder().
		Update(variantTable).
		Set("active", active).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": variantID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build set active: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("execute set active: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("variant", variantID.String())
	}

	return nil
}
