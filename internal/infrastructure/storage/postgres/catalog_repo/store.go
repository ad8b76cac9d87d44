package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"opticore/internal/core/id"
	"opticore/internal/domain/catalogs/store"
	"opticore/internal/infrastructure/storage/postgres"
)

const storeTable = "cat_stores"

// StoreRepo implements store.Repository.
type StoreRepo struct {
	*BaseCatalogRepo[*store.Store]
}

// NewStoreRepo creates a new store repository.
func NewStoreRepo(txm *postgres.TxManager) *StoreRepo {
	return &StoreRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*store.Store](
			txm,
			storeTable,
			postgres.ExtractDBColumns[store.Store](),
			func() *store.Store { return &store.Store{} },
		),
	}
}

// ListByGroup returns all stores in a pricing group.
func (r *StoreRepo) ListByGroup(ctx context.Context, groupID id.ID) ([]*store.Store, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"group_id": groupID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name")

	return r.FindMany(ctx, q)
}

// ListOverCreditLimit returns stores whose cached receivable exceeds
// their credit limit. Zero limit means unlimited and is skipped.
func (r *StoreRepo) ListOverCreditLimit(ctx context.Context) ([]*store.Store, error) {
	q := r.baseSelect().
		Where(squirrel.Gt{"credit_limit": 0}).
		Where(squirrel.Expr("outstanding_amount > credit_limit")).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("outstanding_amount - credit_limit DESC")

	return r.FindMany(ctx, q)
}
