package catalog_repo

import (
	"opticore/internal/domain/catalogs/storegroup"
	"opticore/internal/infrastructure/storage/postgres"
)

const storeGroupTable = "cat_store_groups"

// StoreGroupRepo implements storegroup.Repository.
type StoreGroupRepo struct {
	*BaseCatalogRepo[*storegroup.StoreGroup]
}

// NewStoreGroupRepo creates a new store group repository.
func NewStoreGroupRepo(txm *postgres.TxManager) *StoreGroupRepo {
	return &StoreGroupRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*storegroup.StoreGroup](
			txm,
			storeGroupTable,
			postgres.ExtractDBColumns[storegroup.StoreGroup](),
			func() *storegroup.StoreGroup { return &storegroup.StoreGroup{} },
		),
	}
}
