package catalog_repo

import (
	"opticore/internal/domain/catalogs/brand"
	"opticore/internal/infrastructure/storage/postgres"
)

const brandTable = "cat_brands"

// BrandRepo implements brand.Repository.
type BrandRepo struct {
	*BaseCatalogRepo[*brand.Brand]
}

// NewBrandRepo creates a new brand repository.
func NewBrandRepo(txm *postgres.TxManager) *BrandRepo {
	return &BrandRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*brand.Brand](
			txm,
			brandTable,
			postgres.ExtractDBColumns[brand.Brand](),
			func() *brand.Brand { return &brand.Brand{} },
		),
	}
}
