package storegroup

import (
	"opticore/internal/domain"
)

// Repository defines the interface for StoreGroup persistence.
type Repository interface {
	domain.CatalogRepository[*StoreGroup]
}
