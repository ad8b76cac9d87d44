package store

import (
	"context"

	"opticore/internal/core/id"
	"opticore/internal/domain"
)

// Repository defines the interface for Store persistence.
type Repository interface {
	domain.CatalogRepository[*Store]

	// GetForUpdate retrieves store with row lock (for transactional checks).
	GetForUpdate(ctx context.Context, id id.ID) (*Store, error)

	// ListByGroup returns all stores in a pricing group.
	ListByGroup(ctx context.Context, groupID id.ID) ([]*Store, error)

	// ListOverCreditLimit returns stores whose outstanding balance
	// exceeds their credit limit (limit 0 means unlimited).
	ListOverCreditLimit(ctx context.Context) ([]*Store, error)
}
