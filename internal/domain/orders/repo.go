package orders

import (
	"context"
	"time"

	"opticore/internal/core/id"
	"opticore/internal/domain"
)

// ListFilter narrows order list queries.
type ListFilter struct {
	StoreID  *id.ID
	Statuses []Status
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// Repository defines the interface for Order persistence.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error

	// GetByID returns the order header without lines.
	GetByID(ctx context.Context, id id.ID) (*Order, error)

	// GetByNumber returns the order header by document number.
	GetByNumber(ctx context.Context, number string) (*Order, error)

	GetLines(ctx context.Context, orderID id.ID) ([]Line, error)

	// SaveLines replaces the order's table part.
	SaveLines(ctx context.Context, orderID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Order], error)
}
