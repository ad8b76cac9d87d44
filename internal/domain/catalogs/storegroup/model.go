// Package storegroup provides the StoreGroup catalog.
// A group carries the base discount rate inherited by its member stores.
package storegroup

import (
	"context"

	"github.com/shopspring/decimal"

	"opticore/internal/core/apperror"
	"opticore/internal/core/entity"
	"opticore/internal/core/types"
)

// StoreGroup represents a pricing tier for stores (e.g. "A-grade wholesale").
type StoreGroup struct {
	entity.Catalog

	// BaseDiscountRate applies to all products for member stores
	// unless a more specific rule overrides it. 0.10 means 10% off.
	BaseDiscountRate types.Rate `db:"base_discount_rate" json:"baseDiscountRate"`
}

// NewStoreGroup creates a new StoreGroup with required fields.
func NewStoreGroup(code, name string, baseDiscountRate types.Rate) *StoreGroup {
	return &StoreGroup{
		Catalog:          entity.NewCatalog(code, name),
		BaseDiscountRate: baseDiscountRate,
	}
}

// Validate implements entity.Validatable interface.
func (g *StoreGroup) Validate(ctx context.Context) error {
	if err := g.Catalog.Validate(ctx); err != nil {
		return err
	}

	if g.BaseDiscountRate.IsNegative() || g.BaseDiscountRate.GreaterThan(decimal.NewFromInt(1)) {
		return apperror.NewValidation("base discount rate must be between 0 and 1").
			WithDetail("field", "baseDiscountRate").
			WithDetail("value", g.BaseDiscountRate.String())
	}

	return nil
}
