// Package pricing computes effective unit prices for store/product
// pairs. Four override layers apply in fixed precedence:
// special price > product discount > brand discount > base rate.
package pricing

import (
	"context"

	"opticore/internal/core/id"
	"opticore/internal/core/types"
)

// Settings is a point-in-time snapshot of one store's discount rules.
// It is assembled by a SettingsProvider and passed around as a plain
// value: the resolver never reloads it, so a bulk request prices every
// line against the same rules.
type Settings struct {
	StoreID id.ID

	// BaseDiscountRate comes from the store's group; a store without
	// a group buys at list price unless a narrower rule applies.
	BaseDiscountRate types.Rate

	// BrandDiscounts maps brandID -> discount rate
	BrandDiscounts map[id.ID]types.Rate

	// ProductDiscounts maps productID -> discount rate
	ProductDiscounts map[id.ID]types.Rate

	// SpecialPrices maps productID -> fixed unit price
	SpecialPrices map[id.ID]types.Money
}

// SettingsProvider assembles a Settings snapshot for a store.
// The postgres implementation joins store, group and rule tables.
// Returns StoreNotFound when the store does not exist.
type SettingsProvider interface {
	SettingsFor(ctx context.Context, storeID id.ID) (*Settings, error)
}
