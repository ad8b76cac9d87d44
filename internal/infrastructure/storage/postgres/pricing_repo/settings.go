package pricing_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/core/types"
	"opticore/internal/domain/pricing"
	"opticore/internal/infrastructure/storage/postgres"
)

// SettingsRepo implements pricing.SettingsProvider. One snapshot load
// is three reads: the store row joined to its group for the base rate,
// then the store's discount and special price rules.
type SettingsRepo struct {
	txm *postgres.TxManager
}

// NewSettingsRepo creates a pricing settings provider.
func NewSettingsRepo(txm *postgres.TxManager) *SettingsRepo {
	return &SettingsRepo{txm: txm}
}

// SettingsFor assembles a store's pricing snapshot.
func (r *SettingsRepo) SettingsFor(ctx context.Context, storeID id.ID) (*pricing.Settings, error) {
	querier := r.txm.GetQuerier(ctx)

	settings := &pricing.Settings{
		StoreID:          storeID,
		BrandDiscounts:   make(map[id.ID]types.Rate),
		ProductDiscounts: make(map[id.ID]types.Rate),
		SpecialPrices:    make(map[id.ID]types.Money),
	}

	err := querier.QueryRow(ctx, `
		SELECT COALESCE(g.base_discount_rate, 0)
		FROM cat_stores s
		LEFT JOIN cat_store_groups g ON g.id = s.group_id AND g.deletion_mark = false
		WHERE s.id = $1 AND s.deletion_mark = false
	`, storeID).Scan(&settings.BaseDiscountRate)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewStoreNotFound(storeID.String())
		}
		return nil, fmt.Errorf("load store base rate: %w", err)
	}

	type brandRule struct {
		BrandID id.ID      `db:"brand_id"`
		Rate    types.Rate `db:"rate"`
	}
	var brandRules []brandRule
	err = pgxscan.Select(ctx, querier, &brandRules,
		`SELECT brand_id, rate FROM reg_brand_discounts WHERE store_id = $1`, storeID)
	if err != nil {
		return nil, fmt.Errorf("load brand discounts: %w", err)
	}
	for _, br := range brandRules {
		settings.BrandDiscounts[br.BrandID] = br.Rate
	}

	type productRule struct {
		ProductID id.ID      `db:"product_id"`
		Rate      types.Rate `db:"rate"`
	}
	var productRules []productRule
	err = pgxscan.Select(ctx, querier, &productRules,
		`SELECT product_id, rate FROM reg_product_discounts WHERE store_id = $1`, storeID)
	if err != nil {
		return nil, fmt.Errorf("load product discounts: %w", err)
	}
	for _, pr := range productRules {
		settings.ProductDiscounts[pr.ProductID] = pr.Rate
	}

	type specialPrice struct {
		ProductID id.ID       `db:"product_id"`
		Price     types.Money `db:"price"`
	}
	var specials []specialPrice
	err = pgxscan.Select(ctx, querier, &specials,
		`SELECT product_id, price FROM reg_special_prices WHERE store_id = $1`, storeID)
	if err != nil {
		return nil, fmt.Errorf("load special prices: %w", err)
	}
	for _, sp := range specials {
		settings.SpecialPrices[sp.ProductID] = sp.Price
	}

	return settings, nil
}

var _ pricing.SettingsProvider = (*SettingsRepo)(nil)
