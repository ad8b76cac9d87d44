// Package pricing_repo persists per-store discount rules and assembles
// pricing snapshots.
package pricing_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"opticore/internal/core/id"
	"opticore/internal/core/types"
	"opticore/internal/domain/pricing"
	"opticore/internal/infrastructure/storage/postgres"
)

const (
	specialPricesTable    = "reg_special_prices"
	productDiscountsTable = "reg_product_discounts"
	brandDiscountsTable   = "reg_brand_discounts"
)

// RuleRepo implements pricing.RuleRepository. Each rule table is keyed
// by (store_id, subject_id); setting a rule upserts, removing one is
// idempotent.
type RuleRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewRuleRepo creates a pricing rule repository.
func NewRuleRepo(txm *postgres.TxManager) *RuleRepo {
	return &RuleRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// SetSpecialPrice pins a fixed unit price for a store/product pair.
func (r *RuleRepo) SetSpecialPrice(ctx context.Context, storeID, productID id.ID, price types.Money) error {
	_, err := r.txm.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO reg_special_prices (store_id, product_id, price, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (store_id, product_id)
		DO UPDATE SET price = EXCLUDED.price, updated_at = NOW()
	`, storeID, productID, price)
	if err != nil {
		return fmt.Errorf("set special price: %w", err)
	}
	return nil
}

// RemoveSpecialPrice drops a special price if present.
func (r *RuleRepo) RemoveSpecialPrice(ctx context.Context, storeID, productID id.ID) error {
	_, err := r.txm.GetQuerier(ctx).Exec(ctx,
		`DELETE FROM reg_special_prices WHERE store_id = $1 AND product_id = $2`,
		storeID, productID)
	if err != nil {
		return fmt.Errorf("remove special price: %w", err)
	}
	return nil
}

// SetProductDiscount sets a per-product discount rate for a store.
func (r *RuleRepo) SetProductDiscount(ctx context.Context, storeID, productID id.ID, rate types.Rate) error {
	_, err := r.txm.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO reg_product_discounts (store_id, product_id, rate, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (store_id, product_id)
		DO UPDATE SET rate = EXCLUDED.rate, updated_at = NOW()
	`, storeID, productID, rate)
	if err != nil {
		return fmt.Errorf("set product discount: %w", err)
	}
	return nil
}

// RemoveProductDiscount drops a per-product discount rate if present.
func (r *RuleRepo) RemoveProductDiscount(ctx context.Context, storeID, productID id.ID) error {
	_, err := r.txm.GetQuerier(ctx).Exec(ctx,
		`DELETE FROM reg_product_discounts WHERE store_id = $1 AND product_id = $2`,
		storeID, productID)
	if err != nil {
		return fmt.Errorf("remove product discount: %w", err)
	}
	return nil
}

// SetBrandDiscount sets a brand-wide discount rate for a store.
func (r *RuleRepo) SetBrandDiscount(ctx context.Context, storeID, brandID id.ID, rate types.Rate) error {
	_, err := r.txm.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO reg_brand_discounts (store_id, brand_id, rate, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (store_id, brand_id)
		DO UPDATE SET rate = EXCLUDED.rate, updated_at = NOW()
	`, storeID, brandID, rate)
	if err != nil {
		return fmt.Errorf("set brand discount: %w", err)
	}
	return nil
}

// RemoveBrandDiscount drops a brand-wide discount rate if present.
func (r *RuleRepo) RemoveBrandDiscount(ctx context.Context, storeID, brandID id.ID) error {
	_, err := r.txm.GetQuerier(ctx).Exec(ctx,
		`DELETE FROM reg_brand_discounts WHERE store_id = $1 AND brand_id = $2`,
		storeID, brandID)
	if err != nil {
		return fmt.Errorf("remove brand discount: %w", err)
	}
	return nil
}

var _ pricing.RuleRepository = (*RuleRepo)(nil)
