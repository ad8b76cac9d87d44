package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/core/tx"
	"opticore/internal/core/types"
	"opticore/internal/domain/catalogs/product"
)

// RuleRepository persists per-store discount rules.
type RuleRepository interface {
	SetSpecialPrice(ctx context.Context, storeID, productID id.ID, price types.Money) error
	RemoveSpecialPrice(ctx context.Context, storeID, productID id.ID) error

	SetProductDiscount(ctx context.Context, storeID, productID id.ID, rate types.Rate) error
	RemoveProductDiscount(ctx context.Context, storeID, productID id.ID) error

	SetBrandDiscount(ctx context.Context, storeID, brandID id.ID, rate types.Rate) error
	RemoveBrandDiscount(ctx context.Context, storeID, brandID id.ID) error
}

// Service loads settings snapshots and applies the resolver.
type Service struct {
	provider  SettingsProvider
	rules     RuleRepository
	products  product.Repository
	txManager tx.Manager
}

// NewService creates a pricing service.
func NewService(provider SettingsProvider, rules RuleRepository, products product.Repository, txManager tx.Manager) *Service {
	return &Service{
		provider:  provider,
		rules:     rules,
		products:  products,
		txManager: txManager,
	}
}

// SettingsFor exposes the snapshot for callers that price many times
// (order creation prices every line against one snapshot).
func (s *Service) SettingsFor(ctx context.Context, storeID id.ID) (*Settings, error) {
	return s.provider.SettingsFor(ctx, storeID)
}

// PriceForStore resolves one product's effective price for a store.
func (s *Service) PriceForStore(ctx context.Context, storeID, productID id.ID) (Result, error) {
	settings, err := s.provider.SettingsFor(ctx, storeID)
	if err != nil {
		return Result{}, err
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return Result{}, apperror.NewNotFound("product", productID.String())
	}

	return Resolve(settings, Input{
		ProductID: p.ID,
		BrandID:   p.BrandID,
		ListPrice: p.ListPrice,
	})
}

// PriceListForStore resolves prices for many products with one
// settings load.
func (s *Service) PriceListForStore(ctx context.Context, storeID id.ID, productIDs []id.ID) (map[id.ID]Result, error) {
	settings, err := s.provider.SettingsFor(ctx, storeID)
	if err != nil {
		return nil, err
	}

	prods, err := s.products.GetMany(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	if len(prods) != len(productIDs) {
		loaded := make(map[id.ID]bool, len(prods))
		for _, p := range prods {
			loaded[p.ID] = true
		}
		for _, pid := range productIDs {
			if !loaded[pid] {
				return nil, apperror.NewNotFound("product", pid.String())
			}
		}
	}

	inputs := make([]Input, 0, len(prods))
	for _, p := range prods {
		inputs = append(inputs, Input{ProductID: p.ID, BrandID: p.BrandID, ListPrice: p.ListPrice})
	}

	return ResolveMany(settings, inputs)
}

// --- Rule management ---

func validateRate(rate types.Rate) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return apperror.NewValidation("discount rate must be between 0 and 1").
			WithDetail("value", rate.String())
	}
	return nil
}

// SetSpecialPrice pins a fixed unit price for a store/product pair.
func (s *Service) SetSpecialPrice(ctx context.Context, storeID, productID id.ID, price types.Money) error {
	if price <= 0 {
		return apperror.NewInvalidAmount(price)
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.rules.SetSpecialPrice(ctx, storeID, productID, price)
	})
}

// RemoveSpecialPrice drops a special price; the next layer takes over.
func (s *Service) RemoveSpecialPrice(ctx context.Context, storeID, productID id.ID) error {
	return s.rules.RemoveSpecialPrice(ctx, storeID, productID)
}

// SetProductDiscount sets a per-product discount rate for a store.
func (s *Service) SetProductDiscount(ctx context.Context, storeID, productID id.ID, rate types.Rate) error {
	if err := validateRate(rate); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.rules.SetProductDiscount(ctx, storeID, productID, rate)
	})
}

// RemoveProductDiscount drops a per-product discount rate.
func (s *Service) RemoveProductDiscount(ctx context.Context, storeID, productID id.ID) error {
	return s.rules.RemoveProductDiscount(ctx, storeID, productID)
}

// SetBrandDiscount sets a brand-wide discount rate for a store.
func (s *Service) SetBrandDiscount(ctx context.Context, storeID, brandID id.ID, rate types.Rate) error {
	if err := validateRate(rate); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.rules.SetBrandDiscount(ctx, storeID, brandID, rate)
	})
}

// RemoveBrandDiscount drops a brand-wide discount rate.
func (s *Service) RemoveBrandDiscount(ctx context.Context, storeID, brandID id.ID) error {
	return s.rules.RemoveBrandDiscount(ctx, storeID, brandID)
}
