package product

import (
	"context"
	"fmt"
	"time"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/core/tx"
	"opticore/internal/domain"
	"opticore/internal/core/numerator"
)

// Service provides business logic for the Product catalog and variants.
type Service struct {
	*domain.CatalogService[*Product]
	repo      Repository
	variants  VariantRepository
	txManager tx.Manager
	numerator numerator.Generator
}

// NewService creates a new Product service.
func NewService(repo Repository, variants VariantRepository, txManager tx.Manager, num numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  num,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		variants:       variants,
		txManager:      txManager,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, p *Product) error {
	if p.Code == "" {
		cfg := numerator.DefaultConfig("PRD")
		cfg.IncludeYear = false
		cfg.ResetPeriod = "never"
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		p.Code = code
	}
	return nil
}

// ListByBrand returns active products of a brand.
func (s *Service) ListByBrand(ctx context.Context, brandID id.ID) ([]*Product, error) {
	return s.repo.ListByBrand(ctx, brandID)
}

// --- Variants ---

// CreateVariant validates and persists a new variant.
// Duplicate prescriptions (same SKU within a product) are rejected.
func (s *Service) CreateVariant(ctx context.Context, v *Variant) error {
	if err := v.Validate(ctx); err != nil {
		return err
	}
	if v.SKU == "" {
		v.SKU = v.DefaultSKU()
	}

	if _, err := s.repo.GetByID(ctx, v.ProductID); err != nil {
		return apperror.NewNotFound("product", v.ProductID.String())
	}

	existing, err := s.variants.GetBySKU(ctx, v.ProductID, v.SKU)
	if err != nil && !apperror.IsNotFound(err) {
		return err
	}
	if existing != nil {
		return apperror.NewDuplicate("variant", "sku", v.SKU)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.variants.Create(ctx, v)
	})
}

// GetVariant retrieves a variant by ID.
func (s *Service) GetVariant(ctx context.Context, variantID id.ID) (*Variant, error) {
	return s.variants.GetByID(ctx, variantID)
}

// ListVariants returns the prescription grid for a product.
func (s *Service) ListVariants(ctx context.Context, productID id.ID, includeInactive bool) ([]*Variant, error) {
	return s.variants.ListByProduct(ctx, productID, includeInactive)
}

// UpdateVariant updates variant attributes (location, active flag).
// Stock is deliberately not updatable here; it belongs to the
// inventory ledger.
func (s *Service) UpdateVariant(ctx context.Context, v *Variant) error {
	if err := v.Validate(ctx); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.variants.Update(ctx, v)
	})
}

// DeactivateVariant hides a variant from ordering without losing history.
func (s *Service) DeactivateVariant(ctx context.Context, variantID id.ID) error {
	return s.variants.SetActive(ctx, variantID, false)
}
