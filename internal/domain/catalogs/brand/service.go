package brand

import (
	"context"
	"fmt"
	"time"

	"opticore/internal/core/tx"
	"opticore/internal/domain"
	"opticore/internal/core/numerator"
)

// Service provides business logic for the Brand catalog.
type Service struct {
	*domain.CatalogService[*Brand]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Brand service.
func NewService(repo Repository, txManager tx.Manager, num numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Brand]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  num,
		EntityName: "brand",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, b *Brand) error {
	if b.Code == "" {
		cfg := numerator.DefaultConfig("BR")
		cfg.IncludeYear = false
		cfg.ResetPeriod = "never"
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		b.Code = code
	}
	return nil
}
