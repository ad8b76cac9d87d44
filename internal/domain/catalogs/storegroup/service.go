package storegroup

import (
	"context"
	"fmt"
	"time"

	"opticore/internal/core/tx"
	"opticore/internal/domain"
	"opticore/internal/core/numerator"
)

// Service provides business logic for the StoreGroup catalog.
type Service struct {
	*domain.CatalogService[*StoreGroup]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new StoreGroup service.
func NewService(repo Repository, txManager tx.Manager, num numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*StoreGroup]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  num,
		EntityName: "store_group",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, g *StoreGroup) error {
	if g.Code == "" {
		cfg := numerator.DefaultConfig("GRP")
		cfg.IncludeYear = false
		cfg.ResetPeriod = "never"
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		g.Code = code
	}
	return nil
}
