package store

import (
	"context"
	"fmt"
	"time"

	"opticore/internal/core/id"
	"opticore/internal/core/tx"
	"opticore/internal/domain"
	"opticore/internal/core/numerator"
)

// Service provides business logic for the Store catalog.
type Service struct {
	*domain.CatalogService[*Store]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Store service.
func NewService(repo Repository, txManager tx.Manager, num numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Store]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  num,
		EntityName: "store",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, st *Store) error {
	if st.Code == "" {
		cfg := numerator.DefaultConfig("ST")
		cfg.IncludeYear = false
		cfg.ResetPeriod = "never"
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		st.Code = code
	}
	return nil
}

// ListByGroup returns stores in a pricing group.
func (s *Service) ListByGroup(ctx context.Context, groupID id.ID) ([]*Store, error) {
	return s.repo.ListByGroup(ctx, groupID)
}

// ListOverCreditLimit returns stores in credit-limit breach, for alerting.
func (s *Service) ListOverCreditLimit(ctx context.Context) ([]*Store, error) {
	return s.repo.ListOverCreditLimit(ctx)
}
