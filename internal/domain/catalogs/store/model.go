// Package store provides the Store catalog.
// Stores are the wholesale customers: optical shops that place orders
// and carry a running receivable balance.
package store

import (
	"context"
	"regexp"

	"opticore/internal/core/apperror"
	"opticore/internal/core/entity"
	"opticore/internal/core/id"
	"opticore/internal/core/types"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Store represents a customer store.
type Store struct {
	entity.Catalog

	// GroupID links the store to its pricing tier (nullable)
	GroupID *id.ID `db:"group_id" json:"groupId,omitempty"`

	// OutstandingAmount is the cached receivable balance, always >= 0.
	// Mutated only through the receivables ledger, never directly.
	OutstandingAmount types.Money `db:"outstanding_amount" json:"outstandingAmount"`

	// CreditLimit is the maximum allowed receivable (0 = unlimited)
	CreditLimit types.Money `db:"credit_limit" json:"creditLimit"`

	// PaymentTermDays is the agreed settlement period
	PaymentTermDays int `db:"payment_term_days" json:"paymentTermDays"`

	// Contact details
	Address       *string `db:"address" json:"address,omitempty"`
	Phone         *string `db:"phone" json:"phone,omitempty"`
	Email         *string `db:"email" json:"email,omitempty"`
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`

	// Active stores may place orders
	Active bool `db:"active" json:"active"`
}

// NewStore creates a new Store with required fields.
func NewStore(code, name string) *Store {
	return &Store{
		Catalog: entity.NewCatalog(code, name),
		Active:  true,
	}
}

// Validate implements entity.Validatable interface.
func (s *Store) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}

	if s.CreditLimit < 0 {
		return apperror.NewValidation("credit limit cannot be negative").
			WithDetail("field", "creditLimit")
	}

	if s.PaymentTermDays < 0 {
		return apperror.NewValidation("payment term cannot be negative").
			WithDetail("field", "paymentTermDays")
	}

	if s.Email != nil && *s.Email != "" && !emailRE.MatchString(*s.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	return nil
}

// OverCreditLimit reports whether the balance would exceed the credit
// limit after adding delta. A zero limit means no limit.
func (s *Store) OverCreditLimit(delta types.Money) bool {
	if s.CreditLimit == 0 {
		return false
	}
	return s.OutstandingAmount+delta > s.CreditLimit
}
