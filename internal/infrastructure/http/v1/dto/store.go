package dto

import (
	"opticore/internal/core/entity"
	"opticore/internal/core/id"
	"opticore/internal/core/types"
	"opticore/internal/domain/catalogs/store"
)

// --- Request DTOs ---

// CreateStoreRequest is the request body for creating a store.
type CreateStoreRequest struct {
	Code            string            `json:"code"`
	Name            string            `json:"name" binding:"required"`
	GroupID         *id.ID            `json:"groupId"`
	CreditLimit     types.Money       `json:"creditLimit"`
	PaymentTermDays int               `json:"paymentTermDays"`
	Address         *string           `json:"address"`
	Phone           *string           `json:"phone"`
	Email           *string           `json:"email"`
	ContactPerson   *string           `json:"contactPerson"`
	Active          *bool             `json:"active"`
	Attributes      entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
// OutstandingAmount is deliberately absent: a new store starts at zero
// and the balance moves only through the receivables ledger.
func (r *CreateStoreRequest) ToEntity() *store.Store {
	s := store.NewStore(r.Code, r.Name)
	s.GroupID = r.GroupID
	s.CreditLimit = r.CreditLimit
	s.PaymentTermDays = r.PaymentTermDays
	s.Address = r.Address
	s.Phone = r.Phone
	s.Email = r.Email
	s.ContactPerson = r.ContactPerson
	if r.Active != nil {
		s.Active = *r.Active
	}
	s.Attributes = r.Attributes
	return s
}

// UpdateStoreRequest is the request body for updating a store.
type UpdateStoreRequest struct {
	Code            string            `json:"code"`
	Name            string            `json:"name" binding:"required"`
	GroupID         *id.ID            `json:"groupId"`
	CreditLimit     types.Money       `json:"creditLimit"`
	PaymentTermDays int               `json:"paymentTermDays"`
	Address         *string           `json:"address"`
	Phone           *string           `json:"phone"`
	Email           *string           `json:"email"`
	ContactPerson   *string           `json:"contactPerson"`
	Active          bool              `json:"active"`
	Attributes      entity.Attributes `json:"attributes"`
	Version         int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
// OutstandingAmount is left untouched for the same reason as on create.
func (r *UpdateStoreRequest) ApplyTo(s *store.Store) {
	s.Code = r.Code
	s.Name = r.Name
	s.GroupID = r.GroupID
	s.CreditLimit = r.CreditLimit
	s.PaymentTermDays = r.PaymentTermDays
	s.Address = r.Address
	s.Phone = r.Phone
	s.Email = r.Email
	s.ContactPerson = r.ContactPerson
	s.Active = r.Active
	s.Attributes = r.Attributes
	s.Version = r.Version
}

// --- Response DTOs ---

// StoreResponse is the response body for a store.
type StoreResponse struct {
	ID                string            `json:"id"`
	Code              string            `json:"code"`
	Name              string            `json:"name"`
	GroupID           *string           `json:"groupId,omitempty"`
	OutstandingAmount types.Money       `json:"outstandingAmount"`
	CreditLimit       types.Money       `json:"creditLimit"`
	PaymentTermDays   int               `json:"paymentTermDays"`
	Address           *string           `json:"address,omitempty"`
	Phone             *string           `json:"phone,omitempty"`
	Email             *string           `json:"email,omitempty"`
	ContactPerson     *string           `json:"contactPerson,omitempty"`
	Active            bool              `json:"active"`
	DeletionMark      bool              `json:"deletionMark"`
	Version           int               `json:"version"`
	Attributes        entity.Attributes `json:"attributes,omitempty"`
}

// FromStore creates response DTO from domain entity.
func FromStore(s *store.Store) *StoreResponse {
	var groupID *string
	if s.GroupID != nil {
		v := s.GroupID.String()
		groupID = &v
	}

	return &StoreResponse{
		ID:                s.ID.String(),
		Code:              s.Code,
		Name:              s.Name,
		GroupID:           groupID,
		OutstandingAmount: s.OutstandingAmount,
		CreditLimit:       s.CreditLimit,
		PaymentTermDays:   s.PaymentTermDays,
		Address:           s.Address,
		Phone:             s.Phone,
		Email:             s.Email,
		ContactPerson:     s.ContactPerson,
		Active:            s.Active,
		DeletionMark:      s.DeletionMark,
		Version:           s.Version,
		Attributes:        s.Attributes,
	}
}
