package dto

import (
	"opticore/internal/core/entity"
	"opticore/internal/core/types"
	"opticore/internal/domain/catalogs/storegroup"
)

// --- Request DTOs ---

// CreateStoreGroupRequest is the request body for creating a store group.
type CreateStoreGroupRequest struct {
	Code             string            `json:"code"`
	Name             string            `json:"name" binding:"required"`
	BaseDiscountRate types.Rate        `json:"baseDiscountRate"`
	Attributes       entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateStoreGroupRequest) ToEntity() *storegroup.StoreGroup {
	g := storegroup.NewStoreGroup(r.Code, r.Name, r.BaseDiscountRate)
	g.Attributes = r.Attributes
	return g
}

// UpdateStoreGroupRequest is the request body for updating a store group.
type UpdateStoreGroupRequest struct {
	Code             string            `json:"code"`
	Name             string            `json:"name" binding:"required"`
	BaseDiscountRate types.Rate        `json:"baseDiscountRate"`
	Attributes       entity.Attributes `json:"attributes"`
	Version          int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateStoreGroupRequest) ApplyTo(g *storegroup.StoreGroup) {
	g.Code = r.Code
	g.Name = r.Name
	g.BaseDiscountRate = r.BaseDiscountRate
	g.Attributes = r.Attributes
	g.Version = r.Version
}

// --- Response DTOs ---

// StoreGroupResponse is the response body for a store group.
type StoreGroupResponse struct {
	ID               string            `json:"id"`
	Code             string            `json:"code"`
	Name             string            `json:"name"`
	BaseDiscountRate types.Rate        `json:"baseDiscountRate"`
	DeletionMark     bool              `json:"deletionMark"`
	Version          int               `json:"version"`
	Attributes       entity.Attributes `json:"attributes,omitempty"`
}

// FromStoreGroup creates response DTO from domain entity.
func FromStoreGroup(g *storegroup.StoreGroup) *StoreGroupResponse {
	return &StoreGroupResponse{
		ID:               g.ID.String(),
		Code:             g.Code,
		Name:             g.Name,
		BaseDiscountRate: g.BaseDiscountRate,
		DeletionMark:     g.DeletionMark,
		Version:          g.Version,
		Attributes:       g.Attributes,
	}
}
