package dto

import (
	"opticore/internal/core/entity"
	"opticore/internal/domain/catalogs/brand"
)

// --- Request DTOs ---

// CreateBrandRequest is the request body for creating a brand.
type CreateBrandRequest struct {
	Code         string            `json:"code"`
	Name         string            `json:"name" binding:"required"`
	Manufacturer *string           `json:"manufacturer"`
	CountryCode  *string           `json:"countryCode"`
	Active       *bool             `json:"active"`
	Attributes   entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateBrandRequest) ToEntity() *brand.Brand {
	b := brand.NewBrand(r.Code, r.Name)
	b.Manufacturer = r.Manufacturer
	b.CountryCode = r.CountryCode
	if r.Active != nil {
		b.Active = *r.Active
	}
	b.Attributes = r.Attributes
	return b
}

// UpdateBrandRequest is the request body for updating a brand.
type UpdateBrandRequest struct {
	Code         string            `json:"code"`
	Name         string            `json:"name" binding:"required"`
	Manufacturer *string           `json:"manufacturer"`
	CountryCode  *string           `json:"countryCode"`
	Active       bool              `json:"active"`
	Attributes   entity.Attributes `json:"attributes"`
	Version      int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateBrandRequest) ApplyTo(b *brand.Brand) {
	b.Code = r.Code
	b.Name = r.Name
	b.Manufacturer = r.Manufacturer
	b.CountryCode = r.CountryCode
	b.Active = r.Active
	b.Attributes = r.Attributes
	b.Version = r.Version
}

// --- Response DTOs ---

// BrandResponse is the response body for a brand.
type BrandResponse struct {
	ID           string            `json:"id"`
	Code         string            `json:"code"`
	Name         string            `json:"name"`
	Manufacturer *string           `json:"manufacturer,omitempty"`
	CountryCode  *string           `json:"countryCode,omitempty"`
	Active       bool              `json:"active"`
	DeletionMark bool              `json:"deletionMark"`
	Version      int               `json:"version"`
	Attributes   entity.Attributes `json:"attributes,omitempty"`
}

// FromBrand creates response DTO from domain entity.
func FromBrand(b *brand.Brand) *BrandResponse {
	return &BrandResponse{
		ID:           b.ID.String(),
		Code:         b.Code,
		Name:         b.Name,
		Manufacturer: b.Manufacturer,
		CountryCode:  b.CountryCode,
		Active:       b.Active,
		DeletionMark: b.DeletionMark,
		Version:      b.Version,
		Attributes:   b.Attributes,
	}
}
