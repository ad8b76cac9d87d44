package dto

import (
	"opticore/internal/core/entity"
	"opticore/internal/core/id"
	"opticore/internal/core/types"
	"opticore/internal/domain/catalogs/product"
)

// --- Product requests ---

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Code            string            `json:"code"`
	Name            string            `json:"name" binding:"required"`
	BrandID         id.ID             `json:"brandId" binding:"required"`
	LensType        string            `json:"lensType"`
	Material        *string           `json:"material"`
	RefractiveIndex *string           `json:"refractiveIndex"`
	ListPrice       types.Money       `json:"listPrice" binding:"required"`
	Active          *bool             `json:"active"`
	Attributes      entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Code, r.Name, r.BrandID, r.ListPrice)
	if r.LensType != "" {
		p.LensType = product.LensType(r.LensType)
	}
	p.Material = r.Material
	p.RefractiveIndex = r.RefractiveIndex
	if r.Active != nil {
		p.Active = *r.Active
	}
	p.Attributes = r.Attributes
	return p
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	Code            string            `json:"code"`
	Name            string            `json:"name" binding:"required"`
	BrandID         id.ID             `json:"brandId" binding:"required"`
	LensType        string            `json:"lensType" binding:"required"`
	Material        *string           `json:"material"`
	RefractiveIndex *string           `json:"refractiveIndex"`
	ListPrice       types.Money       `json:"listPrice"`
	Active          bool              `json:"active"`
	Attributes      entity.Attributes `json:"attributes"`
	Version         int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	p.Code = r.Code
	p.Name = r.Name
	p.BrandID = r.BrandID
	p.LensType = product.LensType(r.LensType)
	p.Material = r.Material
	p.RefractiveIndex = r.RefractiveIndex
	p.ListPrice = r.ListPrice
	p.Active = r.Active
	p.Attributes = r.Attributes
	p.Version = r.Version
}

// --- Product responses ---

// ProductResponse is the response body for a product.
type ProductResponse struct {
	ID              string            `json:"id"`
	Code            string            `json:"code"`
	Name            string            `json:"name"`
	BrandID         string            `json:"brandId"`
	LensType        string            `json:"lensType"`
	Material        *string           `json:"material,omitempty"`
	RefractiveIndex *string           `json:"refractiveIndex,omitempty"`
	ListPrice       types.Money       `json:"listPrice"`
	Active          bool              `json:"active"`
	DeletionMark    bool              `json:"deletionMark"`
	Version         int               `json:"version"`
	Attributes      entity.Attributes `json:"attributes,omitempty"`
}

// FromProduct creates response DTO from domain entity.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:              p.ID.String(),
		Code:            p.Code,
		Name:            p.Name,
		BrandID:         p.BrandID.String(),
		LensType:        string(p.LensType),
		Material:        p.Material,
		RefractiveIndex: p.RefractiveIndex,
		ListPrice:       p.ListPrice,
		Active:          p.Active,
		DeletionMark:    p.DeletionMark,
		Version:         p.Version,
		Attributes:      p.Attributes,
	}
}

// --- Variant requests ---

// CreateVariantRequest is the request body for adding a prescription cell.
type CreateVariantRequest struct {
	SKU      string          `json:"sku"`
	Sphere   types.Diopter   `json:"sphere"`
	Cylinder types.Diopter   `json:"cylinder"`
	Addition *types.Diopter  `json:"addition"`
	Location string          `json:"location"`
}

// ToEntity converts DTO to a variant of the given product.
// Stock is deliberately absent: goods arrive through the inventory ledger.
func (r *CreateVariantRequest) ToEntity(productID id.ID) *product.Variant {
	v := product.NewVariant(productID, r.Sphere, r.Cylinder)
	if r.SKU != "" {
		v.SKU = r.SKU
	}
	v.Addition = r.Addition
	v.Location = r.Location
	return v
}

// UpdateVariantRequest is the request body for updating a variant.
// Prescription and stock are immutable; only warehouse attributes change.
type UpdateVariantRequest struct {
	Location string `json:"location"`
	Active   bool   `json:"active"`
	Version  int    `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing variant.
func (r *UpdateVariantRequest) ApplyTo(v *product.Variant) {
	v.Location = r.Location
	v.Active = r.Active
	v.Version = r.Version
}

// --- Variant responses ---

// VariantResponse is the response body for a variant.
type VariantResponse struct {
	ID           string         `json:"id"`
	ProductID    string         `json:"productId"`
	SKU          string         `json:"sku"`
	Sphere       types.Diopter  `json:"sphere"`
	Cylinder     types.Diopter  `json:"cylinder"`
	Addition     *types.Diopter `json:"addition,omitempty"`
	Stock        int64          `json:"stock"`
	Location     string         `json:"location,omitempty"`
	Active       bool           `json:"active"`
	DeletionMark bool           `json:"deletionMark"`
	Version      int            `json:"version"`
}

// FromVariant creates response DTO from domain entity.
func FromVariant(v *product.Variant) *VariantResponse {
	return &VariantResponse{
		ID:           v.ID.String(),
		ProductID:    v.ProductID.String(),
		SKU:          v.SKU,
		Sphere:       v.Sphere,
		Cylinder:     v.Cylinder,
		Addition:     v.Addition,
		Stock:        v.Stock,
		Location:     v.Location,
		Active:       v.Active,
		DeletionMark: v.DeletionMark,
		Version:      v.Version,
	}
}

// FromVariants maps a variant slice.
func FromVariants(vs []*product.Variant) []*VariantResponse {
	out := make([]*VariantResponse, len(vs))
	for i, v := range vs {
		out[i] = FromVariant(v)
	}
	return out
}
