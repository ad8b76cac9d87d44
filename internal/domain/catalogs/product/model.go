// Package product provides the Product catalog and its stock-keeping
// variants. A product is a lens line (brand, material, list price); a
// variant is one prescription cell (sphere/cylinder) that actually
// holds stock.
package product

import (
	"context"

	"opticore/internal/core/apperror"
	"opticore/internal/core/entity"
	"opticore/internal/core/id"
	"opticore/internal/core/types"
)

// LensType classifies the optical design of a product line.
type LensType string

const (
	LensSingleVision LensType = "single_vision"
	LensBifocal      LensType = "bifocal"
	LensProgressive  LensType = "progressive"
	LensPhotochromic LensType = "photochromic"
)

// Product represents a lens product line.
type Product struct {
	entity.Catalog

	// BrandID links the product to its brand (required, drives brand discounts)
	BrandID id.ID `db:"brand_id" json:"brandId"`

	LensType LensType `db:"lens_type" json:"lensType"`

	// Material, e.g. "CR-39", "polycarbonate"
	Material *string `db:"material" json:"material,omitempty"`

	// RefractiveIndex as catalog text, e.g. "1.56", "1.67"
	RefractiveIndex *string `db:"refractive_index" json:"refractiveIndex,omitempty"`

	// ListPrice is the undiscounted unit price in whole currency units.
	// A product without a positive list price cannot be ordered.
	ListPrice types.Money `db:"list_price" json:"listPrice"`

	Active bool `db:"active" json:"active"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name string, brandID id.ID, listPrice types.Money) *Product {
	return &Product{
		Catalog:   entity.NewCatalog(code, name),
		BrandID:   brandID,
		LensType:  LensSingleVision,
		ListPrice: listPrice,
		Active:    true,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.BrandID) {
		return apperror.NewValidation("brand is required").
			WithDetail("field", "brandId")
	}

	if !isValidLensType(p.LensType) {
		return apperror.NewValidation("invalid lens type").
			WithDetail("field", "lensType").
			WithDetail("value", string(p.LensType))
	}

	if p.ListPrice < 0 {
		return apperror.NewValidation("list price cannot be negative").
			WithDetail("field", "listPrice")
	}

	return nil
}

func isValidLensType(t LensType) bool {
	switch t {
	case LensSingleVision, LensBifocal, LensProgressive, LensPhotochromic:
		return true
	}
	return false
}
