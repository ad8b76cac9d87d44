package product

import (
	"context"
	"fmt"

	"opticore/internal/core/apperror"
	"opticore/internal/core/entity"
	"opticore/internal/core/id"
	"opticore/internal/core/types"
)

// Variant is one prescription cell of a product. It is the stock
// subject: the cached Stock field is mutated only through the
// inventory ledger.
type Variant struct {
	entity.BaseCatalog

	// ProductID links the variant to its product line (required)
	ProductID id.ID `db:"product_id" json:"productId"`

	// SKU is the warehouse code, auto-derived from prescription if empty
	SKU string `db:"sku" json:"sku"`

	// Prescription parameters
	Sphere   types.Diopter  `db:"sphere" json:"sphere"`
	Cylinder types.Diopter  `db:"cylinder" json:"cylinder"`
	Addition *types.Diopter `db:"addition" json:"addition,omitempty"`

	// Stock is the cached on-hand quantity. May only go negative via
	// an explicit stocktake adjustment.
	Stock int64 `db:"stock" json:"stock"`

	// Location is the bin/shelf in the warehouse
	Location string `db:"location" json:"location,omitempty"`

	Active bool `db:"active" json:"active"`
}

// NewVariant creates a new Variant for a product.
func NewVariant(productID id.ID, sphere, cylinder types.Diopter) *Variant {
	v := &Variant{
		BaseCatalog: entity.NewBaseCatalog(),
		ProductID:   productID,
		Sphere:      sphere,
		Cylinder:    cylinder,
		Active:      true,
	}
	v.SKU = v.DefaultSKU()
	return v
}

// DefaultSKU derives a warehouse code from the prescription,
// e.g. "S-1.25C-0.50".
func (v *Variant) DefaultSKU() string {
	return fmt.Sprintf("S%sC%s", v.Sphere.String(), v.Cylinder.String())
}

// Validate implements entity.Validatable interface.
func (v *Variant) Validate(ctx context.Context) error {
	if id.IsNil(v.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}

	// Cylinder is conventionally recorded as minus-cylinder.
	if v.Cylinder > 0 {
		return apperror.NewValidation("cylinder must be zero or negative").
			WithDetail("field", "cylinder").
			WithDetail("value", v.Cylinder.String())
	}

	return nil
}
