// Package brand provides the Brand catalog.
// Brands group products for discount rules (a store may carry a
// brand-wide discount rate).
package brand

import (
	"opticore/internal/core/entity"
)

// Brand represents a lens manufacturer brand.
type Brand struct {
	entity.Catalog

	// Manufacturer is the legal producer name (may differ from brand name)
	Manufacturer *string `db:"manufacturer" json:"manufacturer,omitempty"`

	// CountryCode is the ISO 3166-1 alpha-2 origin country
	CountryCode *string `db:"country_code" json:"countryCode,omitempty"`

	// Active brands appear in ordering; inactive are kept for history
	Active bool `db:"active" json:"active"`
}

// NewBrand creates a new Brand with required fields.
func NewBrand(code, name string) *Brand {
	return &Brand{
		Catalog: entity.NewCatalog(code, name),
		Active:  true,
	}
}
