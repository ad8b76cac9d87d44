package dto

import (
	"opticore/internal/core/id"
	"opticore/internal/core/types"
	"opticore/internal/domain/pricing"
)

// --- Rule requests ---

// SetSpecialPriceRequest pins a fixed price for a store/product pair.
type SetSpecialPriceRequest struct {
	ProductID id.ID       `json:"productId" binding:"required"`
	Price     types.Money `json:"price" binding:"required,min=1"`
}

// SetProductDiscountRequest sets a per-product discount rate.
type SetProductDiscountRequest struct {
	ProductID id.ID      `json:"productId" binding:"required"`
	Rate      types.Rate `json:"rate" binding:"required"`
}

// SetBrandDiscountRequest sets a brand-wide discount rate.
type SetBrandDiscountRequest struct {
	BrandID id.ID      `json:"brandId" binding:"required"`
	Rate    types.Rate `json:"rate" binding:"required"`
}

// PriceListRequest asks for effective prices of many products at once.
type PriceListRequest struct {
	ProductIDs []id.ID `json:"productIds" binding:"required,min=1"`
}

// --- Responses ---

// PriceResponse is one resolved price.
type PriceResponse struct {
	ProductID   string      `json:"productId"`
	UnitPrice   types.Money `json:"unitPrice"`
	AppliedRule string      `json:"appliedRule"`
}

// FromPriceResult creates response DTO from a resolver result.
func FromPriceResult(productID id.ID, r pricing.Result) *PriceResponse {
	return &PriceResponse{
		ProductID:   productID.String(),
		UnitPrice:   r.UnitPrice,
		AppliedRule: string(r.AppliedRule),
	}
}
