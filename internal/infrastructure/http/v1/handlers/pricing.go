package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/domain/pricing"
	"opticore/internal/infrastructure/http/v1/dto"
)

// PricingHandler exposes price resolution and per-store rule management.
type PricingHandler struct {
	*BaseHandler
	service *pricing.Service
}

// NewPricingHandler creates a new pricing handler.
func NewPricingHandler(base *BaseHandler, service *pricing.Service) *PricingHandler {
	return &PricingHandler{
		BaseHandler: base,
		service:     service,
	}
}

// PriceForStore handles GET /stores/:id/prices/:productId
func (h *PricingHandler) PriceForStore(c *gin.Context) {
	ctx := c.Request.Context()

	storeID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	result, err := h.service.PriceForStore(ctx, storeID, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromPriceResult(productID, result))
}

// PriceList handles POST /stores/:id/price-list - many products, one
// settings snapshot.
func (h *PricingHandler) PriceList(c *gin.Context) {
	ctx := c.Request.Context()

	storeID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.PriceListRequest
	if !h.BindJSON(c, &req) {
		return
	}

	results, err := h.service.PriceListForStore(ctx, storeID, req.ProductIDs)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.PriceResponse, 0, len(results))
	for productID, result := range results {
		items = append(items, dto.FromPriceResult(productID, result))
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// SetSpecialPrice handles PUT /stores/:id/rules/special-price
func (h *PricingHandler) SetSpecialPrice(c *gin.Context) {
	ctx := c.Request.Context()

	storeID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.SetSpecialPriceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetSpecialPrice(ctx, storeID, req.ProductID, req.Price); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "special price set")
}

// RemoveSpecialPrice handles DELETE /stores/:id/rules/special-price/:productId
func (h *PricingHandler) RemoveSpecialPrice(c *gin.Context) {
	ctx := c.Request.Context()

	storeID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	if err := h.service.RemoveSpecialPrice(ctx, storeID, productID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetProductDiscount handles PUT /stores/:id/rules/product-discount
func (h *PricingHandler) SetProductDiscount(c *gin.Context) {
	ctx := c.Request.Context()

	storeID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.SetProductDiscountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetProductDiscount(ctx, storeID, req.ProductID, req.Rate); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "product discount set")
}

// RemoveProductDiscount handles DELETE /stores/:id/rules/product-discount/:productId
func (h *PricingHandler) RemoveProductDiscount(c *gin.Context) {
	ctx := c.Request.Context()

	storeID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	if err := h.service.RemoveProductDiscount(ctx, storeID, productID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetBrandDiscount handles PUT /stores/:id/rules/brand-discount
func (h *PricingHandler) SetBrandDiscount(c *gin.Context) {
	ctx := c.Request.Context()

	storeID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.SetBrandDiscountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetBrandDiscount(ctx, storeID, req.BrandID, req.Rate); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "brand discount set")
}

// RemoveBrandDiscount handles DELETE /stores/:id/rules/brand-discount/:brandId
func (h *PricingHandler) RemoveBrandDiscount(c *gin.Context) {
	ctx := c.Request.Context()

	storeID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	brandID, err := id.Parse(c.Param("brandId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid brandId format"))
		return
	}

	if err := h.service.RemoveBrandDiscount(ctx, storeID, brandID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
