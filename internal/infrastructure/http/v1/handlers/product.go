package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/domain/catalogs/product"
	"opticore/internal/infrastructure/http/v1/dto"
)

// ProductHandler extends the generic catalog handler with the variant
// sub-resource (prescription grid).
type ProductHandler struct {
	*CatalogHandler[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]
	service *product.Service
}

// NewProductHandler creates a configured handler for products.
func NewProductHandler(
	base *BaseHandler,
	service *product.Service,
) *ProductHandler {

	config := CatalogHandlerConfig[
		*product.Product,
		dto.CreateProductRequest,
		dto.UpdateProductRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "product",

		MapCreateDTO: func(req dto.CreateProductRequest) *product.Product {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) *product.Product {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *product.Product) any {
			return dto.FromProduct(entity)
		},
	}

	return &ProductHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// CreateVariant handles POST /products/:id/variants
func (h *ProductHandler) CreateVariant(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.CreateVariantRequest
	if !h.BindJSON(c, &req) {
		return
	}

	variant := req.ToEntity(productID)
	if err := h.service.CreateVariant(ctx, variant); err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromVariant(variant)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// ListVariants handles GET /products/:id/variants
func (h *ProductHandler) ListVariants(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	includeInactive := c.Query("includeInactive") == "true"

	variants, err := h.service.ListVariants(ctx, productID, includeInactive)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": dto.FromVariants(variants)})
}

// GetVariant handles GET /variants/:id
func (h *ProductHandler) GetVariant(c *gin.Context) {
	ctx := c.Request.Context()

	variantID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	variant, err := h.service.GetVariant(ctx, variantID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromVariant(variant))
}

// UpdateVariant handles PUT /variants/:id
func (h *ProductHandler) UpdateVariant(c *gin.Context) {
	ctx := c.Request.Context()

	variantID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateVariantRequest
	if !h.BindJSON(c, &req) {
		return
	}

	variant, err := h.service.GetVariant(ctx, variantID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(variant)
	if err := h.service.UpdateVariant(ctx, variant); err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromVariant(variant)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// DeactivateVariant handles POST /variants/:id/deactivate
func (h *ProductHandler) DeactivateVariant(c *gin.Context) {
	ctx := c.Request.Context()

	variantID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.DeactivateVariant(ctx, variantID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "variant deactivated")
}
