package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/domain/orders"
	"opticore/internal/infrastructure/http/v1/dto"
)

// OrderHandler handles the order document and its lifecycle.
type OrderHandler struct {
	*BaseHandler
	service *orders.Service
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(base *BaseHandler, service *orders.Service) *OrderHandler {
	return &OrderHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := orders.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if storeStr := c.Query("storeId"); storeStr != "" {
		storeID, err := id.Parse(storeStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid storeId format"))
			return
		}
		filter.StoreID = &storeID
	}

	if statusStr := c.Query("status"); statusStr != "" {
		filter.Statuses = []orders.Status{orders.Status(statusStr)}
	}

	if fromStr := c.Query("fromDate"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid fromDate format (RFC3339 expected)"))
			return
		}
		filter.FromDate = &from
	}

	if toStr := c.Query("toDate"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid toDate format (RFC3339 expected)"))
			return
		}
		filter.ToDate = &to
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, o := range result.Items {
		items[i] = dto.FromOrder(o)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	order, err := h.service.GetByID(ctx, orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromOrder(order))
}

// Create handles POST /orders - price the cart and place the order.
func (h *OrderHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.service.Create(ctx, req.StoreID, req.ToCart())
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromOrder(order)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// Confirm handles POST /orders/:id/confirm
func (h *OrderHandler) Confirm(c *gin.Context) {
	h.transition(c, h.service.Confirm)
}

// Ship handles POST /orders/:id/ship
func (h *OrderHandler) Ship(c *gin.Context) {
	h.transition(c, h.service.Ship)
}

// Deliver handles POST /orders/:id/deliver
func (h *OrderHandler) Deliver(c *gin.Context) {
	h.transition(c, h.service.Deliver)
}

// Cancel handles POST /orders/:id/cancel - requires a reason.
func (h *OrderHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.CancelOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.service.Cancel(ctx, orderID, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromOrder(order)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// RemoveLine handles DELETE /orders/:id/lines/:lineId
func (h *OrderHandler) RemoveLine(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	lineID, err := id.Parse(c.Param("lineId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid lineId format"))
		return
	}

	order, err := h.service.RemoveLine(ctx, orderID, lineID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromOrder(order))
}

// UpdateLineQuantity handles PUT /orders/:id/lines/:lineId
func (h *OrderHandler) UpdateLineQuantity(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	lineID, err := id.Parse(c.Param("lineId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid lineId format"))
		return
	}

	var req dto.UpdateLineQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.service.UpdateLineQuantity(ctx, orderID, lineID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromOrder(order)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// transition runs one lifecycle move and returns the updated order.
func (h *OrderHandler) transition(c *gin.Context, fn func(ctx context.Context, orderID id.ID) (*orders.Order, error)) {
	ctx := c.Request.Context()

	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	order, err := fn(ctx, orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromOrder(order)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}
