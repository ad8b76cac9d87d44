package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/domain/inventory"
	"opticore/internal/domain/ledger"
	"opticore/internal/infrastructure/http/v1/dto"
)

// StockHandler exposes the variant stock ledger.
// Outbound movements happen only through order shipment; this handler
// covers goods receipt, stocktake adjustments and the history.
type StockHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *inventory.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Current handles GET /variants/:id/stock
func (h *StockHandler) Current(c *gin.Context) {
	ctx := c.Request.Context()

	variantID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	stock, err := h.service.CurrentStock(ctx, variantID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StockResponse{
		VariantID: variantID.String(),
		Stock:     stock,
	})
}

// History handles GET /variants/:id/movements
func (h *StockHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	variantID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	filter := inventory.HistoryFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if kind := c.Query("kind"); kind != "" {
		filter.Kinds = []ledger.Kind{ledger.Kind(kind)}
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

	entries, err := h.service.History(ctx, variantID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": dto.FromLedgerEntries(entries)})
}

// Receive handles POST /variants/:id/receive - incoming goods.
func (h *StockHandler) Receive(c *gin.Context) {
	ctx := c.Request.Context()

	variantID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.StockReceiveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.service.RecordMovement(ctx, variantID, req.Quantity, inventory.KindIn, req.Reason, nil, "")
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromLedgerEntry(entry)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// Adjust handles POST /variants/:id/adjust - stocktake reconciliation.
// A zero delta is reported as unchanged, no history entry is written.
func (h *StockHandler) Adjust(c *gin.Context) {
	ctx := c.Request.Context()

	variantID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.StockAdjustRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, adjusted, err := h.service.RecordAdjust(ctx, variantID, req.ActualStock, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}

	if !adjusted {
		h.Success(c, "stock already matches, nothing to adjust")
		return
	}

	response := dto.FromLedgerEntry(entry)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// BulkAdjust handles POST /stock/bulk-adjust - a whole stocktake sheet.
func (h *StockHandler) BulkAdjust(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.BulkAdjustRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.BulkAdjust(ctx, req.Items, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CompleteIdempotency(c, http.StatusOK, "application/json", result)
	c.JSON(http.StatusOK, result)
}

// Verify handles POST /variants/:id/verify - checks the ledger-sum invariant.
func (h *StockHandler) Verify(c *gin.Context) {
	ctx := c.Request.Context()

	variantID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Verify(ctx, variantID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "stock matches movement history")
}
