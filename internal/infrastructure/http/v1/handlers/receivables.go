package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/domain/ledger"
	"opticore/internal/domain/receivables"
	"opticore/internal/infrastructure/http/v1/dto"
)

// ReceivablesHandler exposes the store balance ledger.
// Sales enter the ledger through order creation only; this handler
// covers the payment side and the history.
type ReceivablesHandler struct {
	*BaseHandler
	service *receivables.Service
}

// NewReceivablesHandler creates a new receivables handler.
func NewReceivablesHandler(base *BaseHandler, service *receivables.Service) *ReceivablesHandler {
	return &ReceivablesHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Balance handles GET /stores/:id/balance
func (h *ReceivablesHandler) Balance(c *gin.Context) {
	ctx := c.Request.Context()

	storeID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	balance, err := h.service.CurrentBalance(ctx, storeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		SubjectID: storeID.String(),
		Balance:   balance,
	})
}

// History handles GET /stores/:id/transactions
func (h *ReceivablesHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	storeID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	filter := receivables.HistoryFilter{
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

	entries, err := h.service.History(ctx, storeID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": dto.FromLedgerEntries(entries)})
}

// Deposit handles POST /stores/:id/deposits
func (h *ReceivablesHandler) Deposit(c *gin.Context) {
	ctx := c.Request.Context()

	storeID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.DepositRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.service.RecordDeposit(ctx, storeID, req.Amount, req.Method, req.Memo)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromLedgerEntry(entry)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// Discount handles POST /stores/:id/discounts - balance write-off.
func (h *ReceivablesHandler) Discount(c *gin.Context) {
	ctx := c.Request.Context()

	storeID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.DiscountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.service.RecordDiscount(ctx, storeID, req.Amount, req.Memo)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromLedgerEntry(entry)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// Return handles POST /stores/:id/returns
func (h *ReceivablesHandler) Return(c *gin.Context) {
	ctx := c.Request.Context()

	storeID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.ReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var orderID *id.ID
	if req.OrderID != nil && *req.OrderID != "" {
		parsed, err := id.Parse(*req.OrderID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid orderId format"))
			return
		}
		orderID = &parsed
	}

	entry, err := h.service.RecordReturn(ctx, storeID, req.Amount, orderID, req.Memo)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromLedgerEntry(entry)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// Verify handles POST /stores/:id/verify - checks the ledger-sum invariant.
func (h *ReceivablesHandler) Verify(c *gin.Context) {
	ctx := c.Request.Context()

	storeID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Verify(ctx, storeID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "balance matches transaction history")
}
