package dto

import (
	"time"

	"opticore/internal/core/types"
	"opticore/internal/domain/inventory"
	"opticore/internal/domain/ledger"
)

// --- Entry responses (shared by receivables and inventory) ---

// LedgerEntryResponse is one immutable history row.
type LedgerEntryResponse struct {
	ID              string    `json:"id"`
	SubjectID       string    `json:"subjectId"`
	Kind            string    `json:"kind"`
	Amount          int64     `json:"amount"`
	RequestedAmount int64     `json:"requestedAmount"`
	BalanceBefore   int64     `json:"balanceBefore"`
	BalanceAfter    int64     `json:"balanceAfter"`
	RefID           *string   `json:"refId,omitempty"`
	RefType         string    `json:"refType,omitempty"`
	Memo            string    `json:"memo,omitempty"`
	Actor           string    `json:"actor"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FromLedgerEntry creates response DTO from a ledger entry.
func FromLedgerEntry(e ledger.Entry) *LedgerEntryResponse {
	var refID *string
	if e.RefID != nil {
		v := e.RefID.String()
		refID = &v
	}

	return &LedgerEntryResponse{
		ID:              e.ID.String(),
		SubjectID:       e.SubjectID.String(),
		Kind:            string(e.Kind),
		Amount:          e.Amount,
		RequestedAmount: e.RequestedAmount,
		BalanceBefore:   e.BalanceBefore,
		BalanceAfter:    e.BalanceAfter,
		RefID:           refID,
		RefType:         e.RefType,
		Memo:            e.Memo,
		Actor:           e.Actor,
		CreatedAt:       e.CreatedAt,
	}
}

// FromLedgerEntries maps an entry slice.
func FromLedgerEntries(entries []ledger.Entry) []*LedgerEntryResponse {
	out := make([]*LedgerEntryResponse, len(entries))
	for i := range entries {
		out[i] = FromLedgerEntry(entries[i])
	}
	return out
}

// --- Receivables requests ---

// DepositRequest records a store payment.
type DepositRequest struct {
	Amount types.Money `json:"amount" binding:"required,min=1"`
	Method string      `json:"method"`
	Memo   string      `json:"memo"`
}

// DiscountRequest writes off part of a store's balance.
type DiscountRequest struct {
	Amount types.Money `json:"amount" binding:"required,min=1"`
	Memo   string      `json:"memo" binding:"required"`
}

// ReturnRequest decreases a store's balance for returned goods.
type ReturnRequest struct {
	Amount  types.Money `json:"amount" binding:"required,min=1"`
	OrderID *string     `json:"orderId"`
	Memo    string      `json:"memo"`
}

// BalanceResponse reports the current cached balance.
type BalanceResponse struct {
	SubjectID string `json:"subjectId"`
	Balance   int64  `json:"balance"`
}

// --- Inventory requests ---

// StockReceiveRequest records incoming goods for a variant.
type StockReceiveRequest struct {
	Quantity int64  `json:"quantity" binding:"required,min=1"`
	Reason   string `json:"reason"`
}

// StockAdjustRequest reconciles one variant to a counted value.
type StockAdjustRequest struct {
	ActualStock int64  `json:"actualStock"`
	Reason      string `json:"reason" binding:"required"`
}

// BulkAdjustRequest applies a whole stocktake sheet.
type BulkAdjustRequest struct {
	Items  []inventory.AdjustItem `json:"items" binding:"required,min=1"`
	Reason string                 `json:"reason" binding:"required"`
}

// StockResponse reports the cached stock for a variant.
type StockResponse struct {
	VariantID string `json:"variantId"`
	Stock     int64  `json:"stock"`
}
