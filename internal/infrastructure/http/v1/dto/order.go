package dto

import (
	"time"

	"opticore/internal/core/id"
	"opticore/internal/core/types"
	"opticore/internal/domain/orders"
)

// --- Request DTOs ---

// CartItemRequest is one requested position of a new order.
type CartItemRequest struct {
	VariantID id.ID `json:"variantId" binding:"required"`
	Quantity  int64 `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest is the request body for placing an order.
// Prices are not accepted from the client: the pricing engine resolves
// them at creation time and they are frozen on the lines.
type CreateOrderRequest struct {
	StoreID id.ID             `json:"storeId" binding:"required"`
	Items   []CartItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ToCart converts request items to the domain cart.
func (r *CreateOrderRequest) ToCart() []orders.CartItem {
	cart := make([]orders.CartItem, len(r.Items))
	for i, item := range r.Items {
		cart[i] = orders.CartItem{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		}
	}
	return cart
}

// CancelOrderRequest carries the mandatory cancellation reason.
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// UpdateLineQuantityRequest changes one line's quantity.
type UpdateLineQuantityRequest struct {
	Quantity int64 `json:"quantity" binding:"required,min=1"`
}

// --- Response DTOs ---

// OrderLineResponse is one priced order position.
type OrderLineResponse struct {
	LineID      string      `json:"lineId"`
	LineNo      int         `json:"lineNo"`
	ProductID   string      `json:"productId"`
	VariantID   string      `json:"variantId"`
	Quantity    int64       `json:"quantity"`
	UnitPrice   types.Money `json:"unitPrice"`
	AppliedRule string      `json:"appliedRule"`
	Amount      types.Money `json:"amount"`
}

// OrderResponse is the response body for an order.
type OrderResponse struct {
	DocumentResponse
	StoreID     string              `json:"storeId"`
	Status      string              `json:"status"`
	TotalAmount types.Money         `json:"totalAmount"`
	ConfirmedAt *time.Time          `json:"confirmedAt,omitempty"`
	ShippedAt   *time.Time          `json:"shippedAt,omitempty"`
	DeliveredAt *time.Time          `json:"deliveredAt,omitempty"`
	CancelledAt *time.Time          `json:"cancelledAt,omitempty"`
	Lines       []OrderLineResponse `json:"lines"`
}

// FromOrder creates response DTO from domain entity.
func FromOrder(o *orders.Order) *OrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = OrderLineResponse{
			LineID:      line.LineID.String(),
			LineNo:      line.LineNo,
			ProductID:   line.ProductID.String(),
			VariantID:   line.VariantID.String(),
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			AppliedRule: string(line.AppliedRule),
			Amount:      line.Amount,
		}
	}

	return &OrderResponse{
		DocumentResponse: FromDocument(o.Document),
		StoreID:          o.StoreID.String(),
		Status:           string(o.Status),
		TotalAmount:      o.TotalAmount,
		ConfirmedAt:      o.ConfirmedAt,
		ShippedAt:        o.ShippedAt,
		DeliveredAt:      o.DeliveredAt,
		CancelledAt:      o.CancelledAt,
		Lines:            lines,
	}
}
