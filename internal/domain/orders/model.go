// Package orders provides the wholesale Order document and its flow.
// An order carries the prices resolved at creation time as historical
// fact; they are never recomputed afterwards.
package orders

import (
	"context"
	"time"

	"opticore/internal/core/apperror"
	"opticore/internal/core/entity"
	"opticore/internal/core/id"
	"opticore/internal/core/types"
	"opticore/internal/domain/pricing"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// transitions defines the legal state machine:
// pending -> confirmed -> shipped -> delivered, with cancelled
// reachable only from pending or confirmed. Delivered and cancelled
// are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order represents a store's wholesale order.
type Order struct {
	entity.Document

	// StoreID is the ordering customer
	StoreID id.ID `db:"store_id" json:"storeId"`

	Status Status `db:"status" json:"status"`

	// TotalAmount is the sum of line amounts in whole currency units
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// Transition timestamps
	ConfirmedAt *time.Time `db:"confirmed_at" json:"confirmedAt,omitempty"`
	ShippedAt   *time.Time `db:"shipped_at" json:"shippedAt,omitempty"`
	DeliveredAt *time.Time `db:"delivered_at" json:"deliveredAt,omitempty"`
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelledAt,omitempty"`

	// Table part
	Lines []Line `db:"-" json:"lines"`
}

// Line is one priced order position.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`
	VariantID id.ID `db:"variant_id" json:"variantId"`

	Quantity int64 `db:"quantity" json:"quantity"`

	// UnitPrice and AppliedRule are frozen at creation time
	UnitPrice   types.Money         `db:"unit_price" json:"unitPrice"`
	AppliedRule pricing.AppliedRule `db:"applied_rule" json:"appliedRule"`

	Amount types.Money `db:"amount" json:"amount"`
}

// NewOrder creates a pending order for a store.
func NewOrder(storeID id.ID) *Order {
	return &Order{
		Document: entity.NewDocument(),
		StoreID:  storeID,
		Status:   StatusPending,
		Lines:    make([]Line, 0),
	}
}

// AddLine appends a priced line and recalculates the total.
func (o *Order) AddLine(productID, variantID id.ID, quantity int64, price pricing.Result) {
	line := Line{
		LineID:      id.New(),
		LineNo:      len(o.Lines) + 1,
		ProductID:   productID,
		VariantID:   variantID,
		Quantity:    quantity,
		UnitPrice:   price.UnitPrice,
		AppliedRule: price.AppliedRule,
		Amount:      price.UnitPrice * quantity,
	}
	o.Lines = append(o.Lines, line)
	o.RecalculateTotal()
}

// RecalculateTotal derives TotalAmount from the remaining lines.
func (o *Order) RecalculateTotal() {
	var total types.Money
	for i := range o.Lines {
		o.Lines[i].Amount = o.Lines[i].UnitPrice * o.Lines[i].Quantity
		total += o.Lines[i].Amount
	}
	o.TotalAmount = total
}

// Validate implements entity.Validatable.
func (o *Order) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(o.StoreID) {
		return apperror.NewValidation("store is required").
			WithDetail("field", "storeId")
	}

	if len(o.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range o.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if id.IsNil(line.VariantID) {
			return apperror.NewValidation("variant is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// Transition moves the order to a new status, stamping the matching
// timestamp. Illegal moves fail with InvalidTransition.
func (o *Order) Transition(to Status) error {
	if !CanTransition(o.Status, to) {
		return apperror.NewInvalidTransition(string(o.Status), string(to))
	}

	now := time.Now().UTC()
	switch to {
	case StatusConfirmed:
		o.ConfirmedAt = &now
	case StatusShipped:
		o.ShippedAt = &now
	case StatusDelivered:
		o.DeliveredAt = &now
	case StatusCancelled:
		o.CancelledAt = &now
	}

	o.Status = to
	o.Touch()
	return nil
}

// Editable reports whether lines may still be changed.
// Once goods have shipped the order content is frozen.
func (o *Order) Editable() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}
