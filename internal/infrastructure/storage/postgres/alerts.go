package postgres

import (
	"context"

	"opticore/internal/core/id"
	"opticore/internal/core/types"
	"opticore/internal/domain/receivables"
)

// CreditAlertOutbox forwards credit limit breaches to the outbox table.
// The relay worker picks them up and notifies the sales team; the sale
// that triggered the breach is never blocked.
type CreditAlertOutbox struct {
	publisher *OutboxPublisher
}

// NewCreditAlertOutbox creates an alert sink backed by the outbox.
func NewCreditAlertOutbox(publisher *OutboxPublisher) *CreditAlertOutbox {
	return &CreditAlertOutbox{publisher: publisher}
}

// CreditLimitExceeded publishes a CreditLimitExceeded event for a store.
func (a *CreditAlertOutbox) CreditLimitExceeded(ctx context.Context, storeID id.ID, balance, limit types.Money) error {
	return a.publisher.Publish(ctx, DomainEvent{
		AggregateType: "Store",
		AggregateID:   storeID,
		EventType:     "CreditLimitExceeded",
		Payload: map[string]any{
			"storeId":     storeID,
			"balance":     balance,
			"creditLimit": limit,
			"excess":      balance - limit,
		},
	})
}

var _ receivables.AlertSink = (*CreditAlertOutbox)(nil)
