// Package receivables tracks each store's outstanding balance as a
// ledger: immutable transaction history plus the cached
// outstanding_amount on the store row.
package receivables

import (
	"context"
	"time"

	"opticore/internal/core/apperror"
	appctx "opticore/internal/core/context"
	"opticore/internal/core/id"
	"opticore/internal/core/types"
	"opticore/internal/domain/catalogs/store"
	"opticore/internal/domain/ledger"
	"opticore/pkg/logger"
)

// Transaction kinds for the receivables ledger.
const (
	KindSale       ledger.Kind = "sale"
	KindDeposit    ledger.Kind = "deposit"
	KindAdjustment ledger.Kind = "adjustment"
	KindReturn     ledger.Kind = "return"
)

// HistoryFilter narrows transaction history queries.
type HistoryFilter struct {
	Kinds    []ledger.Kind
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// Repository provides the read side of the receivables history.
// The write side goes through ledger.Store.
type Repository interface {
	ListEntries(ctx context.Context, storeID id.ID, filter HistoryFilter) ([]ledger.Entry, error)
}

// AlertSink receives credit limit breach notifications. The outbox
// implementation forwards them to the sales team asynchronously.
type AlertSink interface {
	CreditLimitExceeded(ctx context.Context, storeID id.ID, balance, limit types.Money) error
}

// Service wraps the balance ledger for store receivables.
type Service struct {
	ledger  *ledger.Ledger
	history Repository
	stores  store.Repository
	alerts  AlertSink
}

// NewService creates a receivables service.
// The ledger must be constructed with the ClampAtZero policy: a store's
// outstanding amount never goes negative, overpayments settle at 0.
func NewService(l *ledger.Ledger, history Repository, stores store.Repository) *Service {
	return &Service{
		ledger:  l,
		history: history,
		stores:  stores,
	}
}

// RecordSale increases a store's outstanding balance for an order.
// Called exactly once per order at creation time.
func (s *Service) RecordSale(ctx context.Context, storeID id.ID, amount types.Money, orderID *id.ID, orderNo string) (ledger.Entry, error) {
	if amount <= 0 {
		return ledger.Entry{}, apperror.NewInvalidAmount(amount)
	}

	entry, err := s.ledger.Append(ctx, ledger.AppendRequest{
		SubjectID: storeID,
		Kind:      KindSale,
		Delta:     amount,
		RefID:     orderID,
		RefType:   "order",
		Memo:      orderNo,
		Actor:     appctx.GetActorID(ctx),
	})
	if err != nil {
		return ledger.Entry{}, err
	}

	s.warnOverCreditLimit(ctx, storeID, entry.BalanceAfter)

	return entry, nil
}

// RecordDeposit decreases a store's outstanding balance by a payment.
// An overpayment settles the balance at zero; the requested amount
// stays on the entry.
func (s *Service) RecordDeposit(ctx context.Context, storeID id.ID, amount types.Money, method, memo string) (ledger.Entry, error) {
	if amount <= 0 {
		return ledger.Entry{}, apperror.NewInvalidAmount(amount)
	}

	if method != "" {
		if memo != "" {
			memo = method + ": " + memo
		} else {
			memo = method
		}
	}

	return s.ledger.Append(ctx, ledger.AppendRequest{
		SubjectID: storeID,
		Kind:      KindDeposit,
		Delta:     -amount,
		Memo:      memo,
		Actor:     appctx.GetActorID(ctx),
	})
}

// RecordDiscount writes off part of a store's balance. A reason is
// mandatory: write-offs are an audit concern.
func (s *Service) RecordDiscount(ctx context.Context, storeID id.ID, amount types.Money, memo string) (ledger.Entry, error) {
	if memo == "" {
		return ledger.Entry{}, apperror.NewMissingReason()
	}
	if amount <= 0 {
		return ledger.Entry{}, apperror.NewInvalidAmount(amount)
	}

	return s.ledger.Append(ctx, ledger.AppendRequest{
		SubjectID: storeID,
		Kind:      KindAdjustment,
		Delta:     -amount,
		Memo:      memo,
		Actor:     appctx.GetActorID(ctx),
	})
}

// RecordReturn decreases a store's balance when goods come back.
func (s *Service) RecordReturn(ctx context.Context, storeID id.ID, amount types.Money, orderID *id.ID, memo string) (ledger.Entry, error) {
	if amount <= 0 {
		return ledger.Entry{}, apperror.NewInvalidAmount(amount)
	}

	return s.ledger.Append(ctx, ledger.AppendRequest{
		SubjectID: storeID,
		Kind:      KindReturn,
		Delta:     -amount,
		RefID:     orderID,
		RefType:   "order",
		Memo:      memo,
		Actor:     appctx.GetActorID(ctx),
	})
}

// CorrectSale adjusts a store's balance after an order is edited or
// cancelled. The delta is signed: negative when lines were removed.
func (s *Service) CorrectSale(ctx context.Context, storeID id.ID, delta types.Money, orderID *id.ID, memo string) (ledger.Entry, error) {
	if delta == 0 {
		return ledger.Entry{}, apperror.NewInvalidDelta(storeID.String())
	}

	entry, err := s.ledger.Append(ctx, ledger.AppendRequest{
		SubjectID: storeID,
		Kind:      KindAdjustment,
		Delta:     delta,
		RefID:     orderID,
		RefType:   "order",
		Memo:      memo,
		Actor:     appctx.GetActorID(ctx),
	})
	if err != nil {
		return ledger.Entry{}, err
	}

	if delta > 0 {
		s.warnOverCreditLimit(ctx, storeID, entry.BalanceAfter)
	}

	return entry, nil
}

// CurrentBalance returns the cached outstanding amount for a store.
// Always equals the sum of recorded transaction amounts.
func (s *Service) CurrentBalance(ctx context.Context, storeID id.ID) (types.Money, error) {
	return s.ledger.Balance(ctx, storeID)
}

// History returns a store's transaction history, newest first.
func (s *Service) History(ctx context.Context, storeID id.ID, filter HistoryFilter) ([]ledger.Entry, error) {
	return s.history.ListEntries(ctx, storeID, filter)
}

// Verify checks the ledger-sum invariant for one store.
func (s *Service) Verify(ctx context.Context, storeID id.ID) error {
	return s.ledger.Verify(ctx, storeID)
}

// SetAlertSink attaches an optional notification sink for credit limit
// breaches.
func (s *Service) SetAlertSink(sink AlertSink) {
	s.alerts = sink
}

// warnOverCreditLimit logs when a sale pushes a store past its credit
// limit. The sale itself is not blocked: credit decisions stay with
// the sales team, the system only surfaces the breach.
func (s *Service) warnOverCreditLimit(ctx context.Context, storeID id.ID, balanceAfter types.Money) {
	st, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return
	}
	if st.CreditLimit > 0 && balanceAfter > st.CreditLimit {
		logger.Warn(ctx, "store exceeded credit limit",
			"store_id", storeID,
			"balance", balanceAfter,
			"credit_limit", st.CreditLimit,
		)
		if s.alerts != nil {
			if err := s.alerts.CreditLimitExceeded(ctx, storeID, balanceAfter, st.CreditLimit); err != nil {
				logger.Error(ctx, "publish credit limit alert failed",
					"store_id", storeID,
					"error", err,
				)
			}
		}
	}
}
