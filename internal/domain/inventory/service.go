// Package inventory tracks per-variant stock as a ledger: immutable
// movement history plus the cached stock field on the variant row.
package inventory

import (
	"context"
	"time"

	"opticore/internal/core/apperror"
	appctx "opticore/internal/core/context"
	"opticore/internal/core/id"
	"opticore/internal/domain/ledger"
	"opticore/pkg/logger"
)

// Movement kinds for the stock ledger.
const (
	KindIn     ledger.Kind = "in"
	KindOut    ledger.Kind = "out"
	KindAdjust ledger.Kind = "adjust"
	KindReturn ledger.Kind = "return"
)

// ExemptKinds lists the kinds allowed to drive stock negative.
// Only a stocktake adjustment may cross zero: it corrects a miscount,
// it does not move physical goods.
var ExemptKinds = map[ledger.Kind]bool{KindAdjust: true}

// HistoryFilter narrows movement history queries.
type HistoryFilter struct {
	Kinds    []ledger.Kind
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// Repository provides the read side of the movement history.
type Repository interface {
	ListEntries(ctx context.Context, variantID id.ID, filter HistoryFilter) ([]ledger.Entry, error)
}

// Service wraps the balance ledger for variant stock.
type Service struct {
	ledger  *ledger.Ledger
	history Repository
}

// NewService creates an inventory service.
// The ledger must be constructed with the RejectBelowZero policy and
// ExemptKinds, so default movements cannot oversell.
func NewService(l *ledger.Ledger, history Repository) *Service {
	return &Service{
		ledger:  l,
		history: history,
	}
}

// RecordMovement appends a stock movement.
// Quantity must be positive for in/return and negative for out.
// Use RecordAdjust for stocktake reconciliation.
func (s *Service) RecordMovement(ctx context.Context, variantID id.ID, quantity int64, kind ledger.Kind, reason string, refID *id.ID, refType string) (ledger.Entry, error) {
	switch kind {
	case KindIn, KindReturn:
		if quantity <= 0 {
			return ledger.Entry{}, apperror.NewValidation("quantity must be positive for " + string(kind)).
				WithDetail("quantity", quantity)
		}
	case KindOut:
		if quantity >= 0 {
			return ledger.Entry{}, apperror.NewValidation("quantity must be negative for out").
				WithDetail("quantity", quantity)
		}
	case KindAdjust:
		// any sign, including crossing zero
	default:
		return ledger.Entry{}, apperror.NewValidation("unknown movement kind").
			WithDetail("kind", string(kind))
	}

	return s.ledger.Append(ctx, ledger.AppendRequest{
		SubjectID: variantID,
		Kind:      kind,
		Delta:     quantity,
		RefID:     refID,
		RefType:   refType,
		Memo:      reason,
		Actor:     appctx.GetActorID(ctx),
	})
}

// RecordAdjust reconciles a variant's stock to a counted value.
// The delta (actual - current) is derived under the row lock. A zero
// delta is a no-op that leaves no history entry. Returns whether an
// adjustment was recorded.
func (s *Service) RecordAdjust(ctx context.Context, variantID id.ID, actualStock int64, reason string) (ledger.Entry, bool, error) {
	return s.ledger.Reconcile(ctx, ledger.ReconcileRequest{
		SubjectID: variantID,
		Kind:      KindAdjust,
		Target:    actualStock,
		Memo:      reason,
		Actor:     appctx.GetActorID(ctx),
	})
}

// AdjustItem is one line of a stocktake batch.
type AdjustItem struct {
	VariantID   id.ID `json:"variantId"`
	ActualStock int64 `json:"actualStock"`
}

// AdjustFailure records one failed batch item.
type AdjustFailure struct {
	VariantID id.ID  `json:"variantId"`
	Error     string `json:"error"`
}

// BulkResult summarizes a stocktake batch.
type BulkResult struct {
	AdjustedCount  int             `json:"adjustedCount"`
	UnchangedCount int             `json:"unchangedCount"`
	Failures       []AdjustFailure `json:"failures,omitempty"`
}

// BulkAdjust applies RecordAdjust per item. Each item's append is its
// own atomic unit: a failure leaves prior items committed and is
// collected, not retried. A crash mid-batch leaves a clean prefix.
func (s *Service) BulkAdjust(ctx context.Context, items []AdjustItem, reason string) (BulkResult, error) {
	var result BulkResult

	for _, item := range items {
		_, adjusted, err := s.RecordAdjust(ctx, item.VariantID, item.ActualStock, reason)
		if err != nil {
			result.Failures = append(result.Failures, AdjustFailure{
				VariantID: item.VariantID,
				Error:     err.Error(),
			})
			continue
		}
		if adjusted {
			result.AdjustedCount++
		} else {
			result.UnchangedCount++
		}
	}

	logger.Info(ctx, "bulk stock adjustment finished",
		"total", len(items),
		"adjusted", result.AdjustedCount,
		"unchanged", result.UnchangedCount,
		"failed", len(result.Failures),
	)

	return result, nil
}

// CurrentStock returns the cached stock for a variant.
func (s *Service) CurrentStock(ctx context.Context, variantID id.ID) (int64, error) {
	return s.ledger.Balance(ctx, variantID)
}

// History returns a variant's movement history, newest first.
func (s *Service) History(ctx context.Context, variantID id.ID, filter HistoryFilter) ([]ledger.Entry, error) {
	return s.history.ListEntries(ctx, variantID, filter)
}

// Verify checks the ledger-sum invariant for one variant.
func (s *Service) Verify(ctx context.Context, variantID id.ID) error {
	return s.ledger.Verify(ctx, variantID)
}
