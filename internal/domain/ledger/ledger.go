// Package ledger provides the balance ledger primitive.
//
// A ledger couples an append-only entry history with a cached running
// balance per subject. Both are written in a single transaction: the
// subject's balance row is locked, the policy decides the effective
// delta, the entry is inserted and the cached balance is updated.
// The cached balance therefore always equals the sum of entry amounts.
package ledger

import (
	"context"
	"fmt"
	"time"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/core/tx"
	"opticore/pkg/logger"
)

// Store defines persistence operations for one ledger (receivables, stock).
// Implementations live in infrastructure/storage/postgres.
type Store interface {
	// GetBalance returns the cached balance for a subject (0 if no row yet).
	GetBalance(ctx context.Context, subjectID id.ID) (int64, error)

	// GetBalanceForUpdate returns the cached balance with a row lock.
	// Concurrent appends for the same subject serialize on this lock.
	// Must be called inside a transaction.
	GetBalanceForUpdate(ctx context.Context, subjectID id.ID) (int64, error)

	// InsertEntry appends an immutable history row.
	InsertEntry(ctx context.Context, entry Entry) error

	// UpdateBalance writes the new cached balance for a subject (upsert).
	UpdateBalance(ctx context.Context, subjectID id.ID, balance int64, at time.Time) error

	// SumEntries recomputes the balance from history (for verification).
	SumEntries(ctx context.Context, subjectID id.ID) (int64, error)
}

// Policy decides the effective delta for an append given the current balance.
// Returning an error rejects the whole append.
type Policy interface {
	Apply(subjectID id.ID, kind Kind, balance, delta int64) (int64, error)
}

// Ledger is the append coordinator for one balance ledger.
type Ledger struct {
	name      string
	store     Store
	policy    Policy
	txManager tx.Manager
}

// New creates a ledger over the given store and policy.
// The name appears in logs and error details ("receivables", "stock").
func New(name string, store Store, policy Policy, txManager tx.Manager) *Ledger {
	return &Ledger{
		name:      name,
		store:     store,
		policy:    policy,
		txManager: txManager,
	}
}

// AppendRequest describes one ledger mutation.
type AppendRequest struct {
	SubjectID id.ID
	Kind      Kind
	Delta     int64 // signed, in ledger units
	RefID     *id.ID
	RefType   string
	Memo      string
	Actor     string
}

// Append records a signed delta against a subject.
//
// The entry and the cached balance are written in one transaction.
// Nested calls reuse the caller's transaction, so a document that
// touches several ledgers stays atomic end to end.
func (l *Ledger) Append(ctx context.Context, req AppendRequest) (Entry, error) {
	var entry Entry

	if id.IsNil(req.SubjectID) {
		return entry, apperror.NewValidation("subject is required").
			WithDetail("ledger", l.name)
	}
	if req.Delta == 0 {
		return entry, apperror.NewInvalidDelta(req.SubjectID.String()).
			WithDetail("ledger", l.name)
	}

	err := l.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		balance, err := l.store.GetBalanceForUpdate(ctx, req.SubjectID)
		if err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}

		effective, err := l.policy.Apply(req.SubjectID, req.Kind, balance, req.Delta)
		if err != nil {
			return err
		}

		entry = NewEntry(req, balance, effective)
		if err := l.store.InsertEntry(ctx, entry); err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}

		if err := l.store.UpdateBalance(ctx, req.SubjectID, entry.BalanceAfter, entry.CreatedAt); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return Entry{}, err
	}

	logger.Debug(ctx, "ledger entry appended",
		"ledger", l.name,
		"subject_id", req.SubjectID,
		"kind", req.Kind,
		"amount", entry.Amount,
		"balance_after", entry.BalanceAfter,
	)

	return entry, nil
}

// ReconcileRequest brings a subject's balance to a counted target value.
type ReconcileRequest struct {
	SubjectID id.ID
	Kind      Kind
	Target    int64 // the counted actual balance
	RefID     *id.ID
	RefType   string
	Memo      string
	Actor     string
}

// Reconcile appends whatever delta is needed to bring the balance to
// the target. The delta is derived under the subject lock, so a
// concurrent movement between count and reconcile cannot be lost.
//
// A zero delta is a legal no-op: no entry is written (a "found no
// discrepancy" row would only pollute the audit trail). The boolean
// reports whether an entry was appended.
func (l *Ledger) Reconcile(ctx context.Context, req ReconcileRequest) (Entry, bool, error) {
	var entry Entry
	var appended bool

	if id.IsNil(req.SubjectID) {
		return entry, false, apperror.NewValidation("subject is required").
			WithDetail("ledger", l.name)
	}

	err := l.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		balance, err := l.store.GetBalanceForUpdate(ctx, req.SubjectID)
		if err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}

		delta := req.Target - balance
		if delta == 0 {
			return nil
		}

		effective, err := l.policy.Apply(req.SubjectID, req.Kind, balance, delta)
		if err != nil {
			return err
		}

		entry = NewEntry(AppendRequest{
			SubjectID: req.SubjectID,
			Kind:      req.Kind,
			Delta:     delta,
			RefID:     req.RefID,
			RefType:   req.RefType,
			Memo:      req.Memo,
			Actor:     req.Actor,
		}, balance, effective)
		if err := l.store.InsertEntry(ctx, entry); err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		if err := l.store.UpdateBalance(ctx, req.SubjectID, entry.BalanceAfter, entry.CreatedAt); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		appended = true
		return nil
	})
	if err != nil {
		return Entry{}, false, err
	}

	if appended {
		logger.Debug(ctx, "ledger reconciled",
			"ledger", l.name,
			"subject_id", req.SubjectID,
			"amount", entry.Amount,
			"balance_after", entry.BalanceAfter,
		)
	}

	return entry, appended, nil
}

// Balance returns the cached balance for a subject without locking.
func (l *Ledger) Balance(ctx context.Context, subjectID id.ID) (int64, error) {
	return l.store.GetBalance(ctx, subjectID)
}

// Verify recomputes the balance from history and compares it with the
// cached value. A mismatch means the atomic append contract was broken
// somewhere (manual SQL, partial restore) and needs investigation.
func (l *Ledger) Verify(ctx context.Context, subjectID id.ID) error {
	var sum, cached int64
	err := l.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if cached, err = l.store.GetBalanceForUpdate(ctx, subjectID); err != nil {
			return fmt.Errorf("get cached balance: %w", err)
		}
		if sum, err = l.store.SumEntries(ctx, subjectID); err != nil {
			return fmt.Errorf("sum entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if sum != cached {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"Ledger balance does not match entry history",
		).
			WithDetail("ledger", l.name).
			WithDetail("subject_id", subjectID.String()).
			WithDetail("cached", cached).
			WithDetail("recomputed", sum)
	}
	return nil
}
