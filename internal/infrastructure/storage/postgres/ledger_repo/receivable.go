// Package ledger_repo provides PostgreSQL stores for the balance
// ledgers. Each store pairs an append-only history table with the
// cached balance column on the subject's own row.
package ledger_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/domain/ledger"
	"opticore/internal/domain/receivables"
	"opticore/internal/infrastructure/storage/postgres"
)

const receivableEntriesTable = "reg_receivable_entries"

// ReceivableStore implements ledger.Store and receivables.Repository.
// The cached balance is the outstanding_amount column on cat_stores:
// the store row itself is the balance row, so locking it serializes
// every receivable mutation for that store.
type ReceivableStore struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewReceivableStore creates a receivables ledger store.
func NewReceivableStore(txm *postgres.TxManager) *ReceivableStore {
	return &ReceivableStore{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetBalance returns the cached outstanding amount for a store.
func (r *ReceivableStore) GetBalance(ctx context.Context, storeID id.ID) (int64, error) {
	var balance int64
	err := r.txm.GetQuerier(ctx).QueryRow(ctx,
		`SELECT outstanding_amount FROM cat_stores WHERE id = $1`,
		storeID,
	).Scan(&balance)
	if err != nil {
		if pgxscan.NotFound(err) {
			return 0, apperror.NewStoreNotFound(storeID.String())
		}
		return 0, fmt.Errorf("get receivable balance: %w", err)
	}
	return balance, nil
}

// GetBalanceForUpdate locks the store row and returns the cached balance.
func (r *ReceivableStore) GetBalanceForUpdate(ctx context.Context, storeID id.ID) (int64, error) {
	var balance int64
	err := r.txm.GetQuerier(ctx).QueryRow(ctx,
		`SELECT outstanding_amount FROM cat_stores WHERE id = $1 FOR UPDATE`,
		storeID,
	).Scan(&balance)
	if err != nil {
		if pgxscan.NotFound(err) {
			return 0, apperror.NewStoreNotFound(storeID.String())
		}
		return 0, fmt.Errorf("lock receivable balance: %w", err)
	}
	return balance, nil
}

// InsertEntry appends one immutable history row.
func (r *ReceivableStore) InsertEntry(ctx context.Context, entry ledger.Entry) error {
	q := r.builder.Insert(receivableEntriesTable).
		Columns(
			"id", "subject_id", "kind", "amount", "requested_amount",
			"balance_before", "balance_after",
			"ref_id", "ref_type", "memo", "actor", "created_at",
		).
		Values(
			entry.ID, entry.SubjectID, entry.Kind, entry.Amount, entry.RequestedAmount,
			entry.BalanceBefore, entry.BalanceAfter,
			entry.RefID, entry.RefType, entry.Memo, entry.Actor, entry.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert receivable entry: %w", err)
	}
	return nil
}

// UpdateBalance writes the new cached balance onto the store row.
func (r *ReceivableStore) UpdateBalance(ctx context.Context, storeID id.ID, balance int64, at time.Time) error {
	result, err := r.txm.GetQuerier(ctx).Exec(ctx,
		`UPDATE cat_stores SET outstanding_amount = $2 WHERE id = $1`,
		storeID, balance,
	)
	if err != nil {
		return fmt.Errorf("update receivable balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewStoreNotFound(storeID.String())
	}
	return nil
}

// SumEntries recomputes the balance from history.
func (r *ReceivableStore) SumEntries(ctx context.Context, storeID id.ID) (int64, error) {
	var sum int64
	err := r.txm.GetQuerier(ctx).QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM reg_receivable_entries WHERE subject_id = $1`,
		storeID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum receivable entries: %w", err)
	}
	return sum, nil
}

// ListEntries returns a store's transaction history, newest first.
func (r *ReceivableStore) ListEntries(ctx context.Context, storeID id.ID, filter receivables.HistoryFilter) ([]ledger.Entry, error) {
	q := r.builder.Select(
		"id", "subject_id", "kind", "amount", "requested_amount",
		"balance_before", "balance_after",
		"ref_id", "ref_type", "memo", "actor", "created_at",
	).From(receivableEntriesTable).
		Where(squirrel.Eq{"subject_id": storeID})

	if len(filter.Kinds) > 0 {
		q = q.Where(squirrel.Eq{"kind": filter.Kinds})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.ToDate})
	}

	q = q.OrderBy("created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []ledger.Entry
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select receivable entries: %w", err)
	}
	return entries, nil
}

// Ensure interface compliance.
var (
	_ ledger.Store           = (*ReceivableStore)(nil)
	_ receivables.Repository = (*ReceivableStore)(nil)
)
