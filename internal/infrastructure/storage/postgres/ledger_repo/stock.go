package ledger_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/domain/inventory"
	"opticore/internal/domain/ledger"
	"opticore/internal/infrastructure/storage/postgres"
)

const stockMovementsTable = "reg_stock_movements"

// StockStore implements ledger.Store and inventory.Repository.
// The cached balance is the stock column on cat_product_variants.
type StockStore struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewStockStore creates a stock ledger store.
func NewStockStore(txm *postgres.TxManager) *StockStore {
	return &StockStore{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetBalance returns the cached stock for a variant.
func (r *StockStore) GetBalance(ctx context.Context, variantID id.ID) (int64, error) {
	var stock int64
	err := r.txm.GetQuerier(ctx).QueryRow(ctx,
		`SELECT stock FROM cat_product_variants WHERE id = $1`,
		variantID,
	).Scan(&stock)
	if err != nil {
		if pgxscan.NotFound(err) {
			return 0, apperror.NewNotFound("variant", variantID.String())
		}
		return 0, fmt.Errorf("get stock: %w", err)
	}
	return stock, nil
}

// GetBalanceForUpdate locks the variant row and returns the cached stock.
func (r *StockStore) GetBalanceForUpdate(ctx context.Context, variantID id.ID) (int64, error) {
	var stock int64
	err := r.txm.GetQuerier(ctx).QueryRow(ctx,
		`SELECT stock FROM cat_product_variants WHERE id = $1 FOR UPDATE`,
		variantID,
	).Scan(&stock)
	if err != nil {
		if pgxscan.NotFound(err) {
			return 0, apperror.NewNotFound("variant", variantID.String())
		}
		return 0, fmt.Errorf("lock stock: %w", err)
	}
	return stock, nil
}

// InsertEntry appends one immutable movement row.
func (r *StockStore) InsertEntry(ctx context.Context, entry ledger.Entry) error {
	q := r.builder.Insert(stockMovementsTable).
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
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// UpdateBalance writes the new cached stock onto the variant row.
func (r *StockStore) UpdateBalance(ctx context.Context, variantID id.ID, balance int64, at time.Time) error {
	result, err := r.txm.GetQuerier(ctx).Exec(ctx,
		`UPDATE cat_product_variants SET stock = $2 WHERE id = $1`,
		variantID, balance,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("variant", variantID.String())
	}
	return nil
}

// SumEntries recomputes the stock from movement history.
func (r *StockStore) SumEntries(ctx context.Context, variantID id.ID) (int64, error) {
	var sum int64
	err := r.txm.GetQuerier(ctx).QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM reg_stock_movements WHERE subject_id = $1`,
		variantID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum stock movements: %w", err)
	}
	return sum, nil
}

// ListEntries returns a variant's movement history, newest first.
func (r *StockStore) ListEntries(ctx context.Context, variantID id.ID, filter inventory.HistoryFilter) ([]ledger.Entry, error) {
	q := r.builder.Select(
		"id", "subject_id", "kind", "amount", "requested_amount",
		"balance_before", "balance_after",
		"ref_id", "ref_type", "memo", "actor", "created_at",
	).From(stockMovementsTable).
		Where(squirrel.Eq{"subject_id": variantID})

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
		return nil, fmt.Errorf("select stock movements: %w", err)
	}
	return entries, nil
}

// Ensure interface compliance.
var (
	_ ledger.Store         = (*StockStore)(nil)
	_ inventory.Repository = (*StockStore)(nil)
)
