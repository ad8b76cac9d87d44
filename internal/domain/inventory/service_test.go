package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/domain/ledger"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memLedgerStore struct {
	balances  map[id.ID]int64
	entries   []ledger.Entry
	failStore map[id.ID]bool // simulate insert failures per subject
}

func newMemLedgerStore() *memLedgerStore {
	return &memLedgerStore{
		balances:  make(map[id.ID]int64),
		failStore: make(map[id.ID]bool),
	}
}

func (s *memLedgerStore) GetBalance(_ context.Context, subjectID id.ID) (int64, error) {
	return s.balances[subjectID], nil
}

func (s *memLedgerStore) GetBalanceForUpdate(ctx context.Context, subjectID id.ID) (int64, error) {
	return s.GetBalance(ctx, subjectID)
}

func (s *memLedgerStore) InsertEntry(_ context.Context, entry ledger.Entry) error {
	if s.failStore[entry.SubjectID] {
		return errors.New("simulated insert failure")
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *memLedgerStore) UpdateBalance(_ context.Context, subjectID id.ID, balance int64, _ time.Time) error {
	s.balances[subjectID] = balance
	return nil
}

func (s *memLedgerStore) SumEntries(_ context.Context, subjectID id.ID) (int64, error) {
	var sum int64
	for _, e := range s.entries {
		if e.SubjectID == subjectID {
			sum += e.Amount
		}
	}
	return sum, nil
}

type stubHistory struct {
	store *memLedgerStore
}

func (h stubHistory) ListEntries(_ context.Context, variantID id.ID, _ HistoryFilter) ([]ledger.Entry, error) {
	var out []ledger.Entry
	for _, e := range h.store.entries {
		if e.SubjectID == variantID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestService() (*Service, *memLedgerStore) {
	ls := newMemLedgerStore()
	l := ledger.New("stock", ls, ledger.RejectBelowZero{ExemptKinds: ExemptKinds}, passthroughTx{})
	return NewService(l, stubHistory{store: ls}), ls
}

func TestRecordMovement_SignValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	variant := id.New()

	_, err := svc.RecordMovement(ctx, variant, -5, KindIn, "receiving", nil, "")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = svc.RecordMovement(ctx, variant, 5, KindOut, "shipment", nil, "")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = svc.RecordMovement(ctx, variant, 5, "teleport", "??", nil, "")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestRecordMovement_InOutReturn(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	variant := id.New()

	e, err := svc.RecordMovement(ctx, variant, 10, KindIn, "initial receiving", nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), e.BalanceBefore)
	assert.Equal(t, int64(10), e.BalanceAfter)

	e, err = svc.RecordMovement(ctx, variant, -4, KindOut, "order shipped", nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(6), e.BalanceAfter)

	e, err = svc.RecordMovement(ctx, variant, 1, KindReturn, "customer return", nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(7), e.BalanceAfter)

	stock, err := svc.CurrentStock(ctx, variant)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stock)
}

func TestRecordMovement_RejectsOversell(t *testing.T) {
	svc, ls := newTestService()
	ctx := context.Background()
	variant := id.New()

	_, err := svc.RecordMovement(ctx, variant, 3, KindIn, "receiving", nil, "")
	require.NoError(t, err)

	_, err = svc.RecordMovement(ctx, variant, -5, KindOut, "shipment", nil, "")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Stock unchanged, no history row written.
	stock, err := svc.CurrentStock(ctx, variant)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stock)
	assert.Len(t, ls.entries, 1)
}

func TestRecordAdjust(t *testing.T) {
	svc, ls := newTestService()
	ctx := context.Background()
	variant := id.New()

	_, err := svc.RecordMovement(ctx, variant, 10, KindIn, "receiving", nil, "")
	require.NoError(t, err)

	// Count found 7: adjustment of -3 is recorded.
	e, adjusted, err := svc.RecordAdjust(ctx, variant, 7, "quarterly stocktake")
	require.NoError(t, err)
	assert.True(t, adjusted)
	assert.Equal(t, int64(-3), e.Amount)
	assert.Equal(t, int64(10), e.BalanceBefore)
	assert.Equal(t, int64(7), e.BalanceAfter)

	// Count matches: legal no-op, no history entry.
	_, adjusted, err = svc.RecordAdjust(ctx, variant, 7, "quarterly stocktake")
	require.NoError(t, err)
	assert.False(t, adjusted)
	assert.Len(t, ls.entries, 2)
}

func TestRecordAdjust_MayCrossZero(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	variant := id.New()

	// System says 0, count says short by 2 on an unreceived shipment:
	// the adjustment may drive stock negative.
	e, adjusted, err := svc.RecordAdjust(ctx, variant, -2, "short shipment reconciliation")
	require.NoError(t, err)
	assert.True(t, adjusted)
	assert.Equal(t, int64(-2), e.BalanceAfter)
}

func TestBulkAdjust_PartialFailure(t *testing.T) {
	svc, ls := newTestService()
	ctx := context.Background()

	good1 := id.New()
	good2 := id.New()
	bad := id.New()
	ls.balances[good1] = 5
	ls.balances[good2] = 8
	ls.failStore[bad] = true

	result, err := svc.BulkAdjust(ctx, []AdjustItem{
		{VariantID: good1, ActualStock: 4}, // adjusted
		{VariantID: bad, ActualStock: 1},   // fails
		{VariantID: good2, ActualStock: 8}, // unchanged
	}, "stocktake")
	require.NoError(t, err)

	assert.Equal(t, 1, result.AdjustedCount)
	assert.Equal(t, 1, result.UnchangedCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, bad, result.Failures[0].VariantID)

	// Prior item stays committed despite the later failure.
	assert.Equal(t, int64(4), ls.balances[good1])
	assert.Equal(t, int64(8), ls.balances[good2])
}

func TestVerifyStockInvariant(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	variant := id.New()

	_, err := svc.RecordMovement(ctx, variant, 20, KindIn, "receiving", nil, "")
	require.NoError(t, err)
	_, err = svc.RecordMovement(ctx, variant, -6, KindOut, "shipment", nil, "")
	require.NoError(t, err)
	_, _, err = svc.RecordAdjust(ctx, variant, 15, "stocktake")
	require.NoError(t, err)

	require.NoError(t, svc.Verify(ctx, variant))
}
