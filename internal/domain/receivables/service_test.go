package receivables

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/domain/catalogs/store"
	"opticore/internal/domain/ledger"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memLedgerStore struct {
	balances map[id.ID]int64
	entries  []ledger.Entry
}

func newMemLedgerStore() *memLedgerStore {
	return &memLedgerStore{balances: make(map[id.ID]int64)}
}

func (s *memLedgerStore) GetBalance(_ context.Context, subjectID id.ID) (int64, error) {
	return s.balances[subjectID], nil
}

func (s *memLedgerStore) GetBalanceForUpdate(ctx context.Context, subjectID id.ID) (int64, error) {
	return s.GetBalance(ctx, subjectID)
}

func (s *memLedgerStore) InsertEntry(_ context.Context, entry ledger.Entry) error {
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

// stubStores serves GetByID only; everything else is unused in these tests.
type stubStores struct {
	store.Repository
	st *store.Store
}

func (s stubStores) GetByID(_ context.Context, _ id.ID) (*store.Store, error) {
	return s.st, nil
}

type stubHistory struct {
	store *memLedgerStore
}

func (h stubHistory) ListEntries(_ context.Context, storeID id.ID, _ HistoryFilter) ([]ledger.Entry, error) {
	var out []ledger.Entry
	for _, e := range h.store.entries {
		if e.SubjectID == storeID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestService() (*Service, *memLedgerStore, *store.Store) {
	ls := newMemLedgerStore()
	l := ledger.New("receivables", ls, ledger.ClampAtZero{}, passthroughTx{})
	st := store.NewStore("ST-001", "Vision Optics")
	svc := NewService(l, stubHistory{store: ls}, stubStores{st: st})
	return svc, ls, st
}

func TestReceivables_SaleDepositDiscountScenario(t *testing.T) {
	svc, ls, _ := newTestService()
	ctx := context.Background()
	storeID := id.New()

	e1, err := svc.RecordSale(ctx, storeID, 45000, nil, "ORD-2026-00001")
	require.NoError(t, err)
	assert.Equal(t, int64(45000), e1.BalanceAfter)

	e2, err := svc.RecordDeposit(ctx, storeID, 20000, "bank_transfer", "")
	require.NoError(t, err)
	assert.Equal(t, int64(25000), e2.BalanceAfter)

	e3, err := svc.RecordDiscount(ctx, storeID, 5000, "damaged goods")
	require.NoError(t, err)
	assert.Equal(t, int64(20000), e3.BalanceAfter)

	balance, err := svc.CurrentBalance(ctx, storeID)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), balance)

	// Three rows with chained balanceAfter snapshots.
	require.Len(t, ls.entries, 3)
	assert.Equal(t, int64(45000), ls.entries[0].BalanceAfter)
	assert.Equal(t, int64(25000), ls.entries[1].BalanceAfter)
	assert.Equal(t, int64(20000), ls.entries[2].BalanceAfter)

	require.NoError(t, svc.Verify(ctx, storeID))
}

func TestReceivables_RejectsNonPositiveAmounts(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	storeID := id.New()

	_, err := svc.RecordSale(ctx, storeID, 0, nil, "")
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidAmount))

	_, err = svc.RecordDeposit(ctx, storeID, -100, "cash", "")
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidAmount))

	_, err = svc.RecordDiscount(ctx, storeID, 0, "some reason")
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidAmount))
}

func TestReceivables_DiscountRequiresReason(t *testing.T) {
	svc, ls, _ := newTestService()
	ctx := context.Background()
	storeID := id.New()

	_, err := svc.RecordDiscount(ctx, storeID, 1000, "")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeMissingReason))
	assert.Empty(t, ls.entries)
}

func TestReceivables_OverpaymentClampsAtZero(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	storeID := id.New()

	_, err := svc.RecordSale(ctx, storeID, 10000, nil, "ORD-2026-00002")
	require.NoError(t, err)

	entry, err := svc.RecordDeposit(ctx, storeID, 30000, "cash", "year-end settlement")
	require.NoError(t, err)
	assert.Equal(t, int64(0), entry.BalanceAfter)
	assert.Equal(t, int64(-10000), entry.Amount)
	assert.Equal(t, int64(-30000), entry.RequestedAmount)

	balance, err := svc.CurrentBalance(ctx, storeID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	// Sum of effective amounts still matches the cached balance.
	require.NoError(t, svc.Verify(ctx, storeID))
}

func TestReceivables_ReturnReducesBalance(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	storeID := id.New()

	_, err := svc.RecordSale(ctx, storeID, 8000, nil, "ORD-2026-00003")
	require.NoError(t, err)

	entry, err := svc.RecordReturn(ctx, storeID, 3000, nil, "scratched lenses")
	require.NoError(t, err)
	assert.Equal(t, KindReturn, entry.Kind)
	assert.Equal(t, int64(5000), entry.BalanceAfter)
}

func TestReceivables_CorrectSale(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	storeID := id.New()

	_, err := svc.RecordSale(ctx, storeID, 12000, nil, "ORD-2026-00004")
	require.NoError(t, err)

	// Line removal shrinks the order by 4000.
	entry, err := svc.CorrectSale(ctx, storeID, -4000, nil, "line removed from ORD-2026-00004")
	require.NoError(t, err)
	assert.Equal(t, int64(8000), entry.BalanceAfter)

	_, err = svc.CorrectSale(ctx, storeID, 0, nil, "noop")
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidDelta))
}
