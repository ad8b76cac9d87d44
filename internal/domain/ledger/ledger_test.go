package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
)

// passthroughTx runs the function directly, no real transaction.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memStore is an in-memory Store for unit tests.
type memStore struct {
	balances map[id.ID]int64
	entries  []Entry
}

func newMemStore() *memStore {
	return &memStore{balances: make(map[id.ID]int64)}
}

func (s *memStore) GetBalance(_ context.Context, subjectID id.ID) (int64, error) {
	return s.balances[subjectID], nil
}

func (s *memStore) GetBalanceForUpdate(ctx context.Context, subjectID id.ID) (int64, error) {
	return s.GetBalance(ctx, subjectID)
}

func (s *memStore) InsertEntry(_ context.Context, entry Entry) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *memStore) UpdateBalance(_ context.Context, subjectID id.ID, balance int64, _ time.Time) error {
	s.balances[subjectID] = balance
	return nil
}

func (s *memStore) SumEntries(_ context.Context, subjectID id.ID) (int64, error) {
	var sum int64
	for _, e := range s.entries {
		if e.SubjectID == subjectID {
			sum += e.Amount
		}
	}
	return sum, nil
}

func newTestLedger(policy Policy) (*Ledger, *memStore) {
	store := newMemStore()
	return New("test", store, policy, passthroughTx{}), store
}

func TestAppend_RejectsZeroDelta(t *testing.T) {
	l, _ := newTestLedger(ClampAtZero{})

	_, err := l.Append(context.Background(), AppendRequest{
		SubjectID: id.New(),
		Kind:      "sale",
		Delta:     0,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidDelta))
}

func TestAppend_RejectsNilSubject(t *testing.T) {
	l, _ := newTestLedger(ClampAtZero{})

	_, err := l.Append(context.Background(), AppendRequest{
		SubjectID: id.Nil(),
		Kind:      "sale",
		Delta:     100,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestAppend_ChainsBalances(t *testing.T) {
	l, store := newTestLedger(ClampAtZero{})
	ctx := context.Background()
	subject := id.New()

	e1, err := l.Append(ctx, AppendRequest{SubjectID: subject, Kind: "sale", Delta: 45000})
	require.NoError(t, err)
	assert.Equal(t, int64(0), e1.BalanceBefore)
	assert.Equal(t, int64(45000), e1.BalanceAfter)

	e2, err := l.Append(ctx, AppendRequest{SubjectID: subject, Kind: "deposit", Delta: -20000})
	require.NoError(t, err)
	assert.Equal(t, int64(45000), e2.BalanceBefore)
	assert.Equal(t, int64(25000), e2.BalanceAfter)

	balance, err := l.Balance(ctx, subject)
	require.NoError(t, err)
	assert.Equal(t, int64(25000), balance)

	// Cached balance equals the sum of entry amounts.
	sum, err := store.SumEntries(ctx, subject)
	require.NoError(t, err)
	assert.Equal(t, balance, sum)
}

// lockingTx serializes transactions the way the balance row lock does
// in Postgres: the lock is held until commit.
type lockingTx struct{ mu sync.Mutex }

func (l *lockingTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(ctx)
}

func TestAppend_ConcurrentAppendsSerialize(t *testing.T) {
	store := newMemStore()
	l := New("test", store, ClampAtZero{}, &lockingTx{})
	ctx := context.Background()
	subject := id.New()

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := l.Append(ctx, AppendRequest{SubjectID: subject, Kind: "sale", Delta: 100})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	balance, err := l.Balance(ctx, subject)
	require.NoError(t, err)
	assert.Equal(t, int64(workers*100), balance)

	// Whatever order the appends landed in, each entry must start where
	// the previous one ended and the cached balance must match history.
	require.Len(t, store.entries, workers)
	var prev int64
	for _, e := range store.entries {
		assert.Equal(t, prev, e.BalanceBefore)
		prev = e.BalanceAfter
	}
	assert.Equal(t, balance, prev)
	require.NoError(t, l.Verify(ctx, subject))
}

func TestAppend_ClampAtZero(t *testing.T) {
	l, _ := newTestLedger(ClampAtZero{})
	ctx := context.Background()
	subject := id.New()

	_, err := l.Append(ctx, AppendRequest{SubjectID: subject, Kind: "sale", Delta: 10000})
	require.NoError(t, err)

	// Deposit exceeds the outstanding balance: effective delta is clamped,
	// the requested amount is preserved on the entry.
	entry, err := l.Append(ctx, AppendRequest{SubjectID: subject, Kind: "deposit", Delta: -15000})
	require.NoError(t, err)
	assert.Equal(t, int64(-10000), entry.Amount)
	assert.Equal(t, int64(-15000), entry.RequestedAmount)
	assert.Equal(t, int64(0), entry.BalanceAfter)
	assert.True(t, entry.Clamped())

	balance, err := l.Balance(ctx, subject)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestAppend_RejectBelowZero(t *testing.T) {
	policy := RejectBelowZero{ExemptKinds: map[Kind]bool{"adjust": true}}
	l, store := newTestLedger(policy)
	ctx := context.Background()
	subject := id.New()

	_, err := l.Append(ctx, AppendRequest{SubjectID: subject, Kind: "in", Delta: 5})
	require.NoError(t, err)

	// Overselling is rejected and leaves no trace in the history.
	_, err = l.Append(ctx, AppendRequest{SubjectID: subject, Kind: "out", Delta: -8})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Len(t, store.entries, 1)

	balance, err := l.Balance(ctx, subject)
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance)

	// An exempt adjustment may cross zero.
	entry, err := l.Append(ctx, AppendRequest{SubjectID: subject, Kind: "adjust", Delta: -8})
	require.NoError(t, err)
	assert.Equal(t, int64(-3), entry.BalanceAfter)
}

func TestAppend_InsufficientStockDetails(t *testing.T) {
	policy := RejectBelowZero{}
	l, _ := newTestLedger(policy)
	subject := id.New()

	_, err := l.Append(context.Background(), AppendRequest{SubjectID: subject, Kind: "out", Delta: -3})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, int64(3), appErr.Details["requested"])
	assert.Equal(t, int64(0), appErr.Details["available"])
}

func TestVerify(t *testing.T) {
	l, store := newTestLedger(ClampAtZero{})
	ctx := context.Background()
	subject := id.New()

	_, err := l.Append(ctx, AppendRequest{SubjectID: subject, Kind: "sale", Delta: 100})
	require.NoError(t, err)
	require.NoError(t, l.Verify(ctx, subject))

	// Corrupt the cached balance behind the ledger's back.
	store.balances[subject] = 999
	err = l.Verify(ctx, subject)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeBusinessRule))
}
