package orders

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/core/types"
	"opticore/internal/domain"
	"opticore/internal/domain/catalogs/product"
	"opticore/internal/domain/ledger"
	"opticore/internal/domain/pricing"
	"opticore/internal/core/numerator"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memOrderRepo struct {
	orders map[id.ID]*Order
	lines  map[id.ID][]Line
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{
		orders: make(map[id.ID]*Order),
		lines:  make(map[id.ID][]Line),
	}
}

func (r *memOrderRepo) Create(_ context.Context, o *Order) error {
	clone := *o
	r.orders[o.ID] = &clone
	return nil
}

func (r *memOrderRepo) Update(_ context.Context, o *Order) error {
	if _, ok := r.orders[o.ID]; !ok {
		return apperror.NewNotFound("order", o.ID.String())
	}
	clone := *o
	r.orders[o.ID] = &clone
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, orderID id.ID) (*Order, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, apperror.NewNotFound("order", orderID.String())
	}
	clone := *o
	clone.Lines = nil
	return &clone, nil
}

func (r *memOrderRepo) GetByNumber(_ context.Context, number string) (*Order, error) {
	for _, o := range r.orders {
		if o.Number == number {
			clone := *o
			return &clone, nil
		}
	}
	return nil, apperror.NewNotFound("order", number)
}

func (r *memOrderRepo) GetLines(_ context.Context, orderID id.ID) ([]Line, error) {
	return append([]Line(nil), r.lines[orderID]...), nil
}

func (r *memOrderRepo) SaveLines(_ context.Context, orderID id.ID, lines []Line) error {
	r.lines[orderID] = append([]Line(nil), lines...)
	return nil
}

func (r *memOrderRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*Order], error) {
	var items []*Order
	for _, o := range r.orders {
		items = append(items, o)
	}
	return domain.ListResult[*Order]{Items: items, TotalCount: int64(len(items))}, nil
}

type stubPricer struct {
	settings *pricing.Settings
	err      error
}

func (p stubPricer) SettingsFor(_ context.Context, _ id.ID) (*pricing.Settings, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.settings, nil
}

type ledgerCall struct {
	storeID id.ID
	amount  types.Money
	memo    string
}

type recordingSales struct {
	sales       []ledgerCall
	corrections []ledgerCall
	returns     []ledgerCall
	failSale    bool
}

func (s *recordingSales) RecordSale(_ context.Context, storeID id.ID, amount types.Money, _ *id.ID, orderNo string) (ledger.Entry, error) {
	if s.failSale {
		return ledger.Entry{}, apperror.NewInvalidAmount(amount)
	}
	s.sales = append(s.sales, ledgerCall{storeID: storeID, amount: amount, memo: orderNo})
	return ledger.Entry{Amount: amount}, nil
}

func (s *recordingSales) CorrectSale(_ context.Context, storeID id.ID, delta types.Money, _ *id.ID, memo string) (ledger.Entry, error) {
	s.corrections = append(s.corrections, ledgerCall{storeID: storeID, amount: delta, memo: memo})
	return ledger.Entry{Amount: delta}, nil
}

func (s *recordingSales) RecordReturn(_ context.Context, storeID id.ID, amount types.Money, _ *id.ID, memo string) (ledger.Entry, error) {
	s.returns = append(s.returns, ledgerCall{storeID: storeID, amount: amount, memo: memo})
	return ledger.Entry{Amount: -amount}, nil
}

type stockMove struct {
	variantID id.ID
	quantity  int64
	kind      ledger.Kind
}

type recordingStock struct {
	moves       []stockMove
	failVariant id.ID
}

func (s *recordingStock) RecordMovement(_ context.Context, variantID id.ID, quantity int64, kind ledger.Kind, _ string, _ *id.ID, _ string) (ledger.Entry, error) {
	if variantID == s.failVariant {
		return ledger.Entry{}, apperror.NewInsufficientStock(variantID.String(), -quantity, 0)
	}
	s.moves = append(s.moves, stockMove{variantID: variantID, quantity: quantity, kind: kind})
	return ledger.Entry{Amount: quantity}, nil
}

type stubProducts map[id.ID]*product.Product

func (s stubProducts) GetMany(_ context.Context, ids []id.ID) ([]*product.Product, error) {
	var out []*product.Product
	for _, pid := range ids {
		if p, ok := s[pid]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubVariants map[id.ID]*product.Variant

func (s stubVariants) GetByID(_ context.Context, variantID id.ID) (*product.Variant, error) {
	v, ok := s[variantID]
	if !ok {
		return nil, apperror.NewNotFound("variant", variantID.String())
	}
	return v, nil
}

// fakeNumbers hands out sequential order numbers without a sequence table.
func fakeNumbers() *numerator.MockGenerator {
	var mu sync.Mutex
	var n int64
	return &numerator.MockGenerator{
		GetNextNumberFunc: func(_ context.Context, cfg numerator.Config, _ *numerator.Options, period time.Time) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("%s-%s-%05d", cfg.Prefix, period.Format("2006"), n), nil
		},
	}
}

type fixture struct {
	svc   *Service
	repo  *memOrderRepo
	sales *recordingSales
	stock *recordingStock

	storeID      id.ID
	varA, varB   *product.Variant
	prodA, prodB *product.Product
}

// newFixture wires a store with a 10% base discount, product A priced
// off the base rate (1000 -> 900) and product B on a special price of
// 450.
func newFixture() *fixture {
	brandID := id.New()
	prodA := product.NewProduct("PRD-001", "CR-39 1.56", brandID, 1000)
	prodB := product.NewProduct("PRD-002", "Poly 1.59", brandID, 2000)
	varA := product.NewVariant(prodA.ID, types.Diopter(-125), types.Diopter(-50))
	varB := product.NewVariant(prodB.ID, types.Diopter(200), types.Diopter(0))

	storeID := id.New()
	settings := &pricing.Settings{
		StoreID:          storeID,
		BaseDiscountRate: types.NewRate("0.10"),
		SpecialPrices:    map[id.ID]types.Money{prodB.ID: 450},
	}

	f := &fixture{
		repo:    newMemOrderRepo(),
		sales:   &recordingSales{},
		stock:   &recordingStock{},
		storeID: storeID,
		varA:    varA,
		varB:    varB,
		prodA:   prodA,
		prodB:   prodB,
	}
	f.svc = NewService(
		f.repo,
		stubPricer{settings: settings},
		f.sales,
		f.stock,
		stubProducts{prodA.ID: prodA, prodB.ID: prodB},
		stubVariants{varA.ID: varA, varB.ID: varB},
		fakeNumbers(),
		passthroughTx{},
	)
	return f
}

func TestCreate_PricesLinesAndRecordsSale(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.storeID, []CartItem{
		{VariantID: f.varA.ID, Quantity: 2},
		{VariantID: f.varB.ID, Quantity: 1},
	})
	require.NoError(t, err)

	require.Len(t, order.Lines, 2)
	assert.Equal(t, int64(900), order.Lines[0].UnitPrice)
	assert.Equal(t, pricing.RuleBase, order.Lines[0].AppliedRule)
	assert.Equal(t, int64(450), order.Lines[1].UnitPrice)
	assert.Equal(t, pricing.RuleSpecial, order.Lines[1].AppliedRule)
	assert.Equal(t, int64(2250), order.TotalAmount)
	assert.Equal(t, StatusPending, order.Status)
	assert.True(t, strings.HasPrefix(order.Number, "ORD-"))

	// Sale entry carries the full order total.
	require.Len(t, f.sales.sales, 1)
	assert.Equal(t, f.storeID, f.sales.sales[0].storeID)
	assert.Equal(t, int64(2250), f.sales.sales[0].amount)

	// Order and lines persisted.
	saved, err := f.svc.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, saved.Lines, 2)
}

func TestCreate_ValidatesCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.storeID, nil)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = f.svc.Create(ctx, f.storeID, []CartItem{{VariantID: f.varA.ID, Quantity: 0}})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = f.svc.Create(ctx, f.storeID, []CartItem{{VariantID: id.New(), Quantity: 1}})
	assert.True(t, apperror.IsNotFound(err))

	f.varA.Active = false
	_, err = f.svc.Create(ctx, f.storeID, []CartItem{{VariantID: f.varA.ID, Quantity: 1}})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestCreate_UnknownStoreFailsPricing(t *testing.T) {
	f := newFixture()
	f.svc.pricer = stubPricer{err: apperror.NewStoreNotFound(nil)}

	_, err := f.svc.Create(context.Background(), f.storeID, []CartItem{
		{VariantID: f.varA.ID, Quantity: 1},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeStoreNotFound))
}

func TestCreate_SaleFailureAbortsOrder(t *testing.T) {
	f := newFixture()
	f.sales.failSale = true

	_, err := f.svc.Create(context.Background(), f.storeID, []CartItem{
		{VariantID: f.varA.ID, Quantity: 1},
	})
	require.Error(t, err)
}

func TestLifecycle_ConfirmShipDeliver(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.storeID, []CartItem{
		{VariantID: f.varA.ID, Quantity: 2},
		{VariantID: f.varB.ID, Quantity: 3},
	})
	require.NoError(t, err)

	order, err = f.svc.Confirm(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, order.Status)
	assert.Empty(t, f.stock.moves)

	// Shipping writes one negative movement per line.
	order, err = f.svc.Ship(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, order.Status)
	require.Len(t, f.stock.moves, 2)
	assert.Equal(t, f.varA.ID, f.stock.moves[0].variantID)
	assert.Equal(t, int64(-2), f.stock.moves[0].quantity)
	assert.Equal(t, int64(-3), f.stock.moves[1].quantity)

	order, err = f.svc.Deliver(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, order.Status)
	require.NotNil(t, order.DeliveredAt)

	// Delivered is terminal.
	_, err = f.svc.Confirm(ctx, order.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition))
}

func TestShip_RequiresConfirmed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.storeID, []CartItem{{VariantID: f.varA.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = f.svc.Ship(ctx, order.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition))
}

func TestShip_InsufficientStockAborts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.storeID, []CartItem{
		{VariantID: f.varA.ID, Quantity: 1},
		{VariantID: f.varB.ID, Quantity: 5},
	})
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, order.ID)
	require.NoError(t, err)

	f.stock.failVariant = f.varB.ID
	_, err = f.svc.Ship(ctx, order.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestCancel_ReversesSale(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.storeID, []CartItem{{VariantID: f.varA.ID, Quantity: 2}})
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, order.ID, "")
	assert.True(t, apperror.IsCode(err, apperror.CodeMissingReason))

	order, err = f.svc.Cancel(ctx, order.ID, "store closed the account")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, order.Status)
	require.NotNil(t, order.CancelledAt)

	// The reversal lands as a return entry, not a sale correction.
	assert.Empty(t, f.sales.corrections)
	require.Len(t, f.sales.returns, 1)
	assert.Equal(t, int64(1800), f.sales.returns[0].amount)
	assert.Contains(t, f.sales.returns[0].memo, "store closed the account")
}

func TestCancel_ShippedOrderRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.storeID, []CartItem{{VariantID: f.varA.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, order.ID)
	require.NoError(t, err)
	_, err = f.svc.Ship(ctx, order.ID)
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, order.ID, "changed mind")
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition))
	assert.Empty(t, f.sales.corrections)
	assert.Empty(t, f.sales.returns)
}

func TestUpdateLineQuantity_CorrectsReceivable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.storeID, []CartItem{{VariantID: f.varA.ID, Quantity: 2}})
	require.NoError(t, err)
	lineID := order.Lines[0].LineID

	// 2 -> 3 at the frozen price of 900: receivable grows by 900.
	order, err = f.svc.UpdateLineQuantity(ctx, order.ID, lineID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2700), order.TotalAmount)
	require.Len(t, f.sales.corrections, 1)
	assert.Equal(t, int64(900), f.sales.corrections[0].amount)

	_, err = f.svc.UpdateLineQuantity(ctx, order.ID, lineID, 0)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = f.svc.UpdateLineQuantity(ctx, order.ID, id.New(), 1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRemoveLine(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.storeID, []CartItem{
		{VariantID: f.varA.ID, Quantity: 2},
		{VariantID: f.varB.ID, Quantity: 1},
	})
	require.NoError(t, err)

	order, err = f.svc.RemoveLine(ctx, order.ID, order.Lines[1].LineID)
	require.NoError(t, err)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, 1, order.Lines[0].LineNo)
	assert.Equal(t, int64(1800), order.TotalAmount)

	require.Len(t, f.sales.corrections, 1)
	assert.Equal(t, int64(-450), f.sales.corrections[0].amount)

	// The last line cannot be removed.
	_, err = f.svc.RemoveLine(ctx, order.ID, order.Lines[0].LineID)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestEditLines_FrozenAfterShipping(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.storeID, []CartItem{{VariantID: f.varA.ID, Quantity: 1}})
	require.NoError(t, err)
	lineID := order.Lines[0].LineID

	_, err = f.svc.Confirm(ctx, order.ID)
	require.NoError(t, err)
	_, err = f.svc.Ship(ctx, order.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateLineQuantity(ctx, order.ID, lineID, 5)
	assert.True(t, apperror.IsCode(err, apperror.CodeBusinessRule))
}
