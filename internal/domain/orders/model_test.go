package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/domain/pricing"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusConfirmed, StatusShipped, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestTransition_StampsTimestamps(t *testing.T) {
	o := NewOrder(id.New())
	o.AddLine(id.New(), id.New(), 1, pricing.Result{UnitPrice: 100, AppliedRule: pricing.RuleBase})

	require.NoError(t, o.Transition(StatusConfirmed))
	require.NotNil(t, o.ConfirmedAt)
	assert.Nil(t, o.ShippedAt)

	require.NoError(t, o.Transition(StatusShipped))
	require.NotNil(t, o.ShippedAt)

	require.NoError(t, o.Transition(StatusDelivered))
	require.NotNil(t, o.DeliveredAt)

	err := o.Transition(StatusCancelled)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition))
}

func TestRecalculateTotal(t *testing.T) {
	o := NewOrder(id.New())
	o.AddLine(id.New(), id.New(), 2, pricing.Result{UnitPrice: 900, AppliedRule: pricing.RuleBrand})
	o.AddLine(id.New(), id.New(), 3, pricing.Result{UnitPrice: 450, AppliedRule: pricing.RuleSpecial})

	assert.Equal(t, int64(3150), o.TotalAmount)

	o.Lines[0].Quantity = 1
	o.RecalculateTotal()
	assert.Equal(t, int64(2250), o.TotalAmount)
	assert.Equal(t, int64(900), o.Lines[0].Amount)
}

func TestOrderValidate(t *testing.T) {
	ctx := context.Background()

	o := NewOrder(id.Nil())
	o.AddLine(id.New(), id.New(), 1, pricing.Result{UnitPrice: 100})
	assert.True(t, apperror.IsCode(o.Validate(ctx), apperror.CodeValidation))

	o = NewOrder(id.New())
	assert.True(t, apperror.IsCode(o.Validate(ctx), apperror.CodeValidation))

	o.AddLine(id.New(), id.New(), 1, pricing.Result{UnitPrice: 100})
	require.NoError(t, o.Validate(ctx))

	o.Lines[0].Quantity = 0
	assert.True(t, apperror.IsCode(o.Validate(ctx), apperror.CodeValidation))
}

func TestEditable(t *testing.T) {
	o := NewOrder(id.New())
	assert.True(t, o.Editable())

	o.Status = StatusConfirmed
	assert.True(t, o.Editable())

	o.Status = StatusShipped
	assert.False(t, o.Editable())

	o.Status = StatusCancelled
	assert.False(t, o.Editable())
}
