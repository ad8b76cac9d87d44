package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/core/types"
)

func testSettings() *Settings {
	return &Settings{
		StoreID:          id.New(),
		BaseDiscountRate: types.NewRate("0.05"),
		BrandDiscounts:   map[id.ID]types.Rate{},
		ProductDiscounts: map[id.ID]types.Rate{},
		SpecialPrices:    map[id.ID]types.Money{},
	}
}

func TestResolve_Precedence(t *testing.T) {
	s := testSettings()
	productID := id.New()
	brandID := id.New()
	input := Input{ProductID: productID, BrandID: brandID, ListPrice: 10000}

	// All four layers set: special wins.
	s.SpecialPrices[productID] = 7777
	s.ProductDiscounts[productID] = types.NewRate("0.2")
	s.BrandDiscounts[brandID] = types.NewRate("0.1")

	r, err := Resolve(s, input)
	require.NoError(t, err)
	assert.Equal(t, int64(7777), r.UnitPrice)
	assert.Equal(t, RuleSpecial, r.AppliedRule)

	// Remove special: product discount takes over.
	delete(s.SpecialPrices, productID)
	r, err = Resolve(s, input)
	require.NoError(t, err)
	assert.Equal(t, int64(8000), r.UnitPrice)
	assert.Equal(t, RuleProduct, r.AppliedRule)

	// Remove product discount: brand discount takes over.
	delete(s.ProductDiscounts, productID)
	r, err = Resolve(s, input)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), r.UnitPrice)
	assert.Equal(t, RuleBrand, r.AppliedRule)

	// Remove brand discount: base rate remains.
	delete(s.BrandDiscounts, brandID)
	r, err = Resolve(s, input)
	require.NoError(t, err)
	assert.Equal(t, int64(9500), r.UnitPrice)
	assert.Equal(t, RuleBase, r.AppliedRule)
}

func TestResolve_BrandThenProduct(t *testing.T) {
	s := testSettings()
	s.BaseDiscountRate = types.NewRate("0")
	productID := id.New()
	brandID := id.New()
	input := Input{ProductID: productID, BrandID: brandID, ListPrice: 10000}

	s.BrandDiscounts[brandID] = types.NewRate("0.1")
	r, err := Resolve(s, input)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), r.UnitPrice)
	assert.Equal(t, RuleBrand, r.AppliedRule)

	// A product discount for the same product outranks the brand rate.
	s.ProductDiscounts[productID] = types.NewRate("0.2")
	r, err = Resolve(s, input)
	require.NoError(t, err)
	assert.Equal(t, int64(8000), r.UnitPrice)
	assert.Equal(t, RuleProduct, r.AppliedRule)
}

func TestResolve_RoundsToWholeUnits(t *testing.T) {
	s := testSettings()
	s.BaseDiscountRate = types.NewRate("0.333")

	r, err := Resolve(s, Input{ProductID: id.New(), BrandID: id.New(), ListPrice: 9999})
	require.NoError(t, err)
	// 9999 * 0.667 = 6669.333 -> 6669
	assert.Equal(t, int64(6669), r.UnitPrice)
}

func TestResolve_Deterministic(t *testing.T) {
	s := testSettings()
	brandID := id.New()
	s.BrandDiscounts[brandID] = types.NewRate("0.15")
	input := Input{ProductID: id.New(), BrandID: brandID, ListPrice: 12345}

	first, err := Resolve(s, input)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Resolve(s, input)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResolve_MissingListPrice(t *testing.T) {
	s := testSettings()
	productID := id.New()

	_, err := Resolve(s, Input{ProductID: productID, BrandID: id.New(), ListPrice: 0})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidProduct))

	// A special price makes the product sellable even without a list price.
	s.SpecialPrices[productID] = 5000
	r, err := Resolve(s, Input{ProductID: productID, BrandID: id.New(), ListPrice: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), r.UnitPrice)
	assert.Equal(t, RuleSpecial, r.AppliedRule)
}

func TestResolve_NilSettings(t *testing.T) {
	_, err := Resolve(nil, Input{ProductID: id.New(), ListPrice: 100})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeStoreNotFound))
}

func TestResolveMany_IndependentPerProduct(t *testing.T) {
	s := testSettings()
	s.BaseDiscountRate = types.NewRate("0")
	brandID := id.New()
	discounted := id.New()
	plain := id.New()
	s.ProductDiscounts[discounted] = types.NewRate("0.5")

	results, err := ResolveMany(s, []Input{
		{ProductID: discounted, BrandID: brandID, ListPrice: 1000},
		{ProductID: plain, BrandID: brandID, ListPrice: 1000},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, int64(500), results[discounted].UnitPrice)
	assert.Equal(t, RuleProduct, results[discounted].AppliedRule)
	assert.Equal(t, int64(1000), results[plain].UnitPrice)
	assert.Equal(t, RuleBase, results[plain].AppliedRule)
}

func TestResolveMany_FailsWholeBatchOnInvalidProduct(t *testing.T) {
	s := testSettings()

	_, err := ResolveMany(s, []Input{
		{ProductID: id.New(), BrandID: id.New(), ListPrice: 1000},
		{ProductID: id.New(), BrandID: id.New(), ListPrice: 0},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidProduct))
}
