package pricing

import (
	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/core/types"
)

// AppliedRule names the layer that produced a price.
type AppliedRule string

const (
	RuleSpecial AppliedRule = "special"
	RuleProduct AppliedRule = "product"
	RuleBrand   AppliedRule = "brand"
	RuleBase    AppliedRule = "base"
)

// Input is the product data the resolver needs. Kept as a small value
// type so callers can price from a loaded Product or from order lines
// without dragging in the catalog package.
type Input struct {
	ProductID id.ID
	BrandID   id.ID
	ListPrice types.Money
}

// Result is a resolved price with the rule that produced it.
type Result struct {
	UnitPrice   types.Money `json:"unitPrice"`
	AppliedRule AppliedRule `json:"appliedRule"`
}

// rule is one layer in the precedence chain. It either claims the
// product and returns a price, or passes.
type rule interface {
	apply(s *Settings, p Input) (types.Money, bool)
}

type specialPriceRule struct{}

func (specialPriceRule) apply(s *Settings, p Input) (types.Money, bool) {
	price, ok := s.SpecialPrices[p.ProductID]
	return price, ok
}

type productDiscountRule struct{}

func (productDiscountRule) apply(s *Settings, p Input) (types.Money, bool) {
	rate, ok := s.ProductDiscounts[p.ProductID]
	if !ok {
		return 0, false
	}
	return types.DiscountedBy(p.ListPrice, rate), true
}

type brandDiscountRule struct{}

func (brandDiscountRule) apply(s *Settings, p Input) (types.Money, bool) {
	rate, ok := s.BrandDiscounts[p.BrandID]
	if !ok {
		return 0, false
	}
	return types.DiscountedBy(p.ListPrice, rate), true
}

type baseDiscountRule struct{}

func (baseDiscountRule) apply(s *Settings, p Input) (types.Money, bool) {
	return types.DiscountedBy(p.ListPrice, s.BaseDiscountRate), true
}

// chain is evaluated in order; the first rule that claims the product
// wins. The base rule always claims, so the chain cannot fall through.
var chain = []struct {
	name AppliedRule
	rule rule
}{
	{RuleSpecial, specialPriceRule{}},
	{RuleProduct, productDiscountRule{}},
	{RuleBrand, brandDiscountRule{}},
	{RuleBase, baseDiscountRule{}},
}

// Resolve computes the effective unit price for one product.
// Pure: no I/O, deterministic for identical inputs.
func Resolve(settings *Settings, p Input) (Result, error) {
	if settings == nil {
		return Result{}, apperror.NewStoreNotFound(nil)
	}
	if p.ListPrice <= 0 {
		// A special price may still be sellable without a list price.
		if price, ok := (specialPriceRule{}).apply(settings, p); ok {
			return Result{UnitPrice: price, AppliedRule: RuleSpecial}, nil
		}
		return Result{}, apperror.NewInvalidProduct(p.ProductID.String(), "missing list price")
	}

	for _, layer := range chain {
		if price, ok := layer.rule.apply(settings, p); ok {
			return Result{UnitPrice: price, AppliedRule: layer.name}, nil
		}
	}

	// Unreachable: base rule always claims.
	return Result{}, apperror.NewInvalidProduct(p.ProductID.String(), "no pricing rule matched")
}

// ResolveMany prices each product independently against one snapshot.
// Exists purely to amortize the settings load across a bulk request.
func ResolveMany(settings *Settings, products []Input) (map[id.ID]Result, error) {
	results := make(map[id.ID]Result, len(products))
	for _, p := range products {
		r, err := Resolve(settings, p)
		if err != nil {
			return nil, err
		}
		results[p.ProductID] = r
	}
	return results, nil
}
