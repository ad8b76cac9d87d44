package orders

import (
	"context"
	"fmt"
	"time"

	"opticore/internal/core/apperror"
	"opticore/internal/core/id"
	"opticore/internal/core/tx"
	"opticore/internal/core/types"
	"opticore/internal/domain"
	"opticore/internal/domain/audit"
	"opticore/internal/domain/catalogs/product"
	"opticore/internal/domain/inventory"
	"opticore/internal/domain/ledger"
	"opticore/internal/domain/pricing"
	"opticore/pkg/logger"
	"opticore/internal/core/numerator"
)

// Pricer supplies the discount settings snapshot for a store.
// Satisfied by pricing.Service.
type Pricer interface {
	SettingsFor(ctx context.Context, storeID id.ID) (*pricing.Settings, error)
}

// SalesLedger is the receivables surface the order flow needs.
// Satisfied by receivables.Service.
type SalesLedger interface {
	RecordSale(ctx context.Context, storeID id.ID, amount types.Money, orderID *id.ID, orderNo string) (ledger.Entry, error)
	CorrectSale(ctx context.Context, storeID id.ID, delta types.Money, orderID *id.ID, memo string) (ledger.Entry, error)
	RecordReturn(ctx context.Context, storeID id.ID, amount types.Money, orderID *id.ID, memo string) (ledger.Entry, error)
}

// StockLedger is the inventory surface the order flow needs.
// Satisfied by inventory.Service.
type StockLedger interface {
	RecordMovement(ctx context.Context, variantID id.ID, quantity int64, kind ledger.Kind, reason string, refID *id.ID, refType string) (ledger.Entry, error)
}

// ProductLoader loads product pricing data in bulk.
type ProductLoader interface {
	GetMany(ctx context.Context, ids []id.ID) ([]*product.Product, error)
}

// VariantLoader resolves cart variants.
type VariantLoader interface {
	GetByID(ctx context.Context, id id.ID) (*product.Variant, error)
}

// CartItem is one requested position before pricing.
type CartItem struct {
	VariantID id.ID `json:"variantId"`
	Quantity  int64 `json:"quantity"`
}

// Service orchestrates pricing, persistence and both ledgers for the
// order lifecycle.
type Service struct {
	repo        Repository
	pricer      Pricer
	receivables SalesLedger
	stock       StockLedger
	products    ProductLoader
	variants    VariantLoader
	numerator   numerator.Generator
	txManager   tx.Manager
}

// NewService creates an order service.
func NewService(
	repo Repository,
	pricer Pricer,
	receivables SalesLedger,
	stock StockLedger,
	products ProductLoader,
	variants VariantLoader,
	num numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:        repo,
		pricer:      pricer,
		receivables: receivables,
		stock:       stock,
		products:    products,
		variants:    variants,
		numerator:   num,
		txManager:   txManager,
	}
}

// Create prices a cart, persists the order with its lines and records
// the sale on the store's receivable, all in one transaction. Any
// pricing failure aborts the whole order: no partially priced orders.
func (s *Service) Create(ctx context.Context, storeID id.ID, cart []CartItem) (*Order, error) {
	if len(cart) == 0 {
		return nil, apperror.NewValidation("cart is empty")
	}

	// Resolve variants to products and validate the cart shape.
	variants := make(map[id.ID]*product.Variant, len(cart))
	productIDs := make([]id.ID, 0, len(cart))
	seen := make(map[id.ID]bool)
	for i, item := range cart {
		if item.Quantity <= 0 {
			return nil, apperror.NewValidation("quantity must be positive").
				WithDetail("lineNo", i+1)
		}
		v, err := s.variants.GetByID(ctx, item.VariantID)
		if err != nil {
			return nil, apperror.NewNotFound("variant", item.VariantID.String())
		}
		if !v.Active {
			return nil, apperror.NewValidation("variant is not available for ordering").
				WithDetail("variant_id", item.VariantID.String())
		}
		variants[item.VariantID] = v
		if !seen[v.ProductID] {
			seen[v.ProductID] = true
			productIDs = append(productIDs, v.ProductID)
		}
	}

	prods, err := s.products.GetMany(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[id.ID]*product.Product, len(prods))
	for _, p := range prods {
		byID[p.ID] = p
	}

	// One settings snapshot prices every line.
	settings, err := s.pricer.SettingsFor(ctx, storeID)
	if err != nil {
		return nil, err
	}

	order := NewOrder(storeID)
	for _, item := range cart {
		v := variants[item.VariantID]
		p, ok := byID[v.ProductID]
		if !ok {
			return nil, apperror.NewNotFound("product", v.ProductID.String())
		}

		result, err := pricing.Resolve(settings, pricing.Input{
			ProductID: p.ID,
			BrandID:   p.BrandID,
			ListPrice: p.ListPrice,
		})
		if err != nil {
			return nil, err
		}

		order.AddLine(p.ID, v.ID, item.Quantity, result)
	}

	if err := order.Validate(ctx); err != nil {
		return nil, err
	}

	cfg := numerator.DefaultConfig("ORD")
	number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}
	order.Number = number
	audit.EnrichCreatedByDirect(ctx, &order.CreatedBy, &order.UpdatedBy)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := s.repo.SaveLines(ctx, order.ID, order.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		// The sale entry shares the order's transaction: an order
		// without its receivable entry must not exist.
		if _, err := s.receivables.RecordSale(ctx, storeID, order.TotalAmount, &order.ID, order.Number); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order created",
		"order_id", order.ID,
		"number", order.Number,
		"store_id", storeID,
		"total", order.TotalAmount,
		"lines", len(order.Lines),
	)

	return order, nil
}

// GetByID retrieves an order with lines.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	order.Lines = lines

	return order, nil
}

// List retrieves orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Order], error) {
	return s.repo.List(ctx, filter)
}

// Confirm moves a pending order to confirmed.
func (s *Service) Confirm(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.transition(ctx, orderID, StatusConfirmed, nil)
}

// Ship moves a confirmed order to shipped and writes the stock
// movements for every line. The transition and all movements share one
// transaction: an unshippable line (insufficient stock) aborts the
// whole shipment.
func (s *Service) Ship(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.transition(ctx, orderID, StatusShipped, func(ctx context.Context, order *Order) error {
		reason := "order " + order.Number + " shipped"
		for _, line := range order.Lines {
			_, err := s.stock.RecordMovement(ctx, line.VariantID, -line.Quantity, inventory.KindOut, reason, &order.ID, "order")
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Deliver moves a shipped order to delivered (terminal).
func (s *Service) Deliver(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.transition(ctx, orderID, StatusDelivered, nil)
}

// Cancel cancels a pending or confirmed order and reverses the sale
// on the store's receivable. Shipped orders cannot be cancelled; the
// goods come back through returns.
func (s *Service) Cancel(ctx context.Context, orderID id.ID, reason string) (*Order, error) {
	if reason == "" {
		return nil, apperror.NewMissingReason()
	}
	return s.transition(ctx, orderID, StatusCancelled, func(ctx context.Context, order *Order) error {
		if order.TotalAmount == 0 {
			return nil
		}
		memo := "order " + order.Number + " cancelled: " + reason
		_, err := s.receivables.RecordReturn(ctx, order.StoreID, order.TotalAmount, &order.ID, memo)
		return err
	})
}

// transition loads the order, applies the state change and the side
// effect inside one transaction.
func (s *Service) transition(ctx context.Context, orderID id.ID, to Status, sideEffect func(ctx context.Context, order *Order) error) (*Order, error) {
	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Transition(to); err != nil {
		return nil, err
	}
	audit.EnrichUpdatedByDirect(ctx, &order.UpdatedBy)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if sideEffect != nil {
			return sideEffect(ctx, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order transitioned",
		"order_id", order.ID,
		"number", order.Number,
		"status", order.Status,
	)

	return order, nil
}

// RemoveLine deletes one line from an editable order, recomputes the
// total and corrects the store's receivable by the difference. A line
// deletion without the matching ledger correction would break the
// receivable invariant, so both happen in one transaction.
func (s *Service) RemoveLine(ctx context.Context, orderID, lineID id.ID) (*Order, error) {
	return s.editLines(ctx, orderID, func(order *Order) error {
		idx := -1
		for i, line := range order.Lines {
			if line.LineID == lineID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return apperror.NewNotFound("order line", lineID.String())
		}
		if len(order.Lines) == 1 {
			return apperror.NewValidation("cannot remove the last line; cancel the order instead")
		}

		order.Lines = append(order.Lines[:idx], order.Lines[idx+1:]...)
		for i := range order.Lines {
			order.Lines[i].LineNo = i + 1
		}
		return nil
	}, "line removed")
}

// UpdateLineQuantity changes one line's quantity at its frozen unit
// price and corrects the receivable by the difference.
func (s *Service) UpdateLineQuantity(ctx context.Context, orderID, lineID id.ID, quantity int64) (*Order, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", quantity)
	}
	return s.editLines(ctx, orderID, func(order *Order) error {
		for i := range order.Lines {
			if order.Lines[i].LineID == lineID {
				order.Lines[i].Quantity = quantity
				return nil
			}
		}
		return apperror.NewNotFound("order line", lineID.String())
	}, "line quantity changed")
}

func (s *Service) editLines(ctx context.Context, orderID id.ID, edit func(order *Order) error, what string) (*Order, error) {
	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Editable() {
		return nil, apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"Order lines cannot be changed in status "+string(order.Status),
		).WithDetail("order_id", orderID.String())
	}

	oldTotal := order.TotalAmount
	if err := edit(order); err != nil {
		return nil, err
	}
	order.RecalculateTotal()
	order.Touch()
	audit.EnrichUpdatedByDirect(ctx, &order.UpdatedBy)
	delta := order.TotalAmount - oldTotal

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if err := s.repo.SaveLines(ctx, order.ID, order.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		if delta != 0 {
			memo := "order " + order.Number + ": " + what
			if _, err := s.receivables.CorrectSale(ctx, order.StoreID, delta, &order.ID, memo); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}
