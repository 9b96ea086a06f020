package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/restro-pos/billing"
	"github.com/ray-remotestate/restro-pos/events"
	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/policy"
	"github.com/ray-remotestate/restro-pos/projections"
	"github.com/ray-remotestate/restro-pos/store"
)

type BillService struct {
	store  store.Store
	events events.Publisher
	calc   *billing.Calculator
	now    func() time.Time
}

// Generate turns a Completed order into a bill. An order is billed at most once;
// the check is a read before the write, not a storage constraint.
func (s *BillService) Generate(ctx context.Context, actor models.Actor, orderID uuid.UUID, rate decimal.Decimal) (*models.Bill, error) {
	if err := authorize(actor, policy.GenerateBill); err != nil {
		return nil, err
	}
	if orderID == uuid.Nil {
		return nil, invalid("order_id", "is required")
	}
	order, err := s.store.GetOrder(ctx, actor.BusinessID, orderID)
	if err != nil {
		return nil, fromStore(err, "get order")
	}
	if order.Status != models.StatusCompleted {
		return nil, invalid("order_id", fmt.Sprintf("order is %s; only Completed orders can be billed", order.Status))
	}

	existing, err := s.store.ListBills(ctx, actor.BusinessID, store.BillFilter{OrderID: orderID})
	if err != nil {
		return nil, fromStore(err, "list bills")
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: order %s already has bill %s", ErrConflict, orderID, existing[0].ID)
	}

	amounts, err := s.calc.ForOrder(order, rate)
	if errors.Is(err, billing.ErrUnsupportedRate) {
		return nil, invalid("tax_rate", err.Error())
	}
	if err != nil {
		return nil, err
	}

	bill := &models.Bill{
		ID:          uuid.New(),
		BusinessID:  actor.BusinessID,
		OrderID:     order.ID,
		TableNumber: order.TableNumber,
		Items:       order.Items.Clone(),
		Subtotal:    amounts.Subtotal,
		TaxRate:     amounts.TaxRate,
		TaxAmount:   amounts.TaxAmount,
		Total:       amounts.Total,
		CreatedBy:   actor.UserID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateBill(ctx, bill); err != nil {
		return nil, fromStore(err, "create bill")
	}
	events.Notify(ctx, s.events, events.Bills, events.Created, actor.BusinessID, bill.ID)
	return bill, nil
}

// Delete removes a bill. The order it came from is left as it is.
func (s *BillService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if err := authorize(actor, policy.DeleteBill); err != nil {
		return err
	}
	if err := s.store.DeleteBill(ctx, actor.BusinessID, id); err != nil {
		return fromStore(err, "delete bill")
	}
	events.Notify(ctx, s.events, events.Bills, events.Deleted, actor.BusinessID, id)
	return nil
}

func (s *BillService) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Bill, error) {
	if err := authorize(actor, policy.ViewBills); err != nil {
		return nil, err
	}
	bill, err := s.store.GetBill(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, fromStore(err, "get bill")
	}
	return bill, nil
}

func (s *BillService) List(ctx context.Context, actor models.Actor, f store.BillFilter) ([]models.Bill, error) {
	if err := authorize(actor, policy.ViewBills); err != nil {
		return nil, err
	}
	bills, err := s.store.ListBills(ctx, actor.BusinessID, f)
	if err != nil {
		return nil, fromStore(err, "list bills")
	}
	return bills, nil
}

// Billable lists Completed orders that have no bill yet.
func (s *BillService) Billable(ctx context.Context, actor models.Actor) ([]models.Order, error) {
	if err := authorize(actor, policy.GenerateBill); err != nil {
		return nil, err
	}
	orders, err := s.store.ListOrders(ctx, actor.BusinessID, store.OrderFilter{
		Statuses: []models.OrderStatus{models.StatusCompleted},
	})
	if err != nil {
		return nil, fromStore(err, "list orders")
	}
	bills, err := s.store.ListBills(ctx, actor.BusinessID, store.BillFilter{})
	if err != nil {
		return nil, fromStore(err, "list bills")
	}
	return projections.BillableOrders(orders, bills), nil
}

func (s *BillService) TaxRates() []decimal.Decimal {
	return s.calc.Rates()
}
