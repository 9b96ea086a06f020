package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/restro-pos/billing"
	"github.com/ray-remotestate/restro-pos/events"
	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/policy"
	"github.com/ray-remotestate/restro-pos/store"
)

const maxLineQuantity = 99

type CartLine struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Quantity   int       `json:"quantity"`
}

type CreateOrderInput struct {
	TableNumber int        `json:"table_number"`
	Items       []CartLine `json:"items"`
}

func (in *CreateOrderInput) validate() error {
	if in.TableNumber <= 0 {
		return invalid("table_number", "select a table")
	}
	if len(in.Items) == 0 {
		return invalid("items", "cart is empty")
	}
	for i, line := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		if line.MenuItemID == uuid.Nil {
			return invalid(field+".menu_item_id", "is required")
		}
		if line.Quantity < 1 || line.Quantity > maxLineQuantity {
			return invalid(field+".quantity", fmt.Sprintf("must be between 1 and %d", maxLineQuantity))
		}
	}
	return nil
}

type OrderService struct {
	store     store.Store
	events    events.Publisher
	occupancy *Occupancy
	now       func() time.Time
}

// Create places a Pending order for a table and marks the table Occupied.
func (s *OrderService) Create(ctx context.Context, actor models.Actor, in CreateOrderInput) (*models.Order, error) {
	if err := authorize(actor, policy.CreateOrder); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.GetTableByNumber(ctx, actor.BusinessID, in.TableNumber); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, invalid("table_number", fmt.Sprintf("table %d does not exist", in.TableNumber))
		}
		return nil, fromStore(err, "get table")
	}

	items := make(models.LineItems, 0, len(in.Items))
	for i, line := range in.Items {
		// Prices are snapshotted from the store, never the menu cache.
		menuItem, err := s.store.GetMenuItem(ctx, actor.BusinessID, line.MenuItemID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, invalid(fmt.Sprintf("items[%d].menu_item_id", i), "unknown menu item")
		}
		if err != nil {
			return nil, fromStore(err, "get menu item")
		}
		if !menuItem.IsAvailable {
			return nil, invalid(fmt.Sprintf("items[%d]", i), menuItem.Name+" is not available")
		}
		items = append(items, models.LineItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			UnitPrice:  menuItem.Price,
			Quantity:   line.Quantity,
			LineTotal:  billing.LineTotal(menuItem.Price, line.Quantity),
		})
	}

	now := s.now().UTC()
	order := &models.Order{
		ID:            uuid.New(),
		BusinessID:    actor.BusinessID,
		TableNumber:   in.TableNumber,
		Items:         items,
		TotalAmount:   items.Sum(),
		Status:        models.StatusPending,
		CreatedBy:     actor.UserID,
		CreatedByName: actor.Name,
		CreatedByRole: actor.Role,
		Transitions: models.Transitions{
			models.StatusPending: transitionBy(actor, now),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, fromStore(err, "create order")
	}
	events.Notify(ctx, s.events, events.Orders, events.Created, actor.BusinessID, order.ID)

	if err := s.occupancy.OrderPlaced(ctx, actor.BusinessID, order.TableNumber); err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Error("failed to mark table occupied")
	}
	return order, nil
}

// Advance moves an order one step along models.OrderSequence if the actor's role allows it.
// When expected is set, the order must currently be in that status.
func (s *OrderService) Advance(ctx context.Context, actor models.Actor, id uuid.UUID, expected models.OrderStatus) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, fromStore(err, "get order")
	}
	if expected != "" && order.Status != expected {
		return nil, fmt.Errorf("%w: order is %s, not %s", ErrConflict, order.Status, expected)
	}

	next, err := policy.NextStatus(actor.Role, order.Status)
	switch {
	case errors.Is(err, policy.ErrNotPermitted):
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	case errors.Is(err, policy.ErrTerminal):
		return nil, fmt.Errorf("%w: %v", ErrConflict, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	tr := transitionBy(actor, s.now().UTC())
	if err := s.store.AdvanceOrder(ctx, actor.BusinessID, id, order.Status, next, tr); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, fmt.Errorf("%w: order was updated by someone else", ErrConflict)
		}
		return nil, fromStore(err, "advance order")
	}
	if order.Transitions == nil {
		order.Transitions = make(models.Transitions)
	}
	order.Status = next
	order.Transitions[next] = tr
	order.UpdatedAt = tr.At

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"status":   next,
		"actor":    actor.UserID,
		"role":     actor.Role,
	}).Info("order advanced")
	events.Notify(ctx, s.events, events.Orders, events.Updated, actor.BusinessID, order.ID)

	if next == models.StatusCompleted {
		if _, err := s.occupancy.OrderCompleted(ctx, actor.BusinessID, order.TableNumber); err != nil {
			logrus.WithError(err).WithField("order_id", order.ID).Error("failed to release table")
		}
	}
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error) {
	if err := authorize(actor, policy.ViewOrders); err != nil {
		return nil, err
	}
	order, err := s.store.GetOrder(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, fromStore(err, "get order")
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, actor models.Actor, f store.OrderFilter) ([]models.Order, error) {
	if err := authorize(actor, policy.ViewOrders); err != nil {
		return nil, err
	}
	orders, err := s.store.ListOrders(ctx, actor.BusinessID, f)
	if err != nil {
		return nil, fromStore(err, "list orders")
	}
	return orders, nil
}

func transitionBy(actor models.Actor, at time.Time) models.Transition {
	return models.Transition{
		At:     at,
		By:     actor.UserID,
		ByName: actor.Name,
		Role:   actor.Role,
	}
}
