package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/restro-pos/events"
	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/store"
)

// activeStatuses are every order status except Completed.
var activeStatuses = []models.OrderStatus{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusPreparing,
	models.StatusReady,
	models.StatusServed,
}

// Occupancy keeps Table.Status in step with orders and bookings.
//
// Each trigger reads what it needs and writes the table on its own; there is no
// lock or transaction spanning the read and the write, so two actors working on
// the same table at the same moment can leave it in the wrong state.
type Occupancy struct {
	store  store.Store
	events events.Publisher
}

func (o *Occupancy) set(ctx context.Context, businessID uuid.UUID, number int, status models.TableStatus) error {
	if err := o.store.SetTableStatus(ctx, businessID, number, status); err != nil {
		return fromStore(err, fmt.Sprintf("set table %d %s", number, status))
	}
	t, err := o.store.GetTableByNumber(ctx, businessID, number)
	if err == nil {
		events.Notify(ctx, o.events, events.Tables, events.Updated, businessID, t.ID)
	}
	return nil
}

// OrderPlaced marks the table Occupied.
func (o *Occupancy) OrderPlaced(ctx context.Context, businessID uuid.UUID, number int) error {
	return o.set(ctx, businessID, number, models.TableOccupied)
}

// OrderCompleted frees the table when no other order on it is still active.
func (o *Occupancy) OrderCompleted(ctx context.Context, businessID uuid.UUID, number int) (bool, error) {
	active, err := o.store.ListOrders(ctx, businessID, store.OrderFilter{
		Statuses:    activeStatuses,
		TableNumber: number,
	})
	if err != nil {
		return false, fromStore(err, "list active orders")
	}
	if len(active) > 0 {
		logrus.WithFields(logrus.Fields{
			"business_id":   businessID,
			"table_number":  number,
			"active_orders": len(active),
		}).Debug("table still has active orders")
		return false, nil
	}
	if err := o.set(ctx, businessID, number, models.TableAvailable); err != nil {
		return false, err
	}
	return true, nil
}

// BookingCreated marks the table Reserved.
func (o *Occupancy) BookingCreated(ctx context.Context, businessID uuid.UUID, number int) error {
	return o.set(ctx, businessID, number, models.TableReserved)
}

// BookingResolved frees the table without looking at other bookings or orders on it.
func (o *Occupancy) BookingResolved(ctx context.Context, businessID uuid.UUID, number int) error {
	return o.set(ctx, businessID, number, models.TableAvailable)
}
