package dbhelper

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/restro-pos/database"
	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/store"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := database.Connect(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

func seedBusiness(t *testing.T, s *Store) (*models.Business, *models.Staff) {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	owner := &models.Staff{
		ID:        uuid.New(),
		Email:     uuid.NewString() + "@example.com",
		Name:      "Owner",
		Role:      models.RoleOwner,
		Status:    models.StaffActive,
		Password:  "hash",
		CreatedAt: now,
	}
	b := &models.Business{ID: uuid.New(), Name: "Spice Route", Type: "restaurant", OwnerID: owner.ID, CreatedAt: now}
	owner.BusinessID = b.ID
	owner.CreatedBy = owner.ID
	require.NoError(t, s.RegisterBusiness(context.Background(), b, owner))
	return b, owner
}

func TestRegisterAndStaffLookup(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	b, owner := seedBusiness(t, s)

	got, err := s.GetStaffByEmail(ctx, owner.Email)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.BusinessID)

	dup := *owner
	dup.ID = uuid.New()
	err = s.CreateStaff(ctx, &dup)
	assert.ErrorIs(t, err, store.ErrConflict)

	_, err = s.GetStaff(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTableNumberUnique(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	b, _ := seedBusiness(t, s)

	table := &models.Table{ID: uuid.New(), BusinessID: b.ID, Number: 5, Capacity: 4, Status: models.TableAvailable, CreatedAt: time.Now()}
	require.NoError(t, s.CreateTable(ctx, table))

	again := *table
	again.ID = uuid.New()
	assert.ErrorIs(t, s.CreateTable(ctx, &again), store.ErrConflict)

	require.NoError(t, s.SetTableStatus(ctx, b.ID, 5, models.TableOccupied))
	got, err := s.GetTableByNumber(ctx, b.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, got.Status)
}

func TestAdvanceOrderCompareAndSet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	b, owner := seedBusiness(t, s)

	now := time.Now().UTC().Truncate(time.Microsecond)
	order := &models.Order{
		ID:          uuid.New(),
		BusinessID:  b.ID,
		TableNumber: 5,
		Items: models.LineItems{{
			MenuItemID: uuid.New(),
			Name:       "Paneer Tikka",
			UnitPrice:  decimal.NewFromInt(125),
			Quantity:   2,
			LineTotal:  decimal.NewFromInt(250),
		}},
		TotalAmount:   decimal.NewFromInt(250),
		Status:        models.StatusPending,
		CreatedBy:     owner.ID,
		CreatedByName: owner.Name,
		CreatedByRole: owner.Role,
		Transitions:   models.Transitions{models.StatusPending: {At: now, By: owner.ID, ByName: owner.Name, Role: owner.Role}},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, s.CreateOrder(ctx, order))

	tr := models.Transition{At: now.Add(time.Minute), By: owner.ID, ByName: owner.Name, Role: owner.Role}
	require.NoError(t, s.AdvanceOrder(ctx, b.ID, order.ID, models.StatusPending, models.StatusConfirmed, tr))
	assert.ErrorIs(t, s.AdvanceOrder(ctx, b.ID, order.ID, models.StatusPending, models.StatusConfirmed, tr), store.ErrConflict)
	assert.ErrorIs(t, s.AdvanceOrder(ctx, b.ID, uuid.New(), models.StatusPending, models.StatusConfirmed, tr), store.ErrNotFound)

	got, err := s.GetOrder(ctx, b.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.Len(t, got.Transitions, 2)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(250)))

	active, err := s.ListOrders(ctx, b.ID, store.OrderFilter{Statuses: []models.OrderStatus{models.StatusConfirmed}, TableNumber: 5})
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestBookingStatus(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	b, _ := seedBusiness(t, s)

	booking := &models.Booking{
		ID: uuid.New(), BusinessID: b.ID, CustomerName: "Asha", Date: "2026-03-14", Time: "19:30",
		PartySize: 4, TableNumber: 7, Status: models.BookingReserved, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, s.CreateBooking(ctx, booking))
	require.NoError(t, s.SetBookingStatus(ctx, b.ID, booking.ID, models.BookingCancelled, time.Now()))

	list, err := s.ListBookings(ctx, b.ID, store.BookingFilter{Date: "2026-03-14"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.BookingCancelled, list[0].Status)
}
