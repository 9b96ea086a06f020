// Package store defines the persistence contract used by the services.
//
// Every query is scoped by business id. Implementations give no cross-record
// atomicity: each call is an independent write.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ray-remotestate/restro-pos/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict reports a unique-key clash or a failed status precondition.
	ErrConflict = errors.New("conflicting record")
)

type OrderFilter struct {
	Statuses    []models.OrderStatus
	TableNumber int
	CreatedFrom time.Time
	CreatedTo   time.Time
}

func (f OrderFilter) Match(o *models.Order) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if o.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.TableNumber != 0 && o.TableNumber != f.TableNumber {
		return false
	}
	return inRange(o.CreatedAt, f.CreatedFrom, f.CreatedTo)
}

type BillFilter struct {
	OrderID     uuid.UUID
	CreatedFrom time.Time
	CreatedTo   time.Time
}

func (f BillFilter) Match(b *models.Bill) bool {
	if f.OrderID != uuid.Nil && b.OrderID != f.OrderID {
		return false
	}
	return inRange(b.CreatedAt, f.CreatedFrom, f.CreatedTo)
}

type BookingFilter struct {
	Date        string
	Status      models.BookingStatus
	TableNumber int
}

func (f BookingFilter) Match(b *models.Booking) bool {
	if f.Date != "" && b.Date != f.Date {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	return f.TableNumber == 0 || b.TableNumber == f.TableNumber
}

// inRange treats zero bounds as open; to is exclusive.
func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

type Businesses interface {
	// RegisterBusiness writes a business and its owner together or not at all.
	RegisterBusiness(ctx context.Context, b *models.Business, owner *models.Staff) error
	GetBusiness(ctx context.Context, id uuid.UUID) (*models.Business, error)
}

type StaffStore interface {
	CreateStaff(ctx context.Context, s *models.Staff) error
	GetStaff(ctx context.Context, id uuid.UUID) (*models.Staff, error)
	GetStaffByEmail(ctx context.Context, email string) (*models.Staff, error)
	ListStaff(ctx context.Context, businessID uuid.UUID) ([]models.Staff, error)
	UpdateStaff(ctx context.Context, s *models.Staff) error
	DeleteStaff(ctx context.Context, businessID, id uuid.UUID) error
}

type Tables interface {
	CreateTable(ctx context.Context, t *models.Table) error
	GetTable(ctx context.Context, businessID, id uuid.UUID) (*models.Table, error)
	GetTableByNumber(ctx context.Context, businessID uuid.UUID, number int) (*models.Table, error)
	ListTables(ctx context.Context, businessID uuid.UUID) ([]models.Table, error)
	UpdateTable(ctx context.Context, t *models.Table) error
	SetTableStatus(ctx context.Context, businessID uuid.UUID, number int, status models.TableStatus) error
	DeleteTable(ctx context.Context, businessID, id uuid.UUID) error
}

type Menu interface {
	CreateMenuItem(ctx context.Context, m *models.MenuItem) error
	GetMenuItem(ctx context.Context, businessID, id uuid.UUID) (*models.MenuItem, error)
	ListMenuItems(ctx context.Context, businessID uuid.UUID) ([]models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, m *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, businessID, id uuid.UUID) error
}

type Orders interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, businessID, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, businessID uuid.UUID, f OrderFilter) ([]models.Order, error)
	// AdvanceOrder moves an order from one status to the next and records the
	// transition. It returns ErrConflict when the stored status is not from.
	AdvanceOrder(ctx context.Context, businessID, id uuid.UUID, from, to models.OrderStatus, tr models.Transition) error
}

type Bills interface {
	CreateBill(ctx context.Context, b *models.Bill) error
	GetBill(ctx context.Context, businessID, id uuid.UUID) (*models.Bill, error)
	ListBills(ctx context.Context, businessID uuid.UUID, f BillFilter) ([]models.Bill, error)
	DeleteBill(ctx context.Context, businessID, id uuid.UUID) error
}

type Bookings interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, businessID, id uuid.UUID) (*models.Booking, error)
	ListBookings(ctx context.Context, businessID uuid.UUID, f BookingFilter) ([]models.Booking, error)
	SetBookingStatus(ctx context.Context, businessID, id uuid.UUID, status models.BookingStatus, at time.Time) error
}

type Store interface {
	Businesses
	StaffStore
	Tables
	Menu
	Orders
	Bills
	Bookings
}
