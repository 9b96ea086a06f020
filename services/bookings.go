package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/restro-pos/events"
	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/policy"
	"github.com/ray-remotestate/restro-pos/store"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type CreateBookingInput struct {
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	PartySize    int    `json:"party_size"`
	TableNumber  int    `json:"table_number"`
}

func (in *CreateBookingInput) validate() error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return invalid("customer_name", "is required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return invalid("phone", "is required")
	}
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return invalid("date", "must be YYYY-MM-DD")
	}
	if _, err := time.Parse(TimeLayout, in.Time); err != nil {
		return invalid("time", "must be HH:MM")
	}
	if in.PartySize < 1 {
		return invalid("party_size", "must be at least 1")
	}
	if in.TableNumber <= 0 {
		return invalid("table_number", "select a table")
	}
	return nil
}

type BookingService struct {
	store     store.Store
	events    events.Publisher
	occupancy *Occupancy
	now       func() time.Time
}

// Create records a reservation and marks its table Reserved.
func (s *BookingService) Create(ctx context.Context, actor models.Actor, in CreateBookingInput) (*models.Booking, error) {
	if err := authorize(actor, policy.ManageBookings); err != nil {
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

	now := s.now().UTC()
	booking := &models.Booking{
		ID:           uuid.New(),
		BusinessID:   actor.BusinessID,
		CustomerName: strings.TrimSpace(in.CustomerName),
		Phone:        strings.TrimSpace(in.Phone),
		Date:         in.Date,
		Time:         in.Time,
		PartySize:    in.PartySize,
		TableNumber:  in.TableNumber,
		Status:       models.BookingReserved,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, fromStore(err, "create booking")
	}
	events.Notify(ctx, s.events, events.Bookings, events.Created, actor.BusinessID, booking.ID)

	if err := s.occupancy.BookingCreated(ctx, actor.BusinessID, booking.TableNumber); err != nil {
		logrus.WithError(err).WithField("booking_id", booking.ID).Error("failed to mark table reserved")
	}
	return booking, nil
}

func (s *BookingService) Complete(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Booking, error) {
	return s.resolve(ctx, actor, id, models.BookingCompleted)
}

func (s *BookingService) Cancel(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Booking, error) {
	return s.resolve(ctx, actor, id, models.BookingCancelled)
}

// resolve closes a Reserved booking and frees its table.
func (s *BookingService) resolve(ctx context.Context, actor models.Actor, id uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	if err := authorize(actor, policy.ManageBookings); err != nil {
		return nil, err
	}
	booking, err := s.store.GetBooking(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, fromStore(err, "get booking")
	}
	if booking.Status != models.BookingReserved {
		return nil, fmt.Errorf("%w: booking is already %s", ErrConflict, booking.Status)
	}

	now := s.now().UTC()
	if err := s.store.SetBookingStatus(ctx, actor.BusinessID, id, status, now); err != nil {
		return nil, fromStore(err, "update booking")
	}
	booking.Status = status
	booking.UpdatedAt = now
	events.Notify(ctx, s.events, events.Bookings, events.Updated, actor.BusinessID, booking.ID)

	// TODO: confirm with product whether other bookings or open orders on this table should keep it held.
	if err := s.occupancy.BookingResolved(ctx, actor.BusinessID, booking.TableNumber); err != nil {
		logrus.WithError(err).WithField("booking_id", booking.ID).Error("failed to release table")
	}
	return booking, nil
}

func (s *BookingService) List(ctx context.Context, actor models.Actor, f store.BookingFilter) ([]models.Booking, error) {
	if err := authorize(actor, policy.ManageBookings); err != nil {
		return nil, err
	}
	if f.Status != "" && !f.Status.IsValid() {
		return nil, invalid("status", fmt.Sprintf("unknown booking status %q", f.Status))
	}
	bookings, err := s.store.ListBookings(ctx, actor.BusinessID, f)
	if err != nil {
		return nil, fromStore(err, "list bookings")
	}
	return bookings, nil
}
