package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingReserved  BookingStatus = "Reserved"
	BookingCompleted BookingStatus = "Completed"
	BookingCancelled BookingStatus = "Cancelled"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingReserved, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Booking dates are kept as "2006-01-02" and times as "15:04" in the business's local time.
type Booking struct {
	ID           uuid.UUID     `db:"id" json:"id"`
	BusinessID   uuid.UUID     `db:"business_id" json:"business_id"`
	CustomerName string        `db:"customer_name" json:"customer_name"`
	Phone        string        `db:"phone" json:"phone"`
	Date         string        `db:"booking_date" json:"date"`
	Time         string        `db:"booking_time" json:"time"`
	PartySize    int           `db:"party_size" json:"party_size"`
	TableNumber  int           `db:"table_number" json:"table_number"`
	Status       BookingStatus `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}
