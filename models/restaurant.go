package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Business is the tenant every other record is scoped to.
type Business struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Type      string    `db:"type" json:"type"`
	Address   string    `db:"address" json:"address"`
	Phone     string    `db:"phone" json:"phone"`
	OwnerID   uuid.UUID `db:"owner_id" json:"owner_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type MenuItem struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	BusinessID  uuid.UUID       `db:"business_id" json:"business_id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Category    string          `db:"category" json:"category"`
	Price       decimal.Decimal `db:"price" json:"price"`
	IsAvailable bool            `db:"is_available" json:"is_available"`
	ImageURL    string          `db:"image_url" json:"image_url,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

type TableStatus string

const (
	TableAvailable TableStatus = "Available"
	TableOccupied  TableStatus = "Occupied"
	TableReserved  TableStatus = "Reserved"
)

func (s TableStatus) IsValid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved:
		return true
	}
	return false
}

type Table struct {
	ID         uuid.UUID   `db:"id" json:"id"`
	BusinessID uuid.UUID   `db:"business_id" json:"business_id"`
	Number     int         `db:"number" json:"number"`
	Capacity   int         `db:"capacity" json:"capacity"`
	Status     TableStatus `db:"status" json:"status"`
	Zone       string      `db:"zone" json:"zone"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}
