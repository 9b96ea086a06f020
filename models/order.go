package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusConfirmed OrderStatus = "Confirmed"
	StatusPreparing OrderStatus = "Preparing"
	StatusReady     OrderStatus = "Ready"
	StatusServed    OrderStatus = "Served"
	StatusCompleted OrderStatus = "Completed"
)

// OrderSequence is the only path an order may take.
var OrderSequence = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusServed,
	StatusCompleted,
}

// Index returns the position of s in OrderSequence, or -1.
func (s OrderStatus) Index() int {
	for i, st := range OrderSequence {
		if st == s {
			return i
		}
	}
	return -1
}

func (s OrderStatus) IsValid() bool {
	return s.Index() >= 0
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted
}

// Next returns the status that follows s. ok is false for Completed and unknown values.
func (s OrderStatus) Next() (next OrderStatus, ok bool) {
	i := s.Index()
	if i < 0 || i == len(OrderSequence)-1 {
		return "", false
	}
	return OrderSequence[i+1], true
}

// LineItem is a frozen copy of a menu item at the moment it was ordered.
type LineItem struct {
	MenuItemID uuid.UUID       `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// LineItems is stored as a JSONB array.
type LineItems []LineItem

// Value encodes as a string; lib/pq would send raw bytes as bytea.
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *LineItems) Scan(src any) error {
	return scanJSON(src, l)
}

// Sum adds up every line total.
func (l LineItems) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l {
		total = total.Add(item.LineTotal)
	}
	return total
}

// Clone copies the slice so a snapshot never aliases its source.
func (l LineItems) Clone() LineItems {
	if l == nil {
		return nil
	}
	out := make(LineItems, len(l))
	copy(out, l)
	return out
}

type Transition struct {
	At     time.Time `json:"at"`
	By     uuid.UUID `json:"by"`
	ByName string    `json:"by_name"`
	Role   Role      `json:"role"`
}

// Transitions records when and by whom each status was reached, keyed by status name.
type Transitions map[OrderStatus]Transition

func (t Transitions) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}
	b, err := json.Marshal(t)
	return string(b), err
}

func (t *Transitions) Scan(src any) error {
	return scanJSON(src, t)
}

type Order struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	BusinessID    uuid.UUID       `db:"business_id" json:"business_id"`
	TableNumber   int             `db:"table_number" json:"table_number"`
	Items         LineItems       `db:"items" json:"items"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status        OrderStatus     `db:"status" json:"status"`
	CreatedBy     uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedByName string          `db:"created_by_name" json:"created_by_name"`
	CreatedByRole Role            `db:"created_by_role" json:"created_by_role"`
	Transitions   Transitions     `db:"transitions" json:"transitions"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

func scanJSON(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("unsupported JSON column type")
	}
}
