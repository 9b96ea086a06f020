package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bill is immutable once written; it can only be deleted.
type Bill struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	BusinessID  uuid.UUID       `db:"business_id" json:"business_id"`
	OrderID     uuid.UUID       `db:"order_id" json:"order_id"`
	TableNumber int             `db:"table_number" json:"table_number"`
	Items       LineItems       `db:"items" json:"items"`
	Subtotal    decimal.Decimal `db:"subtotal" json:"subtotal"`
	TaxRate     decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	TaxAmount   decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	Total       decimal.Decimal `db:"total" json:"total"`
	CreatedBy   uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
