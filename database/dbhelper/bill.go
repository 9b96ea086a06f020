package dbhelper

import (
	"context"

	"github.com/google/uuid"

	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/store"
)

const billColumns = `id, business_id, order_id, table_number, items, subtotal, tax_rate, tax_amount, total, created_by, created_at`

func scanBill(row scanner) (*models.Bill, error) {
	var b models.Bill
	err := row.Scan(&b.ID, &b.BusinessID, &b.OrderID, &b.TableNumber, &b.Items, &b.Subtotal, &b.TaxRate,
		&b.TaxAmount, &b.Total, &b.CreatedBy, &b.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *Store) CreateBill(ctx context.Context, b *models.Bill) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bills (`+billColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		b.ID, b.BusinessID, b.OrderID, b.TableNumber, b.Items, b.Subtotal, b.TaxRate,
		b.TaxAmount, b.Total, b.CreatedBy, b.CreatedAt)
	return translate(err)
}

func (s *Store) GetBill(ctx context.Context, businessID, id uuid.UUID) (*models.Bill, error) {
	return scanBill(s.db.QueryRowContext(ctx, `
		SELECT `+billColumns+` FROM bills
		WHERE id = $1 AND business_id = $2`, id, businessID))
}

func (s *Store) ListBills(ctx context.Context, businessID uuid.UUID, f store.BillFilter) ([]models.Bill, error) {
	w := &where{}
	w.add("business_id = ?", businessID)
	if f.OrderID != uuid.Nil {
		w.add("order_id = ?", f.OrderID)
	}
	addRange(w, f.CreatedFrom, f.CreatedTo)

	rows, err := s.db.QueryContext(ctx, `SELECT `+billColumns+` FROM bills WHERE `+w.String()+` ORDER BY created_at`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (s *Store) DeleteBill(ctx context.Context, businessID, id uuid.UUID) error {
	return affected(s.db.ExecContext(ctx, `DELETE FROM bills WHERE id = $1 AND business_id = $2`, id, businessID))
}
