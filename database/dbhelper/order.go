package dbhelper

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/store"
)

const orderColumns = `id, business_id, table_number, items, total_amount, status, created_by,
	created_by_name, created_by_role, transitions, created_at, updated_at`

func scanOrder(row scanner) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.BusinessID, &o.TableNumber, &o.Items, &o.TotalAmount, &o.Status, &o.CreatedBy,
		&o.CreatedByName, &o.CreatedByRole, &o.Transitions, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		o.ID, o.BusinessID, o.TableNumber, o.Items, o.TotalAmount, o.Status, o.CreatedBy,
		o.CreatedByName, o.CreatedByRole, o.Transitions, o.CreatedAt, o.UpdatedAt)
	return translate(err)
}

func (s *Store) GetOrder(ctx context.Context, businessID, id uuid.UUID) (*models.Order, error) {
	return scanOrder(s.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE id = $1 AND business_id = $2`, id, businessID))
}

func (s *Store) ListOrders(ctx context.Context, businessID uuid.UUID, f store.OrderFilter) ([]models.Order, error) {
	w := &where{}
	w.add("business_id = ?", businessID)
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = string(st)
		}
		w.add("status = ANY(?)", pq.Array(statuses))
	}
	if f.TableNumber != 0 {
		w.add("table_number = ?", f.TableNumber)
	}
	addRange(w, f.CreatedFrom, f.CreatedTo)

	rows, err := s.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE `+w.String()+` ORDER BY created_at`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// AdvanceOrder is a compare-and-set on status; zero rows means the order is
// missing or has already moved on.
func (s *Store) AdvanceOrder(ctx context.Context, businessID, id uuid.UUID, from, to models.OrderStatus, tr models.Transition) error {
	entry, err := json.Marshal(tr)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $4,
			transitions = transitions || jsonb_build_object($4::text, $5::jsonb),
			updated_at = $6
		WHERE id = $1 AND business_id = $2 AND status = $3`,
		id, businessID, from, to, string(entry), tr.At)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := s.GetOrder(ctx, businessID, id); err != nil {
		return err
	}
	return store.ErrConflict
}

func addRange(w *where, from, to time.Time) {
	if !from.IsZero() {
		w.add("created_at >= ?", from)
	}
	if !to.IsZero() {
		w.add("created_at < ?", to)
	}
}
