package dbhelper

import (
	"context"

	"github.com/google/uuid"

	"github.com/ray-remotestate/restro-pos/models"
)

const tableColumns = `id, business_id, number, capacity, status, zone, created_at`

func scanTable(row scanner) (*models.Table, error) {
	var t models.Table
	if err := row.Scan(&t.ID, &t.BusinessID, &t.Number, &t.Capacity, &t.Status, &t.Zone, &t.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *Store) CreateTable(ctx context.Context, t *models.Table) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO restaurant_tables (`+tableColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.BusinessID, t.Number, t.Capacity, t.Status, t.Zone, t.CreatedAt)
	return translate(err)
}

func (s *Store) GetTable(ctx context.Context, businessID, id uuid.UUID) (*models.Table, error) {
	return scanTable(s.db.QueryRowContext(ctx, `
		SELECT `+tableColumns+` FROM restaurant_tables
		WHERE id = $1 AND business_id = $2`, id, businessID))
}

func (s *Store) GetTableByNumber(ctx context.Context, businessID uuid.UUID, number int) (*models.Table, error) {
	return scanTable(s.db.QueryRowContext(ctx, `
		SELECT `+tableColumns+` FROM restaurant_tables
		WHERE business_id = $1 AND number = $2`, businessID, number))
}

func (s *Store) ListTables(ctx context.Context, businessID uuid.UUID) ([]models.Table, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tableColumns+` FROM restaurant_tables
		WHERE business_id = $1
		ORDER BY number`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTable(ctx context.Context, t *models.Table) error {
	return affected(s.db.ExecContext(ctx, `
		UPDATE restaurant_tables
		SET number = $3, capacity = $4, status = $5, zone = $6
		WHERE id = $1 AND business_id = $2`,
		t.ID, t.BusinessID, t.Number, t.Capacity, t.Status, t.Zone))
}

func (s *Store) SetTableStatus(ctx context.Context, businessID uuid.UUID, number int, status models.TableStatus) error {
	return affected(s.db.ExecContext(ctx, `
		UPDATE restaurant_tables SET status = $3
		WHERE business_id = $1 AND number = $2`, businessID, number, status))
}

func (s *Store) DeleteTable(ctx context.Context, businessID, id uuid.UUID) error {
	return affected(s.db.ExecContext(ctx, `DELETE FROM restaurant_tables WHERE id = $1 AND business_id = $2`, id, businessID))
}

const menuColumns = `id, business_id, name, description, category, price, is_available, image_url, created_at`

func scanMenuItem(row scanner) (*models.MenuItem, error) {
	var m models.MenuItem
	err := row.Scan(&m.ID, &m.BusinessID, &m.Name, &m.Description, &m.Category, &m.Price, &m.IsAvailable, &m.ImageURL, &m.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *Store) CreateMenuItem(ctx context.Context, m *models.MenuItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO menu_items (`+menuColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.BusinessID, m.Name, m.Description, m.Category, m.Price, m.IsAvailable, m.ImageURL, m.CreatedAt)
	return translate(err)
}

func (s *Store) GetMenuItem(ctx context.Context, businessID, id uuid.UUID) (*models.MenuItem, error) {
	return scanMenuItem(s.db.QueryRowContext(ctx, `
		SELECT `+menuColumns+` FROM menu_items
		WHERE id = $1 AND business_id = $2`, id, businessID))
}

func (s *Store) ListMenuItems(ctx context.Context, businessID uuid.UUID) ([]models.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+menuColumns+` FROM menu_items
		WHERE business_id = $1
		ORDER BY category, name`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (s *Store) UpdateMenuItem(ctx context.Context, m *models.MenuItem) error {
	return affected(s.db.ExecContext(ctx, `
		UPDATE menu_items
		SET name = $3, description = $4, category = $5, price = $6, is_available = $7, image_url = $8
		WHERE id = $1 AND business_id = $2`,
		m.ID, m.BusinessID, m.Name, m.Description, m.Category, m.Price, m.IsAvailable, m.ImageURL))
}

func (s *Store) DeleteMenuItem(ctx context.Context, businessID, id uuid.UUID) error {
	return affected(s.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1 AND business_id = $2`, id, businessID))
}
