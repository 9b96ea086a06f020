package dbhelper

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ray-remotestate/restro-pos/database"
	"github.com/ray-remotestate/restro-pos/models"
)

const staffColumns = `id, business_id, email, name, role, employee_id, status, password, created_by, created_at`

func scanStaff(row scanner) (*models.Staff, error) {
	var s models.Staff
	err := row.Scan(&s.ID, &s.BusinessID, &s.Email, &s.Name, &s.Role, &s.EmployeeID, &s.Status, &s.Password, &s.CreatedBy, &s.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func createStaff(ctx context.Context, q querier, s *models.Staff) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO staff (`+staffColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.BusinessID, s.Email, s.Name, s.Role, s.EmployeeID, s.Status, s.Password, s.CreatedBy, s.CreatedAt)
	return translate(err)
}

func (s *Store) RegisterBusiness(ctx context.Context, b *models.Business, owner *models.Staff) error {
	return database.Tx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO businesses (id, name, type, address, phone, owner_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			b.ID, b.Name, b.Type, b.Address, b.Phone, b.OwnerID, b.CreatedAt)
		if err != nil {
			return translate(err)
		}
		return createStaff(ctx, tx, owner)
	})
}

func (s *Store) GetBusiness(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	var b models.Business
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, address, phone, owner_id, created_at
		FROM businesses WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.Type, &b.Address, &b.Phone, &b.OwnerID, &b.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *Store) CreateStaff(ctx context.Context, st *models.Staff) error {
	return createStaff(ctx, s.db, st)
}

func (s *Store) GetStaff(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	return scanStaff(s.db.QueryRowContext(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
}

func (s *Store) GetStaffByEmail(ctx context.Context, email string) (*models.Staff, error) {
	return scanStaff(s.db.QueryRowContext(ctx, `
		SELECT `+staffColumns+` FROM staff
		WHERE LOWER(email) = LOWER($1)`, email))
}

func (s *Store) ListStaff(ctx context.Context, businessID uuid.UUID) ([]models.Staff, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+staffColumns+` FROM staff
		WHERE business_id = $1
		ORDER BY created_at`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Staff
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

func (s *Store) UpdateStaff(ctx context.Context, st *models.Staff) error {
	return affected(s.db.ExecContext(ctx, `
		UPDATE staff
		SET email = $3, name = $4, role = $5, employee_id = $6, status = $7, password = $8
		WHERE id = $1 AND business_id = $2`,
		st.ID, st.BusinessID, st.Email, st.Name, st.Role, st.EmployeeID, st.Status, st.Password))
}

func (s *Store) DeleteStaff(ctx context.Context, businessID, id uuid.UUID) error {
	return affected(s.db.ExecContext(ctx, `DELETE FROM staff WHERE id = $1 AND business_id = $2`, id, businessID))
}
