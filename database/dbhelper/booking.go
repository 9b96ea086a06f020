package dbhelper

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/store"
)

const bookingColumns = `id, business_id, customer_name, phone, booking_date, booking_time, party_size,
	table_number, status, created_at, updated_at`

func scanBooking(row scanner) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.BusinessID, &b.CustomerName, &b.Phone, &b.Date, &b.Time, &b.PartySize,
		&b.TableNumber, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *Store) CreateBooking(ctx context.Context, b *models.Booking) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		b.ID, b.BusinessID, b.CustomerName, b.Phone, b.Date, b.Time, b.PartySize,
		b.TableNumber, b.Status, b.CreatedAt, b.UpdatedAt)
	return translate(err)
}

func (s *Store) GetBooking(ctx context.Context, businessID, id uuid.UUID) (*models.Booking, error) {
	return scanBooking(s.db.QueryRowContext(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE id = $1 AND business_id = $2`, id, businessID))
}

func (s *Store) ListBookings(ctx context.Context, businessID uuid.UUID, f store.BookingFilter) ([]models.Booking, error) {
	w := &where{}
	w.add("business_id = ?", businessID)
	if f.Date != "" {
		w.add("booking_date = ?", f.Date)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.TableNumber != 0 {
		w.add("table_number = ?", f.TableNumber)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE `+w.String()+`
		ORDER BY booking_date, booking_time`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (s *Store) SetBookingStatus(ctx context.Context, businessID, id uuid.UUID, status models.BookingStatus, at time.Time) error {
	return affected(s.db.ExecContext(ctx, `
		UPDATE bookings SET status = $3, updated_at = $4
		WHERE id = $1 AND business_id = $2`, id, businessID, status, at))
}
