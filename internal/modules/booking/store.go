// README: Booking repository backed by PostgreSQL.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cabfare/internal/modules/fare"
	"cabfare/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, b *Booking) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO bookings (
			id, ref, customer_name, customer_phone, customer_email,
			pickup_address, pickup_lat, pickup_lng,
			drop_address, drop_lat, drop_lng,
			trip_type, vehicle_class, scheduled_date, scheduled_time,
			estimated_fare, currency, status, payment_status, payment_method,
			notes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11,
			$12, $13, $14, $15,
			$16, $17, $18, $19, $20,
			$21, $22, $23
		)`,
		b.ID, b.Ref, b.CustomerName, b.CustomerPhone, b.CustomerEmail,
		b.PickupAddress, latPtr(b.PickupCoordinate), lngPtr(b.PickupCoordinate),
		b.DropAddress, latPtr(b.DropCoordinate), lngPtr(b.DropCoordinate),
		string(b.TripType), string(b.VehicleClass), b.ScheduledDate, b.ScheduledTime,
		b.EstimatedFare.Amount, b.EstimatedFare.Currency, string(b.Status), string(b.PaymentStatus), string(b.PaymentMethod),
		b.Notes, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

const bookingColumns = `
	id, ref, customer_name, customer_phone, customer_email,
	pickup_address, pickup_lat, pickup_lng,
	drop_address, drop_lat, drop_lng,
	trip_type, vehicle_class, scheduled_date, scheduled_time,
	estimated_fare, currency, status, payment_status, payment_method,
	notes, created_at, updated_at`

func (s *Store) FindByRef(ctx context.Context, ref string) (*Booking, error) {
	row := s.db.QueryRow(ctx, `SELECT`+bookingColumns+` FROM bookings WHERE ref = $1`, ref)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) FindByPhone(ctx context.Context, phone string) ([]*Booking, error) {
	rows, err := s.db.Query(ctx, `SELECT`+bookingColumns+` FROM bookings WHERE customer_phone = $1 ORDER BY created_at DESC`, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) UpdateStatus(ctx context.Context, ref string, from, to Status, at time.Time) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE bookings
		SET status = $1, updated_at = $2
		WHERE ref = $3 AND status = $4`,
		string(to), at, ref, string(from),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) UpdatePayment(ctx context.Context, ref string, method PaymentMethod, status PaymentStatus, at time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE bookings
		SET payment_method = $1, payment_status = $2, updated_at = $3
		WHERE ref = $4`,
		string(method), string(status), at, ref,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO booking_events (booking_ref, from_status, to_status, note, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		e.BookingRef, string(e.FromStatus), string(e.ToStatus), e.Note, e.CreatedAt,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*Booking, error) {
	var b Booking
	var pickupLat, pickupLng, dropLat, dropLng sql.NullFloat64
	var tripType, vehicleClass, status, payStatus, payMethod string

	err := row.Scan(
		&b.ID, &b.Ref, &b.CustomerName, &b.CustomerPhone, &b.CustomerEmail,
		&b.PickupAddress, &pickupLat, &pickupLng,
		&b.DropAddress, &dropLat, &dropLng,
		&tripType, &vehicleClass, &b.ScheduledDate, &b.ScheduledTime,
		&b.EstimatedFare.Amount, &b.EstimatedFare.Currency, &status, &payStatus, &payMethod,
		&b.Notes, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.TripType = fare.TripType(tripType)
	b.VehicleClass = fare.Class(vehicleClass)
	b.Status = Status(status)
	b.PaymentStatus = PaymentStatus(payStatus)
	b.PaymentMethod = PaymentMethod(payMethod)
	b.PickupCoordinate = pointFrom(pickupLat, pickupLng)
	b.DropCoordinate = pointFrom(dropLat, dropLng)
	return &b, nil
}

func pointFrom(lat, lng sql.NullFloat64) *types.Point {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	return &types.Point{Lat: lat.Float64, Lng: lng.Float64}
}

func latPtr(p *types.Point) *float64 {
	if p == nil {
		return nil
	}
	return &p.Lat
}

func lngPtr(p *types.Point) *float64 {
	if p == nil {
		return nil
	}
	return &p.Lng
}
