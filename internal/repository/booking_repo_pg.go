package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/eventbooking/internal/availability"
	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error)
	Reschedule(ctx context.Context, id int64, start, end time.Time, status domain.BookingStatus) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	// Engagements returns blocking bookings and active events overlapping [from, to).
	Engagements(ctx context.Context, from, to time.Time) ([]availability.Engagement, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, customer_id, customer_email, event_title, event_type, guest_count,
	start_datetime, end_datetime, description, message, street_address, postcode, town_or_city,
	status, approved_at, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.CustomerID, &b.CustomerEmail, &b.EventTitle, &b.EventType, &b.GuestCount,
		&b.StartAt, &b.EndAt, &b.Description, &b.Message, &b.StreetAddress, &b.Postcode, &b.TownOrCity,
		&b.Status, &b.ApprovedAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	booking.Status = domain.BookingStatusPending
	return r.db.QueryRow(ctx, `INSERT INTO bookings (customer_id, customer_email, event_title, event_type, guest_count,
		start_datetime, end_datetime, description, message, street_address, postcode, town_or_city, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		booking.CustomerID, booking.CustomerEmail, booking.EventTitle, booking.EventType, booking.GuestCount,
		booking.StartAt, booking.EndAt, booking.Description, booking.Message, booking.StreetAddress,
		booking.Postcode, booking.TownOrCity, booking.Status).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
}

func (r *PGBookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE customer_id=$1 ORDER BY start_datetime DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Reschedule(ctx context.Context, id int64, start, end time.Time, status domain.BookingStatus) (*domain.Booking, error) {
	return scanBooking(r.db.QueryRow(ctx, `UPDATE bookings
		SET start_datetime=$1, end_datetime=$2, status=$3, updated_at=now()
		WHERE id=$4
		RETURNING `+bookingColumns, start, end, status, id))
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	return scanBooking(r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2 RETURNING `+bookingColumns, status, id))
}

func (r *PGBookingRepository) Engagements(ctx context.Context, from, to time.Time) ([]availability.Engagement, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, start_datetime, end_datetime FROM bookings
		WHERE status IN ($1, $2)
		  AND start_datetime < $5 AND end_datetime > $4
		UNION ALL
		SELECT 0, start_datetime, end_datetime FROM events
		WHERE status = $3
		  AND start_datetime < $5 AND end_datetime > $4
		ORDER BY 2`,
		domain.BookingStatusPending, domain.BookingStatusApproved, domain.EventStatusActive, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var engagements []availability.Engagement
	for rows.Next() {
		var e availability.Engagement
		if err := rows.Scan(&e.BookingID, &e.Start, &e.End); err != nil {
			return nil, err
		}
		engagements = append(engagements, e)
	}
	return engagements, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
