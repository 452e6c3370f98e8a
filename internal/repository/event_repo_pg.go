package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	ListPublic(ctx context.Context, from time.Time) ([]domain.Event, error)
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
}

type PGEventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) EventRepository {
	return &PGEventRepository{db: db}
}

// ListPublic returns active open events that have not ended before from.
func (r *PGEventRepository) ListPublic(ctx context.Context, from time.Time) ([]domain.Event, error) {
	rows, err := r.db.Query(ctx, `SELECT id, admin_id, event_title, event_type, start_datetime, end_datetime, town_or_city, description, status, created_at, updated_at
		FROM events WHERE event_type=$1 AND status=$2 AND end_datetime >= $3 ORDER BY start_datetime`,
		domain.EventTypeOpen, domain.EventStatusActive, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.AdminID, &e.Title, &e.Type, &e.StartAt, &e.EndAt, &e.TownOrCity, &e.Description, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *PGEventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	row := r.db.QueryRow(ctx, `SELECT id, admin_id, event_title, event_type, start_datetime, end_datetime, town_or_city, description, status, created_at, updated_at FROM events WHERE id=$1`, id)
	var e domain.Event
	if err := row.Scan(&e.ID, &e.AdminID, &e.Title, &e.Type, &e.StartAt, &e.EndAt, &e.TownOrCity, &e.Description, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

var _ EventRepository = (*PGEventRepository)(nil)
