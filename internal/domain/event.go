package domain

import "time"

type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusPostponed EventStatus = "postponed"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event is a venue event scheduled by staff. Active events block the calendar
// the same way bookings do.
type Event struct {
	ID          int64       `json:"id"`
	AdminID     int64       `json:"-"`
	Title       string      `json:"title"`
	Type        EventType   `json:"type"`
	StartAt     time.Time   `json:"start_datetime"`
	EndAt       time.Time   `json:"end_datetime"`
	TownOrCity  string      `json:"town_or_city,omitempty"`
	Description string      `json:"description"`
	Status      EventStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
