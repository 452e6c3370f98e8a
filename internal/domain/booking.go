package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Blocks reports whether a booking in this status occupies the venue calendar.
func (s BookingStatus) Blocks() bool {
	return s == BookingStatusPending || s == BookingStatusApproved
}

type EventType string

const (
	EventTypeOpen    EventType = "open"
	EventTypePrivate EventType = "private"
	EventTypeClosure EventType = "closure"
)

type Booking struct {
	ID            int64
	CustomerID    int64
	CustomerEmail string
	EventTitle    string
	EventType     EventType
	GuestCount    int
	StartAt       time.Time
	EndAt         time.Time
	Description   string
	Message       string
	StreetAddress string
	Postcode      string
	TownOrCity    string
	Status        BookingStatus
	ApprovedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ListFilter mirrors the tabs of the customer's booking list.
type ListFilter string

const (
	FilterAll      ListFilter = "all"
	FilterPending  ListFilter = "pending"
	FilterApproved ListFilter = "approved"
	FilterActive   ListFilter = "active"
	FilterPast     ListFilter = "past"
)

func ParseListFilter(s string) (ListFilter, bool) {
	switch f := ListFilter(s); f {
	case FilterAll, FilterPending, FilterApproved, FilterActive, FilterPast:
		return f, true
	case "":
		return FilterAll, true
	default:
		return "", false
	}
}

// Match compares calendar dates only; today must be midnight in the venue
// timezone.
func (f ListFilter) Match(b Booking, today time.Time) bool {
	y, m, d := b.StartAt.In(today.Location()).Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	switch f {
	case FilterAll:
		return true
	case FilterPending:
		return b.Status == BookingStatusPending
	case FilterApproved:
		return b.Status == BookingStatusApproved
	case FilterActive:
		return b.Status == BookingStatusApproved && !date.Before(today)
	case FilterPast:
		return date.Before(today)
	default:
		return false
	}
}
