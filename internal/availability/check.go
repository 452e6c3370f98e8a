package availability

import (
	"errors"
	"fmt"
	"time"
)

var ErrConflict = errors.New("slot conflicts with an existing engagement")

type ConflictError struct {
	Engagement Engagement
	MinGap     time.Duration
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("Conflicts with existing engagement (%s - %s). Minimum %d-hour gap required between bookings.",
		e.Engagement.Start.Format("02.01.2006 15:04"),
		e.Engagement.End.Format("02.01.2006 15:04"),
		int(e.MinGap/time.Hour))
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// CheckAvailable verifies that [start, end) keeps the minimum gap to every
// engagement. It is the server-side safety net behind the slot picker.
func (c *Calculator) CheckAvailable(start, end time.Time, engagements []Engagement, excludeBookingID int64) error {
	for _, e := range engagements {
		if excludeBookingID != 0 && e.BookingID == excludeBookingID {
			continue
		}
		clearBefore := !end.Add(c.MinGap).After(e.Start)
		clearAfter := !e.End.Add(c.MinGap).After(start)
		if !clearBefore && !clearAfter {
			return &ConflictError{Engagement: e, MinGap: c.MinGap}
		}
	}
	return nil
}
