package interval

import (
	"fmt"
	"time"
)

// BookingInterval is a validated start/end selection on a calendar date.
type BookingInterval struct {
	Date            time.Time
	Start           TimeOfDay
	End             TimeOfDay
	EndsNextDay     bool
	DurationMinutes int
}

func (b BookingInterval) StartAt() time.Time { return At(b.Date, b.Start, false) }
func (b BookingInterval) EndAt() time.Time   { return At(b.Date, b.End, b.EndsNextDay) }

// Duration renders the length as "3h" or "3h 30m".
func (b BookingInterval) Duration() string { return FormatDuration(b.DurationMinutes) }

// Equal compares the selection, ignoring location differences of Date.
func (b BookingInterval) Equal(o BookingInterval) bool {
	return b.StartAt().Equal(o.StartAt()) && b.EndAt().Equal(o.EndAt())
}

// Validate checks a start/end selection on date against slot and returns the
// resulting interval. Checks run in a fixed order and stop at the first
// failure; see ValidationError for the possible outcomes.
func Validate(date time.Time, start, end TimeOfDay, endsNextDay bool, slot Slot) (BookingInterval, error) {
	if !start.IsSet() || !end.IsSet() {
		return BookingInterval{}, &ValidationError{Kind: KindIncomplete, Message: "Select a start and end time."}
	}

	day := Day(date)
	startAt := At(day, start, false)
	endAt := At(day, end, endsNextDay)

	if !endsNextDay && !end.After(start) {
		msg := "End time must be after start time."
		hint := end.Before(start)
		if hint {
			msg += ` Check "Ends next day" for overnight events.`
		}
		return BookingInterval{}, &ValidationError{Kind: KindEndBeforeStart, Message: msg, SuggestNextDay: hint}
	}
	if !endAt.After(startAt) {
		return BookingInterval{}, &ValidationError{Kind: KindEndBeforeStart, Message: "End time must be after start time."}
	}

	slotStart, slotEnd, err := slot.Bounds(day)
	if err != nil {
		return BookingInterval{}, fmt.Errorf("resolve slot: %w", err)
	}
	if startAt.Before(slotStart) {
		return BookingInterval{}, &ValidationError{
			Kind:     KindBeforeWindowStart,
			Message:  fmt.Sprintf("Start time cannot be before %s", slot.StartTime),
			Boundary: slot.StartTime.String(),
		}
	}
	if endAt.After(slotEnd) {
		return BookingInterval{}, &ValidationError{
			Kind:     KindAfterWindowEnd,
			Message:  fmt.Sprintf("End time cannot be after %s", slot.EndLabel()),
			Boundary: slot.EndLabel(),
		}
	}

	return BookingInterval{
		Date:            day,
		Start:           start,
		End:             end,
		EndsNextDay:     endsNextDay,
		DurationMinutes: wholeMinutes(endAt.Sub(startAt)),
	}, nil
}

func wholeMinutes(d time.Duration) int {
	return int(d / time.Minute)
}
