package interval

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// FormatDuration renders minutes as "{h}h" or "{h}h {m}m".
func FormatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// Serialize produces the start_datetime and end_datetime form values.
func Serialize(b BookingInterval) (string, string) {
	return b.StartAt().Format(WireLayout), b.EndAt().Format(WireLayout)
}

// ParseWire reads a YYYY-MM-DDTHH:MM value in loc.
func ParseWire(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(WireLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid datetime %q: expected YYYY-MM-DDTHH:MM", s)
	}
	return t, nil
}

var ErrSpansTooManyDays = errors.New("interval may end at most one day after it starts")

// FromInstants rebuilds an interval from two absolute instants, e.g. a stored
// booking or a parsed form submission.
func FromInstants(start, end time.Time) (BookingInterval, error) {
	if !end.After(start) {
		return BookingInterval{}, ErrEndBeforeStart
	}
	day := Day(start)
	endDay := Day(end.In(start.Location()))
	nextDay := false
	switch {
	case endDay.Equal(day):
	case endDay.Equal(day.AddDate(0, 0, 1)):
		nextDay = true
	default:
		return BookingInterval{}, ErrSpansTooManyDays
	}
	end = end.In(start.Location())
	return BookingInterval{
		Date:            day,
		Start:           NewTimeOfDay(start.Hour(), start.Minute()),
		End:             NewTimeOfDay(end.Hour(), end.Minute()),
		EndsNextDay:     nextDay,
		DurationMinutes: wholeMinutes(end.Sub(start)),
	}, nil
}

// Duration is a length expressed in the forms the UI and the API need.
type Duration struct {
	TotalMinutes int     `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
	Display      string  `json:"display"`
	Compact      string  `json:"display_compact"`
}

func CalculateDuration(start, end time.Time) Duration {
	d := end.Sub(start)
	total := wholeMinutes(d)
	return Duration{
		TotalMinutes: total,
		TotalHours:   math.Round(d.Hours()*100) / 100,
		Display:      FormatDuration(total),
		Compact:      fmt.Sprintf("%d:%02d", total/60, total%60),
	}
}
