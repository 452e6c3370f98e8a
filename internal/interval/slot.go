package interval

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the ISO calendar date used in URLs.
	DateLayout = "2006-01-02"
	// DisplayDateLayout is how the availability endpoint renders slot dates.
	DisplayDateLayout = "02 Jan 2006"
	// PickerDateLayout is the date picker's d.m.Y rendering.
	PickerDateLayout = "02.01.2006"
	// WireLayout is the hidden-field format accepted on submission.
	WireLayout = "2006-01-02T15:04"
)

var dateLayouts = []string{DateLayout, DisplayDateLayout, PickerDateLayout}

// Slot is one availability window as served by the slots endpoint.
type Slot struct {
	StartDate       string    `json:"start_date,omitempty"`
	StartTime       TimeOfDay `json:"start_time"`
	EndDate         string    `json:"end_date,omitempty"`
	EndTime         TimeOfDay `json:"end_time"`
	CrossesMidnight bool      `json:"crosses_midnight"`
	Duration        string    `json:"duration,omitempty"`
	DurationHours   float64   `json:"duration_hours,omitempty"`
}

// ParseDate accepts any of the date renderings that appear on the wire and
// returns midnight of that day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// At combines a calendar day with a wall-clock time, optionally rolled to the
// following day.
func At(day time.Time, tod TimeOfDay, nextDay bool) time.Time {
	y, m, d := day.Date()
	if nextDay {
		d++
	}
	return time.Date(y, m, d, tod.Hour(), tod.Minute(), 0, 0, day.Location())
}

// Bounds resolves the slot's absolute start and end. date is used when the
// slot carries no start date of its own.
func (s Slot) Bounds(date time.Time) (time.Time, time.Time, error) {
	loc := date.Location()
	startDay := Day(date)
	if s.StartDate != "" {
		d, err := ParseDate(s.StartDate, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("slot start date: %w", err)
		}
		startDay = d
	}

	var end time.Time
	switch {
	case s.EndDate != "":
		d, err := ParseDate(s.EndDate, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("slot end date: %w", err)
		}
		end = At(d, s.EndTime, false)
	default:
		end = At(startDay, s.EndTime, s.CrossesMidnight)
	}
	return At(startDay, s.StartTime, false), end, nil
}

// EndLabel renders the window end the way users see it.
func (s Slot) EndLabel() string {
	if s.CrossesMidnight || s.EndDate != "" {
		return s.EndTime.String() + " (next day)"
	}
	return s.EndTime.String()
}

// Contains reports whether instant t lies inside the slot window, inclusive.
func (s Slot) Contains(date, t time.Time) bool {
	start, end, err := s.Bounds(date)
	if err != nil {
		return false
	}
	return !t.Before(start) && !t.After(end)
}

// NewSlot builds the slot for the window [start, end]. Dates and times are
// taken in the locations start and end carry.
func NewSlot(start, end time.Time) Slot {
	crosses := !Day(start).Equal(Day(end))
	d := CalculateDuration(start, end)
	slot := Slot{
		StartDate:       start.Format(DisplayDateLayout),
		StartTime:       NewTimeOfDay(start.Hour(), start.Minute()),
		EndTime:         NewTimeOfDay(end.Hour(), end.Minute()),
		CrossesMidnight: crosses,
		Duration:        d.Display,
		DurationHours:   d.TotalHours,
	}
	if crosses {
		slot.EndDate = end.Format(DisplayDateLayout)
	}
	return slot
}

// latestEnd is the last bookable minute of the day after the selected date.
var latestEnd = NewTimeOfDay(23, 59)

// ClipTo trims the slot to what a booking starting on date can use: starts
// on date itself, ends no later than the following day. ok is false when the
// slot leaves no such room. A slot already inside those limits comes back
// unchanged.
func (s Slot) ClipTo(date time.Time) (Slot, bool) {
	start, end, err := s.Bounds(date)
	if err != nil {
		return Slot{}, false
	}
	day := Day(date)
	next := day.AddDate(0, 0, 1)

	lo, hi := start, end
	if lo.Before(day) {
		lo = day
	}
	if limit := At(next, latestEnd, false); hi.After(limit) {
		hi = limit
	}
	if !lo.Before(next) || !hi.After(lo) {
		return Slot{}, false
	}
	if lo.Equal(start) && hi.Equal(end) {
		return s, true
	}
	return NewSlot(lo, hi), true
}

// SelectSlot picks the slot whose window contains the chosen start, trimmed
// to date with ClipTo. When none does, the first slot overlapping date is
// returned so validation can report the boundary.
func SelectSlot(date time.Time, start TimeOfDay, slots []Slot) (Slot, bool) {
	if len(slots) == 0 {
		return Slot{}, false
	}
	var (
		first Slot
		found bool
	)
	for _, s := range slots {
		clipped, ok := s.ClipTo(date)
		if !ok {
			continue
		}
		if start.IsSet() && clipped.Contains(date, At(date, start, false)) {
			return clipped, true
		}
		if !found {
			first, found = clipped, true
		}
	}
	if found {
		return first, true
	}
	return slots[0], true
}
