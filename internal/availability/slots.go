package availability

import (
	"sort"
	"time"

	"github.com/Domenick1991/eventbooking/internal/interval"
)

// Engagement is anything occupying the venue: a pending or approved booking,
// or an active event. BookingID is zero for events.
type Engagement struct {
	BookingID int64
	Start     time.Time
	End       time.Time
}

// Window is a free stretch of time with no engagement closer than the gap.
type Window struct {
	Start    time.Time
	End      time.Time
	Duration interval.Duration
}

type Calculator struct {
	MinGap  time.Duration
	MinSlot time.Duration
}

func NewCalculator(minGap, minSlot time.Duration) *Calculator {
	return &Calculator{MinGap: minGap, MinSlot: minSlot}
}

// SearchRange is the span whose engagements can affect windows on day.
func SearchRange(day time.Time) (time.Time, time.Time) {
	day = interval.Day(day)
	return day.AddDate(0, 0, -1), day.AddDate(0, 0, 2)
}

// AvailableSlots returns the free windows touching day. Windows may start the
// evening before or run into the following day. An empty result means the
// day is fully booked. The engagement belonging to excludeBookingID is
// ignored so a booking can be moved within its own time.
func (c *Calculator) AvailableSlots(day time.Time, engagements []Engagement, excludeBookingID int64) []Window {
	day = interval.Day(day)
	dayEnd := day.AddDate(0, 0, 1)
	searchStart, searchEnd := SearchRange(day)

	blocks := c.blocks(engagements, excludeBookingID)
	if len(blocks) == 0 {
		return []Window{newWindow(day, dayEnd)}
	}

	var windows []Window
	current := searchStart
	for _, b := range blocks {
		// only windows ending inside the day count
		if b.Start.After(day) && b.Start.Before(dayEnd) && c.longEnough(current, b.Start) {
			windows = append(windows, newWindow(current, b.Start))
		}
		if b.End.After(current) {
			current = b.End
		}
	}

	if current.Before(searchEnd) && searchEnd.After(day) && current.Before(dayEnd) && c.longEnough(current, searchEnd) {
		windows = append(windows, newWindow(current, searchEnd))
	}
	return windows
}

// blocks widens engagements by the gap on both sides and merges overlaps.
func (c *Calculator) blocks(engagements []Engagement, excludeBookingID int64) []Engagement {
	blocks := make([]Engagement, 0, len(engagements))
	for _, e := range engagements {
		if excludeBookingID != 0 && e.BookingID == excludeBookingID {
			continue
		}
		blocks = append(blocks, Engagement{Start: e.Start.Add(-c.MinGap), End: e.End.Add(c.MinGap)})
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Start.Before(blocks[j].Start) })

	merged := blocks[:0]
	for _, b := range blocks {
		if n := len(merged); n > 0 && !b.Start.After(merged[n-1].End) {
			if b.End.After(merged[n-1].End) {
				merged[n-1].End = b.End
			}
			continue
		}
		merged = append(merged, b)
	}
	return merged
}

func (c *Calculator) longEnough(start, end time.Time) bool {
	return end.Sub(start) >= c.MinSlot
}

func newWindow(start, end time.Time) Window {
	return Window{Start: start, End: end, Duration: interval.CalculateDuration(start, end)}
}

// Format converts windows into the slot shape served to clients. Times are
// rendered in loc.
func Format(windows []Window, loc *time.Location) []interval.Slot {
	slots := make([]interval.Slot, 0, len(windows))
	for _, w := range windows {
		slots = append(slots, interval.NewSlot(w.Start.In(loc), w.End.In(loc)))
	}
	return slots
}

// SlotsResponse is the JSON body of the slots endpoint.
type SlotsResponse struct {
	Success         bool            `json:"success"`
	HasAvailability bool            `json:"has_availability"`
	Slots           []interval.Slot `json:"slots"`
	Error           string          `json:"error,omitempty"`
}
