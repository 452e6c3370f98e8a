package interval

import "iter"

// OptionStep is the granularity of selectable times.
const OptionStep = 30

type Role int

const (
	RoleStart Role = iota + 1
	RoleEnd
)

func (r Role) String() string {
	switch r {
	case RoleStart:
		return "start"
	case RoleEnd:
		return "end"
	default:
		return "unknown"
	}
}

// TimeOption is one selectable value in a start or end picker. NextDay marks
// end options that belong to the day after the slot starts.
type TimeOption struct {
	Role    Role
	Time    TimeOfDay
	NextDay bool
}

// halfHours yields 00:00, 00:30 ... 23:30.
func halfHours() iter.Seq[TimeOfDay] {
	return func(yield func(TimeOfDay) bool) {
		for m := 0; m < minutesPerDay; m += OptionStep {
			if !yield(TimeOfDay{minute: m, set: true}) {
				return
			}
		}
	}
}

// StartOptions yields the start times a user may pick inside the slot.
func StartOptions(slot Slot) iter.Seq[TimeOption] {
	return func(yield func(TimeOption) bool) {
		from, to := slot.StartTime.Minutes(), slot.EndTime.Minutes()
		for t := range halfHours() {
			m := t.Minutes()
			var ok bool
			if slot.CrossesMidnight {
				ok = m >= from
			} else {
				ok = m >= from && m < to
			}
			if ok && !yield(TimeOption{Role: RoleStart, Time: t}) {
				return
			}
		}
	}
}

// EndOptions yields the end times inside the slot. For a slot crossing
// midnight the same-day group comes first, followed by the next-day group.
func EndOptions(slot Slot) iter.Seq[TimeOption] {
	return func(yield func(TimeOption) bool) {
		from, to := slot.StartTime.Minutes(), slot.EndTime.Minutes()
		for t := range halfHours() {
			m := t.Minutes()
			var ok bool
			if slot.CrossesMidnight {
				ok = m > from
			} else {
				ok = m > from && m <= to
			}
			if ok && !yield(TimeOption{Role: RoleEnd, Time: t}) {
				return
			}
		}
		if !slot.CrossesMidnight {
			return
		}
		for t := range halfHours() {
			if t.Minutes() > to {
				return
			}
			if !yield(TimeOption{Role: RoleEnd, Time: t, NextDay: true}) {
				return
			}
		}
	}
}

// DeriveTimeOptions yields every start option followed by every end option.
// The sequence holds no state and can be ranged over any number of times.
func DeriveTimeOptions(slot Slot) iter.Seq[TimeOption] {
	return func(yield func(TimeOption) bool) {
		for o := range StartOptions(slot) {
			if !yield(o) {
				return
			}
		}
		for o := range EndOptions(slot) {
			if !yield(o) {
				return
			}
		}
	}
}

// Options returns the start and end pickers for the slot.
func Options(slot Slot) (starts, ends iter.Seq[TimeOption]) {
	return StartOptions(slot), EndOptions(slot)
}
