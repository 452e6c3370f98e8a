// Package editor drives the pick-date, pick-times, confirm flow shared by the
// booking form and the inline editor on the booking detail page.
//
// A Session is owned by a single goroutine and is not safe for concurrent
// use. Slot fetches happen outside the session: SelectDate hands out a
// Ticket, the caller fetches slots for it and passes the outcome back to
// ReceiveSlots, which drops anything that no longer matches the selected
// date.
package editor

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/Domenick1991/eventbooking/internal/interval"
)

type State int

const (
	StateIdle State = iota
	StateEditing
	StatePreviewing
	StateInvalid
	StateApplied
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StatePreviewing:
		return "previewing"
	case StateInvalid:
		return "invalid"
	case StateApplied:
		return "applied"
	default:
		return "unknown"
	}
}

// Mode only changes presentation. Every mode validates the same way.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
	ModeDetail
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	case ModeDetail:
		return "detail"
	default:
		return "unknown"
	}
}

var (
	ErrNotEditing     = errors.New("editor is not open")
	ErrNothingToApply = errors.New("no valid selection to apply")
	ErrUnchanged      = errors.New("selection matches the current booking")
	ErrStaleResponse  = errors.New("slots response does not match the selected date")
)

const (
	msgNoSlots   = "No available time slots on this date."
	msgLoadSlots = "Could not load available times: "
)

// Ticket identifies one slot fetch by the date it was issued for.
type Ticket struct {
	Date time.Time
}

// SlotSource fetches the availability windows for a date. excludeID is the
// booking being edited, zero when creating.
type SlotSource interface {
	Fetch(ctx context.Context, date time.Time, excludeID int64) ([]interval.Slot, error)
}

type Option func(*Session)

func WithMode(mode Mode) Option {
	return func(s *Session) {
		s.mode = mode
	}
}

// WithApplied seeds the session with the booking's current interval.
func WithApplied(b interval.BookingInterval) Option {
	return func(s *Session) {
		s.applied = b
		s.hasApplied = true
	}
}

// WithExcludeBooking sets the booking whose own time must not block the
// slots fetched while editing it.
func WithExcludeBooking(id int64) Option {
	return func(s *Session) {
		s.excludeID = id
	}
}

// WithSuppressUnchanged keeps a selection identical to the applied interval
// from being previewed or applied.
func WithSuppressUnchanged() Option {
	return func(s *Session) {
		s.suppressUnchanged = true
	}
}

type Session struct {
	mode              Mode
	excludeID         int64
	suppressUnchanged bool

	state      State
	date       time.Time
	slots      []interval.Slot
	start      interval.TimeOfDay
	end        interval.TimeOfDay
	nextDay    bool
	candidate  interval.BookingInterval
	hasCand    bool
	message    string
	suggest    bool
	err        error
	applied    interval.BookingInterval
	hasApplied bool
}

func New(opts ...Option) *Session {
	s := &Session{state: StateIdle}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open enters Editing. With an applied interval the session preselects its
// date and times and returns a ticket for that date; ok is false otherwise.
func (s *Session) Open() (ticket Ticket, ok bool) {
	s.reset()
	s.state = StateEditing
	if !s.hasApplied {
		return Ticket{}, false
	}
	s.date = interval.Day(s.applied.Date)
	s.start, s.end, s.nextDay = s.applied.Start, s.applied.End, s.applied.EndsNextDay
	return Ticket{Date: s.date}, true
}

// SelectDate switches to another date. The time selection is cleared and the
// returned ticket must be used to deliver that date's slots.
func (s *Session) SelectDate(date time.Time) (Ticket, error) {
	if !s.open() {
		return Ticket{}, ErrNotEditing
	}
	s.reset()
	s.state = StateEditing
	s.date = interval.Day(date)
	return Ticket{Date: s.date}, nil
}

// ReceiveSlots delivers the outcome of a fetch. A response for a date other
// than the selected one is dropped with ErrStaleResponse. A failed fetch
// leaves the session Invalid until another date is picked.
func (s *Session) ReceiveSlots(ticket Ticket, slots []interval.Slot, fetchErr error) error {
	if !s.open() || !interval.Day(ticket.Date).Equal(s.date) {
		return ErrStaleResponse
	}

	s.slots = nil
	s.clearResult()
	switch {
	case fetchErr != nil:
		s.fail(msgLoadSlots+fetchErr.Error(), fetchErr, false)
		return nil
	case len(slots) == 0:
		s.fail(msgNoSlots, nil, false)
		return nil
	}

	s.slots = slots
	if s.start.IsSet() || s.end.IsSet() {
		s.evaluate()
	} else {
		s.state = StateEditing
	}
	return nil
}

// Refresh fetches slots for ticket from src and delivers them.
func (s *Session) Refresh(ctx context.Context, src SlotSource, ticket Ticket) error {
	slots, err := src.Fetch(ctx, ticket.Date, s.excludeID)
	return s.ReceiveSlots(ticket, slots, err)
}

// SetTimes replaces the time selection and validates it. The applied
// interval is never touched.
func (s *Session) SetTimes(start, end interval.TimeOfDay, endsNextDay bool) error {
	if !s.open() {
		return ErrNotEditing
	}
	s.start, s.end, s.nextDay = start, end, endsNextDay
	if len(s.slots) == 0 {
		// still waiting for slots, or the date has none
		if s.state != StateInvalid {
			s.state = StateEditing
		}
		return nil
	}
	s.evaluate()
	return nil
}

// Apply makes the previewed candidate canonical and returns its wire values.
func (s *Session) Apply() (string, string, error) {
	if s.state != StatePreviewing || !s.hasCand {
		return "", "", ErrNothingToApply
	}
	s.applied, s.hasApplied = s.candidate, true
	s.reset()
	s.state = StateApplied
	start, end := interval.Serialize(s.applied)
	return start, end, nil
}

// Cancel discards the selection and returns to Idle.
func (s *Session) Cancel() {
	s.reset()
	s.state = StateIdle
}

func (s *Session) evaluate() {
	s.clearResult()
	slot, _ := interval.SelectSlot(s.date, s.start, s.slots)
	b, err := interval.Validate(s.date, s.start, s.end, s.nextDay, slot)
	if err != nil {
		var verr *interval.ValidationError
		switch {
		case errors.As(err, &verr) && verr.Silent():
			s.state = StateEditing
			s.err = err
		case errors.As(err, &verr):
			s.fail(verr.Message, err, verr.SuggestNextDay)
		default:
			s.fail(err.Error(), err, false)
		}
		return
	}

	if s.suppressUnchanged && s.hasApplied && b.Equal(s.applied) {
		s.state = StateEditing
		s.err = ErrUnchanged
		return
	}
	s.candidate, s.hasCand = b, true
	s.state = StatePreviewing
}

func (s *Session) fail(msg string, err error, suggest bool) {
	s.state = StateInvalid
	s.message = msg
	s.err = err
	s.suggest = suggest
}

func (s *Session) clearResult() {
	s.candidate, s.hasCand = interval.BookingInterval{}, false
	s.message, s.err, s.suggest = "", nil, false
}

func (s *Session) reset() {
	s.clearResult()
	s.date = time.Time{}
	s.slots = nil
	s.start, s.end, s.nextDay = interval.TimeOfDay{}, interval.TimeOfDay{}, false
}

func (s *Session) open() bool {
	return s.state == StateEditing || s.state == StatePreviewing || s.state == StateInvalid
}

func (s *Session) State() State { return s.state }
func (s *Session) Mode() Mode   { return s.mode }

// Date is the selected date, zero when none is selected.
func (s *Session) Date() time.Time { return s.date }

func (s *Session) Slots() []interval.Slot { return s.slots }

// Slot is the window the current start falls in, or the first one on the
// selected date, clipped with interval.Slot.ClipTo.
func (s *Session) Slot() (interval.Slot, bool) {
	return interval.SelectSlot(s.date, s.start, s.slots)
}

func (s *Session) Applied() (interval.BookingInterval, bool)   { return s.applied, s.hasApplied }
func (s *Session) Candidate() (interval.BookingInterval, bool) { return s.candidate, s.hasCand }

// Message is the inline text to show, empty when there is nothing to say.
func (s *Session) Message() string { return s.message }

// Err is the reason the session is not previewing, if any.
func (s *Session) Err() error { return s.err }

func (s *Session) SuggestNextDay() bool { return s.suggest }
func (s *Session) CanApply() bool       { return s.state == StatePreviewing && s.hasCand }

// AppliedWire returns the hidden-field values for the applied interval.
func (s *Session) AppliedWire() (string, string, bool) {
	if !s.hasApplied {
		return "", "", false
	}
	start, end := interval.Serialize(s.applied)
	return start, end, true
}

// TimeOptions returns the start and end pickers for the current slot. Both
// are empty until slots have arrived.
func (s *Session) TimeOptions() (iter.Seq[interval.TimeOption], iter.Seq[interval.TimeOption]) {
	slot, ok := s.Slot()
	if !ok {
		none := func(func(interval.TimeOption) bool) {}
		return none, none
	}
	return interval.Options(slot)
}
