package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Domenick1991/eventbooking/internal/editor"
	"github.com/Domenick1991/eventbooking/internal/interval"
)

var errRejected = errors.New("selection rejected")

func runSlots(ctx context.Context, w io.Writer, src editor.SlotSource, date time.Time, exclude int64) error {
	slots, err := src.Fetch(ctx, date, exclude)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Fprintf(w, "%s: fully booked\n", date.Format(interval.DateLayout))
		return nil
	}
	for _, s := range slots {
		fmt.Fprintf(w, "%s %s - %s", s.StartDate, s.StartTime, s.EndLabel())
		if s.Duration != "" {
			fmt.Fprintf(w, "  (%s)", s.Duration)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func runOptions(ctx context.Context, w io.Writer, src editor.SlotSource, date time.Time, start interval.TimeOfDay, exclude int64) error {
	s := editor.New(editor.WithExcludeBooking(exclude))
	s.Open()
	ticket, err := s.SelectDate(date)
	if err != nil {
		return err
	}
	if err := s.Refresh(ctx, src, ticket); err != nil {
		return err
	}
	if s.State() == editor.StateInvalid {
		return fmt.Errorf("%w: %s", errRejected, s.Message())
	}
	if start.IsSet() {
		if err := s.SetTimes(start, interval.TimeOfDay{}, false); err != nil {
			return err
		}
	}

	starts, ends := s.TimeOptions()
	fmt.Fprint(w, "start:")
	for o := range starts {
		fmt.Fprintf(w, " %s", o.Time)
	}
	fmt.Fprint(w, "\nend:")
	for o := range ends {
		if o.NextDay {
			fmt.Fprintf(w, " %s+1", o.Time)
		} else {
			fmt.Fprintf(w, " %s", o.Time)
		}
	}
	fmt.Fprintln(w)
	return nil
}

type checkRequest struct {
	date    time.Time
	start   interval.TimeOfDay
	end     interval.TimeOfDay
	nextDay bool
	exclude int64
	current *interval.BookingInterval
}

func parseCheck(args []string, nextDay bool, currentStart, currentEnd string, loc *time.Location) (checkRequest, error) {
	date, err := interval.ParseDate(args[0], loc)
	if err != nil {
		return checkRequest{}, err
	}
	start, err := interval.ParseTimeOfDay(args[1])
	if err != nil {
		return checkRequest{}, fmt.Errorf("start: %w", err)
	}
	end, err := interval.ParseTimeOfDay(args[2])
	if err != nil {
		return checkRequest{}, fmt.Errorf("end: %w", err)
	}
	req := checkRequest{date: date, start: start, end: end, nextDay: nextDay}

	if currentStart != "" || currentEnd != "" {
		cs, err := interval.ParseWire(currentStart, loc)
		if err != nil {
			return checkRequest{}, err
		}
		ce, err := interval.ParseWire(currentEnd, loc)
		if err != nil {
			return checkRequest{}, err
		}
		current, err := interval.FromInstants(cs, ce)
		if err != nil {
			return checkRequest{}, fmt.Errorf("current booking: %w", err)
		}
		req.current = &current
	}
	return req, nil
}

// runCheck walks an editor session through select date, fetch, set times,
// apply and prints the outcome.
func runCheck(ctx context.Context, w io.Writer, src editor.SlotSource, req checkRequest) error {
	opts := []editor.Option{editor.WithExcludeBooking(req.exclude)}
	if req.current != nil {
		opts = append(opts, editor.WithMode(editor.ModeEdit), editor.WithApplied(*req.current), editor.WithSuppressUnchanged())
	}
	s := editor.New(opts...)
	s.Open()

	ticket, err := s.SelectDate(req.date)
	if err != nil {
		return err
	}
	if err := s.Refresh(ctx, src, ticket); err != nil {
		return err
	}
	if err := s.SetTimes(req.start, req.end, req.nextDay); err != nil {
		return err
	}

	if slot, ok := s.Slot(); ok {
		fmt.Fprintf(w, "window: %s - %s\n", slot.StartTime, slot.EndLabel())
	}
	switch {
	case s.CanApply():
		cand, _ := s.Candidate()
		start, end, err := s.Apply()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "start_datetime=%s\nend_datetime=%s\nduration=%s\n", start, end, cand.Duration())
		return nil
	case errors.Is(s.Err(), editor.ErrUnchanged):
		fmt.Fprintln(w, "no changes")
		return nil
	case s.Message() != "":
		fmt.Fprintln(w, s.Message())
		return errRejected
	default:
		return fmt.Errorf("%w: %v", errRejected, s.Err())
	}
}
