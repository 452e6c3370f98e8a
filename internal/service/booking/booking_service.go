package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/eventbooking/internal/availability"
	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/interval"
	"github.com/Domenick1991/eventbooking/internal/kafka"
	"github.com/Domenick1991/eventbooking/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput   = errors.New("invalid booking input")
	ErrTooSoon        = errors.New("booking starts too soon")
	ErrScheduleBusy   = errors.New("schedule is being updated, try again")
	ErrNotEditable    = errors.New("booking can no longer be changed")
	ErrNoAvailability = errors.New("no availability on this date")
)

type BookingUseCase interface {
	Slots(ctx context.Context, date time.Time, excludeID int64) ([]interval.Slot, error)
	Preview(ctx context.Context, input PreviewInput) (*PreviewResult, error)
	RequestBooking(ctx context.Context, input RequestInput) (*domain.Booking, error)
	Reschedule(ctx context.Context, input RescheduleInput) (*domain.Booking, error)
	Cancel(ctx context.Context, id, customerID int64) (*domain.Booking, error)
	List(ctx context.Context, customerID int64, filter domain.ListFilter) ([]domain.Booking, error)
}

type Cache interface {
	GetSlots(ctx context.Context, date string, excludeID int64) ([]interval.Slot, error)
	SetSlots(ctx context.Context, date string, excludeID int64, slots []interval.Slot) error
	InvalidateSlots(ctx context.Context, dates ...string) error
	// AcquireScheduleLock returns the token that owns the lock; ok is false
	// when another holder has it.
	AcquireScheduleLock(ctx context.Context, ttl time.Duration) (token string, ok bool, err error)
	ReleaseScheduleLock(ctx context.Context, token string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Rules are the venue's booking policies.
type Rules struct {
	MinAdvanceDays int
	MinGuests      int
}

type BookingService struct {
	bookings           repository.BookingRepository
	cache              Cache
	producer           Producer
	calc               *availability.Calculator
	bookingTopic       string
	notificationsTopic string
	rules              Rules
	loc                *time.Location
	now                func() time.Time
	lockTTL            time.Duration
	logger             *zap.Logger
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithRules(rules Rules) BookingServiceOption {
	return func(s *BookingService) {
		s.rules = rules
	}
}

// WithLocation sets the venue timezone used to read wall-clock input.
func WithLocation(loc *time.Location) BookingServiceOption {
	return func(s *BookingService) {
		s.loc = loc
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithLogger(logger *zap.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.logger = logger
	}
}

func WithLockTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.lockTTL = ttl
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	cache Cache,
	producer Producer,
	calc *availability.Calculator,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		cache:        cache,
		producer:     producer,
		calc:         calc,
		bookingTopic: bookingTopic,
		rules:        Rules{MinAdvanceDays: 15, MinGuests: 70},
		loc:          time.Local,
		now:          time.Now,
		lockTTL:      10 * time.Second,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

type PreviewInput struct {
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	EndsNextDay bool   `json:"ends_next_day"`
	ExcludeID   int64  `json:"exclude_booking_id"`
}

type PreviewResult struct {
	Slot            interval.Slot `json:"slot"`
	StartDatetime   string        `json:"start_datetime"`
	EndDatetime     string        `json:"end_datetime"`
	EndsNextDay     bool          `json:"ends_next_day"`
	DurationMinutes int           `json:"duration_minutes"`
	Duration        string        `json:"duration"`
}

type RequestInput struct {
	CustomerID    int64            `json:"-"`
	CustomerEmail string           `json:"customer_email"`
	EventTitle    string           `json:"event_title"`
	EventType     domain.EventType `json:"event_type"`
	GuestCount    int              `json:"guest_count"`
	StartDatetime string           `json:"start_datetime"`
	EndDatetime   string           `json:"end_datetime"`
	Description   string           `json:"description"`
	Message       string           `json:"message"`
	StreetAddress string           `json:"street_address"`
	Postcode      string           `json:"postcode"`
	TownOrCity    string           `json:"town_or_city"`
}

type RescheduleInput struct {
	ID            int64  `json:"-"`
	CustomerID    int64  `json:"-"`
	StartDatetime string `json:"start_datetime"`
	EndDatetime   string `json:"end_datetime"`
}

// Slots returns the free windows for date, served from cache when possible.
func (s *BookingService) Slots(ctx context.Context, date time.Time, excludeID int64) ([]interval.Slot, error) {
	day := interval.Day(date.In(s.loc))
	key := day.Format(interval.DateLayout)

	if s.cache != nil {
		cached, err := s.cache.GetSlots(ctx, key, excludeID)
		if err != nil {
			s.logger.Warn("slots cache read failed", zap.String("date", key), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	slots, err := s.computeSlots(ctx, day, excludeID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetSlots(ctx, key, excludeID, slots); err != nil {
			s.logger.Warn("slots cache write failed", zap.String("date", key), zap.Error(err))
		}
	}
	return slots, nil
}

func (s *BookingService) computeSlots(ctx context.Context, day time.Time, excludeID int64) ([]interval.Slot, error) {
	from, to := availability.SearchRange(day)
	engagements, err := s.bookings.Engagements(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load engagements: %w", err)
	}
	return availability.Format(s.calc.AvailableSlots(day, engagements, excludeID), s.loc), nil
}

// WarmSlots recomputes and caches the slot lists for the next days, starting
// today. It returns how many dates were written.
func (s *BookingService) WarmSlots(ctx context.Context, days int) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	today := s.today()
	warmed := 0
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, i)
		slots, err := s.computeSlots(ctx, day, 0)
		if err != nil {
			return warmed, err
		}
		if err := s.cache.SetSlots(ctx, day.Format(interval.DateLayout), 0, slots); err != nil {
			return warmed, fmt.Errorf("cache slots: %w", err)
		}
		warmed++
	}
	return warmed, nil
}

// Preview runs the interval validator against the date's live slots.
func (s *BookingService) Preview(ctx context.Context, input PreviewInput) (*PreviewResult, error) {
	date, err := interval.ParseDate(input.Date, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	start, err := interval.ParseTimeOfDay(input.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: start_time: %v", ErrInvalidInput, err)
	}
	end, err := interval.ParseTimeOfDay(input.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: end_time: %v", ErrInvalidInput, err)
	}

	slots, err := s.Slots(ctx, date, input.ExcludeID)
	if err != nil {
		return nil, err
	}
	slot, ok := interval.SelectSlot(date, start, slots)
	if !ok {
		return nil, ErrNoAvailability
	}

	b, err := interval.Validate(date, start, end, input.EndsNextDay, slot)
	if err != nil {
		return nil, err
	}
	startWire, endWire := interval.Serialize(b)
	return &PreviewResult{
		Slot:            slot,
		StartDatetime:   startWire,
		EndDatetime:     endWire,
		EndsNextDay:     b.EndsNextDay,
		DurationMinutes: b.DurationMinutes,
		Duration:        b.Duration(),
	}, nil
}

func (s *BookingService) RequestBooking(ctx context.Context, input RequestInput) (*domain.Booking, error) {
	if err := s.validateRequest(input); err != nil {
		return nil, err
	}
	start, end, err := s.parseRange(input.StartDatetime, input.EndDatetime)
	if err != nil {
		return nil, err
	}
	if err := s.checkAdvance(start); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		CustomerID:    input.CustomerID,
		CustomerEmail: input.CustomerEmail,
		EventTitle:    strings.TrimSpace(input.EventTitle),
		EventType:     input.EventType,
		GuestCount:    input.GuestCount,
		StartAt:       start,
		EndAt:         end,
		Description:   input.Description,
		Message:       input.Message,
		StreetAddress: input.StreetAddress,
		Postcode:      input.Postcode,
		TownOrCity:    input.TownOrCity,
	}

	err = s.withScheduleLock(ctx, func() error {
		if err := s.checkConflicts(ctx, start, end, 0); err != nil {
			return err
		}
		return s.bookings.Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, start, end)
	s.publish(ctx, kafka.EventBookingRequested, booking)
	s.logger.Info("booking requested", zap.Int64("booking_id", booking.ID), zap.Int64("customer_id", booking.CustomerID))
	return booking, nil
}

// Reschedule moves a pending or approved booking. The booking's own time is
// ignored when checking conflicts, and an approved booking goes back to
// pending for re-approval.
func (s *BookingService) Reschedule(ctx context.Context, input RescheduleInput) (*domain.Booking, error) {
	current, err := s.owned(ctx, input.ID, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !current.Status.Blocks() {
		return nil, ErrNotEditable
	}

	start, end, err := s.parseRange(input.StartDatetime, input.EndDatetime)
	if err != nil {
		return nil, err
	}
	if !start.Equal(current.StartAt) {
		if err := s.checkAdvance(start); err != nil {
			return nil, err
		}
	}

	var updated *domain.Booking
	err = s.withScheduleLock(ctx, func() error {
		if err := s.checkConflicts(ctx, start, end, current.ID); err != nil {
			return err
		}
		var err error
		updated, err = s.bookings.Reschedule(ctx, current.ID, start, end, domain.BookingStatusPending)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, current.StartAt, current.EndAt)
	s.invalidate(ctx, start, end)
	s.publish(ctx, kafka.EventBookingRescheduled, updated)
	return updated, nil
}

// Cancel is idempotent: cancelling a cancelled or rejected booking returns it
// unchanged.
func (s *BookingService) Cancel(ctx context.Context, id, customerID int64) (*domain.Booking, error) {
	current, err := s.owned(ctx, id, customerID)
	if err != nil {
		return nil, err
	}
	if !current.Status.Blocks() {
		return current, nil
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, updated.StartAt, updated.EndAt)
	s.publish(ctx, kafka.EventBookingCancelled, updated)
	return updated, nil
}

func (s *BookingService) List(ctx context.Context, customerID int64, filter domain.ListFilter) ([]domain.Booking, error) {
	all, err := s.bookings.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	today := s.today()
	out := make([]domain.Booking, 0, len(all))
	for _, b := range all {
		if filter.Match(b, today) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *BookingService) owned(ctx context.Context, id, customerID int64) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.CustomerID != customerID {
		return nil, repository.ErrNotFound
	}
	return current, nil
}

func (s *BookingService) validateRequest(input RequestInput) error {
	var problems []string
	if strings.TrimSpace(input.EventTitle) == "" {
		problems = append(problems, "event title is required")
	}
	switch input.EventType {
	case domain.EventTypeOpen, domain.EventTypePrivate:
	default:
		problems = append(problems, "event type must be open or private")
	}
	if input.GuestCount < s.rules.MinGuests {
		problems = append(problems, fmt.Sprintf("minimum %d guests required", s.rules.MinGuests))
	}
	if input.EventType == domain.EventTypeOpen && strings.TrimSpace(input.Description) == "" {
		problems = append(problems, "description is required for open events")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

func (s *BookingService) parseRange(startWire, endWire string) (time.Time, time.Time, error) {
	start, err := interval.ParseWire(startWire, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_datetime: %v", ErrInvalidInput, err)
	}
	end, err := interval.ParseWire(endWire, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_datetime: %v", ErrInvalidInput, err)
	}
	if _, err := interval.FromInstants(start, end); err != nil {
		if errors.Is(err, interval.ErrEndBeforeStart) {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end must be after start", ErrInvalidInput)
		}
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return start, end, nil
}

func (s *BookingService) checkAdvance(start time.Time) error {
	earliest := s.today().AddDate(0, 0, s.rules.MinAdvanceDays)
	if interval.Day(start.In(s.loc)).Before(earliest) {
		return fmt.Errorf("%w: event date must be at least %d days from today", ErrTooSoon, s.rules.MinAdvanceDays)
	}
	return nil
}

func (s *BookingService) checkConflicts(ctx context.Context, start, end time.Time, excludeID int64) error {
	engagements, err := s.bookings.Engagements(ctx, start.Add(-s.calc.MinGap), end.Add(s.calc.MinGap))
	if err != nil {
		return fmt.Errorf("load engagements: %w", err)
	}
	return s.calc.CheckAvailable(start, end, engagements, excludeID)
}

// withScheduleLock runs fn while holding the venue-wide schedule lock so that
// the conflict check and the write cannot interleave with another request.
func (s *BookingService) withScheduleLock(ctx context.Context, fn func() error) error {
	if s.cache == nil {
		return fn()
	}
	token, ok, err := s.cache.AcquireScheduleLock(ctx, s.lockTTL)
	if err != nil {
		return fmt.Errorf("acquire schedule lock: %w", err)
	}
	if !ok {
		return ErrScheduleBusy
	}
	defer func() {
		if err := s.cache.ReleaseScheduleLock(ctx, token); err != nil {
			s.logger.Warn("release schedule lock failed", zap.Error(err))
		}
	}()
	return fn()
}

// invalidate drops cached slots for every date whose windows the range can
// affect: the day before the start through the day after the end.
func (s *BookingService) invalidate(ctx context.Context, start, end time.Time) {
	if s.cache == nil {
		return
	}
	first := interval.Day(start.In(s.loc)).AddDate(0, 0, -1)
	last := interval.Day(end.In(s.loc)).AddDate(0, 0, 1)

	var dates []string
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(interval.DateLayout))
	}
	if err := s.cache.InvalidateSlots(ctx, dates...); err != nil {
		s.logger.Warn("slots cache invalidation failed", zap.Strings("dates", dates), zap.Error(err))
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	start, end := booking.StartAt.In(s.loc), booking.EndAt.In(s.loc)
	event := kafka.BookingEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		BookingID:     booking.ID,
		CustomerEmail: booking.CustomerEmail,
		EventTitle:    booking.EventTitle,
		Status:        string(booking.Status),
		StartDatetime: start.Format(interval.WireLayout),
		EndDatetime:   end.Format(interval.WireLayout),
		Duration:      interval.CalculateDuration(start, end).Display,
		OccurredAt:    s.now(),
	}
	key := strconv.FormatInt(booking.ID, 10)

	topics := []string{s.bookingTopic}
	if s.notificationsTopic != "" {
		topics = append(topics, s.notificationsTopic)
	}
	for _, topic := range topics {
		if err := s.producer.Publish(ctx, topic, key, event); err != nil {
			s.logger.Warn("failed to publish booking event",
				zap.String("type", eventType), zap.String("topic", topic),
				zap.Int64("booking_id", booking.ID), zap.Error(err))
		}
	}
}

func (s *BookingService) today() time.Time {
	return interval.Day(s.now().In(s.loc))
}

var _ BookingUseCase = (*BookingService)(nil)
