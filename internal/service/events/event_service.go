package events

import (
	"context"
	"time"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/repository"
	"go.uber.org/zap"
)

type EventUseCase interface {
	ListPublic(ctx context.Context) ([]domain.Event, error)
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
}

type EventCache interface {
	GetEvents(ctx context.Context) ([]domain.Event, error)
	SetEvents(ctx context.Context, events []domain.Event) error
}

type EventService struct {
	repo   repository.EventRepository
	cache  EventCache
	now    func() time.Time
	logger *zap.Logger
}

func NewEventService(repo repository.EventRepository, cache EventCache, logger *zap.Logger) *EventService {
	return &EventService{repo: repo, cache: cache, now: time.Now, logger: logger}
}

// ListPublic returns upcoming open events. The list is cached as a whole.
func (s *EventService) ListPublic(ctx context.Context) ([]domain.Event, error) {
	if s.cache != nil {
		cached, err := s.cache.GetEvents(ctx)
		if err != nil {
			s.logger.Warn("events cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	events, err := s.repo.ListPublic(ctx, s.now())
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetEvents(ctx, events); err != nil {
			s.logger.Warn("events cache write failed", zap.Error(err))
		}
	}
	return events, nil
}

// GetByID hides private events and closures from the public listing.
func (s *EventService) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Type != domain.EventTypeOpen {
		return nil, repository.ErrNotFound
	}
	return event, nil
}

var _ EventUseCase = (*EventService)(nil)
