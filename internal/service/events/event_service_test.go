package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) ListPublic(ctx context.Context, from time.Time) ([]domain.Event, error) {
	args := m.Called(ctx, from)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetEvents(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockCache) SetEvents(ctx context.Context, events []domain.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newService(repo *MockEventRepository, cache EventCache) *EventService {
	s := NewEventService(repo, cache, zap.NewNop())
	s.now = func() time.Time { return now }
	return s
}

func testEvents() []domain.Event {
	return []domain.Event{{
		ID:      4,
		Title:   "Summer Jazz Night",
		Type:    domain.EventTypeOpen,
		StartAt: now.AddDate(0, 1, 0),
		EndAt:   now.AddDate(0, 1, 0).Add(4 * time.Hour),
		Status:  domain.EventStatusActive,
	}}
}

func TestEventService_ListPublic_CacheMiss(t *testing.T) {
	repo := &MockEventRepository{}
	cache := &MockCache{}
	service := newService(repo, cache)
	ctx := context.Background()

	cache.On("GetEvents", ctx).Return(nil, nil).Once()
	repo.On("ListPublic", ctx, now).Return(testEvents(), nil).Once()
	cache.On("SetEvents", ctx, testEvents()).Return(nil).Once()

	events, err := service.ListPublic(ctx)

	assert.NoError(t, err)
	assert.Equal(t, testEvents(), events)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestEventService_ListPublic_CacheHit(t *testing.T) {
	repo := &MockEventRepository{}
	cache := &MockCache{}
	service := newService(repo, cache)
	ctx := context.Background()

	cache.On("GetEvents", ctx).Return(testEvents(), nil).Once()

	events, err := service.ListPublic(ctx)

	assert.NoError(t, err)
	assert.Len(t, events, 1)
	repo.AssertNotCalled(t, "ListPublic", mock.Anything, mock.Anything)
}

func TestEventService_ListPublic_CacheErrorFallsBack(t *testing.T) {
	repo := &MockEventRepository{}
	cache := &MockCache{}
	service := newService(repo, cache)
	ctx := context.Background()

	cache.On("GetEvents", ctx).Return(nil, errors.New("redis down")).Once()
	repo.On("ListPublic", ctx, now).Return(testEvents(), nil).Once()
	cache.On("SetEvents", ctx, mock.Anything).Return(errors.New("redis down")).Once()

	events, err := service.ListPublic(ctx)

	assert.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEventService_ListPublic_NoCache(t *testing.T) {
	repo := &MockEventRepository{}
	service := newService(repo, nil)
	ctx := context.Background()

	repo.On("ListPublic", ctx, now).Return([]domain.Event{}, errors.New("db down")).Once()

	_, err := service.ListPublic(ctx)
	assert.EqualError(t, err, "db down")
}

func TestEventService_GetByID(t *testing.T) {
	repo := &MockEventRepository{}
	service := newService(repo, nil)
	ctx := context.Background()

	open := testEvents()[0]
	private := open
	private.ID = 5
	private.Type = domain.EventTypePrivate

	repo.On("GetByID", ctx, int64(4)).Return(&open, nil).Once()
	repo.On("GetByID", ctx, int64(5)).Return(&private, nil).Once()
	repo.On("GetByID", ctx, int64(6)).Return(nil, repository.ErrNotFound).Once()

	event, err := service.GetByID(ctx, 4)
	assert.NoError(t, err)
	assert.Equal(t, "Summer Jazz Night", event.Title)

	_, err = service.GetByID(ctx, 5)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = service.GetByID(ctx, 6)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
