package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockEventUseCase struct {
	mock.Mock
}

func (m *MockEventUseCase) ListPublic(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventUseCase) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func TestEventHandler_list(t *testing.T) {
	mockService := &MockEventUseCase{}
	handler := NewEventHandler(mockService, zap.NewNop())

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/events/", nil)

	events := []domain.Event{
		{ID: 1, Title: "Summer Jazz Night", Type: domain.EventTypeOpen, StartAt: time.Date(2026, 7, 1, 19, 0, 0, 0, time.UTC)},
	}
	mockService.On("ListPublic", c.Request.Context()).Return(events, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Summer Jazz Night"`)
	mockService.AssertExpectations(t)
}

func TestEventHandler_listError(t *testing.T) {
	mockService := &MockEventUseCase{}
	handler := NewEventHandler(mockService, zap.NewNop())

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/events/", nil)

	mockService.On("ListPublic", c.Request.Context()).Return([]domain.Event{}, errors.New("db down"))

	handler.list(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestEventHandler_get(t *testing.T) {
	testCases := []struct {
		name   string
		id     string
		event  *domain.Event
		err    error
		status int
	}{
		{"found", "1", &domain.Event{ID: 1, Title: "Quiz Night"}, nil, http.StatusOK},
		{"not found", "2", nil, repository.ErrNotFound, http.StatusNotFound},
		{"bad id", "abc", nil, nil, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockEventUseCase{}
			handler := NewEventHandler(mockService, zap.NewNop())

			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: tc.id}}
			c.Request = httptest.NewRequest("GET", "/events/"+tc.id, nil)

			if tc.status != http.StatusBadRequest {
				mockService.On("GetByID", c.Request.Context(), mock.AnythingOfType("int64")).Return(tc.event, tc.err)
			}

			handler.get(c)

			assert.Equal(t, tc.status, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
