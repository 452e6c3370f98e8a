package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/eventbooking/internal/availability"
	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/interval"
	"github.com/Domenick1991/eventbooking/internal/repository"
	"github.com/Domenick1991/eventbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CustomerHeader carries the authenticated customer's id, set by the proxy in
// front of the service.
const CustomerHeader = "X-Customer-ID"

type BookingHandler struct {
	service booking.BookingUseCase
	loc     *time.Location
	logger  *zap.Logger
}

type bookingResponse struct {
	ID            int64  `json:"id"`
	EventTitle    string `json:"event_title"`
	EventType     string `json:"event_type"`
	GuestCount    int    `json:"guest_count"`
	StartDatetime string `json:"start_datetime"`
	EndDatetime   string `json:"end_datetime"`
	Duration      string `json:"duration"`
	Status        string `json:"status"`
	Description   string `json:"description,omitempty"`
	StreetAddress string `json:"street_address,omitempty"`
	Postcode      string `json:"postcode,omitempty"`
	TownOrCity    string `json:"town_or_city,omitempty"`
}

type rescheduleRequest struct {
	StartDatetime string `json:"start_datetime" binding:"required"`
	EndDatetime   string `json:"end_datetime" binding:"required"`
}

func NewBookingHandler(service booking.BookingUseCase, loc *time.Location, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{service: service, loc: loc, logger: logger}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/slots/:date/", h.slots)
	router.POST("/preview/", h.preview)
	router.POST("/request/", h.request)
	router.GET("/bookings/", h.list)
	router.PUT("/:id/", h.reschedule)
	router.DELETE("/:id/", h.cancel)
}

func (h *BookingHandler) slots(c *gin.Context) {
	date, err := interval.ParseDate(c.Param("date"), h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, availability.SlotsResponse{Error: "Invalid date format"})
		return
	}
	var exclude int64
	if raw := c.Query("exclude"); raw != "" {
		exclude, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, availability.SlotsResponse{Error: "Invalid exclude id"})
			return
		}
	}

	slots, err := h.service.Slots(c.Request.Context(), date, exclude)
	if err != nil {
		h.logger.Error("failed to load slots", zap.Time("date", date), zap.Error(err))
		c.JSON(http.StatusInternalServerError, availability.SlotsResponse{Error: "Could not load availability"})
		return
	}
	c.JSON(http.StatusOK, availability.SlotsResponse{
		Success:         true,
		HasAvailability: len(slots) > 0,
		Slots:           slots,
	})
}

func (h *BookingHandler) preview(c *gin.Context) {
	var req booking.PreviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.service.Preview(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BookingHandler) request(c *gin.Context) {
	customerID, ok := customer(c)
	if !ok {
		return
	}
	var req booking.RequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.CustomerID = customerID

	b, err := h.service.RequestBooking(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.toResponse(b))
}

func (h *BookingHandler) list(c *gin.Context) {
	customerID, ok := customer(c)
	if !ok {
		return
	}
	filter, ok := domain.ParseListFilter(c.Query("filter"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown filter"})
		return
	}

	bookings, err := h.service.List(c.Request.Context(), customerID, filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, h.toResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) reschedule(c *gin.Context) {
	customerID, ok := customer(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.Reschedule(c.Request.Context(), booking.RescheduleInput{
		ID:            id,
		CustomerID:    customerID,
		StartDatetime: req.StartDatetime,
		EndDatetime:   req.EndDatetime,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResponse(b))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	customerID, ok := customer(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), id, customerID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResponse(b))
}

func (h *BookingHandler) writeError(c *gin.Context, err error) {
	var verr *interval.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":            verr.Message,
			"kind":             verr.Kind.String(),
			"boundary":         verr.Boundary,
			"suggest_next_day": verr.SuggestNextDay,
		})
	case errors.Is(err, booking.ErrInvalidInput), errors.Is(err, booking.ErrTooSoon):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, availability.ErrConflict),
		errors.Is(err, booking.ErrScheduleBusy),
		errors.Is(err, booking.ErrNotEditable),
		errors.Is(err, booking.ErrNoAvailability):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
	default:
		h.logger.Error("booking request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *BookingHandler) toResponse(b *domain.Booking) bookingResponse {
	start, end := b.StartAt.In(h.loc), b.EndAt.In(h.loc)
	return bookingResponse{
		ID:            b.ID,
		EventTitle:    b.EventTitle,
		EventType:     string(b.EventType),
		GuestCount:    b.GuestCount,
		StartDatetime: start.Format(interval.WireLayout),
		EndDatetime:   end.Format(interval.WireLayout),
		Duration:      interval.CalculateDuration(start, end).Display,
		Status:        string(b.Status),
		Description:   b.Description,
		StreetAddress: b.StreetAddress,
		Postcode:      b.Postcode,
		TownOrCity:    b.TownOrCity,
	}
}

// customer reads the caller id and answers 401 when it is missing.
func customer(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.GetHeader(CustomerHeader), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid " + CustomerHeader})
		return 0, false
	}
	return id, true
}
