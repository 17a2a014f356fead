package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/polkiloo/cinema/internal/domain/model"
	"github.com/polkiloo/cinema/internal/server/http/dto"
)

const (
	dateLayout         = "2006-01-02"
	defaultFailedLimit = 100
)

// BookingHandler manages booking endpoints.
type BookingHandler struct {
	facade BookingFacade
}

// NewBookingHandler constructs BookingHandler.
func NewBookingHandler(facade BookingFacade) *BookingHandler {
	return &BookingHandler{facade: facade}
}

// Manual handles GET /.
func (h *BookingHandler) Manual(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ManualResponse{
		URI: "/",
		SubresourceURIs: map[string]string{
			"bookings": "/bookings",
			"booking":  "/bookings/<user>",
			"new":      "/bookings/new",
			"failed":   "/admin/bookings/failed",
			"sweep":    "/admin/sweep",
		},
	})
}

// Create handles POST /bookings/new.
func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as " + dateLayout})
		return
	}

	booking, err := h.facade.CreateBooking(c.Request.Context(), req.User, req.Movie, date)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(*booking))
}

// List handles GET /bookings.
func (h *BookingHandler) List(c *gin.Context) {
	bookings, err := h.facade.Bookings(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

// ListByUser handles GET /bookings/:user.
func (h *BookingHandler) ListByUser(c *gin.Context) {
	userID, ok := ParseID(c, "user")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}
	bookings, err := h.facade.UserBookings(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

// Failed handles GET /admin/bookings/failed.
func (h *BookingHandler) Failed(c *gin.Context) {
	limit := defaultFailedLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.Status(http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	bookings, err := h.facade.FailedBookings(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

// Sweep handles POST /admin/sweep.
func (h *BookingHandler) Sweep(c *gin.Context) {
	report, err := h.facade.Sweep(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SweepReportResponse(report))
}

func toBookingResponses(bookings []model.Booking) []dto.BookingResponse {
	return lo.Map(bookings, func(b model.Booking, _ int) dto.BookingResponse {
		return toBookingResponse(b)
	})
}

func toBookingResponse(b model.Booking) dto.BookingResponse {
	resp := dto.BookingResponse{
		ID:              b.ID,
		User:            b.UserID,
		Movie:           b.MovieID,
		Date:            b.Date.Format(dateLayout),
		Rewarded:        b.Rewarded(),
		RewardStatus:    string(b.Reward.Status),
		RewardRetryable: b.Reward.Retryable,
		RewardAttempts:  b.Reward.Attempts,
		RewardError:     b.Reward.Error,
		LastAttemptAt:   b.Reward.LastAttemptAt,
		CreatedAt:       b.CreatedAt,
	}
	if b.Reward.Status == model.RewardStatusPending || b.Reward.RetryableFailure() {
		next := b.Reward.NextAttemptAt
		resp.NextAttemptAt = &next
	}
	return resp
}
