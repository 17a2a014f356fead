package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/polkiloo/cinema/internal/domain/errors"
	"github.com/polkiloo/cinema/internal/domain/model"
	"github.com/polkiloo/cinema/internal/domain/repository"
)

// Dispatcher credits the reward of a freshly stored booking.
type Dispatcher interface {
	Dispatch(ctx context.Context, booking model.Booking) (model.RewardOutcome, error)
}

// BookingUseCase encapsulates booking lifecycle logic.
type BookingUseCase struct {
	bookings   repository.BookingRepository
	dispatcher Dispatcher
	grace      time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewBookingUseCase constructs BookingUseCase. Bookings left PENDING become due for the
// sweeper after grace.
func NewBookingUseCase(bookings repository.BookingRepository, dispatcher Dispatcher, grace time.Duration, logger *slog.Logger) *BookingUseCase {
	return &BookingUseCase{
		bookings:   bookings,
		dispatcher: dispatcher,
		grace:      grace,
		logger:     logger,
		now:        time.Now,
	}
}

// Create stores a booking and makes one synchronous reward attempt. A failed attempt
// never fails the booking: the returned booking shows the recorded reward state.
func (u *BookingUseCase) Create(ctx context.Context, userID, movieID int64, date time.Time) (*model.Booking, error) {
	if userID <= 0 || movieID <= 0 {
		return nil, fmt.Errorf("user and movie must be positive ids: %w", domainErrors.ErrValidation)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("booking date is required: %w", domainErrors.ErrValidation)
	}

	booking, err := u.bookings.Create(ctx, userID, movieID, date, model.NewBookingRewardState(u.now(), u.grace))
	if err != nil {
		return nil, err
	}

	outcome, err := u.dispatcher.Dispatch(ctx, *booking)
	if err != nil {
		u.logger.Error("reward dispatch failed, left to the sweeper",
			slog.Int64("booking_id", booking.ID),
			slog.String("error", err.Error()))
		return booking, nil
	}
	return &outcome.Booking, nil
}

// List returns every booking.
func (u *BookingUseCase) List(ctx context.Context) ([]model.Booking, error) {
	return u.bookings.List(ctx)
}

// ListByUser returns bookings of the user ordered by date. A user without bookings is
// reported as not found.
func (u *BookingUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	bookings, err := u.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, domainErrors.ErrNotFound
	}
	return bookings, nil
}

// PermanentlyFailed lists bookings whose reward will not be retried anymore.
func (u *BookingUseCase) PermanentlyFailed(ctx context.Context, limit int) ([]model.Booking, error) {
	return u.bookings.ListPermanentlyFailed(ctx, limit)
}

// DueForReward returns bookings the sweeper should reconcile now.
func (u *BookingUseCase) DueForReward(ctx context.Context, limit int) ([]model.Booking, error) {
	return u.bookings.SelectDueForReward(ctx, u.now(), limit)
}
