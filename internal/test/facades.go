package test

import (
	"context"
	"time"

	"github.com/polkiloo/cinema/internal/domain/model"
)

// BookingFacadeStub provides controllable behaviour for booking endpoints.
type BookingFacadeStub struct {
	CreateFn   func(context.Context, int64, int64, time.Time) (*model.Booking, error)
	BookingsFn func(context.Context) ([]model.Booking, error)
	UserFn     func(context.Context, int64) ([]model.Booking, error)
	FailedFn   func(context.Context, int) ([]model.Booking, error)
	SweepFn    func(context.Context) (model.SweepReport, error)
}

// CreateBooking delegates to CreateFn or returns a rewarded booking.
func (s BookingFacadeStub) CreateBooking(ctx context.Context, userID, movieID int64, date time.Time) (*model.Booking, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID, movieID, date)
	}
	return &model.Booking{
		ID:      1,
		UserID:  userID,
		MovieID: movieID,
		Date:    date,
		Reward:  model.RewardState{Status: model.RewardStatusRewarded, Attempts: 1},
	}, nil
}

// Bookings returns configured bookings.
func (s BookingFacadeStub) Bookings(ctx context.Context) ([]model.Booking, error) {
	if s.BookingsFn != nil {
		return s.BookingsFn(ctx)
	}
	return nil, nil
}

// UserBookings returns bookings of the user.
func (s BookingFacadeStub) UserBookings(ctx context.Context, userID int64) ([]model.Booking, error) {
	if s.UserFn != nil {
		return s.UserFn(ctx, userID)
	}
	return []model.Booking{{ID: 1, UserID: userID}}, nil
}

// FailedBookings returns permanently failed bookings.
func (s BookingFacadeStub) FailedBookings(ctx context.Context, limit int) ([]model.Booking, error) {
	if s.FailedFn != nil {
		return s.FailedFn(ctx, limit)
	}
	return nil, nil
}

// Sweep runs the configured pass.
func (s BookingFacadeStub) Sweep(ctx context.Context) (model.SweepReport, error) {
	if s.SweepFn != nil {
		return s.SweepFn(ctx)
	}
	return model.SweepReport{}, nil
}

// RewardFacadeStub simulates ledger operations.
type RewardFacadeStub struct {
	AddScoreFn func(context.Context, model.CreditRequest) (*model.CreditResult, error)
	RewardsFn  func(context.Context) ([]model.Reward, error)
	RewardFn   func(context.Context, int64) (*model.Reward, error)
	OpenFn     func(context.Context, int64) (*model.Reward, error)
	PrizeFn    func(context.Context, int64) (*model.Prize, error)
}

// AddScore delegates to AddScoreFn or echoes the amount as the new score.
func (s RewardFacadeStub) AddScore(ctx context.Context, req model.CreditRequest) (*model.CreditResult, error) {
	if s.AddScoreFn != nil {
		return s.AddScoreFn(ctx, req)
	}
	return &model.CreditResult{UserID: req.UserID, Score: req.Amount}, nil
}

// Rewards returns configured entries.
func (s RewardFacadeStub) Rewards(ctx context.Context) ([]model.Reward, error) {
	if s.RewardsFn != nil {
		return s.RewardsFn(ctx)
	}
	return nil, nil
}

// Reward returns the entry of the user.
func (s RewardFacadeStub) Reward(ctx context.Context, userID int64) (*model.Reward, error) {
	if s.RewardFn != nil {
		return s.RewardFn(ctx, userID)
	}
	return &model.Reward{UserID: userID}, nil
}

// OpenReward provisions an entry.
func (s RewardFacadeStub) OpenReward(ctx context.Context, userID int64) (*model.Reward, error) {
	if s.OpenFn != nil {
		return s.OpenFn(ctx, userID)
	}
	return &model.Reward{UserID: userID}, nil
}

// Prize returns the prize state of the user.
func (s RewardFacadeStub) Prize(ctx context.Context, userID int64) (*model.Prize, error) {
	if s.PrizeFn != nil {
		return s.PrizeFn(ctx, userID)
	}
	return &model.Prize{UserID: userID}, nil
}

// UserFacadeStub simulates user operations.
type UserFacadeStub struct {
	RegisterFn func(context.Context, string) (*model.User, error)
	UsersFn    func(context.Context) ([]model.User, error)
	UserFn     func(context.Context, int64) (*model.User, error)
	BookedFn   func(context.Context, int64) (model.BookedMovies, error)
}

// RegisterUser delegates to RegisterFn or returns user 1.
func (s UserFacadeStub) RegisterUser(ctx context.Context, name string) (*model.User, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, name)
	}
	return &model.User{ID: 1, Name: name}, nil
}

// Users returns configured users.
func (s UserFacadeStub) Users(ctx context.Context) ([]model.User, error) {
	if s.UsersFn != nil {
		return s.UsersFn(ctx)
	}
	return nil, nil
}

// User returns the user with the given id.
func (s UserFacadeStub) User(ctx context.Context, id int64) (*model.User, error) {
	if s.UserFn != nil {
		return s.UserFn(ctx, id)
	}
	return &model.User{ID: id, Name: "user"}, nil
}

// BookedMovies returns the configured aggregation.
func (s UserFacadeStub) BookedMovies(ctx context.Context, userID int64) (model.BookedMovies, error) {
	if s.BookedFn != nil {
		return s.BookedFn(ctx, userID)
	}
	return model.BookedMovies{}, nil
}

// HealthCheckerStub reports Err as the store health.
type HealthCheckerStub struct {
	Err error
}

// HealthCheck returns Err.
func (s HealthCheckerStub) HealthCheck(context.Context) error {
	return s.Err
}
