package handlers

import (
	"context"
	"time"

	"github.com/polkiloo/cinema/internal/domain/model"
)

// BookingFacade encapsulates booking operations exposed via HTTP.
type BookingFacade interface {
	CreateBooking(ctx context.Context, userID, movieID int64, date time.Time) (*model.Booking, error)
	Bookings(ctx context.Context) ([]model.Booking, error)
	UserBookings(ctx context.Context, userID int64) ([]model.Booking, error)
	FailedBookings(ctx context.Context, limit int) ([]model.Booking, error)
	Sweep(ctx context.Context) (model.SweepReport, error)
}

// RewardFacade provides reward ledger operations.
type RewardFacade interface {
	AddScore(ctx context.Context, req model.CreditRequest) (*model.CreditResult, error)
	Rewards(ctx context.Context) ([]model.Reward, error)
	Reward(ctx context.Context, userID int64) (*model.Reward, error)
	OpenReward(ctx context.Context, userID int64) (*model.Reward, error)
	Prize(ctx context.Context, userID int64) (*model.Prize, error)
}

// UserFacade provides user operations and the booked movies aggregation.
type UserFacade interface {
	RegisterUser(ctx context.Context, name string) (*model.User, error)
	Users(ctx context.Context) ([]model.User, error)
	User(ctx context.Context, id int64) (*model.User, error)
	BookedMovies(ctx context.Context, userID int64) (model.BookedMovies, error)
}

// HealthChecker reports whether the service can reach its store.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
