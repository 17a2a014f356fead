package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/polkiloo/cinema/internal/domain/model"
	"github.com/polkiloo/cinema/internal/usecase"
	"github.com/polkiloo/cinema/internal/worker"
)

// SweepSettings configures the reconciliation sweeper of the bookings service.
type SweepSettings struct {
	Interval  time.Duration
	BatchSize int
	Workers   int
}

// BookingsFacade combines booking use cases with reward dispatch and reconciliation.
type BookingsFacade struct {
	bookings   *usecase.BookingUseCase
	dispatcher *usecase.RewardDispatcher
	sweeper    *worker.RewardSweeper
}

// NewBookingsFacade constructs the facade together with the sweeper working on it.
func NewBookingsFacade(bookings *usecase.BookingUseCase, dispatcher *usecase.RewardDispatcher, sweep SweepSettings, logger *slog.Logger) *BookingsFacade {
	f := &BookingsFacade{bookings: bookings, dispatcher: dispatcher}
	f.sweeper = worker.NewRewardSweeper(f, sweep.Interval, sweep.BatchSize, sweep.Workers, logger)
	return f
}

// Sweeper returns the reconciliation sweeper bound to the facade.
func (f *BookingsFacade) Sweeper() *worker.RewardSweeper {
	return f.sweeper
}

func (f *BookingsFacade) CreateBooking(ctx context.Context, userID, movieID int64, date time.Time) (*model.Booking, error) {
	return f.bookings.Create(ctx, userID, movieID, date)
}

func (f *BookingsFacade) Bookings(ctx context.Context) ([]model.Booking, error) {
	return f.bookings.List(ctx)
}

func (f *BookingsFacade) UserBookings(ctx context.Context, userID int64) ([]model.Booking, error) {
	return f.bookings.ListByUser(ctx, userID)
}

func (f *BookingsFacade) FailedBookings(ctx context.Context, limit int) ([]model.Booking, error) {
	return f.bookings.PermanentlyFailed(ctx, limit)
}

// Sweep runs one reconciliation pass on demand.
func (f *BookingsFacade) Sweep(ctx context.Context) (model.SweepReport, error) {
	return f.sweeper.RunOnce(ctx)
}

func (f *BookingsFacade) DueForReward(ctx context.Context, limit int) ([]model.Booking, error) {
	return f.bookings.DueForReward(ctx, limit)
}

func (f *BookingsFacade) Reconcile(ctx context.Context, booking model.Booking) (model.RewardOutcome, error) {
	return f.dispatcher.Reconcile(ctx, booking)
}

// RewardsFacade exposes the reward ledger.
type RewardsFacade struct {
	ledger *usecase.LedgerUseCase
}

func NewRewardsFacade(ledger *usecase.LedgerUseCase) *RewardsFacade {
	return &RewardsFacade{ledger: ledger}
}

func (f *RewardsFacade) AddScore(ctx context.Context, req model.CreditRequest) (*model.CreditResult, error) {
	return f.ledger.Credit(ctx, req)
}

func (f *RewardsFacade) Rewards(ctx context.Context) ([]model.Reward, error) {
	return f.ledger.List(ctx)
}

func (f *RewardsFacade) Reward(ctx context.Context, userID int64) (*model.Reward, error) {
	return f.ledger.Get(ctx, userID)
}

func (f *RewardsFacade) OpenReward(ctx context.Context, userID int64) (*model.Reward, error) {
	return f.ledger.Open(ctx, userID)
}

func (f *RewardsFacade) Prize(ctx context.Context, userID int64) (*model.Prize, error) {
	return f.ledger.Prize(ctx, userID)
}

// UsersFacade exposes users and what they booked.
type UsersFacade struct {
	users *usecase.UserUseCase
}

func NewUsersFacade(users *usecase.UserUseCase) *UsersFacade {
	return &UsersFacade{users: users}
}

func (f *UsersFacade) RegisterUser(ctx context.Context, name string) (*model.User, error) {
	return f.users.Register(ctx, name)
}

func (f *UsersFacade) Users(ctx context.Context) ([]model.User, error) {
	return f.users.List(ctx)
}

func (f *UsersFacade) User(ctx context.Context, id int64) (*model.User, error) {
	return f.users.Get(ctx, id)
}

func (f *UsersFacade) BookedMovies(ctx context.Context, userID int64) (model.BookedMovies, error) {
	return f.users.BookedMovies(ctx, userID)
}
