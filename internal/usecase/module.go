package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/cinema/internal/config"
	"github.com/polkiloo/cinema/internal/domain/model"
	"github.com/polkiloo/cinema/internal/domain/repository"
)

// BookingsModule provides booking and reward dispatch use cases.
var BookingsModule = fx.Provide(
	newRewardDispatcher,
	func(d *RewardDispatcher) Dispatcher { return d },
	newBookingUseCase,
)

// RewardsModule provides ledger use cases.
var RewardsModule = fx.Provide(newLedgerUseCase)

// UsersModule provides user use cases.
var UsersModule = fx.Provide(newUserUseCase)

type dispatcherParams struct {
	fx.In

	Bookings repository.BookingRepository
	Rewards  RewardCreditor
	Config   *config.Config
	Logger   *slog.Logger
}

func newRewardDispatcher(p dispatcherParams) *RewardDispatcher {
	policy := model.RetryPolicy{
		MaxAttempts: p.Config.MaxRewardAttempts,
		Base:        p.Config.RewardRetryBase,
		Max:         p.Config.RewardRetryMax,
	}
	return NewRewardDispatcher(p.Bookings, p.Rewards, policy, p.Config.RewardPoints, p.Logger)
}

type bookingParams struct {
	fx.In

	Bookings   repository.BookingRepository
	Dispatcher Dispatcher
	Config     *config.Config
	Logger     *slog.Logger
}

func newBookingUseCase(p bookingParams) *BookingUseCase {
	return NewBookingUseCase(p.Bookings, p.Dispatcher, p.Config.PendingGrace, p.Logger)
}

func newLedgerUseCase(rewards repository.RewardRepository, cfg *config.Config) *LedgerUseCase {
	return NewLedgerUseCase(rewards, cfg.AutoProvision, cfg.PrizeThreshold)
}

type userParams struct {
	fx.In

	Users    repository.UserRepository
	Bookings BookingsReader
	Movies   MovieCatalog
	Config   *config.Config
}

func newUserUseCase(p userParams) *UserUseCase {
	return NewUserUseCase(p.Users, p.Bookings, p.Movies, p.Config.FanoutWorkers)
}
