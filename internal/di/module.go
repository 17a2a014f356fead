package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/cinema/internal/adapter/bookings"
	"github.com/polkiloo/cinema/internal/adapter/movies"
	"github.com/polkiloo/cinema/internal/adapter/rewards"
	"github.com/polkiloo/cinema/internal/app"
	"github.com/polkiloo/cinema/internal/config"
	"github.com/polkiloo/cinema/internal/logger"
	"github.com/polkiloo/cinema/internal/server/http/handlers"
	"github.com/polkiloo/cinema/internal/server/http/router"
	"github.com/polkiloo/cinema/internal/storage/postgres"
	"github.com/polkiloo/cinema/internal/usecase"
)

var storageHealth = fx.Provide(func(s *postgres.Storage) handlers.HealthChecker { return s })

// Bookings composes the bookings service.
func Bookings(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module(config.ServiceBookings),
		logger.Module,
		tracePropagation,
		postgres.BookingsModule,
		storageHealth,
		rewards.Module,
		fx.Provide(func(client rewards.Client) usecase.RewardCreditor { return client }),
		usecase.BookingsModule,
		router.BookingsModule,
		app.BookingsModule,
	}
	return fx.Options(append(modules, opts...)...)
}

// Rewards composes the rewards service.
func Rewards(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module(config.ServiceRewards),
		logger.Module,
		tracePropagation,
		postgres.RewardsModule,
		storageHealth,
		usecase.RewardsModule,
		router.RewardsModule,
		app.RewardsModule,
	}
	return fx.Options(append(modules, opts...)...)
}

// Users composes the users service.
func Users(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module(config.ServiceUsers),
		logger.Module,
		tracePropagation,
		postgres.UsersModule,
		storageHealth,
		bookings.Module,
		movies.Module,
		fx.Provide(func(client bookings.Client) usecase.BookingsReader { return client }),
		fx.Provide(func(client movies.Client) usecase.MovieCatalog { return client }),
		usecase.UsersModule,
		router.UsersModule,
		app.UsersModule,
	}
	return fx.Options(append(modules, opts...)...)
}
