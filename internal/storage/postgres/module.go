package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/cinema/internal/config"
	"github.com/polkiloo/cinema/internal/domain/repository"
)

// BookingsModule wires the bookings store.
var BookingsModule = fx.Options(
	fx.Provide(storageProvider(BookingsSchema)),
	fx.Provide(func(s *Storage) repository.BookingRepository { return s.Bookings() }),
	fx.Invoke(registerLifecycle),
)

// RewardsModule wires the reward ledger.
var RewardsModule = fx.Options(
	fx.Provide(storageProvider(RewardsSchema)),
	fx.Provide(func(s *Storage) repository.RewardRepository { return s.Rewards() }),
	fx.Invoke(registerLifecycle),
)

// UsersModule wires the users store.
var UsersModule = fx.Options(
	fx.Provide(storageProvider(UsersSchema)),
	fx.Provide(func(s *Storage) repository.UserRepository { return s.Users() }),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func storageProvider(schema []string) func(storageParams) (*Storage, error) {
	return func(p storageParams) (*Storage, error) {
		return newStorage(p, schema)
	}
}

func newStorage(p storageParams, schema []string) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger, schema)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
