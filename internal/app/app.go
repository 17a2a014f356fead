package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/cinema/internal/config"
	"github.com/polkiloo/cinema/internal/server/http/handlers"
	"github.com/polkiloo/cinema/internal/usecase"
	"github.com/polkiloo/cinema/internal/worker"
)

// BookingsModule wires the bookings service, its sweeper and lifecycle hooks.
var BookingsModule = fx.Options(
	fx.Provide(
		newBookingsFacade,
		func(f *BookingsFacade) handlers.BookingFacade { return f },
		func(f *BookingsFacade) *worker.RewardSweeper { return f.Sweeper() },
		newHTTPServer,
	),
	fx.Invoke(registerLifecycle),
)

// RewardsModule wires the rewards service and lifecycle hooks.
var RewardsModule = fx.Options(
	fx.Provide(
		NewRewardsFacade,
		func(f *RewardsFacade) handlers.RewardFacade { return f },
		newHTTPServer,
	),
	fx.Invoke(registerLifecycle),
)

// UsersModule wires the users service and lifecycle hooks.
var UsersModule = fx.Options(
	fx.Provide(
		NewUsersFacade,
		func(f *UsersFacade) handlers.UserFacade { return f },
		newHTTPServer,
	),
	fx.Invoke(registerLifecycle),
)

type facadeParams struct {
	fx.In

	Bookings   *usecase.BookingUseCase
	Dispatcher *usecase.RewardDispatcher
	Config     *config.Config
	Logger     *slog.Logger
}

func newBookingsFacade(p facadeParams) *BookingsFacade {
	return NewBookingsFacade(p.Bookings, p.Dispatcher, SweepSettings{
		Interval:  p.Config.SweepInterval,
		BatchSize: p.Config.SweepBatchSize,
		Workers:   p.Config.SweepWorkers,
	}, p.Logger)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:              p.Config.RunAddress,
		Handler:           p.Router,
		ReadHeaderTimeout: p.Config.RequestTimeout,
	}
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Sweeper    *worker.RewardSweeper `optional:"true"`
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	service := string(p.Config.Service)
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting service", slog.String("service", service), slog.String("addr", p.Server.Addr))
			if p.Sweeper != nil {
				// The start context ends with OnStart; the sweeper lives until OnStop.
				p.Sweeper.Start(context.WithoutCancel(ctx))
			}
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if p.Sweeper != nil {
				p.Sweeper.Stop()
			}

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("service stopped", slog.String("service", service))
			return nil
		},
	})
}
