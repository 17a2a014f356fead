package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.uber.org/fx"

	"github.com/polkiloo/cinema/internal/adapter/bookings"
	"github.com/polkiloo/cinema/internal/adapter/movies"
	"github.com/polkiloo/cinema/internal/adapter/rewards"
	"github.com/polkiloo/cinema/internal/app"
	"github.com/polkiloo/cinema/internal/config"
	"github.com/polkiloo/cinema/internal/domain/repository"
	"github.com/polkiloo/cinema/internal/storage/postgres"
	"github.com/polkiloo/cinema/internal/test"
	"github.com/polkiloo/cinema/internal/worker"
)

func testConfig(service config.Service) *config.Config {
	return &config.Config{
		Service:           service,
		RunAddress:        ":0",
		DatabaseURI:       "postgres://stub",
		RewardsAddress:    "http://localhost:5004",
		BookingsAddress:   "http://localhost:5003",
		MoviesAddress:     "http://localhost:5001",
		RequestTimeout:    time.Second,
		RetryCount:        1,
		BackoffBase:       time.Millisecond,
		BackoffMax:        time.Millisecond,
		BreakerThreshold:  5,
		BreakerCooldown:   time.Second,
		SweepInterval:     time.Second,
		SweepBatchSize:    1,
		SweepWorkers:      1,
		MaxRewardAttempts: 5,
		RewardRetryBase:   time.Second,
		RewardRetryMax:    time.Minute,
		RewardPoints:      1,
		PrizeThreshold:    5,
		FanoutWorkers:     2,
		ShutdownTimeout:   time.Millisecond,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestBookingsComposesGraphWithReplacements(t *testing.T) {
	var (
		facade  *app.BookingsFacade
		sweeper *worker.RewardSweeper
	)
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Bookings(
			fx.Replace(testConfig(config.ServiceBookings)),
			fx.Replace(testLogger()),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.BookingRepository(test.NewBookingStoreStub())),
			fx.Replace(rewards.Client(&test.RewardsClientStub{})),
		),
		fx.Populate(&facade, &sweeper),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	if facade == nil || sweeper == nil || facade.Sweeper() != sweeper {
		t.Fatal("expected bookings facade with its sweeper")
	}
}

func TestRewardsComposesGraphWithReplacements(t *testing.T) {
	var facade *app.RewardsFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Rewards(
			fx.Replace(testConfig(config.ServiceRewards)),
			fx.Replace(testLogger()),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.RewardRepository(test.NewLedgerStub())),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	if facade == nil {
		t.Fatal("expected rewards facade instance")
	}
	if !lo.Contains(otel.GetTextMapPropagator().Fields(), "traceparent") {
		t.Fatal("expected trace context propagation to be configured")
	}
}

func TestUsersComposesGraphWithReplacements(t *testing.T) {
	var facade *app.UsersFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Users(
			fx.Replace(testConfig(config.ServiceUsers)),
			fx.Replace(testLogger()),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.UserRepository(test.NewUserRepositoryStub())),
			fx.Replace(bookings.Client(test.BookingsClientStub{})),
			fx.Replace(movies.Client(&test.MoviesClientStub{})),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	if facade == nil {
		t.Fatal("expected users facade instance")
	}
}
