package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/cinema/internal/config"
	"github.com/polkiloo/cinema/internal/domain/model"
	testhelpers "github.com/polkiloo/cinema/internal/test"
	"github.com/polkiloo/cinema/internal/usecase"
	"github.com/polkiloo/cinema/internal/worker"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestSweeper(store *testhelpers.BookingStoreStub, ledger *testhelpers.LedgerStub) *worker.RewardSweeper {
	facade, _ := newTestBookingsFacade(store, ledger, 5*time.Millisecond)
	return facade.Sweeper()
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999", RequestTimeout: time.Second}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
}

func TestNewBookingsFacadeUsesConfig(t *testing.T) {
	store := testhelpers.NewBookingStoreStub()
	dispatcher := usecase.NewRewardDispatcher(store, &testhelpers.RewardsClientStub{}, model.RetryPolicy{MaxAttempts: 1}, 1, testLogger())
	facade := newBookingsFacade(facadeParams{
		Bookings:   usecase.NewBookingUseCase(store, dispatcher, 0, testLogger()),
		Dispatcher: dispatcher,
		Config:     &config.Config{SweepInterval: time.Second, SweepBatchSize: 3, SweepWorkers: 2},
		Logger:     testLogger(),
	})
	if facade.Sweeper() == nil {
		t.Fatal("expected sweeper instance")
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}

	store := testhelpers.NewBookingStoreStub()
	store.Put(model.Booking{ID: 1, UserID: 1, Reward: model.RewardState{Status: model.RewardStatusPending}})
	ledger := testhelpers.NewLedgerStub(1)
	cfg := &config.Config{Service: config.ServiceBookings, ShutdownTimeout: 100 * time.Millisecond}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     testLogger(),
		Server:     server,
		Sweeper:    newTestSweeper(store, ledger),
		Config:     cfg,
	})

	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(recorder.Hooks))
	}

	hook := recorder.Hooks[0]
	ctx, cancel := context.WithCancel(context.Background())
	if err := hook.OnStart(ctx); err != nil {
		t.Fatalf("on start failed: %v", err)
	}
	// Cancelling the start context must not stop the sweeper.
	cancel()

	deadline := time.After(time.Second)
	for !store.Snapshot(1).Rewarded() {
		select {
		case <-deadline:
			t.Fatal("expected sweeper to reward the pending booking")
		case <-time.After(5 * time.Millisecond):
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hook.OnStop(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}
}

func TestRegisterLifecycleWithoutSweeper(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: &testhelpers.ShutdownerStub{},
		Logger:     testLogger(),
		Server:     server,
		Config:     &config.Config{Service: config.ServiceRewards, ShutdownTimeout: 100 * time.Millisecond},
	})

	hook := recorder.Hooks[0]
	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start failed: %v", err)
	}
	if err := hook.OnStop(context.Background()); err != nil {
		t.Fatalf("on stop failed: %v", err)
	}
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	server := &http.Server{Addr: "bad addr"}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     testLogger(),
		Server:     server,
		Sweeper:    newTestSweeper(testhelpers.NewBookingStoreStub(), testhelpers.NewLedgerStub()),
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	hook := recorder.Hooks[0]
	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}

	_ = hook.OnStop(context.Background())
}

func TestRunStopsOnContextCancel(t *testing.T) {
	started := make(chan struct{})
	stopped := make(chan struct{})
	application := fx.New(
		fx.NopLogger,
		fx.Invoke(func(lc fx.Lifecycle) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error { close(started); return nil },
				OnStop:  func(context.Context) error { close(stopped); return nil },
			})
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- Run(ctx, application) }()

	<-started
	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("expected run to return")
	}
	select {
	case <-stopped:
	default:
		t.Fatal("expected stop hook to run")
	}
}

func TestRunReportsStartFailure(t *testing.T) {
	application := fx.New(
		fx.NopLogger,
		fx.Invoke(func(lc fx.Lifecycle) {
			lc.Append(fx.Hook{OnStart: func(context.Context) error { return context.DeadlineExceeded }})
		}),
	)
	if err := Run(context.Background(), application); err == nil {
		t.Fatal("expected start error")
	}
}

func TestLifecycleRecorderAppend(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	recorder.Append(fx.Hook{})
	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected hook to be appended")
	}
}
