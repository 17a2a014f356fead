package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/polkiloo/cinema/internal/domain/model"
	"github.com/polkiloo/cinema/internal/metrics"
)

// RewardFacade exposes the subset of application functionality required by the sweeper.
type RewardFacade interface {
	DueForReward(ctx context.Context, limit int) ([]model.Booking, error)
	Reconcile(ctx context.Context, booking model.Booking) (model.RewardOutcome, error)
}

// RewardSweeper periodically reconciles bookings whose reward is still unresolved.
type RewardSweeper struct {
	facade    RewardFacade
	interval  time.Duration
	batchSize int
	workers   int
	logger    *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewRewardSweeper constructs sweeper handling up to batchSize bookings per pass with
// workers in parallel.
func NewRewardSweeper(facade RewardFacade, interval time.Duration, batchSize, workers int, logger *slog.Logger) *RewardSweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &RewardSweeper{
		facade:    facade,
		interval:  interval,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
	}
}

// Start launches the background loop. Calling Start on a running sweeper is a no-op.
func (s *RewardSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(runCtx)
}

// Stop cancels the loop and waits for the in-flight pass to finish.
func (s *RewardSweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *RewardSweeper) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("reward sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}

// RunOnce performs a single reconciliation pass. Failures of single bookings are counted
// in the report; a failed selection or a cancelled ctx is returned as an error.
func (s *RewardSweeper) RunOnce(ctx context.Context) (model.SweepReport, error) {
	metrics.SweepRuns.Inc()

	due, err := s.facade.DueForReward(ctx, s.batchSize)
	if err != nil {
		return model.SweepReport{}, err
	}

	var (
		mu     sync.Mutex
		report = model.SweepReport{Selected: len(due)}
	)

	var g errgroup.Group
	g.SetLimit(s.workers)
	for _, booking := range due {
		if ctx.Err() != nil {
			break
		}
		booking := booking
		g.Go(func() error {
			outcome, err := s.facade.Reconcile(ctx, booking)

			mu.Lock()
			defer mu.Unlock()
			if err != nil && ctx.Err() != nil {
				metrics.SweepBookings.WithLabelValues("interrupted").Inc()
				s.logger.Info("reconcile interrupted",
					slog.Int64("booking_id", booking.ID),
					slog.String("error", err.Error()))
				return nil
			}
			if err != nil {
				report.Errors++
				metrics.SweepBookings.WithLabelValues("error").Inc()
				s.logger.Error("reconcile booking failed",
					slog.Int64("booking_id", booking.ID),
					slog.String("error", err.Error()))
				return nil
			}
			report.Add(outcome.Kind)
			metrics.SweepBookings.WithLabelValues(string(outcome.Kind)).Inc()
			return nil
		})
	}
	_ = g.Wait()

	if report.Selected > 0 {
		s.logger.Info("reward sweep finished",
			slog.Int("selected", report.Selected),
			slog.Int("rewarded", report.Rewarded),
			slog.Int("retry_scheduled", report.RetryScheduled),
			slog.Int("failed", report.Rejected+report.Exhausted),
			slog.Int("errors", report.Errors))
	}
	return report, ctx.Err()
}
