package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/polkiloo/cinema/internal/domain/errors"
	"github.com/polkiloo/cinema/internal/domain/model"
	"github.com/polkiloo/cinema/internal/domain/repository"
	"github.com/polkiloo/cinema/internal/metrics"
)

// RewardCreditor delivers credit requests to the reward ledger.
type RewardCreditor interface {
	Credit(ctx context.Context, req model.CreditRequest) (*model.CreditResult, error)
}

// RewardDispatcher drives a booking through the reward handshake. All state lives in the
// booking row: every transition is a compare-and-set and a lost race is reported, never
// overwritten.
type RewardDispatcher struct {
	bookings repository.BookingRepository
	rewards  RewardCreditor
	policy   model.RetryPolicy
	points   int64
	logger   *slog.Logger
	now      func() time.Time
}

// NewRewardDispatcher constructs RewardDispatcher crediting points per booking.
func NewRewardDispatcher(bookings repository.BookingRepository, rewards RewardCreditor, policy model.RetryPolicy, points int64, logger *slog.Logger) *RewardDispatcher {
	if points <= 0 {
		points = 1
	}
	return &RewardDispatcher{
		bookings: bookings,
		rewards:  rewards,
		policy:   policy,
		points:   points,
		logger:   logger,
		now:      time.Now,
	}
}

// Dispatch makes one credit attempt for a PENDING booking and records the result.
// A REWARDED booking is returned as is without contacting the ledger.
func (d *RewardDispatcher) Dispatch(ctx context.Context, booking model.Booking) (model.RewardOutcome, error) {
	switch booking.Reward.Status {
	case model.RewardStatusRewarded:
		return model.RewardOutcome{Kind: model.OutcomeRewarded, Booking: booking}, nil
	case model.RewardStatusPending:
	default:
		return model.RewardOutcome{}, fmt.Errorf("dispatch booking %d in status %s: %w",
			booking.ID, booking.Reward.Status, domainErrors.ErrInvalidTransition)
	}

	_, callErr := d.rewards.Credit(ctx, model.CreditRequest{
		UserID:         booking.UserID,
		Amount:         d.points,
		IdempotencyKey: model.BookingIdempotencyKey(booking.ID),
	})

	result := model.AttemptAcknowledged
	cause := ""
	if callErr != nil {
		cause = callErr.Error()
		result = model.AttemptTransportFailure
		if errors.Is(callErr, domainErrors.ErrRemoteRejected) {
			result = model.AttemptRejected
		}
	}

	// An abandoned call says nothing about the ledger: the row keeps its attempts and
	// its schedule, and the sweeper delivers it again under the same key.
	if result == model.AttemptTransportFailure && ctx.Err() != nil {
		d.logger.Info("reward dispatch interrupted",
			slog.Int64("booking_id", booking.ID),
			slog.String("error", cause))
		return model.RewardOutcome{}, fmt.Errorf("dispatch booking %d: %w", booking.ID, ctx.Err())
	}

	next, err := model.NextRewardState(booking.Reward, result, d.policy, d.now(), cause)
	if err != nil {
		return model.RewardOutcome{}, err
	}

	// The ledger may already hold the credit; record it even if the caller went away.
	outcome, err := d.transition(context.WithoutCancel(ctx), booking, next)
	if err != nil {
		return model.RewardOutcome{}, err
	}
	outcome.Err = callErr
	if outcome.Kind == "" {
		outcome.Kind = outcomeKind(result, next)
	}

	d.record(outcome)
	return outcome, nil
}

// Reconcile resolves a booking selected by the sweeper. Bookings without attempts left are
// closed; FAILED-retryable bookings are moved back to PENDING and dispatched.
func (d *RewardDispatcher) Reconcile(ctx context.Context, booking model.Booking) (model.RewardOutcome, error) {
	switch {
	case booking.Reward.Status == model.RewardStatusPending:
	case booking.Reward.RetryableFailure():
	default:
		return model.RewardOutcome{Kind: model.OutcomeSuperseded, Booking: booking}, nil
	}

	if d.policy.Exhausted(booking.Reward.Attempts) {
		next, err := model.ExhaustRewardState(booking.Reward, d.policy)
		if err != nil {
			return model.RewardOutcome{}, err
		}
		outcome, err := d.transition(ctx, booking, next)
		if err != nil {
			return model.RewardOutcome{}, err
		}
		if outcome.Kind == "" {
			outcome.Kind = model.OutcomeExhausted
		}
		d.record(outcome)
		return outcome, nil
	}

	if booking.Reward.Status == model.RewardStatusPending {
		return d.Dispatch(ctx, booking)
	}

	next, err := model.RetryRewardState(booking.Reward)
	if err != nil {
		return model.RewardOutcome{}, err
	}
	outcome, err := d.transition(ctx, booking, next)
	if err != nil {
		return model.RewardOutcome{}, err
	}
	if outcome.Kind == model.OutcomeSuperseded {
		d.record(outcome)
		return outcome, nil
	}
	return d.Dispatch(ctx, outcome.Booking)
}

// transition stores next with a compare-and-set. On a lost race it reloads the booking
// and returns a superseded outcome; otherwise Kind is left empty for the caller to fill.
func (d *RewardDispatcher) transition(ctx context.Context, booking model.Booking, next model.RewardState) (model.RewardOutcome, error) {
	err := d.bookings.CompareAndSetReward(ctx, booking.ID, booking.Reward, next)
	if err == nil {
		booking.Reward = next
		return model.RewardOutcome{Booking: booking}, nil
	}
	if !errors.Is(err, domainErrors.ErrStaleStatus) {
		return model.RewardOutcome{}, fmt.Errorf("store reward state of booking %d: %w", booking.ID, err)
	}

	current, err := d.bookings.GetByID(ctx, booking.ID)
	if err != nil {
		return model.RewardOutcome{}, fmt.Errorf("reload booking %d: %w", booking.ID, err)
	}
	d.logger.Info("booking resolved concurrently",
		slog.Int64("booking_id", booking.ID),
		slog.String("status", string(current.Reward.Status)))
	return model.RewardOutcome{Kind: model.OutcomeSuperseded, Booking: *current}, nil
}

func (d *RewardDispatcher) record(outcome model.RewardOutcome) {
	metrics.RewardDispatches.WithLabelValues(string(outcome.Kind)).Inc()

	attrs := []any{
		slog.Int64("booking_id", outcome.Booking.ID),
		slog.Int64("user_id", outcome.Booking.UserID),
		slog.String("outcome", string(outcome.Kind)),
		slog.Int("attempts", outcome.Booking.Reward.Attempts),
	}
	if outcome.Err != nil {
		attrs = append(attrs, slog.String("error", outcome.Err.Error()))
	}

	switch outcome.Kind {
	case model.OutcomeRejected, model.OutcomeExhausted:
		d.logger.Error("reward permanently failed", attrs...)
	case model.OutcomeRetryScheduled:
		attrs = append(attrs, slog.Time("next_attempt_at", outcome.Booking.Reward.NextAttemptAt))
		d.logger.Warn("reward retry scheduled", attrs...)
	default:
		d.logger.Info("reward dispatched", attrs...)
	}
}

func outcomeKind(result model.AttemptResult, next model.RewardState) model.RewardOutcomeKind {
	switch {
	case next.Status == model.RewardStatusRewarded:
		return model.OutcomeRewarded
	case next.RetryableFailure():
		return model.OutcomeRetryScheduled
	case result == model.AttemptRejected:
		return model.OutcomeRejected
	default:
		return model.OutcomeExhausted
	}
}
