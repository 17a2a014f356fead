package model

import (
	"time"

	domainErrors "github.com/polkiloo/cinema/internal/domain/errors"
)

// AttemptResult classifies the answer to a single credit attempt.
type AttemptResult int

const (
	AttemptAcknowledged AttemptResult = iota + 1
	AttemptRejected
	AttemptTransportFailure
)

// RetryPolicy bounds how often and how fast a booking is retried.
type RetryPolicy struct {
	MaxAttempts int
	Base        time.Duration
	Max         time.Duration
}

// Delay returns the wait after the given number of failed attempts: Base doubled per
// attempt, capped at Max.
func (p RetryPolicy) Delay(attempts int) time.Duration {
	if attempts <= 0 || p.Base <= 0 {
		return 0
	}
	delay := p.Base
	for i := 1; i < attempts; i++ {
		delay *= 2
		if p.Max > 0 && delay >= p.Max {
			return p.Max
		}
	}
	if p.Max > 0 && delay > p.Max {
		return p.Max
	}
	return delay
}

// Exhausted reports whether no attempt is left after the given number of attempts.
func (p RetryPolicy) Exhausted(attempts int) bool {
	return p.MaxAttempts > 0 && attempts >= p.MaxAttempts
}

// NextRewardState computes the state a PENDING booking moves to after one credit attempt.
func NextRewardState(current RewardState, result AttemptResult, policy RetryPolicy, now time.Time, cause string) (RewardState, error) {
	if current.Status != RewardStatusPending {
		return current, domainErrors.ErrInvalidTransition
	}

	attemptedAt := now
	next := RewardState{
		Attempts:      current.Attempts + 1,
		LastAttemptAt: &attemptedAt,
		NextAttemptAt: now,
		Error:         cause,
	}

	switch result {
	case AttemptAcknowledged:
		next.Status = RewardStatusRewarded
		next.Error = ""
	case AttemptRejected:
		next.Status = RewardStatusFailed
	case AttemptTransportFailure:
		next.Status = RewardStatusFailed
		if !policy.Exhausted(next.Attempts) {
			next.Retryable = true
			next.NextAttemptAt = now.Add(policy.Delay(next.Attempts))
		}
	default:
		return current, domainErrors.ErrInvalidTransition
	}
	return next, nil
}

// RetryRewardState is the explicit decision to move a FAILED-retryable booking back to PENDING.
func RetryRewardState(current RewardState) (RewardState, error) {
	if !current.RetryableFailure() {
		return current, domainErrors.ErrInvalidTransition
	}
	next := current
	next.Status = RewardStatusPending
	next.Retryable = false
	return next, nil
}

// ExhaustRewardState closes a PENDING or FAILED-retryable booking that has no attempts left.
func ExhaustRewardState(current RewardState, policy RetryPolicy) (RewardState, error) {
	open := current.Status == RewardStatusPending || current.RetryableFailure()
	if !open || !policy.Exhausted(current.Attempts) {
		return current, domainErrors.ErrInvalidTransition
	}
	next := current
	next.Status = RewardStatusFailed
	next.Retryable = false
	if next.Error == "" {
		next.Error = "reward attempts exhausted"
	}
	return next, nil
}
