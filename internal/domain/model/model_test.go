package model

import (
	"errors"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/cinema/internal/domain/errors"
)

func TestRewardStatusValues(t *testing.T) {
	cases := []struct {
		name  string
		got   RewardStatus
		value string
	}{
		{"pending", RewardStatusPending, "PENDING"},
		{"rewarded", RewardStatusRewarded, "REWARDED"},
		{"failed", RewardStatusFailed, "FAILED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
		})
	}
}

func TestRetryPolicyDelay(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, Base: time.Second, Max: 5 * time.Second}
	cases := []struct {
		attempts int
		want     time.Duration
	}{
		{0, 0},
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 5 * time.Second},
		{40, 5 * time.Second},
	}
	for _, tc := range cases {
		if got := policy.Delay(tc.attempts); got != tc.want {
			t.Fatalf("attempts=%d: expected %v, got %v", tc.attempts, tc.want, got)
		}
	}

	if !policy.Exhausted(5) || policy.Exhausted(4) {
		t.Fatal("expected exhaustion exactly at the cap")
	}
	if (RetryPolicy{}).Exhausted(100) {
		t.Fatal("zero cap must never exhaust")
	}
}

func TestNextRewardState(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	policy := RetryPolicy{MaxAttempts: 3, Base: time.Minute, Max: time.Hour}
	pending := NewBookingRewardState(now.Add(-time.Minute), 0)

	t.Run("acknowledged", func(t *testing.T) {
		next, err := NextRewardState(pending, AttemptAcknowledged, policy, now, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next.Status != RewardStatusRewarded || next.Attempts != 1 || next.LastAttemptAt == nil {
			t.Fatalf("unexpected state: %+v", next)
		}
	})

	t.Run("rejected is permanent", func(t *testing.T) {
		next, err := NextRewardState(pending, AttemptRejected, policy, now, "404")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !next.PermanentlyFailed() || next.Error != "404" {
			t.Fatalf("unexpected state: %+v", next)
		}
	})

	t.Run("transport failure schedules retry", func(t *testing.T) {
		next, err := NextRewardState(pending, AttemptTransportFailure, policy, now, "timeout")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !next.RetryableFailure() {
			t.Fatalf("expected retryable failure, got %+v", next)
		}
		if !next.NextAttemptAt.Equal(now.Add(time.Minute)) {
			t.Fatalf("unexpected next attempt %v", next.NextAttemptAt)
		}
	})

	t.Run("transport failure at cap is permanent", func(t *testing.T) {
		atCap := pending
		atCap.Attempts = 2
		next, err := NextRewardState(atCap, AttemptTransportFailure, policy, now, "timeout")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !next.PermanentlyFailed() || next.Attempts != 3 {
			t.Fatalf("expected permanent failure after 3 attempts, got %+v", next)
		}
	})

	t.Run("rewarded never moves", func(t *testing.T) {
		rewarded := RewardState{Status: RewardStatusRewarded, Attempts: 1}
		for _, result := range []AttemptResult{AttemptAcknowledged, AttemptRejected, AttemptTransportFailure} {
			next, err := NextRewardState(rewarded, result, policy, now, "")
			if !errors.Is(err, domainErrors.ErrInvalidTransition) {
				t.Fatalf("expected invalid transition, got %v", err)
			}
			if next != rewarded {
				t.Fatalf("state must not change, got %+v", next)
			}
		}
	})

	t.Run("unknown result", func(t *testing.T) {
		if _, err := NextRewardState(pending, AttemptResult(42), policy, now, ""); !errors.Is(err, domainErrors.ErrInvalidTransition) {
			t.Fatalf("expected invalid transition, got %v", err)
		}
	})
}

func TestRetryAndExhaustRewardState(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 2}
	retryable := RewardState{Status: RewardStatusFailed, Retryable: true, Attempts: 1}

	next, err := RetryRewardState(retryable)
	if err != nil || next.Status != RewardStatusPending || next.Attempts != 1 {
		t.Fatalf("unexpected retry result: %+v err=%v", next, err)
	}

	permanent := RewardState{Status: RewardStatusFailed, Attempts: 1}
	if _, err := RetryRewardState(permanent); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("permanent failure must not be retried, got %v", err)
	}
	if _, err := RetryRewardState(RewardState{Status: RewardStatusRewarded}); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("rewarded must not be retried, got %v", err)
	}

	if _, err := ExhaustRewardState(retryable, policy); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("attempts below cap must not exhaust, got %v", err)
	}
	retryable.Attempts = 2
	closed, err := ExhaustRewardState(retryable, policy)
	if err != nil || !closed.PermanentlyFailed() {
		t.Fatalf("expected permanent failure, got %+v err=%v", closed, err)
	}

	pending := RewardState{Status: RewardStatusPending, Attempts: 3}
	closed, err = ExhaustRewardState(pending, policy)
	if err != nil || !closed.PermanentlyFailed() || closed.Attempts != 3 || closed.Error == "" {
		t.Fatalf("expected exhausted pending booking to close, got %+v err=%v", closed, err)
	}
	if _, err := ExhaustRewardState(RewardState{Status: RewardStatusPending, Attempts: 1}, policy); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("pending booking with attempts left must not exhaust, got %v", err)
	}
	if _, err := ExhaustRewardState(RewardState{Status: RewardStatusRewarded, Attempts: 2}, policy); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("rewarded booking must not exhaust, got %v", err)
	}
}

func TestPrizeFor(t *testing.T) {
	prize := PrizeFor(Reward{UserID: 2, Score: 0}, 5)
	if prize.Available || prize.PointsUntilPrize != 5 {
		t.Fatalf("unexpected prize %+v", prize)
	}
	prize = PrizeFor(Reward{UserID: 2, Score: 7}, 5)
	if !prize.Available || prize.PointsUntilPrize != 0 {
		t.Fatalf("unexpected prize %+v", prize)
	}
}

func TestBookingIdempotencyKey(t *testing.T) {
	if key := BookingIdempotencyKey(42); key != "42" {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestSweepReportAdd(t *testing.T) {
	var report SweepReport
	for _, kind := range []RewardOutcomeKind{
		OutcomeRewarded, OutcomeRewarded, OutcomeRetryScheduled,
		OutcomeRejected, OutcomeExhausted, OutcomeSuperseded,
	} {
		report.Add(kind)
	}
	want := SweepReport{Rewarded: 2, RetryScheduled: 1, Rejected: 1, Exhausted: 1, Superseded: 1}
	if report != want {
		t.Fatalf("expected %+v, got %+v", want, report)
	}
}
