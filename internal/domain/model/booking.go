package model

import "time"

// RewardStatus describes where a booking is in the reward handshake.
type RewardStatus string

const (
	RewardStatusPending  RewardStatus = "PENDING"
	RewardStatusRewarded RewardStatus = "REWARDED"
	RewardStatusFailed   RewardStatus = "FAILED"
)

// Booking describes a movie booked by a user for a date.
type Booking struct {
	ID        int64
	UserID    int64
	MovieID   int64
	Date      time.Time
	Reward    RewardState
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RewardState is the part of a booking owned by the reward dispatcher and the sweeper.
// It is only ever written with a compare-and-set on (Status, Attempts).
type RewardState struct {
	Status        RewardStatus
	Retryable     bool
	Attempts      int
	LastAttemptAt *time.Time
	NextAttemptAt time.Time
	Error         string
}

// Rewarded reports whether the ledger acknowledged the credit for this booking.
func (b Booking) Rewarded() bool {
	return b.Reward.Status == RewardStatusRewarded
}

// PermanentlyFailed reports whether the booking will never be retried again.
func (s RewardState) PermanentlyFailed() bool {
	return s.Status == RewardStatusFailed && !s.Retryable
}

// RetryableFailure reports whether the sweeper may pick the booking up again.
func (s RewardState) RetryableFailure() bool {
	return s.Status == RewardStatusFailed && s.Retryable
}

// NewBookingRewardState is the state every booking is created with.
// The sweeper considers it due once grace has elapsed without a resolution.
func NewBookingRewardState(now time.Time, grace time.Duration) RewardState {
	return RewardState{
		Status:        RewardStatusPending,
		NextAttemptAt: now.Add(grace),
	}
}
