package model

// RewardOutcomeKind summarizes what a dispatch did to a booking.
type RewardOutcomeKind string

const (
	OutcomeRewarded       RewardOutcomeKind = "rewarded"
	OutcomeRejected       RewardOutcomeKind = "rejected"
	OutcomeRetryScheduled RewardOutcomeKind = "retry_scheduled"
	OutcomeExhausted      RewardOutcomeKind = "exhausted"
	// OutcomeSuperseded means another writer resolved the booking first.
	OutcomeSuperseded RewardOutcomeKind = "superseded"
)

// RewardOutcome is the result of dispatching a reward for a booking.
// Err carries the downstream failure for rejected or retried attempts.
type RewardOutcome struct {
	Kind    RewardOutcomeKind
	Booking Booking
	Err     error
}
