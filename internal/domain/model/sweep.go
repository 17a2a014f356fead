package model

// SweepReport summarises one reconciliation pass.
type SweepReport struct {
	Selected       int
	Rewarded       int
	RetryScheduled int
	Rejected       int
	Exhausted      int
	Superseded     int
	Errors         int
}

// Add counts outcome in the report.
func (r *SweepReport) Add(kind RewardOutcomeKind) {
	switch kind {
	case OutcomeRewarded:
		r.Rewarded++
	case OutcomeRetryScheduled:
		r.RetryScheduled++
	case OutcomeRejected:
		r.Rejected++
	case OutcomeExhausted:
		r.Exhausted++
	case OutcomeSuperseded:
		r.Superseded++
	}
}
