package dto

// AddScoreRequest credits points to a user.
type AddScoreRequest struct {
	User           int64  `json:"user" binding:"required"`
	AddToScore     int64  `json:"add_to_score" binding:"required"`
	IdempotencyKey string `json:"idempotency_key"`
}

// ScoreResponse is the ledger answer to a credit.
type ScoreResponse struct {
	User     int64 `json:"user"`
	Score    int64 `json:"score"`
	Replayed bool  `json:"replayed"`
}

// NewRewardRequest opens a ledger entry.
type NewRewardRequest struct {
	User int64 `json:"user" binding:"required"`
}

// RewardResponse represents a ledger entry.
type RewardResponse struct {
	User  int64 `json:"user"`
	Score int64 `json:"score"`
}

// PrizeResponse tells whether a prize can be collected.
type PrizeResponse struct {
	User             int64 `json:"user"`
	PrizeAvailable   bool  `json:"prize_available"`
	PointsUntilPrize int64 `json:"points_until_prize"`
}
