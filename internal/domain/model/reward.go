package model

// Reward is the ledger entry of a user.
type Reward struct {
	UserID int64
	Score  int64
}

// Prize tells whether a user collected enough points for a prize.
type Prize struct {
	UserID           int64
	Available        bool
	PointsUntilPrize int64
}

// PrizeFor evaluates reward against the points threshold.
func PrizeFor(reward Reward, threshold int64) Prize {
	prize := Prize{UserID: reward.UserID}
	if reward.Score >= threshold {
		prize.Available = true
		return prize
	}
	prize.PointsUntilPrize = threshold - reward.Score
	return prize
}
