package repository

import (
	"context"

	"github.com/polkiloo/cinema/internal/domain/model"
)

// RewardRepository manages the reward ledger.
type RewardRepository interface {
	Create(ctx context.Context, userID int64) (*model.Reward, error)
	Get(ctx context.Context, userID int64) (*model.Reward, error)
	List(ctx context.Context) ([]model.Reward, error)
	// Credit applies req at most once per (user, idempotency key). Unknown users yield
	// errors.ErrNotFound unless autoProvision is set.
	Credit(ctx context.Context, req model.CreditRequest, autoProvision bool) (*model.CreditResult, error)
}
