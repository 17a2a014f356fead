package usecase

import (
	"context"
	"fmt"

	domainErrors "github.com/polkiloo/cinema/internal/domain/errors"
	"github.com/polkiloo/cinema/internal/domain/model"
	"github.com/polkiloo/cinema/internal/domain/repository"
)

// LedgerUseCase manages reward scores and prizes.
type LedgerUseCase struct {
	rewards        repository.RewardRepository
	autoProvision  bool
	prizeThreshold int64
}

// NewLedgerUseCase constructs LedgerUseCase.
func NewLedgerUseCase(rewards repository.RewardRepository, autoProvision bool, prizeThreshold int64) *LedgerUseCase {
	return &LedgerUseCase{rewards: rewards, autoProvision: autoProvision, prizeThreshold: prizeThreshold}
}

// Credit adds points once per idempotency key. Unkeyed requests are always applied.
func (u *LedgerUseCase) Credit(ctx context.Context, req model.CreditRequest) (*model.CreditResult, error) {
	if req.UserID <= 0 {
		return nil, fmt.Errorf("user must be a positive id: %w", domainErrors.ErrValidation)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", domainErrors.ErrValidation)
	}
	return u.rewards.Credit(ctx, req, u.autoProvision)
}

// Open provisions a ledger entry with a zero score.
func (u *LedgerUseCase) Open(ctx context.Context, userID int64) (*model.Reward, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("user must be a positive id: %w", domainErrors.ErrValidation)
	}
	return u.rewards.Create(ctx, userID)
}

// Get returns the ledger entry of the user.
func (u *LedgerUseCase) Get(ctx context.Context, userID int64) (*model.Reward, error) {
	return u.rewards.Get(ctx, userID)
}

// List returns every ledger entry.
func (u *LedgerUseCase) List(ctx context.Context) ([]model.Reward, error) {
	return u.rewards.List(ctx)
}

// Prize reports whether the user reached the prize threshold.
func (u *LedgerUseCase) Prize(ctx context.Context, userID int64) (*model.Prize, error) {
	reward, err := u.rewards.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	prize := model.PrizeFor(*reward, u.prizeThreshold)
	return &prize, nil
}
