package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/cinema/internal/domain/errors"
	"github.com/polkiloo/cinema/internal/domain/model"
)

type rewardRepository struct {
	storage *Storage
}

func (r *rewardRepository) Create(ctx context.Context, userID int64) (*model.Reward, error) {
	const query = `INSERT INTO rewards (user_id) VALUES ($1) RETURNING score`
	reward := model.Reward{UserID: userID}
	if err := r.storage.pool.QueryRow(ctx, query, userID).Scan(&reward.Score); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &reward, nil
}

func (r *rewardRepository) Get(ctx context.Context, userID int64) (*model.Reward, error) {
	const query = `SELECT user_id, score FROM rewards WHERE user_id=$1`
	var reward model.Reward
	if err := r.storage.pool.QueryRow(ctx, query, userID).Scan(&reward.UserID, &reward.Score); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &reward, nil
}

func (r *rewardRepository) List(ctx context.Context) ([]model.Reward, error) {
	const query = `SELECT user_id, score FROM rewards ORDER BY user_id`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Reward
	for rows.Next() {
		var reward model.Reward
		if err := rows.Scan(&reward.UserID, &reward.Score); err != nil {
			return nil, err
		}
		result = append(result, reward)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Credit locks the ledger row, records the key and bumps the score in one transaction.
// A key recorded earlier short-circuits to the score it produced back then.
func (r *rewardRepository) Credit(ctx context.Context, req model.CreditRequest, autoProvision bool) (*model.CreditResult, error) {
	result := &model.CreditResult{UserID: req.UserID}

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if autoProvision {
			const provision = `INSERT INTO rewards (user_id, score) VALUES ($1, 0) ON CONFLICT (user_id) DO NOTHING`
			if _, err := tx.Exec(ctx, provision, req.UserID); err != nil {
				return err
			}
		}

		const lock = `SELECT score FROM rewards WHERE user_id=$1 FOR UPDATE`
		var score int64
		if err := tx.QueryRow(ctx, lock, req.UserID).Scan(&score); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		next := score + req.Amount

		if req.IdempotencyKey != "" {
			const record = `INSERT INTO reward_credits (user_id, idempotency_key, amount, score_after)
                            VALUES ($1, $2, $3, $4)
                            ON CONFLICT (user_id, idempotency_key) DO NOTHING
                            RETURNING score_after`
			var recorded int64
			err := tx.QueryRow(ctx, record, req.UserID, req.IdempotencyKey, req.Amount, next).Scan(&recorded)
			if errors.Is(err, pgx.ErrNoRows) {
				const replay = `SELECT score_after FROM reward_credits WHERE user_id=$1 AND idempotency_key=$2`
				if err := tx.QueryRow(ctx, replay, req.UserID, req.IdempotencyKey).Scan(&result.Score); err != nil {
					return err
				}
				result.Replayed = true
				return nil
			}
			if err != nil {
				return err
			}
		}

		const bump = `UPDATE rewards SET score=$2, updated_at=NOW() WHERE user_id=$1`
		if _, err := tx.Exec(ctx, bump, req.UserID, next); err != nil {
			return err
		}
		result.Score = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
