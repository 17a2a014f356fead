package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/cinema/internal/domain/errors"
	"github.com/polkiloo/cinema/internal/domain/model"
)

const bookingColumns = `id, user_id, movie_id, date, reward_status, reward_retryable, reward_attempts,
                   last_attempt_at, next_attempt_at, reward_error, created_at, updated_at`

type bookingRepository struct {
	storage *Storage
}

func scanBooking(row pgx.Row) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID, &b.UserID, &b.MovieID, &b.Date,
		&b.Reward.Status, &b.Reward.Retryable, &b.Reward.Attempts,
		&b.Reward.LastAttemptAt, &b.Reward.NextAttemptAt, &b.Reward.Error,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *bookingRepository) Create(ctx context.Context, userID, movieID int64, date time.Time, reward model.RewardState) (*model.Booking, error) {
	const query = `INSERT INTO bookings (user_id, movie_id, date, reward_status, reward_retryable,
                       reward_attempts, last_attempt_at, next_attempt_at, reward_error)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
                   RETURNING id, created_at, updated_at`
	b := model.Booking{UserID: userID, MovieID: movieID, Date: date, Reward: reward}
	err := r.storage.pool.QueryRow(ctx, query,
		userID, movieID, date,
		reward.Status, reward.Retryable, reward.Attempts,
		reward.LastAttemptAt, reward.NextAttemptAt, reward.Error,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id=$1`
	b, err := scanBooking(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) List(ctx context.Context) ([]model.Booking, error) {
	return r.query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY id`)
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	return r.query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY date, id`, userID)
}

func (r *bookingRepository) ListPermanentlyFailed(ctx context.Context, limit int) ([]model.Booking, error) {
	return r.query(ctx, `SELECT `+bookingColumns+` FROM bookings
                   WHERE reward_status='FAILED' AND NOT reward_retryable
                   ORDER BY updated_at DESC, id
                   LIMIT $1`, limit)
}

func (r *bookingRepository) SelectDueForReward(ctx context.Context, now time.Time, limit int) ([]model.Booking, error) {
	return r.query(ctx, `SELECT `+bookingColumns+` FROM bookings
                   WHERE (reward_status='PENDING' OR (reward_status='FAILED' AND reward_retryable))
                     AND next_attempt_at <= $1
                   ORDER BY next_attempt_at, id
                   LIMIT $2`, now, limit)
}

func (r *bookingRepository) CompareAndSetReward(ctx context.Context, bookingID int64, expected, next model.RewardState) error {
	const update = `UPDATE bookings
                    SET reward_status=$1, reward_retryable=$2, reward_attempts=$3,
                        last_attempt_at=$4, next_attempt_at=$5, reward_error=$6, updated_at=NOW()
                    WHERE id=$7 AND reward_status=$8 AND reward_retryable=$9 AND reward_attempts=$10`
	tag, err := r.storage.pool.Exec(ctx, update,
		next.Status, next.Retryable, next.Attempts,
		next.LastAttemptAt, next.NextAttemptAt, next.Error,
		bookingID, expected.Status, expected.Retryable, expected.Attempts,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	const exists = `SELECT EXISTS (SELECT 1 FROM bookings WHERE id=$1)`
	var found bool
	if err := r.storage.pool.QueryRow(ctx, exists, bookingID).Scan(&found); err != nil {
		return err
	}
	if !found {
		return domainErrors.ErrNotFound
	}
	return domainErrors.ErrStaleStatus
}

func (r *bookingRepository) query(ctx context.Context, query string, args ...any) ([]model.Booking, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
