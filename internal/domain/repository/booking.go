package repository

import (
	"context"
	"time"

	"github.com/polkiloo/cinema/internal/domain/model"
)

// BookingRepository describes persistence operations with bookings.
type BookingRepository interface {
	Create(ctx context.Context, userID, movieID int64, date time.Time, reward model.RewardState) (*model.Booking, error)
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	List(ctx context.Context) ([]model.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Booking, error)
	ListPermanentlyFailed(ctx context.Context, limit int) ([]model.Booking, error)
	// SelectDueForReward returns PENDING and FAILED-retryable bookings whose next attempt is due.
	SelectDueForReward(ctx context.Context, now time.Time, limit int) ([]model.Booking, error)
	// CompareAndSetReward stores next only while the row still holds expected's status,
	// retryable flag and attempt count. It returns errors.ErrStaleStatus otherwise.
	CompareAndSetReward(ctx context.Context, bookingID int64, expected, next model.RewardState) error
}
