package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/cinema/internal/domain/errors"
	"github.com/polkiloo/cinema/internal/domain/model"
)

// BookingStoreStub keeps bookings in memory with the same compare-and-set semantics as
// the PostgreSQL store.
type BookingStoreStub struct {
	mu       sync.Mutex
	bookings map[int64]model.Booking
	next     int64

	// Err is returned by every call when set.
	Err error
	// BeforeCAS runs before each compare-and-set, outside the lock, so tests can
	// interleave a concurrent writer.
	BeforeCAS func(bookingID int64)
	// CASCalls counts compare-and-set invocations.
	CASCalls int
}

// NewBookingStoreStub constructs an empty store.
func NewBookingStoreStub() *BookingStoreStub {
	return &BookingStoreStub{bookings: make(map[int64]model.Booking), next: 1}
}

// Put stores booking as is, e.g. to seed a state.
func (s *BookingStoreStub) Put(booking model.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	s.bookings[booking.ID] = booking
	if booking.ID >= s.next {
		s.next = booking.ID + 1
	}
}

// Snapshot returns the stored booking.
func (s *BookingStoreStub) Snapshot(id int64) model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id]
}

func (s *BookingStoreStub) init() {
	if s.bookings == nil {
		s.bookings = make(map[int64]model.Booking)
	}
	if s.next == 0 {
		s.next = 1
	}
}

// Create assigns the next id.
func (s *BookingStoreStub) Create(ctx context.Context, userID, movieID int64, date time.Time, reward model.RewardState) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.init()
	now := time.Now()
	booking := model.Booking{
		ID:        s.next,
		UserID:    userID,
		MovieID:   movieID,
		Date:      date,
		Reward:    reward,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.next++
	s.bookings[booking.ID] = booking
	return &booking, nil
}

// GetByID returns a copy of the booking.
func (s *BookingStoreStub) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	booking, ok := s.bookings[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &booking, nil
}

// List returns bookings ordered by id.
func (s *BookingStoreStub) List(ctx context.Context) ([]model.Booking, error) {
	return s.filter(func(model.Booking) bool { return true }, 0)
}

// ListByUser returns bookings of the user.
func (s *BookingStoreStub) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	return s.filter(func(b model.Booking) bool { return b.UserID == userID }, 0)
}

// ListPermanentlyFailed returns terminal failures.
func (s *BookingStoreStub) ListPermanentlyFailed(ctx context.Context, limit int) ([]model.Booking, error) {
	return s.filter(func(b model.Booking) bool { return b.Reward.PermanentlyFailed() }, limit)
}

// SelectDueForReward mirrors the SQL selection ordered by next attempt.
func (s *BookingStoreStub) SelectDueForReward(ctx context.Context, now time.Time, limit int) ([]model.Booking, error) {
	due, err := s.filter(func(b model.Booking) bool {
		unresolved := b.Reward.Status == model.RewardStatusPending || b.Reward.RetryableFailure()
		return unresolved && !b.Reward.NextAttemptAt.After(now)
	}, 0)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].Reward.NextAttemptAt.Before(due[j].Reward.NextAttemptAt)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// CompareAndSetReward applies next only when status, retryable flag and attempts match.
func (s *BookingStoreStub) CompareAndSetReward(ctx context.Context, bookingID int64, expected, next model.RewardState) error {
	if s.BeforeCAS != nil {
		s.BeforeCAS(bookingID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.CASCalls++
	if s.Err != nil {
		return s.Err
	}
	booking, ok := s.bookings[bookingID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	current := booking.Reward
	if current.Status != expected.Status || current.Retryable != expected.Retryable || current.Attempts != expected.Attempts {
		return domainErrors.ErrStaleStatus
	}
	booking.Reward = next
	booking.UpdatedAt = time.Now()
	s.bookings[bookingID] = booking
	return nil
}

func (s *BookingStoreStub) filter(keep func(model.Booking) bool, limit int) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.Booking
	for _, b := range s.bookings {
		if keep(b) {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

type creditKey struct {
	user int64
	key  string
}

// LedgerStub is an in-memory reward ledger applying each (user, key) once.
type LedgerStub struct {
	mu      sync.Mutex
	scores  map[int64]int64
	credits map[creditKey]int64

	// Applied counts credits that changed a score.
	Applied int
	Err     error
}

// NewLedgerStub provisions the given users with a zero score.
func NewLedgerStub(users ...int64) *LedgerStub {
	l := &LedgerStub{scores: make(map[int64]int64), credits: make(map[creditKey]int64)}
	for _, u := range users {
		l.scores[u] = 0
	}
	return l
}

// Score returns the current score of the user.
func (l *LedgerStub) Score(userID int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scores[userID]
}

// Create provisions a ledger entry.
func (l *LedgerStub) Create(ctx context.Context, userID int64) (*model.Reward, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	if _, ok := l.scores[userID]; ok {
		return nil, domainErrors.ErrAlreadyExists
	}
	l.scores[userID] = 0
	return &model.Reward{UserID: userID}, nil
}

// Get returns the ledger entry.
func (l *LedgerStub) Get(ctx context.Context, userID int64) (*model.Reward, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	score, ok := l.scores[userID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &model.Reward{UserID: userID, Score: score}, nil
}

// List returns entries ordered by user.
func (l *LedgerStub) List(ctx context.Context) ([]model.Reward, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	result := make([]model.Reward, 0, len(l.scores))
	for user, score := range l.scores {
		result = append(result, model.Reward{UserID: user, Score: score})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

// Credit applies req once per key.
func (l *LedgerStub) Credit(ctx context.Context, req model.CreditRequest, autoProvision bool) (*model.CreditResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	score, ok := l.scores[req.UserID]
	if !ok {
		if !autoProvision {
			return nil, domainErrors.ErrNotFound
		}
		l.scores[req.UserID] = 0
	}
	if req.IdempotencyKey != "" {
		key := creditKey{user: req.UserID, key: req.IdempotencyKey}
		if recorded, ok := l.credits[key]; ok {
			return &model.CreditResult{UserID: req.UserID, Score: recorded, Replayed: true}, nil
		}
		l.credits[key] = score + req.Amount
	}
	l.scores[req.UserID] = score + req.Amount
	l.Applied++
	return &model.CreditResult{UserID: req.UserID, Score: score + req.Amount}, nil
}

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	mu   sync.Mutex
	ByID map[int64]*model.User
	Next int64
	Err  error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{ByID: make(map[int64]*model.User), Next: 1}
}

// Create registers user unless stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, name string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Name: name, CreatedAt: time.Now()}
	s.Next++
	s.ByID[user.ID] = user
	return user, nil
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns users ordered by id.
func (s *UserRepositoryStub) List(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]model.User, 0, len(s.ByID))
	for _, u := range s.ByID {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
