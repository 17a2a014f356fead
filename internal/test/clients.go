package test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/polkiloo/cinema/internal/adapter/remote"
	domainErrors "github.com/polkiloo/cinema/internal/domain/errors"
	"github.com/polkiloo/cinema/internal/domain/model"
)

// Remote failures as returned by the service client.
var (
	ErrRewardsTimeout     = &remote.Error{Downstream: "rewards", Kind: remote.KindTimeout}
	ErrRewardsRefused     = &remote.Error{Downstream: "rewards", Kind: remote.KindConnectionRefused}
	ErrRewardsUnavailable = &remote.Error{Downstream: "rewards", Kind: remote.KindUnavailable}
	ErrRewardsServer      = &remote.Error{Downstream: "rewards", Kind: remote.KindRemoteError, StatusCode: http.StatusInternalServerError}
	ErrRewardsUnknownUser = &remote.Error{Downstream: "rewards", Kind: remote.KindRemoteRejected, StatusCode: http.StatusNotFound}
)

// RewardsClientStub counts credit calls and delegates to CreditFn.
type RewardsClientStub struct {
	CreditFn func(context.Context, model.CreditRequest) (*model.CreditResult, error)
	calls    atomic.Int32
}

// Credit records the call.
func (s *RewardsClientStub) Credit(ctx context.Context, req model.CreditRequest) (*model.CreditResult, error) {
	s.calls.Add(1)
	if s.CreditFn != nil {
		return s.CreditFn(ctx, req)
	}
	return &model.CreditResult{UserID: req.UserID, Score: req.Amount}, nil
}

// Calls returns the number of credit calls.
func (s *RewardsClientStub) Calls() int {
	return int(s.calls.Load())
}

// LedgerCreditor delivers credits straight to ledger, reporting unknown users the way
// the rewards service does over HTTP.
func LedgerCreditor(ledger *LedgerStub) func(context.Context, model.CreditRequest) (*model.CreditResult, error) {
	return func(ctx context.Context, req model.CreditRequest) (*model.CreditResult, error) {
		result, err := ledger.Credit(ctx, req, false)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, &remote.Error{Downstream: "rewards", Kind: remote.KindRemoteRejected, StatusCode: http.StatusNotFound}
		}
		return result, err
	}
}

// BookingsClientStub serves bookings of users.
type BookingsClientStub struct {
	Bookings map[int64][]model.Booking
	Err      error
}

// ListByUser returns configured bookings or a 404 rejection.
func (s BookingsClientStub) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	bookings, ok := s.Bookings[userID]
	if !ok {
		return nil, &remote.Error{Downstream: "bookings", Kind: remote.KindRemoteRejected, StatusCode: http.StatusNotFound}
	}
	return bookings, nil
}

// MoviesClientStub serves movie details and counts lookups per movie.
type MoviesClientStub struct {
	Movies map[int64]model.Movie
	Err    error

	mu      sync.Mutex
	Lookups map[int64]int
}

// Get returns the configured movie.
func (s *MoviesClientStub) Get(ctx context.Context, movieID int64) (*model.Movie, error) {
	s.mu.Lock()
	if s.Lookups == nil {
		s.Lookups = make(map[int64]int)
	}
	s.Lookups[movieID]++
	s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	movie, ok := s.Movies[movieID]
	if !ok {
		return nil, &remote.Error{Downstream: "movies", Kind: remote.KindRemoteRejected, StatusCode: http.StatusNotFound}
	}
	return &movie, nil
}
