package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	domainErrors "github.com/polkiloo/cinema/internal/domain/errors"
	"github.com/polkiloo/cinema/internal/domain/model"
	"github.com/polkiloo/cinema/internal/domain/repository"
)

const bookingDateLayout = "2006-01-02"

// BookingsReader lists bookings of a user kept by the bookings service.
type BookingsReader interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Booking, error)
}

// MovieCatalog resolves movie details.
type MovieCatalog interface {
	Get(ctx context.Context, movieID int64) (*model.Movie, error)
}

// UserUseCase manages users and aggregates what they booked.
type UserUseCase struct {
	users    repository.UserRepository
	bookings BookingsReader
	movies   MovieCatalog
	workers  int
}

// NewUserUseCase constructs UserUseCase resolving at most workers movies at a time.
func NewUserUseCase(users repository.UserRepository, bookings BookingsReader, movies MovieCatalog, workers int) *UserUseCase {
	if workers <= 0 {
		workers = 1
	}
	return &UserUseCase{users: users, bookings: bookings, movies: movies, workers: workers}
}

// Register creates a user with a non-empty name.
func (u *UserUseCase) Register(ctx context.Context, name string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", domainErrors.ErrValidation)
	}
	return u.users.Create(ctx, name)
}

// Get returns the user with the given id.
func (u *UserUseCase) Get(ctx context.Context, id int64) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

// List returns every user.
func (u *UserUseCase) List(ctx context.Context) ([]model.User, error) {
	return u.users.List(ctx)
}

// BookedMovies returns movies booked by the user grouped by booking date. Downstream
// failures are returned unchanged so callers can tell unavailability from absence.
func (u *UserUseCase) BookedMovies(ctx context.Context, userID int64) (model.BookedMovies, error) {
	if _, err := u.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	bookings, err := u.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, domainErrors.ErrNotFound
	}

	var (
		mu     sync.Mutex
		movies = make(map[int64]model.Movie, len(bookings))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.workers)
	for _, id := range distinctMovies(bookings) {
		id := id
		g.Go(func() error {
			movie, err := u.movies.Get(gctx, id)
			if err != nil {
				return fmt.Errorf("movie %d: %w", id, err)
			}
			mu.Lock()
			movies[id] = *movie
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(model.BookedMovies)
	for _, booking := range bookings {
		date := booking.Date.Format(bookingDateLayout)
		result[date] = append(result[date], movies[booking.MovieID])
	}
	return result, nil
}

func distinctMovies(bookings []model.Booking) []int64 {
	seen := make(map[int64]struct{}, len(bookings))
	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		if _, ok := seen[b.MovieID]; ok {
			continue
		}
		seen[b.MovieID] = struct{}{}
		ids = append(ids, b.MovieID)
	}
	return ids
}
