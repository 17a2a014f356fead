package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/polkiloo/cinema/internal/domain/errors"
)

func TestUserRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &userRepository{storage: storage}

	createdAt := time.Now()
	mock.ExpectQuery("INSERT INTO users").WithArgs("chris").WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(1), createdAt),
	)
	user, err := repo.Create(context.Background(), "chris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 1 || user.Name != "chris" {
		t.Fatalf("unexpected user: %+v", user)
	}

	mock.ExpectQuery("INSERT INTO users").WithArgs("chris").WillReturnError(errors.New("other"))
	if _, err := repo.Create(context.Background(), "chris"); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("SELECT id, name, created_at FROM users WHERE id=").WithArgs(int64(1)).WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "name", "created_at"}).AddRow(int64(1), "chris", createdAt))
	if _, err := repo.GetByID(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectQuery("SELECT id, name, created_at FROM users WHERE id=").WithArgs(int64(2)).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), 2); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("SELECT id, name, created_at FROM users WHERE id=").WithArgs(int64(3)).WillReturnError(errors.New("boom"))
	if _, err := repo.GetByID(context.Background(), 3); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("SELECT id, name, created_at FROM users ORDER BY id").WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "name", "created_at"}).
			AddRow(int64(1), "chris", createdAt).
			AddRow(int64(2), "dwight", createdAt))
	users, err := repo.List(context.Background())
	if err != nil || len(users) != 2 {
		t.Fatalf("unexpected result: %v err=%v", users, err)
	}

	mock.ExpectQuery("SELECT id, name, created_at FROM users ORDER BY id").WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "name", "created_at"}).
			AddRow(int64(1), "chris", createdAt).
			AddRow(int64(2), "dwight", createdAt).
			RowError(1, errors.New("row")))
	if _, err := repo.List(context.Background()); err == nil || err.Error() != "row" {
		t.Fatalf("expected row error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
