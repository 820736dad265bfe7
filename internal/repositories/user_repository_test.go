package repositories

import (
	"context"
	"testing"
	"time"

	"ticketbooking/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestUpdatePasswordRequiresRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("hash", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = UserRepository{DB: db}.UpdatePassword(context.Background(), 5, "hash")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetResetTokenClearsWithEmptyToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE users SET reset_token").
		WithArgs(nil, nil, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := (UserRepository{DB: db}).SetResetToken(context.Background(), 5, "", time.Time{}); err != nil {
		t.Fatalf("SetResetToken returned error: %v", err)
	}
}
