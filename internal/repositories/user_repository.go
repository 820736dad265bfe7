package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intconfig "ticketbooking/internal/config"
	intdb "ticketbooking/internal/db"
	"ticketbooking/internal/domain"
	"ticketbooking/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const userColumns = `id, username, email, password_hash, role, COALESCE(reset_token, ''), reset_expires_at, created_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var (
		u       models.User
		expires sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.ResetToken, &expires, &u.CreatedAt)
	if err != nil {
		return models.User{}, err
	}
	if expires.Valid {
		u.ResetExpiresAt = expires.Time
	}
	return u, nil
}

func (r UserRepository) one(ctx context.Context, where string, args ...any) (models.User, error) {
	row := r.db().QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`, args...)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "failed to load user", Err: err}
	}
	return u, nil
}

// FindByLogin looks a user up by email or username.
func (r UserRepository) FindByLogin(ctx context.Context, login string) (models.User, error) {
	login = strings.TrimSpace(login)
	return r.one(ctx, `email = ? OR username = ?`, login, login)
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	if id <= 0 {
		return models.User{}, domain.ValidationError{Field: "user_id", Msg: "invalid id"}
	}
	return r.one(ctx, `id = ?`, id)
}

func (r UserRepository) FindByResetToken(ctx context.Context, token string) (models.User, error) {
	return r.one(ctx, `reset_token = ?`, token)
}

// CountByEmailOrUsername counts users holding either identifier, excluding
// exceptID (0 excludes nobody).
func (r UserRepository) CountByEmailOrUsername(ctx context.Context, email, username string, exceptID int64) (int, error) {
	var n int
	err := r.db().QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM users
		WHERE (email = ? OR username = ?) AND id <> ?
	`, email, username, exceptID).Scan(&n)
	if err != nil {
		return 0, domain.InternalError{Msg: "failed to check user", Err: err}
	}
	return n, nil
}

func (r UserRepository) Create(ctx context.Context, u models.User) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, u.Username, u.Email, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		return 0, domain.InternalError{Msg: "failed to save user", Err: err}
	}
	return res.LastInsertId()
}

// SetResetToken stores a password reset token. An empty token clears it.
func (r UserRepository) SetResetToken(ctx context.Context, userID int64, token string, expires time.Time) error {
	var exp any
	if token != "" {
		exp = expires
	}
	_, err := r.db().ExecContext(ctx, `UPDATE users SET reset_token = ?, reset_expires_at = ? WHERE id = ?`,
		intdb.NullIfEmpty(token), exp, userID)
	if err != nil {
		return domain.InternalError{Msg: "failed to store reset token", Err: err}
	}
	return nil
}

// UpdatePassword sets a new hash and clears any reset token.
func (r UserRepository) UpdatePassword(ctx context.Context, userID int64, hash string) error {
	res, err := r.db().ExecContext(ctx, `
		UPDATE users SET password_hash = ?, reset_token = NULL, reset_expires_at = NULL WHERE id = ?
	`, hash, userID)
	if err != nil {
		return domain.InternalError{Msg: "failed to update password", Err: err}
	}
	return requireAffected(res, "user")
}

func (r UserRepository) UpdateProfile(ctx context.Context, userID int64, username, email string) error {
	_, err := r.db().ExecContext(ctx, `UPDATE users SET username = ?, email = ? WHERE id = ?`, username, email, userID)
	if err != nil {
		return domain.InternalError{Msg: "failed to update profile", Err: err}
	}
	return nil
}

func requireAffected(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n == 0 {
		return domain.NotFoundError{Resource: resource, Err: fmt.Errorf("no rows affected")}
	}
	return nil
}
