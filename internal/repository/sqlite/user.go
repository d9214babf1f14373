package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/notewave/internal/apperror"
	"github.com/sakif/notewave/internal/model"
	"github.com/sakif/notewave/internal/repository"
)

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// Create inserts a new user. The UNIQUE constraint on email is the backstop
// for the service-level duplicate check: a lost race between two concurrent
// sign-ups still surfaces as a conflict, not a raw driver error.
func (db *UserDB) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, dob, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.DOB,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperror.EmailTaken()
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetByEmail retrieves a user by email (exact, case-sensitive match).
// Returns apperror.ErrNotFound if no user has that email.
func (db *UserDB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `email = ?`, email)
}

// GetByID retrieves a user by their internal ID.
func (db *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `id = ?`, id)
}

func (db *UserDB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var (
		u       model.User
		code    sql.NullString
		expires sql.NullTime
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, dob, otp_code, otp_expires_at, created_at, updated_at
		 FROM users WHERE `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.DOB,
		&code,
		&expires,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.UserNotFound()
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	// The pair is NULL together or set together; translate to pointers.
	if code.Valid && expires.Valid {
		u.OTPCode = &code.String
		u.OTPExpiresAt = &expires.Time
	}

	return &u, nil
}

// SetChallenge stores a new OTP challenge on the user, overwriting any
// previous one. Code and expiry are written in a single UPDATE so the pair
// can never be half-set.
func (db *UserDB) SetChallenge(ctx context.Context, userID, code string, expiresAt time.Time) error {
	return db.updateChallenge(ctx, userID, &code, &expiresAt)
}

// ClearChallenge removes the OTP challenge from the user. Also a single
// UPDATE — both fields go to NULL together.
func (db *UserDB) ClearChallenge(ctx context.Context, userID string) error {
	return db.updateChallenge(ctx, userID, nil, nil)
}

func (db *UserDB) updateChallenge(ctx context.Context, userID string, code *string, expiresAt *time.Time) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET otp_code = ?, otp_expires_at = ?, updated_at = ? WHERE id = ?`,
		code,
		expiresAt,
		time.Now(),
		userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating challenge for user %s: %w", userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", userID)
	}

	return nil
}
