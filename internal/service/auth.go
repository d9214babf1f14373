// Package service contains the business logic layer of the application.
//
// The layering follows the usual three-layer split:
//
//	Handler (HTTP)     → parses requests, writes responses
//	Service (business) → validates, enforces rules, orchestrates
//	Repository (data)  → reads/writes the database
//
// AuthService is the OTP engine. It owns the full challenge lifecycle:
//
//	request (sign-up or sign-in) → code stored on the user + emailed
//	verify                       → challenge cleared + session token issued
//
// The handlers only translate HTTP to these calls and back.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/notewave/internal/apperror"
	"github.com/sakif/notewave/internal/auth"
	"github.com/sakif/notewave/internal/mail"
	"github.com/sakif/notewave/internal/model"
	"github.com/sakif/notewave/internal/repository"
)

// OTPLifetime is how long a challenge stays verifiable after issuance.
const OTPLifetime = 10 * time.Minute

// dobLayout is the accepted date-of-birth format.
const dobLayout = "2006-01-02"

// AuthService handles the passwordless authentication flow.
//
// CONCURRENCY NOTE:
// Two concurrent challenge requests for the same email are last-writer-wins —
// the most recently stored code is the only valid one. A verification racing a
// re-request may see either the old or the new code depending on ordering.
// Both races are accepted; the challenge window is short and the pair's
// atomicity comes from the store's single-statement update.
type AuthService struct {
	users  repository.UserRepository
	mailer mail.Mailer
	tokens *auth.TokenService
	logger *slog.Logger

	// now is swapped out in tests to simulate expiry.
	now func() time.Time
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	mailer mail.Mailer,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		mailer: mailer,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// RequestSignUpOTP registers a new account and issues its first challenge.
//
// Fails with ErrConflict if the email is already registered. On success the
// user record exists with a pending (code, expiry) pair and the code has been
// handed to the mailer.
//
// DELIVERY FAILURE IS NOT ROLLED BACK:
// if the mailer errors, the stored challenge stays valid. The caller gets
// ErrDelivery, and a resend (another request) or a verify with a code that
// did arrive can still proceed.
func (s *AuthService) RequestSignUpOTP(ctx context.Context, name, email, dob string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	dob = strings.TrimSpace(dob)

	if name == "" {
		return apperror.ValidationFailed("name", "name is required")
	}
	if email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	if _, err := time.Parse(dobLayout, dob); err != nil {
		return apperror.ValidationFailed("dob", "dob must be a date in YYYY-MM-DD format")
	}

	// Duplicate check first for a clean 400; the UNIQUE constraint in the
	// store backstops the race between two concurrent sign-ups.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return apperror.EmailTaken()
	}

	user := &model.User{
		Name:  name,
		Email: email,
		DOB:   dob,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("service/auth: creating user (email=%s): %w", email, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return s.issueChallenge(ctx, user)
}

// RequestSignInOTP issues a challenge for an existing account.
// Fails with ErrNotFound if no account matches the email.
func (s *AuthService) RequestSignInOTP(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	return s.issueChallenge(ctx, user)
}

// issueChallenge generates a fresh code, persists the (code, expiry) pair on
// the user — overwriting any previous challenge — and mails the code.
func (s *AuthService) issueChallenge(ctx context.Context, user *model.User) error {
	code, err := auth.GenerateCode()
	if err != nil {
		return fmt.Errorf("service/auth: %w", err)
	}

	expiresAt := s.now().Add(OTPLifetime)
	if err := s.users.SetChallenge(ctx, user.ID, code, expiresAt); err != nil {
		return fmt.Errorf("service/auth: storing challenge for user %s: %w", user.ID, err)
	}

	if err := s.mailer.SendOTP(ctx, user.Email, code); err != nil {
		// The challenge is already persisted and stays valid. Report the
		// failure — claiming success here would hide a code the user may
		// never receive.
		s.logger.Error("OTP delivery failed",
			slog.String("userID", user.ID),
			slog.String("email", user.Email),
			slog.String("error", err.Error()),
		)
		return apperror.DeliveryFailed(err)
	}

	s.logger.Info("OTP challenge issued",
		slog.String("userID", user.ID),
		slog.Time("expiresAt", expiresAt),
	)

	return nil
}

// AuthResult bundles the verified user and the issued session token so the
// handler can respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// VerifyOTP checks a submitted code against the pending challenge and, on
// success, clears the challenge and issues a session token.
//
// Failure order: unknown email → no challenge pending → expired → wrong code.
// Expiry is checked before the code so an expired challenge always reports
// ErrExpired, whether or not the submitted code happens to be right.
// Every failure leaves the challenge untouched so the user can retry with the
// correct code inside the window. Only success clears the pair, and it is
// cleared exactly once — a second verify with the same code fails with
// ErrNoChallenge.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if !user.HasChallenge() {
		return nil, apperror.NoOTPPending()
	}

	// Expiry is inclusive: at the stored timestamp the challenge is dead.
	if !s.now().Before(*user.OTPExpiresAt) {
		return nil, apperror.OTPExpired()
	}

	// Exact equality, no normalization — "0123456" never matches "123456".
	if *user.OTPCode != code {
		return nil, apperror.InvalidOTP()
	}

	// Success: clear the pair in a single update. The returned record is the
	// pre-clear one, which is what the token is minted from.
	if err := s.users.ClearChallenge(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("service/auth: clearing challenge for user %s: %w", user.ID, err)
	}

	token, err := s.tokens.Issue(user.ID, user.Name, user.Email, user.DOB)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user authenticated",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID returns the user for the given internal ID. Used by /api/me
// when the full record is needed beyond the token claims.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetByID(ctx, id)
}
