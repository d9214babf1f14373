// Package apperror defines the closed set of error kinds the application can
// surface to clients, plus the AppError wrapper that carries the
// client-visible message.
//
// The service layer returns these; the HTTP layer maps them to status codes
// with errors.Is. Anything outside this set (a real storage failure, for
// example) is reported as a generic 500 without leaking internals.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")

	// OTP state machine failures. Each maps to a 400 with a fixed message.
	ErrNoChallenge  = errors.New("no challenge pending")
	ErrCodeMismatch = errors.New("code mismatch")
	ErrExpired      = errors.New("expired")

	// ErrDelivery means the OTP email could not be sent. The challenge is
	// still persisted, so a later resend + verify can succeed.
	ErrDelivery = errors.New("delivery failed")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized returns an AppError for a missing or invalid credential.
// HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// The messages below are surfaced verbatim to API clients and are part of the
// auth contract — change them and you change the API.

// EmailTaken is returned when a sign-up targets an already registered email.
func EmailTaken() *AppError {
	return &AppError{Err: ErrConflict, Message: "User already exists"}
}

// UserNotFound is returned when no account matches the given email.
func UserNotFound() *AppError {
	return &AppError{Err: ErrNotFound, Message: "User not found"}
}

// NoOTPPending is returned when verification is attempted without a challenge.
func NoOTPPending() *AppError {
	return &AppError{Err: ErrNoChallenge, Message: "No OTP found"}
}

// InvalidOTP is returned when the submitted code does not match the stored one.
func InvalidOTP() *AppError {
	return &AppError{Err: ErrCodeMismatch, Message: "Invalid OTP"}
}

// OTPExpired is returned when the challenge's expiry has passed.
func OTPExpired() *AppError {
	return &AppError{Err: ErrExpired, Message: "OTP expired"}
}

// DeliveryFailed wraps a mailer error. The underlying cause is kept for logs
// but never shown to the client.
func DeliveryFailed(err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrDelivery, err),
		Message: "Failed to send OTP email",
	}
}
