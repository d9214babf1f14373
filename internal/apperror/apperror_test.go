// GO TESTING BASICS:
// 1. Test files MUST end in _test.go — Go's tooling auto-discovers them
// 2. Test functions MUST start with "Test" and take *testing.T as the only param
// 3. Same package as the code being tested (so we can access unexported stuff)
// 4. Run with: go test ./internal/apperror/ -v  (-v = verbose, shows each test name)
package apperror

import (
	"errors"
	"testing"
)

// TABLE-DRIVEN TESTS:
// Go's idiomatic pattern for testing multiple cases. Instead of writing a
// separate function per case, we define a slice of cases and loop over them —
// adding a case is adding one struct, and every case gets a name in the output.

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string // Descriptive name for test output
		err       error  // The error to test
		target    error  // What we expect it to match
		wantMatch bool   // Should errors.Is() return true?
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("note", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "UserNotFound wraps ErrNotFound",
			err:       UserNotFound(),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("email", "email is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "EmailTaken wraps ErrConflict",
			err:       EmailTaken(),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "NoOTPPending wraps ErrNoChallenge",
			err:       NoOTPPending(),
			target:    ErrNoChallenge,
			wantMatch: true,
		},
		{
			name:      "InvalidOTP wraps ErrCodeMismatch",
			err:       InvalidOTP(),
			target:    ErrCodeMismatch,
			wantMatch: true,
		},
		{
			name:      "OTPExpired wraps ErrExpired",
			err:       OTPExpired(),
			target:    ErrExpired,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("Forbidden"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "DeliveryFailed wraps ErrDelivery",
			err:       DeliveryFailed(errors.New("smtp: connection refused")),
			target:    ErrDelivery,
			wantMatch: true,
		},
		{
			name:      "InvalidOTP does NOT match ErrExpired",
			err:       InvalidOTP(),
			target:    ErrExpired,
			wantMatch: false,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("note", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
	}

	// t.Run() creates a sub-test for each case.
	// Output looks like: TestErrorsIs/NotFound_wraps_ErrNotFound
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

// The auth flow messages are part of the API contract — clients match on the
// exact text, so these strings are pinned down here.
func TestContractMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{"EmailTaken", EmailTaken(), "User already exists"},
		{"UserNotFound", UserNotFound(), "User not found"},
		{"NoOTPPending", NoOTPPending(), "No OTP found"},
		{"InvalidOTP", InvalidOTP(), "Invalid OTP"},
		{"OTPExpired", OTPExpired(), "OTP expired"},
		{"DeliveryFailed", DeliveryFailed(errors.New("boom")), "Failed to send OTP email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("note", "abc123")
	want := "note not found with id abc123"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestDeliveryFailedKeepsCause(t *testing.T) {
	// The mailer's error stays in the chain for logging, but the client-facing
	// message never contains it.
	cause := errors.New("dial tcp: i/o timeout")
	err := DeliveryFailed(cause)

	if !errors.Is(err, cause) {
		t.Error("DeliveryFailed() should keep the underlying cause in the chain")
	}
	if err.Error() != "Failed to send OTP email" {
		t.Errorf("Error() = %q leaks internals", err.Error())
	}
}

func TestValidationFailedField(t *testing.T) {
	// The Field lets handlers tell the frontend WHICH field was invalid.
	err := ValidationFailed("email", "invalid email format")

	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
}
