// Package auth provides the building blocks of the passwordless login flow:
// one-time passcode generation, JWT session tokens, and the middleware that
// authenticates bearer tokens on protected routes.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. Client POSTs /api/auth/request-otp (sign-up) or /request-otp-in (sign-in)
//  2. Server stores a 6-digit code + 10-minute expiry on the user record and
//     emails the code
//  3. Client POSTs /api/auth/verify-otp with the code
//  4. Server clears the challenge and returns a signed JWT (1 hour)
//  5. Client sends "Authorization: Bearer <token>" on subsequent requests;
//     middleware validates it and puts the identity in the request context
package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// OTP codes are 6 decimal digits drawn uniformly from [100000, 999999],
// so every code has a leading non-zero digit and a fixed width.
const (
	otpMin = 100000
	otpMax = 999999
)

// GenerateCode returns a fresh 6-digit one-time passcode.
//
// crypto/rand (not math/rand) — the code is a credential, and rand.Int gives
// an unbiased value in [0, max) without modulo skew.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("auth: generating OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}
