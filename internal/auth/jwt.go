package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenLifetime is how long an issued session token stays valid. There is no
// server-side session state and no revocation list — expiry is the only exit.
const TokenLifetime = time.Hour

const issuer = "notewave"

// TokenService issues and validates session tokens.
//
// It holds the HMAC secret used to sign and verify. The secret is process-wide
// configuration injected at construction — rotating it invalidates every
// outstanding token, which is the accepted trade-off of the stateless design.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Claims is the JWT payload: the registered claims plus the identity fields
// the frontend renders, and a per-issuance random salt.
//
// WHY A SALT?
// Two tokens minted for the same user in the same second would otherwise be
// byte-identical. The salt (128 bits from crypto/rand) makes every issued
// token unique, so a captured token can't be fingerprinted across sessions.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name"`
	Email string `json:"email"`
	DOB   string `json:"dob"`
	Salt  string `json:"salt"`
}

// Issue creates a signed session token for the given identity.
// The Subject claim carries the internal user ID.
func (s *TokenService) Issue(userID, name, email, dob string) (string, error) {
	return s.IssueWithDuration(userID, name, email, dob, TokenLifetime)
}

// IssueWithDuration creates a token with a custom expiry. Used by tests to
// mint already-expired tokens.
func (s *TokenService) IssueWithDuration(userID, name, email, dob string, d time.Duration) (string, error) {
	salt, err := newSalt()
	if err != nil {
		return "", err
	}

	now := time.Now()
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
		Name:  name,
		Email: email,
		DOB:   dob,
		Salt:  salt,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns its claims.
//
// Checks performed: HMAC signature, expiry, issuer, and that the algorithm is
// HS256 (jwt.WithValidMethods blocks algorithm-confusion tokens). The error
// never distinguishes "expired" from "tampered" — callers get one generic
// failure, so the response doesn't tell an attacker which check tripped.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("auth: invalid token claims")
	}
	if c.Subject == "" {
		return nil, errors.New("auth: token has no subject")
	}

	return c, nil
}

// newSalt returns 16 random bytes hex-encoded (128 bits of entropy).
func newSalt() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth: generating salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}
