// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// There are no passwords — the only credential is a one-time passcode (OTP)
// delivered by email. The pending challenge lives directly on the user record
// as the (OTPCode, OTPExpiresAt) pair.
//
// WHY POINTERS FOR THE OTP FIELDS?
// "No challenge pending" must be distinguishable from "challenge with an empty
// code". Pointers make the absent state explicit (nil) and map cleanly to NULL
// columns in the database. The invariant is that both fields are set or both
// are nil — never one without the other. The repository enforces this by only
// ever writing the pair in a single UPDATE.
type User struct {
	ID        string    `json:"id"        db:"id"`
	Name      string    `json:"name"      db:"name"`
	Email     string    `json:"email"     db:"email"` // unique, compared case-sensitively
	DOB       string    `json:"dob"       db:"dob"`   // date of birth, "2006-01-02"
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Pending OTP challenge. Never serialized to clients.
	OTPCode      *string    `json:"-" db:"otp_code"`
	OTPExpiresAt *time.Time `json:"-" db:"otp_expires_at"`
}

// HasChallenge reports whether a verification challenge is pending.
func (u *User) HasChallenge() bool {
	return u.OTPCode != nil && u.OTPExpiresAt != nil
}
