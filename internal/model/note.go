package model

import "time"

// Note is a user-owned note.
//
// UserID references the owning User and is assigned exactly once, at creation.
// Ownership never transfers — every read and delete is gated on it.
type Note struct {
	ID        string    `json:"id"        db:"id"`
	Title     string    `json:"title"     db:"title"`
	UserID    string    `json:"userId"    db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
