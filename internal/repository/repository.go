// Package repository defines the storage interfaces the service layer
// programs against. The sqlite subpackage is the concrete implementation;
// tests use in-memory fakes.
package repository

import (
	"context"
	"time"

	"github.com/sakif/notewave/internal/model"
)

// UserRepository persists user identity records and their OTP challenge.
//
// The (code, expiry) pair is written and cleared only through SetChallenge
// and ClearChallenge, each a single update — the record can never end up with
// one field set and the other unset.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	SetChallenge(ctx context.Context, userID, code string, expiresAt time.Time) error
	ClearChallenge(ctx context.Context, userID string) error
}

// NoteRepository persists notes.
type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	GetByID(ctx context.Context, id string) (*model.Note, error)
	ListByUser(ctx context.Context, userID string) ([]model.Note, error)
	Delete(ctx context.Context, id string) error
}
