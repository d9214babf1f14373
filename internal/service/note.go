package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/notewave/internal/apperror"
	"github.com/sakif/notewave/internal/model"
	"github.com/sakif/notewave/internal/repository"
)

// MaxNoteTitleLength bounds note titles.
const MaxNoteTitleLength = 200

// NoteService handles business logic for notes, including the ownership
// checks: a caller can only ever see or delete notes they own. The caller's
// identity comes from the authenticated token — the service trusts the ID it
// is handed, so every entry point takes the owner explicitly.
type NoteService struct {
	repo   repository.NoteRepository
	logger *slog.Logger
}

// NewNoteService creates a NoteService.
func NewNoteService(repo repository.NoteRepository, logger *slog.Logger) *NoteService {
	return &NoteService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and saves a new note owned by ownerID.
// The creator always owns what they create — no further check is needed here,
// and the owner is immutable from this point on.
func (s *NoteService) Create(ctx context.Context, title, ownerID string) (*model.Note, error) {
	title = strings.TrimSpace(title)

	if title == "" {
		return nil, apperror.ValidationFailed("title", "note title is required")
	}
	if len(title) > MaxNoteTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("note title must be %d characters or less", MaxNoteTitleLength))
	}
	if ownerID == "" {
		return nil, apperror.Unauthorized("Unauthorized")
	}

	note := &model.Note{
		Title:  title,
		UserID: ownerID,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		s.logger.Error("failed to create note",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating note: %w", err)
	}

	s.logger.Info("note created",
		slog.String("id", note.ID),
		slog.String("ownerID", ownerID),
	)

	return note, nil
}

// ListByOwner returns all notes owned by ownerID, newest first.
// The ownership filter happens at the query — another user's notes are never
// fetched, let alone returned.
func (s *NoteService) ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error) {
	if ownerID == "" {
		return nil, apperror.Unauthorized("Unauthorized")
	}

	notes, err := s.repo.ListByUser(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list notes",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing notes: %w", err)
	}

	return notes, nil
}

// Delete removes a note if and only if callerID owns it.
//
// Fetch-then-delete: absent note → ErrNotFound; present but owned by someone
// else → ErrForbidden. The 403/404 distinction reveals that the note exists
// to a non-owner; accepted here since note IDs are unguessable.
func (s *NoteService) Delete(ctx context.Context, id, callerID string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "note ID is required")
	}
	if callerID == "" {
		return apperror.Unauthorized("Unauthorized")
	}

	note, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if note.UserID != callerID {
		return apperror.Forbidden("Forbidden")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("note deleted",
		slog.String("id", id),
		slog.String("ownerID", callerID),
	)
	return nil
}
