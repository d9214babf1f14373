package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/notewave/internal/apperror"
	"github.com/sakif/notewave/internal/model"
	"github.com/sakif/notewave/internal/repository"
)

// compile-time check that *NoteDB implements repository.NoteRepository
var _ repository.NoteRepository = (*NoteDB)(nil)

// Create inserts a new note. The owner (UserID) is set by the caller and is
// never changed afterwards.
func (db *NoteDB) Create(ctx context.Context, note *model.Note) error {
	note.ID = xid.New().String()

	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO notes (id, title, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		note.ID,
		note.Title,
		note.UserID,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating note: %w", err)
	}

	return nil
}

// GetByID retrieves a single note by its ID.
// Returns apperror.ErrNotFound if the note doesn't exist.
func (db *NoteDB) GetByID(ctx context.Context, id string) (*model.Note, error) {
	var note model.Note

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, user_id, created_at, updated_at
		 FROM notes
		 WHERE id = ?`,
		id,
	).Scan(
		&note.ID,
		&note.Title,
		&note.UserID,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("note", id)
		}
		return nil, fmt.Errorf("sqlite: getting note %s: %w", id, err)
	}

	return &note, nil
}

// ListByUser retrieves all notes owned by the given user, newest first.
// The WHERE clause is the ownership filter — no other user's notes can appear.
func (db *NoteDB) ListByUser(ctx context.Context, userID string) ([]model.Note, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, user_id, created_at, updated_at
		 FROM notes
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing notes for user %s: %w", userID, err)
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(
			&n.ID, &n.Title, &n.UserID,
			&n.CreatedAt, &n.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning note row: %w", err)
		}
		notes = append(notes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating notes: %w", err)
	}

	return notes, nil
}

// Delete removes a note by its ID.
// RowsAffected distinguishes "deleted" from "never existed".
func (db *NoteDB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting note %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("note", id)
	}

	return nil
}
