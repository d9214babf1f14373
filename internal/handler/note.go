package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/notewave/internal/auth"
	"github.com/sakif/notewave/internal/service"
)

// NoteHandler manages the note endpoints. All of them sit behind RequireAuth,
// so the identity in the request context is always present and validated; the
// handler passes its ID to the service, which enforces ownership.
type NoteHandler struct {
	notes  *service.NoteService
	logger *slog.Logger
}

// NewNoteHandler creates a NoteHandler.
func NewNoteHandler(notes *service.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		notes:  notes,
		logger: logger,
	}
}

type createNoteRequest struct {
	Title string `json:"title"`
}

// HandleCreate saves a new note owned by the caller.
//
// HTTP: POST /api/notes
// Body: {"title": "Groceries"}
func (h *NoteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, MessageResponse{Message: "Unauthorized"})
		return
	}

	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid JSON body"})
		return
	}

	note, err := h.notes.Create(r.Context(), req.Title, identity.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

// HandleList returns the caller's notes, newest first. Only the caller's own
// notes are ever in the response.
//
// HTTP: GET /api/notes
func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, MessageResponse{Message: "Unauthorized"})
		return
	}

	notes, err := h.notes.ListByOwner(r.Context(), identity.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, notes)
}

// HandleDelete removes one of the caller's notes.
//
// HTTP: DELETE /api/notes/{id}
//
// 404 if the note doesn't exist, 403 if it belongs to someone else.
func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, MessageResponse{Message: "Unauthorized"})
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Note ID is required"})
		return
	}

	if err := h.notes.Delete(r.Context(), id, identity.ID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Note deleted"})
}
