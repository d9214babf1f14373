// Package handler contains the HTTP layer: request parsing, response writing,
// and the mapping from domain errors to status codes. No business rules live
// here — the services own those.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/notewave/internal/apperror"
)

// MessageResponse is the standard body for status and error responses.
// The message text on auth errors is part of the API contract — clients match
// on it — so it always comes from the AppError, never from wrapped internals.
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be written before the body; Encode writes the body.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent — all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status code and sends it.
//
// The service layer returns apperror sentinels; this is the single place they
// become status codes. Anything not in the closed set is a 500 with a generic
// body — raw error text (SQL, file paths) never reaches the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation),
			errors.Is(err, apperror.ErrConflict),
			errors.Is(err, apperror.ErrNoChallenge),
			errors.Is(err, apperror.ErrCodeMismatch),
			errors.Is(err, apperror.ErrExpired):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrDelivery):
			status = http.StatusInternalServerError
		}

		writeJSON(w, status, MessageResponse{Message: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, MessageResponse{
		Message: "Server error",
	})
}

// writeAuthFlowError is writeError for the OTP endpoints, where the contract
// differs in one way: an unknown email is a 400 (bad request against the auth
// flow), not a 404. Everything else maps as usual.
func writeAuthFlowError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && errors.Is(err, apperror.ErrNotFound) {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: appErr.Message})
		return
	}
	writeError(w, err)
}
