package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/notewave/internal/auth"
	"github.com/sakif/notewave/internal/service"
)

// AuthHandler exposes the passwordless login flow over HTTP:
//
//	POST /api/auth/request-otp    → sign-up: register + send code
//	POST /api/auth/request-otp-in → sign-in: send code to existing account
//	POST /api/auth/verify-otp     → exchange code for a session token
//	GET  /api/me                  → the authenticated identity
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type signUpRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	DOB   string `json:"dob"`
}

type signInRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// verifyResponse carries the session token alongside the status message.
type verifyResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// HandleRequestOTP starts a sign-up.
//
// HTTP: POST /api/auth/request-otp
// Body: {"name": "A", "email": "a@x.com", "dob": "2000-01-01"}
//
// 200 once the code is stored and handed to the mailer; 400 if the email is
// already registered or a field is invalid; 500 if delivery or storage fails.
func (h *AuthHandler) HandleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid JSON body"})
		return
	}

	if err := h.authService.RequestSignUpOTP(r.Context(), req.Name, req.Email, req.DOB); err != nil {
		writeAuthFlowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "OTP sent to your email"})
}

// HandleRequestOTPSignIn starts a sign-in for an existing account.
//
// HTTP: POST /api/auth/request-otp-in
// Body: {"email": "a@x.com"}
//
// A request for an unknown email is a 400 — the account must exist first.
func (h *AuthHandler) HandleRequestOTPSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid JSON body"})
		return
	}

	if err := h.authService.RequestSignInOTP(r.Context(), req.Email); err != nil {
		writeAuthFlowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "OTP sent to your email"})
}

// HandleVerifyOTP exchanges a pending code for a session token.
//
// HTTP: POST /api/auth/verify-otp
// Body: {"email": "a@x.com", "otp": "123456"}
//
// 200 with {message, token} on success. The 400 messages ("User not found",
// "No OTP found", "Invalid OTP", "OTP expired") are surfaced verbatim —
// clients match on them.
func (h *AuthHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid JSON body"})
		return
	}

	result, err := h.authService.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeAuthFlowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		Message: "OTP verified successfully",
		Token:   result.Token,
	})
}

// HandleMe returns the authenticated identity decoded from the token.
//
// HTTP: GET /api/me
// Auth: Required (RequireAuth sets the identity in context)
//
// Answered straight from the claims — no store lookup needed.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// Should never happen on a RequireAuth-protected route, but be safe.
		writeJSON(w, http.StatusUnauthorized, MessageResponse{Message: "Unauthorized"})
		return
	}

	writeJSON(w, http.StatusOK, identity)
}
