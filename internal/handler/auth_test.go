package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/notewave/internal/auth"
	"github.com/sakif/notewave/internal/handler"
	"github.com/sakif/notewave/internal/repository/sqlite"
	"github.com/sakif/notewave/internal/service"
)

// captureMailer records OTP codes instead of sending them, so tests can read
// the code back and complete the verify step.
type captureMailer struct {
	lastTo   string
	lastCode string
	sendErr  error
}

func (m *captureMailer) SendOTP(_ context.Context, to, code string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.lastTo = to
	m.lastCode = code
	return nil
}

// testEnv wires real services over an in-memory database — handler tests run
// the whole stack below the router.
type testEnv struct {
	authHandler *handler.AuthHandler
	noteHandler *handler.NoteHandler
	tokens      *auth.TokenService
	mailer      *captureMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	require.NoError(t, err)

	mailer := &captureMailer{}
	authService := service.NewAuthService(db.Users(), mailer, tokens, logger)
	noteService := service.NewNoteService(db.Notes(), logger)

	return &testEnv{
		authHandler: handler.NewAuthHandler(authService, logger),
		noteHandler: handler.NewNoteHandler(noteService, logger),
		tokens:      tokens,
		mailer:      mailer,
	}
}

func postJSON(path, body string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return httptest.NewRecorder(), req
}

// signUpAndGetCode runs the sign-up request and returns the emailed code.
func signUpAndGetCode(t *testing.T, env *testEnv, email string) string {
	t.Helper()

	rr, req := postJSON("/api/auth/request-otp",
		`{"name":"Ada Lovelace","email":"`+email+`","dob":"1990-12-10"}`)
	env.authHandler.HandleRequestOTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NotEmpty(t, env.mailer.lastCode)
	return env.mailer.lastCode
}

// verifyAndGetToken completes the verify step and returns the session token.
func verifyAndGetToken(t *testing.T, env *testEnv, email, code string) string {
	t.Helper()

	rr, req := postJSON("/api/auth/verify-otp",
		`{"email":"`+email+`","otp":"`+code+`"}`)
	env.authHandler.HandleVerifyOTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func TestHandleRequestOTP(t *testing.T) {
	t.Run("successful sign-up", func(t *testing.T) {
		env := newTestEnv(t)

		rr, req := postJSON("/api/auth/request-otp",
			`{"name":"Ada Lovelace","email":"ada@example.com","dob":"1990-12-10"}`)
		env.authHandler.HandleRequestOTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"message":"OTP sent to your email"}`, rr.Body.String())
		assert.Equal(t, "ada@example.com", env.mailer.lastTo)
		assert.Len(t, env.mailer.lastCode, 6)
	})

	t.Run("duplicate email is a 400", func(t *testing.T) {
		env := newTestEnv(t)
		signUpAndGetCode(t, env, "ada@example.com")

		rr, req := postJSON("/api/auth/request-otp",
			`{"name":"Imposter","email":"ada@example.com","dob":"1995-05-05"}`)
		env.authHandler.HandleRequestOTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"message":"User already exists"}`, rr.Body.String())
	})

	t.Run("invalid JSON body", func(t *testing.T) {
		env := newTestEnv(t)

		rr, req := postJSON("/api/auth/request-otp", `{"name":`)
		env.authHandler.HandleRequestOTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"message":"Invalid JSON body"}`, rr.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		env := newTestEnv(t)

		rr, req := postJSON("/api/auth/request-otp", `{"email":"ada@example.com"}`)
		env.authHandler.HandleRequestOTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("delivery failure is a 500", func(t *testing.T) {
		env := newTestEnv(t)
		env.mailer.sendErr = assert.AnError

		rr, req := postJSON("/api/auth/request-otp",
			`{"name":"Ada","email":"ada@example.com","dob":"1990-12-10"}`)
		env.authHandler.HandleRequestOTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"message":"Failed to send OTP email"}`, rr.Body.String())
	})
}

func TestHandleRequestOTPSignIn(t *testing.T) {
	t.Run("existing account gets a fresh code", func(t *testing.T) {
		env := newTestEnv(t)
		signUpAndGetCode(t, env, "ada@example.com")

		rr, req := postJSON("/api/auth/request-otp-in", `{"email":"ada@example.com"}`)
		env.authHandler.HandleRequestOTPSignIn(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"message":"OTP sent to your email"}`, rr.Body.String())
	})

	t.Run("unknown email is a 400, not 404", func(t *testing.T) {
		env := newTestEnv(t)

		rr, req := postJSON("/api/auth/request-otp-in", `{"email":"nobody@example.com"}`)
		env.authHandler.HandleRequestOTPSignIn(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"message":"User not found"}`, rr.Body.String())
	})
}

func TestHandleVerifyOTP(t *testing.T) {
	t.Run("correct code returns a token", func(t *testing.T) {
		env := newTestEnv(t)
		code := signUpAndGetCode(t, env, "ada@example.com")

		rr, req := postJSON("/api/auth/verify-otp",
			`{"email":"ada@example.com","otp":"`+code+`"}`)
		env.authHandler.HandleVerifyOTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Message string `json:"message"`
			Token   string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "OTP verified successfully", res.Message)

		claims, err := env.tokens.Validate(res.Token)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", claims.Email)
		assert.Equal(t, "Ada Lovelace", claims.Name)
	})

	t.Run("wrong code is a 400", func(t *testing.T) {
		env := newTestEnv(t)
		code := signUpAndGetCode(t, env, "ada@example.com")

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		rr, req := postJSON("/api/auth/verify-otp",
			`{"email":"ada@example.com","otp":"`+wrong+`"}`)
		env.authHandler.HandleVerifyOTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"message":"Invalid OTP"}`, rr.Body.String())
	})

	t.Run("code is single use", func(t *testing.T) {
		env := newTestEnv(t)
		code := signUpAndGetCode(t, env, "ada@example.com")
		verifyAndGetToken(t, env, "ada@example.com", code)

		rr, req := postJSON("/api/auth/verify-otp",
			`{"email":"ada@example.com","otp":"`+code+`"}`)
		env.authHandler.HandleVerifyOTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"message":"No OTP found"}`, rr.Body.String())
	})

	t.Run("unknown email is a 400", func(t *testing.T) {
		env := newTestEnv(t)

		rr, req := postJSON("/api/auth/verify-otp",
			`{"email":"nobody@example.com","otp":"123456"}`)
		env.authHandler.HandleVerifyOTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"message":"User not found"}`, rr.Body.String())
	})
}

func TestHandleMe(t *testing.T) {
	env := newTestEnv(t)
	code := signUpAndGetCode(t, env, "ada@example.com")
	token := verifyAndGetToken(t, env, "ada@example.com", code)

	// /api/me sits behind RequireAuth in the real router; replicate that here
	// so the identity lands in the context.
	protected := auth.RequireAuth(env.tokens)(http.HandlerFunc(env.authHandler.HandleMe))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	protected.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var identity auth.Identity
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&identity))
	assert.Equal(t, "Ada Lovelace", identity.Name)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.Equal(t, "1990-12-10", identity.DOB)
	assert.NotEmpty(t, identity.ID)
}
