package auth

import (
	"context"
	"net/http"
	"strings"
)

// Identity is the decoded token payload exposed to handlers. It establishes
// WHO is asking — it is not an ownership grant by itself; resource-level
// checks still compare Identity.ID against the resource's owner.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	DOB   string `json:"dob"`
}

// contextKey is an unexported type used for context keys in this package.
// Only this package can create a key of this type, so no other package can
// read or shadow the identity value.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It expects an "Authorization: Bearer <token>" header. A missing or malformed
// header and an invalid or expired token both stop the chain with a 401; the
// two bodies match what the API has always returned, so clients can keep
// matching on the message text.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeUnauthorized(w, "Unauthorized")
				return
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			identity := &Identity{
				ID:    claims.Subject,
				Name:  claims.Name,
				Email: claims.Email,
				DOB:   claims.DOB,
			}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated identity set by RequireAuth.
// Returns (nil, false) if the request is anonymous.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok && id != nil && id.ID != ""
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The prefix check is exact — no trimming, no case folding.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := header[len(prefix):]
	return token, token != ""
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message":"` + message + `"}`))
}
