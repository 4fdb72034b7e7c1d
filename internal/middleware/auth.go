package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmynk/spendbook/internal/auth"
	"github.com/mmynk/spendbook/internal/storage"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// EmailKey is the context key for storing the authenticated user's email.
const EmailKey contextKey = "email"

// AuthCookie is the cookie carrying the session token for browser clients.
const AuthCookie = "auth-token"

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// WithEmail returns a copy of ctx carrying the authenticated email.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, EmailKey, storage.NormalizeEmail(email))
}

// tokenFromRequest reads a Bearer token from the Authorization header,
// falling back to the auth-token cookie.
func tokenFromRequest(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", auth.ErrInvalidToken
		}
		return parts[1], nil
	}
	if cookie, err := r.Cookie(AuthCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", auth.ErrMissingToken
}

// RequireAuth returns a middleware that validates JWT tokens and requires authentication.
// It extracts the token from the Authorization header or the auth-token cookie,
// validates it, and adds the user's email to the request context.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := tokenFromRequest(r)
			if err != nil {
				unauthorized(w, err)
				return
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				slog.Debug("Token rejected", "path", r.URL.Path, "error", err)
				unauthorized(w, auth.ErrInvalidToken)
				return
			}

			ctx := WithEmail(r.Context(), claims.Email)
			setRequestEmail(ctx, GetEmail(ctx))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
