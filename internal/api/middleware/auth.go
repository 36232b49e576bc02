package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/devforge/codelab/internal/auth"
	"github.com/devforge/codelab/internal/cache"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/utils"
)

// ContextKey is a custom type for context keys
type ContextKey string

const (
	// UserIDKey is the context key for user ID
	UserIDKey ContextKey = "userID"
	// UserEmailKey is the context key for user email
	UserEmailKey ContextKey = "email"
	// SessionTokenKey is the context key for the raw session token
	SessionTokenKey ContextKey = "sessionToken"
)

// SessionCookieName is the http-only cookie carrying the session JWT.
const SessionCookieName = "token"

// extractToken pulls the session token from the cookie, falling back to a
// Bearer header for non-browser clients.
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	return ""
}

// AuthMiddleware returns a middleware that validates session tokens and
// rejects tokens denylisted by logout.
func AuthMiddleware(jwtSecret string, store cache.Cache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractToken(r)
			if tokenStr == "" {
				utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
				return
			}

			claims, err := auth.ParseClaims(tokenStr, jwtSecret)
			if err != nil {
				utils.WriteError(w, errors.Unauthorized("Invalid or expired token"))
				return
			}

			// A logged-out token stays denylisted until its natural expiry
			if _, err := store.Get(r.Context(), cache.DenylistKey(tokenStr)); err == nil {
				utils.WriteError(w, errors.TokenRevoked())
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
			ctx = context.WithValue(ctx, SessionTokenKey, tokenStr)

			AddLogField(w, "user_id", claims.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the user ID from the request context
func GetUserID(r *http.Request) (int64, bool) {
	userID, ok := r.Context().Value(UserIDKey).(int64)
	return userID, ok
}

// GetUserEmail extracts the user email from the request context
func GetUserEmail(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(UserEmailKey).(string)
	return email, ok
}

// GetSessionToken extracts the raw session token from the request context
func GetSessionToken(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(SessionTokenKey).(string)
	return token, ok
}
