package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/inkstone/bookstore-api/internal/httpx"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserID returns the authenticated user id placed in the context by
// Protect, or "" for unauthenticated requests.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// Protect wraps a handler, requiring a valid Bearer token.
func Protect(tokens *TokenManager, logger *slog.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			httpx.WriteError(w, logger, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		userID, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			httpx.WriteError(w, logger, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}
