package middleware

import (
	"context"
	"errors"
	"net/http"

	"inventory_api/internal/common"
	"inventory_api/internal/common/security"
)

type contextKey string

const UserIDCtxKey contextKey = "userID"

// Authenticator verifies the bearer token with security.VerifyRequest and
// stores the asserted user id in the context.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := security.VerifyRequest(r)
		if err != nil {
			switch {
			case errors.Is(err, security.ErrTokenMissing):
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
			case errors.Is(err, security.ErrTokenClaims):
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims")
			default:
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			}
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Helper to get user ID from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}
