package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"btoportal/pkg/domain"
	"btoportal/pkg/requestcontext"
)

// SessionClaims represents the claims we expect from the session validator.
type SessionClaims struct {
	UserNRIC string
	Role     domain.Role
}

// SessionValidator defines the interface for validating session tokens.
type SessionValidator interface {
	ValidateToken(tokenString string) (*SessionClaims, error)
}

// RequireAuth rejects requests without a valid bearer token and places the
// acting user into the request context for downstream handlers and services.
func RequireAuth(validator SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeUnauthorized(w)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestID,
					"error", err,
				)
				writeUnauthorized(w)
				return
			}

			ctx = requestcontext.WithUser(ctx, claims.UserNRIC, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Invalid or expired token"}`))
}
