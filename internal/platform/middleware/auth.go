package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// TokenClaims is what the middleware needs from a validated token.
type TokenClaims struct {
	Ident      string
	ActorID    string
	Caseworker bool
}

// TokenValidator validates a bearer token and extracts the caller identity.
type TokenValidator interface {
	Validate(tokenString string) (*TokenClaims, error)
}

type contextKeyClaims struct{}

// GetClaims retrieves the authenticated caller from the context, or nil when
// the request did not pass RequireAuth.
func GetClaims(ctx context.Context) *TokenClaims {
	claims, ok := ctx.Value(contextKeyClaims{}).(*TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller identity in the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, contextKeyClaims{}, claims)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
