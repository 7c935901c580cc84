package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/itinera/itinera-go/internal/model"
	"github.com/itinera/itinera-go/internal/service"
)

type contextKey string

const userKey contextKey = "user"

// TokenValidator resolves a bearer token to a user.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) service.TokenResult
}

// Authenticate returns middleware that validates a Bearer token from the
// Authorization header and stores the resolved user in the request context.
func Authenticate(v TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			token, ok := bearerToken(authHeader)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "Invalid authorization format")
				return
			}

			res := v.ValidateToken(r.Context(), token)
			switch res.Status {
			case service.TokenValid:
			case service.TokenExpired:
				writeJSONError(w, http.StatusUnauthorized, "Token has expired")
				return
			case service.TokenUserNotFound:
				writeJSONError(w, http.StatusUnauthorized, "User not found")
				return
			case service.TokenLookupFailed:
				slog.Error("token user lookup failed", "error", res.Err)
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			default:
				writeJSONError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, res.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the credentials from an Authorization header. The
// scheme name is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(userKey).(model.User)
	return u, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}
