package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/itinera/itinera-go/internal/model"
	"github.com/itinera/itinera-go/internal/service"
)

type validatorFunc func(ctx context.Context, token string) service.TokenResult

func (f validatorFunc) ValidateToken(ctx context.Context, token string) service.TokenResult {
	return f(ctx, token)
}

func statusFor(token string) service.TokenResult {
	switch token {
	case "good":
		return service.TokenResult{Status: service.TokenValid, User: model.User{ID: "u1", Email: "a@x.com"}}
	case "expired":
		return service.TokenResult{Status: service.TokenExpired, Err: service.ErrTokenExpired}
	case "orphan":
		return service.TokenResult{Status: service.TokenUserNotFound, Err: service.ErrUserNotFound}
	case "db-down":
		return service.TokenResult{Status: service.TokenLookupFailed, Err: errors.New("connection refused")}
	default:
		return service.TokenResult{Status: service.TokenInvalid, Err: service.ErrTokenInvalid}
	}
}

func TestAuthenticate(t *testing.T) {
	var seen model.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			t.Error("user missing from context")
		}
		seen = u
		w.WriteHeader(http.StatusNoContent)
	})
	h := Authenticate(validatorFunc(func(_ context.Context, token string) service.TokenResult {
		return statusFor(token)
	}))(next)

	tests := []struct {
		name   string
		header string
		status int
		detail string
	}{
		{"valid", "Bearer good", http.StatusNoContent, ""},
		{"missing header", "", http.StatusUnauthorized, "Not authenticated"},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, "Invalid authorization format"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "Invalid authorization format"},
		{"lowercase scheme", "bearer good", http.StatusNoContent, ""},
		{"uppercase scheme", "BEARER good", http.StatusNoContent, ""},
		{"scheme only", "Bearer", http.StatusUnauthorized, "Invalid authorization format"},
		{"expired", "Bearer expired", http.StatusUnauthorized, "Token has expired"},
		{"invalid", "Bearer nonsense", http.StatusUnauthorized, "Invalid token"},
		{"deleted user", "Bearer orphan", http.StatusUnauthorized, "User not found"},
		{"lookup failure", "Bearer db-down", http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = model.User{}
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.detail == "" {
				if seen.ID != "u1" {
					t.Errorf("handler saw user %+v", seen)
				}
				return
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body["detail"] != tt.detail {
				t.Errorf("detail = %q, want %q", body["detail"], tt.detail)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"bEaReR  abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearerabc", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		token, ok := bearerToken(tt.header)
		if token != tt.token || ok != tt.ok {
			t.Errorf("bearerToken(%q) = (%q, %v), want (%q, %v)", tt.header, token, ok, tt.token, tt.ok)
		}
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	if _, ok := UserFromContext(context.Background()); ok {
		t.Error("expected no user in empty context")
	}
}
