package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/itinera/itinera-go/internal/crypto"
	"github.com/itinera/itinera-go/internal/model"
	"github.com/itinera/itinera-go/internal/repository"
)

// UserStore persists user records. Create must return
// repository.ErrDuplicateEmail when the email is taken, including when two
// registrations race.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// TokenStatus is the outcome of validating a bearer token.
type TokenStatus int

const (
	TokenValid TokenStatus = iota
	TokenExpired
	TokenInvalid
	TokenUserNotFound
	TokenLookupFailed
)

func (s TokenStatus) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenExpired:
		return "expired"
	case TokenInvalid:
		return "invalid"
	case TokenUserNotFound:
		return "user_not_found"
	case TokenLookupFailed:
		return "lookup_failed"
	default:
		return "unknown"
	}
}

// TokenResult is returned by ValidateToken. User is set only when Status is
// TokenValid; Err is set for every other status.
type TokenResult struct {
	Status TokenStatus
	User   model.User
	Err    error
}

// AuthService handles authentication business logic.
type AuthService struct {
	users  UserStore
	hasher *crypto.Hasher
	tokens *crypto.TokenManager

	// dummyHash is verified against when the email is unknown so that a
	// failed login costs the same either way.
	dummyHash func() (string, error)
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher *crypto.Hasher, tokens *crypto.TokenManager) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		dummyHash: sync.OnceValues(func() (string, error) {
			return hasher.Hash(uuid.NewString())
		}),
	}
}

// Register creates a new user account and returns an auth token.
func (s *AuthService) Register(ctx context.Context, req model.CreateUserRequest) (model.AuthResponse, error) {
	if err := validateRegistration(req); err != nil {
		return model.AuthResponse{}, err
	}

	_, err := s.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return model.AuthResponse{}, ErrDuplicateEmail
	case !errors.Is(err, repository.ErrUserNotFound):
		return model.AuthResponse{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResponse{}, ErrDuplicateEmail
		}
		return model.AuthResponse{}, err
	}

	return s.authResponse(user)
}

// Login authenticates a user and returns a fresh auth token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			if dummy, herr := s.dummyHash(); herr == nil {
				_, _ = s.hasher.Verify(req.Password, dummy)
			}
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	return s.authResponse(user)
}

// IssueToken signs a token embedding the user's id and email.
func (s *AuthService) IssueToken(user *model.User) (string, error) {
	token, _, err := s.tokens.Issue(user.ID, user.Email)
	return token, err
}

// ValidateToken checks the token and resolves it to an existing user.
func (s *AuthService) ValidateToken(ctx context.Context, token string) TokenResult {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, crypto.ErrTokenExpired) {
			return TokenResult{Status: TokenExpired, Err: ErrTokenExpired}
		}
		return TokenResult{Status: TokenInvalid, Err: ErrTokenInvalid}
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return TokenResult{Status: TokenUserNotFound, Err: ErrUserNotFound}
		}
		return TokenResult{Status: TokenLookupFailed, Err: err}
	}

	return TokenResult{Status: TokenValid, User: *user}
}

func (s *AuthService) authResponse(user *model.User) (model.AuthResponse, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		Token: token,
		User:  user.Public(),
	}, nil
}

func validateRegistration(req model.CreateUserRequest) error {
	if req.Email == "" {
		return invalid("email", "field required")
	}
	addr, err := mail.ParseAddress(req.Email)
	if err != nil || addr.Address != req.Email {
		return invalid("email", "value is not a valid email address")
	}
	if strings.TrimSpace(req.Name) == "" {
		return invalid("name", "field required")
	}
	if req.Password == "" {
		return invalid("password", "field required")
	}
	return nil
}
