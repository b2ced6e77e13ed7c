package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/clubstats/internal/auth"
	"github.com/clubstats/internal/domain"
)

// UserRepository is the persistence surface for accounts
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// AuthService issues tokens and resolves the current principal
type AuthService struct {
	users  UserRepository
	tokens *auth.TokenManager
	logger *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserRepository, tokens *auth.TokenManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Signup creates a new account with a hashed password
func (s *AuthService) Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	return s.users.CreateUser(ctx, &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	})
}

// Login verifies credentials and issues a bearer token. Unknown email
// and wrong password are deliberately indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, err
	}
	return &domain.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

// CurrentUser resolves a bearer token to the account it was issued for
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	email, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}
