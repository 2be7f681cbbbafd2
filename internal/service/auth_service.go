package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tasktrack/internal/auth"
	errs "tasktrack/internal/errors"
	"tasktrack/internal/model"
	"tasktrack/internal/repository"
)

// AuthService handles login, token refresh, and deriving the acting user
// from a bearer token.
type AuthService interface {
	Login(ctx context.Context, username, password string) (accessToken string, err error)
	Refresh(user *model.User) (accessToken string, err error)
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authService{users: users, jwtService: jwtService}
}

// Login verifies the credentials and returns a signed access token whose
// subject is the username. Unknown usernames and wrong passwords are not
// distinguished.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(password, user.Password) {
		return "", errs.ErrInvalidCredentials
	}

	token, err := s.jwtService.CreateAccessToken(user.Username)
	if err != nil {
		return "", fmt.Errorf("create access token: %w", err)
	}
	return token, nil
}

// Refresh issues a fresh access token for an already-authenticated user.
func (s *authService) Refresh(user *model.User) (string, error) {
	token, err := s.jwtService.CreateAccessToken(user.Username)
	if err != nil {
		return "", fmt.Errorf("create access token: %w", err)
	}
	return token, nil
}

// CurrentUser is the single gate between a raw bearer token and an
// authenticated identity. A missing token, any token-validation failure,
// and a subject that no longer exists all collapse to ErrUnauthenticated
// so callers cannot probe which check failed.
func (s *authService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, errs.ErrUnauthenticated
	}

	subject, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, errs.ErrUnauthenticated
	}

	user, err := s.users.FindByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUnauthenticated
		}
		return nil, fmt.Errorf("find subject: %w", err)
	}
	return user, nil
}
