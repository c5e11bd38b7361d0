package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"intersectionreg/internal/auth"
	apperrors "intersectionreg/internal/errors"
	"intersectionreg/internal/metrics"
	"intersectionreg/internal/model"
	"intersectionreg/internal/repository"
)

// AuthService handles admin authentication.
type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, user *model.User, err error)
	Verify(token string) (*auth.Claims, error)
	// Provision creates the user unless the username exists. It reports
	// whether a user was created.
	Provision(ctx context.Context, username, password, role string) (bool, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
	}
}

// Login checks the password against the stored bcrypt hash and issues a
// session token.
func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	if username == "" || password == "" {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return "", nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.LoginAttempts.WithLabelValues("invalid").Inc()
			return "", nil, apperrors.ErrInvalidCredentials
		}
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("%w: find user: %w", apperrors.ErrPersistence, err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.Identity{ID: user.ID, Username: user.Username, Role: user.Role})
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return token, user, nil
}

// Verify maps every token failure to errors.ErrUnauthorized.
func (s *authService) Verify(token string) (*auth.Claims, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
	}
	return claims, nil
}

func (s *authService) Provision(ctx context.Context, username, password, role string) (bool, error) {
	if username == "" || password == "" {
		return false, errors.New("username and password are required")
	}
	if role == "" {
		role = model.RoleAdmin
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}

	created, err := s.users.FirstOrCreate(ctx, &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return false, fmt.Errorf("provision user %s: %w", username, err)
	}
	return created, nil
}
