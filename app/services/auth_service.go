// Package services holds logic shared by controllers that goes beyond a
// single repository call.
package services

import (
	"context"
	"errors"

	"github.com/pantrypal/pantrypal/app/models"
	"github.com/pantrypal/pantrypal/app/repositories"
	"github.com/pantrypal/pantrypal/pkg/metrics"
)

var (
	ErrEmailNotFound   = errors.New("email not found")
	ErrInvalidPassword = errors.New("invalid password")
)

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Login returns the user whose email and password match. It reports
// ErrEmailNotFound and ErrInvalidPassword separately because the API
// answers them with different statuses.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		metrics.AuthAttempts.WithLabelValues("unknown_email").Inc()
		return nil, ErrEmailNotFound
	}
	if err != nil {
		return nil, err
	}

	if !user.CheckPassword(password) {
		metrics.AuthAttempts.WithLabelValues("invalid_password").Inc()
		return nil, ErrInvalidPassword
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return user, nil
}

// CurrentUser resolves a session's user id. A deleted user yields
// repositories.ErrNotFound.
func (s *AuthService) CurrentUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}
