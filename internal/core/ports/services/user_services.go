package services

import (
	"context"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/buildbooks/build_books_app/internal/dto"
)

// UserSvcFacade manages API users and credential checks.
type UserSvcFacade interface {
	// RegisterUser creates a user with a bcrypt-hashed password.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// AuthenticateUser verifies credentials and returns the user.
	AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error)

	// GetUserByID retrieves a specific user.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}
