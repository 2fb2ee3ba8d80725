package ports

import (
	"context"

	"github.com/supportinsights/hub/internal/core/domain"
)

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type UpdateUserInput struct {
	Name  string
	Email string
	Role  string
}

// UserService covers account management behind the dashboard.
type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, in UpdateUserInput) error
	DeleteUser(ctx context.Context, id string) error
}
