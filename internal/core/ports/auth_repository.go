package ports

import (
	"context"
	"time"

	"github.com/supportinsights/hub/internal/core/domain"
)

// UserRepository persists identity records.
type UserRepository interface {
	// FindByEmail resolves an email case-insensitively.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	// Update rewrites name, email and role.
	Update(ctx context.Context, user *domain.User) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
