package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/supportinsights/hub/internal/core/domain"
	"github.com/supportinsights/hub/internal/core/ports"
	"github.com/supportinsights/hub/internal/pkg/ids"
)

type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger, now: time.Now}
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateUser hashes the password with bcrypt and fails with
// domain.ErrUserExists when the email is already registered.
func (s *UserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	role := domain.Role(in.Role)
	if name == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrInvalidUser)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidUser, in.Role)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           ids.User(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("user created")
	return user, nil
}

// UpdateUser rewrites name, email and role. Password and login history are
// left untouched.
func (s *UserService) UpdateUser(ctx context.Context, id string, in ports.UpdateUserInput) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	role := domain.Role(in.Role)
	if name == "" || email == "" {
		return fmt.Errorf("%w: name and email are required", domain.ErrInvalidUser)
	}
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidUser, in.Role)
	}

	if email != domain.NormalizeEmail(existing.Email) {
		other, err := s.repo.FindByEmail(ctx, email)
		switch {
		case err == nil && other.ID != id:
			return domain.ErrUserExists
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return err
		}
	}

	existing.Name = name
	existing.Email = email
	existing.Role = role
	if err := s.repo.Update(ctx, existing); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Str("role", string(role)).Msg("user updated")
	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}
