package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/supportinsights/hub/internal/core/domain"
	"github.com/supportinsights/hub/internal/core/ports"
)

// userRecord keeps the display email as entered and a lower-cased copy
// under a unique index for lookups.
type userRecord struct {
	ID              string `gorm:"primaryKey"`
	Name            string `gorm:"not null"`
	Email           string `gorm:"not null"`
	EmailKey        string `gorm:"uniqueIndex;not null"`
	PasswordHash    string `gorm:"not null"`
	Role            string `gorm:"index;not null"`
	CreatedAt       time.Time
	LastLoginAt     *time.Time
	TicketsResolved int
	AvgResponseTime float64
}

func (userRecord) TableName() string { return "users" }

type UserRepository struct {
	db *gorm.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Where("email_key = ?", domain.NormalizeEmail(email)).First(&rec).Error
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound, "find user by email")
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, notFound(err, domain.ErrUserNotFound, "find user")
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	var recs []userRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*domain.User, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toDomain())
	}
	return out, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	rec := userFromDomain(user)
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	res := r.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", user.ID).Updates(map[string]any{
		"name":      user.Name,
		"email":     user.Email,
		"email_key": domain.NormalizeEmail(user.Email),
		"role":      string(user.Role),
	})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", id).Update("last_login_at", at)
	if res.Error != nil {
		return fmt.Errorf("update last login: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&userRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func userFromDomain(u *domain.User) *userRecord {
	rec := &userRecord{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		EmailKey:        domain.NormalizeEmail(u.Email),
		PasswordHash:    u.PasswordHash,
		Role:            string(u.Role),
		CreatedAt:       u.CreatedAt,
		TicketsResolved: u.TicketsResolved,
		AvgResponseTime: u.AvgResponseTime,
	}
	if !u.LastLoginAt.IsZero() {
		at := u.LastLoginAt
		rec.LastLoginAt = &at
	}
	return rec
}

func (rec *userRecord) toDomain() *domain.User {
	u := &domain.User{
		ID:              rec.ID,
		Name:            rec.Name,
		Email:           rec.Email,
		PasswordHash:    rec.PasswordHash,
		Role:            domain.Role(rec.Role),
		CreatedAt:       rec.CreatedAt.UTC(),
		TicketsResolved: rec.TicketsResolved,
		AvgResponseTime: rec.AvgResponseTime,
	}
	if rec.LastLoginAt != nil {
		u.LastLoginAt = rec.LastLoginAt.UTC()
	}
	return u
}

func notFound(err, sentinel error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return fmt.Errorf("%s: %w", op, err)
}
