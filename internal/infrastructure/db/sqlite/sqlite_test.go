package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/supportinsights/hub/internal/core/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := Open(context.Background(), Config{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestUserRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	err := repo.Create(ctx, &domain.User{
		ID: "U001", Name: "Alice Johnson", Email: "Admin@Company.com", PasswordHash: "hash",
		Role: domain.RoleAdmin, CreatedAt: created,
	})
	require.NoError(t, err)

	got, err := repo.FindByEmail(ctx, "ADMIN@company.COM")
	require.NoError(t, err)
	require.Equal(t, "U001", got.ID)
	require.Equal(t, "Admin@Company.com", got.Email)
	require.Equal(t, "hash", got.PasswordHash)
	require.True(t, got.LastLoginAt.IsZero())
	require.True(t, got.CreatedAt.Equal(created))

	at := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, "U001", at))
	got, err = repo.FindByID(ctx, "U001")
	require.NoError(t, err)
	require.True(t, got.LastLoginAt.Equal(at))

	got.Name = "Alice J."
	got.Role = domain.RoleAgent
	require.NoError(t, repo.Update(ctx, got))
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Alice J.", list[0].Name)
	require.Equal(t, domain.RoleAgent, list[0].Role)

	require.NoError(t, repo.Delete(ctx, "U001"))
	_, err = repo.FindByID(ctx, "U001")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_EmailUniqueIgnoringCase(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &domain.User{ID: "U001", Name: "A", Email: "a@x.io", PasswordHash: "h", Role: domain.RoleAgent}))
	err := repo.Create(ctx, &domain.User{ID: "U002", Name: "B", Email: "A@X.IO", PasswordHash: "h", Role: domain.RoleAgent})
	require.ErrorIs(t, err, domain.ErrUserExists)
}

func TestUserRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.FindByEmail(ctx, "ghost@x.io")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	require.ErrorIs(t, repo.UpdateLastLogin(ctx, "U404", time.Now()), domain.ErrUserNotFound)
	require.ErrorIs(t, repo.Update(ctx, &domain.User{ID: "U404", Email: "x@y.z"}), domain.ErrUserNotFound)
	require.ErrorIs(t, repo.Delete(ctx, "U404"), domain.ErrUserNotFound)
}

func TestTicketRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(newTestDB(t))
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		require.NoError(t, repo.Create(ctx, &domain.Ticket{
			ID: fmt.Sprintf("T%03d", i), Title: "t", Customer: "c",
			Status: domain.TicketOpen, Priority: domain.PriorityLow, Category: "General",
			CreatedAt: base.Add(time.Duration(i) * time.Hour), UpdatedAt: base,
		}))
	}

	recent, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 10)
	require.Equal(t, "T011", recent[0].ID)
	require.Equal(t, "T002", recent[9].ID)

	got, err := repo.FindByID(ctx, "T005")
	require.NoError(t, err)
	got.Status = domain.TicketResolved
	got.UpdatedAt = base.Add(48 * time.Hour)
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.FindByID(ctx, "T005")
	require.NoError(t, err)
	require.Equal(t, domain.TicketResolved, got.Status)
	require.True(t, got.UpdatedAt.Equal(base.Add(48*time.Hour)))
	require.True(t, got.CreatedAt.Equal(base.Add(5*time.Hour)))

	require.NoError(t, repo.Delete(ctx, "T005"))
	require.ErrorIs(t, repo.Delete(ctx, "T005"), domain.ErrTicketNotFound)
	_, err = repo.FindByID(ctx, "T005")
	require.ErrorIs(t, err, domain.ErrTicketNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 11)
}

func TestPing(t *testing.T) {
	require.NoError(t, Ping(context.Background(), newTestDB(t)))
}
