package ports

import (
	"context"

	"github.com/supportinsights/hub/internal/core/domain"
)

// TicketRepository defines persistence operations for tickets.
type TicketRepository interface {
	List(ctx context.Context) ([]*domain.Ticket, error)
	// Recent returns up to limit tickets, newest CreatedAt first.
	Recent(ctx context.Context, limit int) ([]*domain.Ticket, error)
	FindByID(ctx context.Context, id string) (*domain.Ticket, error)
	Create(ctx context.Context, t *domain.Ticket) error
	Update(ctx context.Context, t *domain.Ticket) error
	Delete(ctx context.Context, id string) error
}
