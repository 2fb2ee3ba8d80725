package ports

import (
	"context"

	"github.com/supportinsights/hub/internal/core/domain"
)

// TicketInput carries the client-editable fields of a ticket.
type TicketInput struct {
	ID          string
	Title       string
	Customer    string
	Status      string
	Priority    string
	Category    string
	AssignedTo  string
	Description string
}

// TicketService defines use-case operations for tickets.
type TicketService interface {
	ListTickets(ctx context.Context) ([]*domain.Ticket, error)
	GetTicket(ctx context.Context, id string) (*domain.Ticket, error)
	CreateTicket(ctx context.Context, in TicketInput) (*domain.Ticket, error)
	// UpdateTicket fails with domain.ErrIDMismatch when in.ID differs from id.
	UpdateTicket(ctx context.Context, id string, in TicketInput) error
	DeleteTicket(ctx context.Context, id string) error
}
