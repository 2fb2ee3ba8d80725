package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/supportinsights/hub/internal/core/domain"
	"github.com/supportinsights/hub/internal/core/ports"
	"github.com/supportinsights/hub/internal/pkg/ids"
)

type TicketService struct {
	repo   ports.TicketRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewTicketService(repo ports.TicketRepository, logger zerolog.Logger) *TicketService {
	return &TicketService{repo: repo, logger: logger, now: time.Now}
}

func (s *TicketService) ListTickets(ctx context.Context) ([]*domain.Ticket, error) {
	return s.repo.List(ctx)
}

func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateTicket assigns the id and both timestamps; any id in the input is
// ignored.
func (s *TicketService) CreateTicket(ctx context.Context, in ports.TicketInput) (*domain.Ticket, error) {
	now := s.now().UTC()
	t := &domain.Ticket{
		ID:          ids.Ticket(),
		Title:       strings.TrimSpace(in.Title),
		Customer:    strings.TrimSpace(in.Customer),
		Status:      domain.TicketStatus(in.Status),
		Priority:    domain.TicketPriority(in.Priority),
		Category:    strings.TrimSpace(in.Category),
		AssignedTo:  strings.TrimSpace(in.AssignedTo),
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	t.ApplyDefaults()
	if err := validateTicket(t); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error().Err(err).Msg("failed to create ticket")
		return nil, err
	}

	s.logger.Info().Str("ticket_id", t.ID).Str("priority", string(t.Priority)).Msg("ticket created")
	return t, nil
}

// UpdateTicket replaces the editable fields of an existing ticket. CreatedAt
// is preserved and UpdatedAt is refreshed.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, in ports.TicketInput) error {
	if in.ID != id {
		return domain.ErrIDMismatch
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	existing.Title = strings.TrimSpace(in.Title)
	existing.Customer = strings.TrimSpace(in.Customer)
	existing.Status = domain.TicketStatus(in.Status)
	existing.Priority = domain.TicketPriority(in.Priority)
	existing.Category = strings.TrimSpace(in.Category)
	existing.AssignedTo = strings.TrimSpace(in.AssignedTo)
	existing.Description = in.Description
	existing.UpdatedAt = s.now().UTC()
	existing.ApplyDefaults()
	if err := validateTicket(existing); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		s.logger.Error().Err(err).Str("ticket_id", id).Msg("failed to update ticket")
		return err
	}
	s.logger.Info().Str("ticket_id", id).Str("status", string(existing.Status)).Msg("ticket updated")
	return nil
}

func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("ticket_id", id).Msg("ticket deleted")
	return nil
}

func validateTicket(t *domain.Ticket) error {
	switch {
	case t.Title == "":
		return fmt.Errorf("%w: title is required", domain.ErrInvalidTicket)
	case t.Customer == "":
		return fmt.Errorf("%w: customer is required", domain.ErrInvalidTicket)
	case !t.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTicket, t.Status)
	case !t.Priority.Valid():
		return fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidTicket, t.Priority)
	}
	return nil
}
