package service

import (
	"context"
	"math"
	"time"

	"github.com/supportinsights/hub/internal/core/domain"
	"github.com/supportinsights/hub/internal/core/ports"
)

const (
	// ActiveUserWindow is how recent a login must be for a user to count as active.
	ActiveUserWindow = 7 * 24 * time.Hour

	RecentTicketLimit = 10
)

type DashboardService struct {
	tickets ports.TicketRepository
	users   ports.UserRepository
	now     func() time.Time
}

func NewDashboardService(tickets ports.TicketRepository, users ports.UserRepository) *DashboardService {
	return &DashboardService{tickets: tickets, users: users, now: time.Now}
}

func (s *DashboardService) Stats(ctx context.Context) (*ports.DashboardStats, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ports.DashboardStats{
		TotalTickets: len(tickets),
		TotalUsers:   len(users),
	}
	for _, t := range tickets {
		switch t.Status {
		case domain.TicketOpen:
			stats.OpenTickets++
		case domain.TicketInProgress:
			stats.InProgressTickets++
		case domain.TicketResolved:
			stats.ResolvedTickets++
		}
	}

	cutoff := s.now().Add(-ActiveUserWindow)
	var agents int
	var responseSum float64
	for _, u := range users {
		if !u.LastLoginAt.IsZero() && u.LastLoginAt.After(cutoff) {
			stats.ActiveUsers++
		}
		if u.Role == domain.RoleAgent {
			agents++
			responseSum += u.AvgResponseTime
		}
	}
	if agents > 0 {
		stats.AvgResponseTime = math.Round(responseSum/float64(agents)*10) / 10
	}
	return stats, nil
}

func (s *DashboardService) RecentTickets(ctx context.Context) ([]*domain.Ticket, error) {
	return s.tickets.Recent(ctx, RecentTicketLimit)
}
