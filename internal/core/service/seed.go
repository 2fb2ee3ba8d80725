package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/supportinsights/hub/internal/core/domain"
	"github.com/supportinsights/hub/internal/core/ports"
)

type seedUser struct {
	user     domain.User
	password string
}

// Seeder loads the demo accounts and tickets into an empty store.
type Seeder struct {
	users   ports.UserRepository
	tickets ports.TicketRepository
	logger  zerolog.Logger
	now     func() time.Time
	cost    int
}

func NewSeeder(users ports.UserRepository, tickets ports.TicketRepository, logger zerolog.Logger) *Seeder {
	return &Seeder{users: users, tickets: tickets, logger: logger, now: time.Now, cost: bcrypt.DefaultCost}
}

// Seed is a no-op when any user already exists.
func (s *Seeder) Seed(ctx context.Context) error {
	existing, err := s.users.List(ctx)
	if err != nil {
		return fmt.Errorf("seed: list users: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Debug().Int("users", len(existing)).Msg("store already populated, skipping seed")
		return nil
	}

	now := s.now().UTC()
	users := demoUsers(now)
	for _, su := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), s.cost)
		if err != nil {
			return fmt.Errorf("seed: hash password for %s: %w", su.user.ID, err)
		}
		u := su.user
		u.PasswordHash = string(hash)
		if err := s.users.Create(ctx, &u); err != nil {
			return fmt.Errorf("seed: create user %s: %w", u.ID, err)
		}
	}

	tickets := demoTickets(now)
	for _, t := range tickets {
		if err := s.tickets.Create(ctx, t); err != nil {
			return fmt.Errorf("seed: create ticket %s: %w", t.ID, err)
		}
	}

	s.logger.Info().Int("users", len(users)).Int("tickets", len(tickets)).Msg("demo data seeded")
	return nil
}

func demoUsers(now time.Time) []seedUser {
	return []seedUser{
		{
			user:     domain.User{ID: "U001", Name: "Alice Johnson", Email: "admin@company.com", Role: domain.RoleAdmin, CreatedAt: now, LastLoginAt: now},
			password: "admin123",
		},
		{
			user: domain.User{
				ID: "U002", Name: "Bob Smith", Email: "agent@company.com", Role: domain.RoleAgent, CreatedAt: now,
				LastLoginAt: now.Add(-24 * time.Hour),
				TicketsResolved: 156, AvgResponseTime: 2.3,
			},
			password: "agent123",
		},
		{
			user: domain.User{
				ID: "U003", Name: "Carol White", Email: "carol.white@email.com", Role: domain.RoleAgent, CreatedAt: now,
				LastLoginAt: now.Add(-48 * time.Hour),
				TicketsResolved: 142, AvgResponseTime: 3.1,
			},
			password: "password123",
		},
		{
			user:     domain.User{ID: "U004", Name: "Dan Wilson", Email: "customer@company.com", Role: domain.RoleCustomer, CreatedAt: now, LastLoginAt: now.Add(-6 * time.Hour)},
			password: "customer123",
		},
	}
}

func demoTickets(now time.Time) []*domain.Ticket {
	return []*domain.Ticket{
		{
			ID: "T001", Title: "Unable to access dashboard", Customer: "John Doe",
			Status: domain.TicketOpen, Priority: domain.PriorityHigh, Category: "Technical",
			AssignedTo: "Bob Smith", Description: "User cannot log in to the dashboard",
			CreatedAt: now.Add(-2 * time.Hour), UpdatedAt: now.Add(-2 * time.Hour),
		},
		{
			ID: "T002", Title: "Feature request: Dark mode", Customer: "Jane Smith",
			Status: domain.TicketInProgress, Priority: domain.PriorityMedium, Category: "Feature Request",
			AssignedTo: "Carol White", Description: "Request to add dark mode theme",
			CreatedAt: now.Add(-5 * time.Hour), UpdatedAt: now.Add(-1 * time.Hour),
		},
		{
			ID: "T003", Title: "Billing inquiry", Customer: "Mike Johnson",
			Status: domain.TicketResolved, Priority: domain.PriorityLow, Category: "Billing",
			AssignedTo: "Bob Smith", Description: "Question about recent charges",
			CreatedAt: now.Add(-24 * time.Hour), UpdatedAt: now.Add(-3 * time.Hour),
		},
	}
}
