package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/supportinsights/hub/internal/core/domain"
)

func newTestSeeder(users *stubUserRepo, tickets *stubTicketRepo) *Seeder {
	s := NewSeeder(users, tickets, zerolog.Nop())
	s.cost = bcrypt.MinCost
	return s
}

func TestSeeder_SeedsEmptyStore(t *testing.T) {
	users, tickets := newStubUserRepo(), newStubTicketRepo()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	s := newTestSeeder(users, tickets)
	s.now = func() time.Time { return now }

	if err := s.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if len(users.users) != 4 || len(tickets.tickets) != 3 {
		t.Fatalf("expected 4 users and 3 tickets, got %d and %d", len(users.users), len(tickets.tickets))
	}
	admin := users.users["U001"]
	if admin.Role != domain.RoleAdmin || admin.Email != "admin@company.com" {
		t.Fatalf("unexpected admin: %+v", admin)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")); err != nil {
		t.Fatalf("admin password not seeded: %v", err)
	}
	if got := tickets.tickets["T002"]; got.Status != domain.TicketInProgress || !got.UpdatedAt.Equal(now.Add(-time.Hour)) {
		t.Fatalf("unexpected T002: %+v", got)
	}
}

func TestSeeder_SkipsPopulatedStore(t *testing.T) {
	users, tickets := newStubUserRepo(), newStubTicketRepo()
	users.users["X1"] = &domain.User{ID: "X1"}
	s := newTestSeeder(users, tickets)

	if err := s.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if len(users.users) != 1 || len(tickets.tickets) != 0 {
		t.Fatalf("seed must not touch a populated store")
	}
}

func TestSeeder_DemoLoginWorks(t *testing.T) {
	users, tickets := newStubUserRepo(), newStubTicketRepo()
	if err := newTestSeeder(users, tickets).Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	svc := newTestAuthService(t, users, time.Now())

	res, err := svc.Login(context.Background(), "admin@company.com", "admin123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.User.Role != domain.RoleAdmin || parseClaims(t, res.Token).Role != domain.RoleAdmin {
		t.Fatalf("expected Admin in identity and claims")
	}
}

func TestSeeder_DemoUsersCountAsActive(t *testing.T) {
	users, tickets := newStubUserRepo(), newStubTicketRepo()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	s := newTestSeeder(users, tickets)
	s.now = func() time.Time { return now }
	if err := s.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	wantLogin := map[string]time.Time{
		"U001": now,
		"U002": now.Add(-24 * time.Hour),
		"U003": now.Add(-48 * time.Hour),
		"U004": now.Add(-6 * time.Hour),
	}
	for id, want := range wantLogin {
		if got := users.users[id].LastLoginAt; !got.Equal(want) {
			t.Fatalf("%s: expected last login %v, got %v", id, want, got)
		}
	}

	dash := NewDashboardService(tickets, users)
	dash.now = func() time.Time { return now }
	stats, err := dash.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalUsers != 4 || stats.ActiveUsers != 4 {
		t.Fatalf("expected 4 total and 4 active users, got %d and %d", stats.TotalUsers, stats.ActiveUsers)
	}
	if stats.AvgResponseTime != 2.7 {
		t.Fatalf("expected avg response time 2.7, got %v", stats.AvgResponseTime)
	}
}
