package ports

import (
	"context"

	"github.com/supportinsights/hub/internal/core/domain"
)

// DashboardStats are the KPIs shown on the dashboard landing page.
type DashboardStats struct {
	TotalTickets      int
	OpenTickets       int
	InProgressTickets int
	ResolvedTickets   int
	TotalUsers        int
	ActiveUsers       int
	AvgResponseTime   float64
}

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
	RecentTickets(ctx context.Context) ([]*domain.Ticket, error)
}
