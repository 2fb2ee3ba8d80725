package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/supportinsights/hub/internal/core/ports"
)

type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

type statsResponse struct {
	TotalTickets      int     `json:"totalTickets"`
	OpenTickets       int     `json:"openTickets"`
	InProgressTickets int     `json:"inProgressTickets"`
	ResolvedTickets   int     `json:"resolvedTickets"`
	TotalUsers        int     `json:"totalUsers"`
	ActiveUsers       int     `json:"activeUsers"`
	AvgResponseTime   float64 `json:"avgResponseTime"`
}

// Stats handles GET /api/dashboard/stats.
//
// @Summary      Dashboard KPIs
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statsResponse
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	s, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statsResponse{
		TotalTickets:      s.TotalTickets,
		OpenTickets:       s.OpenTickets,
		InProgressTickets: s.InProgressTickets,
		ResolvedTickets:   s.ResolvedTickets,
		TotalUsers:        s.TotalUsers,
		ActiveUsers:       s.ActiveUsers,
		AvgResponseTime:   s.AvgResponseTime,
	})
}

// RecentTickets handles GET /api/dashboard/recent-tickets.
//
// @Summary      Ten most recent tickets
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Ticket
// @Router       /api/dashboard/recent-tickets [get]
func (h *DashboardHandler) RecentTickets(c echo.Context) error {
	tickets, err := h.service.RecentTickets(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tickets)
}
