package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/supportinsights/hub/internal/api/metrics"
	"github.com/supportinsights/hub/internal/core/ports"
)

// TicketHandler handles HTTP requests for ticket operations.
type TicketHandler struct {
	service ports.TicketService
	logger  zerolog.Logger
}

func NewTicketHandler(service ports.TicketService, logger zerolog.Logger) *TicketHandler {
	return &TicketHandler{service: service, logger: logger}
}

// List handles GET /api/tickets.
//
// @Summary      List tickets
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Ticket
// @Router       /api/tickets [get]
func (h *TicketHandler) List(c echo.Context) error {
	tickets, err := h.service.ListTickets(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tickets)
}

// Get handles GET /api/tickets/:id.
//
// @Summary      Get a ticket
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Ticket id (e.g. T001)"
// @Success      200  {object}  domain.Ticket
// @Failure      404  {object}  map[string]string
// @Router       /api/tickets/{id} [get]
func (h *TicketHandler) Get(c echo.Context) error {
	ticket, err := h.service.GetTicket(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ticket)
}

// Create handles POST /api/tickets.
//
// @Summary      Create a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ticketRequest  true  "Ticket"
// @Success      201   {object}  domain.Ticket
// @Failure      400   {object}  map[string]string
// @Router       /api/tickets [post]
func (h *TicketHandler) Create(c echo.Context) error {
	var req ticketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ticket, err := h.service.CreateTicket(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	metrics.TicketsCreatedTotal.WithLabelValues(string(ticket.Priority)).Inc()

	c.Response().Header().Set(echo.HeaderLocation, "/api/tickets/"+ticket.ID)
	return c.JSON(http.StatusCreated, ticket)
}

// Update handles PUT /api/tickets/:id. The body id must match the path.
//
// @Summary      Update a ticket
// @Tags         tickets
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string         true  "Ticket id"
// @Param        body  body  ticketRequest  true  "Ticket"
// @Success      204
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/tickets/{id} [put]
func (h *TicketHandler) Update(c echo.Context) error {
	var req ticketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.UpdateTicket(c.Request().Context(), c.Param("id"), req.toInput()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/tickets/:id. Admin and Agent only.
//
// @Summary      Delete a ticket
// @Tags         tickets
// @Security     BearerAuth
// @Param        id   path  string  true  "Ticket id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/tickets/{id} [delete]
func (h *TicketHandler) Delete(c echo.Context) error {
	actor, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if err := h.service.DeleteTicket(c.Request().Context(), id); err != nil {
		return err
	}
	h.logger.Info().Str("ticket_id", id).Str("actor", actor).Msg("ticket removed via api")
	return c.NoContent(http.StatusNoContent)
}
