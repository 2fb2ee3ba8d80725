package handler

import "github.com/supportinsights/hub/internal/core/ports"

type ticketRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title" validate:"required,max=200"`
	Customer    string `json:"customer" validate:"required,max=100"`
	Status      string `json:"status" validate:"omitempty,oneof=Open 'In Progress' Resolved Closed"`
	Priority    string `json:"priority" validate:"omitempty,oneof=Low Medium High Urgent"`
	Category    string `json:"category" validate:"max=50"`
	AssignedTo  string `json:"assignedTo" validate:"max=100"`
	Description string `json:"description"`
}

func (r ticketRequest) toInput() ports.TicketInput {
	return ports.TicketInput{
		ID:          r.ID,
		Title:       r.Title,
		Customer:    r.Customer,
		Status:      r.Status,
		Priority:    r.Priority,
		Category:    r.Category,
		AssignedTo:  r.AssignedTo,
		Description: r.Description,
	}
}
