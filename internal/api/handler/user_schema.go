package handler

import (
	"time"

	"github.com/supportinsights/hub/internal/core/domain"
)

type createUserRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=Admin Agent Customer"`
}

type updateUserRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=Admin Agent Customer"`
}

// userResponse is the account projection returned by the API. It never
// carries the password hash.
type userResponse struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Role            domain.Role `json:"role"`
	CreatedAt       time.Time   `json:"createdAt"`
	LastLogin       *time.Time  `json:"lastLogin"`
	TicketsResolved int         `json:"ticketsResolved"`
	AvgResponseTime float64     `json:"avgResponseTime"`
}

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		CreatedAt:       u.CreatedAt,
		TicketsResolved: u.TicketsResolved,
		AvgResponseTime: u.AvgResponseTime,
	}
	if !u.LastLoginAt.IsZero() {
		at := u.LastLoginAt
		resp.LastLogin = &at
	}
	return resp
}
