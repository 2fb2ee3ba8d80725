package handler

import "github.com/supportinsights/hub/internal/core/domain"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool               `json:"success"`
	Token   string             `json:"token,omitempty"`
	User    *domain.PublicUser `json:"user,omitempty"`
	Error   string             `json:"error,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}
