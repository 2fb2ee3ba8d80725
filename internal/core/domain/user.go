package domain

import (
	"strings"
	"time"
)

// Role is the authorization scope carried in the token's role claim.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleAgent    Role = "Agent"
	RoleCustomer Role = "Customer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleCustomer:
		return true
	}
	return false
}

// User is the server-held identity record.
type User struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Role            Role      `json:"role"`
	CreatedAt       time.Time `json:"createdAt"`
	LastLoginAt     time.Time `json:"lastLogin"`
	TicketsResolved int       `json:"ticketsResolved"`
	AvgResponseTime float64   `json:"avgResponseTime"`
}

// PublicUser is the identity projection handed to clients. It never
// carries password material.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// NormalizeEmail returns the lookup key for an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
