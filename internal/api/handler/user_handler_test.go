package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/supportinsights/hub/internal/api/middleware"
	"github.com/supportinsights/hub/internal/core/domain"
	"github.com/supportinsights/hub/internal/core/ports"
)

type stubUserService struct {
	listFn   func(ctx context.Context) ([]*domain.User, error)
	getFn    func(ctx context.Context, id string) (*domain.User, error)
	createFn func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	updateFn func(ctx context.Context, id string, in ports.UpdateUserInput) error
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) UpdateUser(ctx context.Context, id string, in ports.UpdateUserInput) error {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) DeleteUser(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func TestUserHandler_List_HidesPasswordHash(t *testing.T) {
	login := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	h := NewUserHandler(&stubUserService{
		listFn: func(ctx context.Context) ([]*domain.User, error) {
			return []*domain.User{
				{ID: "U001", Name: "Admin User", Email: "admin@company.com", PasswordHash: "$2a$10$secret", Role: domain.RoleAdmin, LastLoginAt: login},
				{ID: "U004", Name: "Customer User", Email: "customer@company.com", PasswordHash: "$2a$10$other", Role: domain.RoleCustomer},
			}, nil
		},
	}, zerolog.Nop())

	c, rec := newJSONContext(http.MethodGet, "/api/users", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 users, got %d", len(got))
	}
	for _, u := range got {
		for _, k := range []string{"password", "passwordHash", "PasswordHash"} {
			if _, ok := u[k]; ok {
				t.Fatalf("%s leaked in %+v", k, u)
			}
		}
	}
	if got[0]["lastLogin"] == nil {
		t.Fatalf("expected lastLogin for U001")
	}
	if got[1]["lastLogin"] != nil {
		t.Fatalf("expected null lastLogin for U004, got %v", got[1]["lastLogin"])
	}
}

func TestUserHandler_Create(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		createFn: func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
			if in.Email != "new@company.com" || in.Role != "Agent" || in.Password != "longenough" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "U01HX", Name: in.Name, Email: in.Email, Role: domain.RoleAgent}, nil
		},
	}, zerolog.Nop())

	c, rec := newJSONContext(http.MethodPost, "/api/users", `{"name":"New Agent","email":"new@company.com","password":"longenough","role":"Agent"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestUserHandler_Create_Conflict(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		createFn: func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}, zerolog.Nop())

	c, _ := newJSONContext(http.MethodPost, "/api/users", `{"name":"Dup","email":"admin@company.com","password":"longenough","role":"Agent"}`)
	if err := h.Create(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserHandler_Update_RequiresAdmin(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		updateFn: func(ctx context.Context, id string, in ports.UpdateUserInput) error {
			t.Fatal("service must not be called")
			return nil
		},
	}, zerolog.Nop())

	c, _ := newJSONContext(http.MethodPut, "/api/users/U003", `{"name":"Agent Smith","email":"agent2@company.com","role":"Admin"}`)
	c.SetParamNames("id")
	c.SetParamValues("U003")
	c.Set(middleware.CtxUserID, "U003")
	c.Set(middleware.CtxRole, string(domain.RoleAgent))

	if err := h.Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserHandler_Update_Admin(t *testing.T) {
	var updated string
	h := NewUserHandler(&stubUserService{
		updateFn: func(ctx context.Context, id string, in ports.UpdateUserInput) error {
			updated = id
			if in.Role != "Admin" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return nil
		},
	}, zerolog.Nop())

	c, rec := newJSONContext(http.MethodPut, "/api/users/U003", `{"name":"Agent Smith","email":"agent2@company.com","role":"Admin"}`)
	c.SetParamNames("id")
	c.SetParamValues("U003")
	c.Set(middleware.CtxUserID, "U001")
	c.Set(middleware.CtxRole, string(domain.RoleAdmin))

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || updated != "U003" {
		t.Fatalf("expected 204 for U003, got %d %q", rec.Code, updated)
	}
}

func TestUserHandler_Delete_NotFound(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		deleteFn: func(ctx context.Context, id string) error {
			return domain.ErrUserNotFound
		},
	}, zerolog.Nop())

	c, _ := newJSONContext(http.MethodDelete, "/api/users/U999", "")
	c.SetParamNames("id")
	c.SetParamValues("U999")

	if err := h.Delete(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
