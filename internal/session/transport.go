package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/supportinsights/hub/internal/core/domain"
)

const loginPath = "/api/auth/login"

// LoginResponse is a successful answer from the login endpoint.
type LoginResponse struct {
	Token string
	User  domain.PublicUser
}

// AuthAPI performs the network half of a login.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
}

// RejectedError is returned when the server refused the credentials. Message
// is the text the server sent back.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string { return "login rejected: " + e.Message }

// HTTPAuthAPI calls the hub's login endpoint.
type HTTPAuthAPI struct {
	baseURL string
	client  *http.Client
}

// NewHTTPAuthAPI uses a client with a 15s timeout when httpClient is nil.
func NewHTTPAuthAPI(baseURL string, httpClient *http.Client) *HTTPAuthAPI {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPAuthAPI{baseURL: strings.TrimRight(baseURL, "/"), client: httpClient}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReply struct {
	Success bool              `json:"success"`
	Token   string            `json:"token"`
	User    domain.PublicUser `json:"user"`
	Error   string            `json:"error"`
}

func (a *HTTPAuthAPI) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read login response: %w", err)
	}

	var reply loginReply
	decodeErr := json.Unmarshal(raw, &reply)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		msg := reply.Error
		if msg == "" {
			msg = domain.InvalidCredentialsMessage
		}
		return nil, &RejectedError{Message: msg}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("login: unexpected status %d", resp.StatusCode)
	case decodeErr != nil:
		return nil, fmt.Errorf("decode login response: %w", decodeErr)
	case !reply.Success:
		if reply.Error == "" {
			return nil, errors.New("login: server reported failure")
		}
		return nil, &RejectedError{Message: reply.Error}
	}
	return &LoginResponse{Token: reply.Token, User: reply.User}, nil
}
