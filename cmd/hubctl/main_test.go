package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/supportinsights/hub/internal/session"
)

func newLoginServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		if body.Password != "agent123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"error":"Invalid email or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"token":"a.b.c","user":{"id":"U002","name":"Bob Smith","email":"agent@company.com","role":"Agent"}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, srv *httptest.Server) *session.Client {
	t.Helper()
	c, err := session.New(session.NewHTTPAuthAPI(srv.URL, srv.Client()))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestDispatch_LoginStatusLogout(t *testing.T) {
	srv := newLoginServer(t)
	client := newClient(t, srv)
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, dispatch(ctx, "status", client, options{}, &out, zerolog.Nop()))
	require.Equal(t, "not logged in\n", out.String())

	out.Reset()
	opts := options{email: "agent@company.com", password: "agent123"}
	require.NoError(t, dispatch(ctx, "login", client, opts, &out, zerolog.Nop()))
	require.Equal(t, "logged in as Bob Smith <agent@company.com> (Agent)\n", out.String())

	out.Reset()
	require.NoError(t, dispatch(ctx, "status", client, options{}, &out, zerolog.Nop()))
	require.Contains(t, out.String(), "Bob Smith")

	out.Reset()
	require.NoError(t, dispatch(ctx, "logout", client, options{}, &out, zerolog.Nop()))
	require.False(t, client.IsAuthenticated())
}

func TestDispatch_LoginRejected(t *testing.T) {
	client := newClient(t, newLoginServer(t))

	err := dispatch(context.Background(), "login", client, options{email: "agent@company.com", password: "nope"}, &bytes.Buffer{}, zerolog.Nop())
	require.EqualError(t, err, "Invalid email or password")
}

func TestDispatch_LoginNeedsCredentials(t *testing.T) {
	client := newClient(t, newLoginServer(t))

	err := dispatch(context.Background(), "login", client, options{email: "agent@company.com"}, &bytes.Buffer{}, zerolog.Nop())
	require.Error(t, err)
}

func TestDispatch_UnknownCommand(t *testing.T) {
	client := newClient(t, newLoginServer(t))

	err := dispatch(context.Background(), "whoami", client, options{}, &bytes.Buffer{}, zerolog.Nop())
	require.EqualError(t, err, `unknown command "whoami"`)
}
