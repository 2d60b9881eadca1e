package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lachlan2k/imob-admin/internal/api"
	"github.com/lachlan2k/imob-admin/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCookie = "valid-session"

// fakeAuthService behaves like the backend's /auth endpoints
func fakeAuthService(t *testing.T, role string) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/status", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("JSESSIONID")
		if err != nil || cookie.Value != validCookie {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": 1, "nome": "Ana", "email": "ana@example.com", "tipo": role})
	})

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))

		if creds.Email != "ana@example.com" || creds.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "E-mail ou senha inválidos"})
			return
		}

		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: validCookie, Path: "/", HttpOnly: true})
		json.NewEncoder(w).Encode(map[string]any{"id": 1, "nome": "Ana", "email": "ana@example.com", "tipo": role})
	})

	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(srv *httptest.Server) *Client {
	return New(api.New(srv.URL, "JSESSIONID", 2*time.Second))
}

func TestStatus(t *testing.T) {
	c := newClient(fakeAuthService(t, "ADMIN"))

	identity, err := c.Status(api.WithSessionCookie(context.Background(), validCookie))
	require.NoError(t, err)
	assert.Equal(t, session.Identity{ID: 1, Name: "Ana", Email: "ana@example.com", Role: session.RoleAdmin}, identity)

	_, err = c.Status(context.Background())
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)

	_, err = c.Status(api.WithSessionCookie(context.Background(), "expired"))
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestStatusUnknownRole(t *testing.T) {
	c := newClient(fakeAuthService(t, "SUPERUSER"))

	_, err := c.Status(api.WithSessionCookie(context.Background(), validCookie))
	assert.ErrorIs(t, err, api.ErrMalformedResponse)
	assert.False(t, errors.Is(err, session.ErrNotAuthenticated))
}

func TestStatusServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newClient(srv).Status(context.Background())
	assert.True(t, api.IsStatus(err, http.StatusInternalServerError))
	assert.False(t, errors.Is(err, session.ErrNotAuthenticated))
}

func TestLogin(t *testing.T) {
	c := newClient(fakeAuthService(t, "CORRETOR"))

	res, err := c.Login(context.Background(), Credentials{Email: "ana@example.com", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, session.RoleBroker, res.Identity.Role)
	require.Len(t, res.Cookies, 1)
	assert.Equal(t, validCookie, res.Cookies[0].Value)
}

func TestLoginRejected(t *testing.T) {
	c := newClient(fakeAuthService(t, "CORRETOR"))

	_, err := c.Login(context.Background(), Credentials{Email: "ana@example.com", Password: "wrong"})

	var credErr *CredentialsError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, "E-mail ou senha inválidos", credErr.Message)
}

func TestLoginRejectedWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newClient(srv).Login(context.Background(), Credentials{})

	var credErr *CredentialsError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, defaultRejectionMessage, credErr.Message)
}

func TestLogout(t *testing.T) {
	c := newClient(fakeAuthService(t, "ADMIN"))
	assert.NoError(t, c.Logout(api.WithSessionCookie(context.Background(), validCookie)))
}

func TestBootstrapAgainstAuthService(t *testing.T) {
	b := &session.Bootstrapper{Prober: newClient(fakeAuthService(t, "ADMIN"))}

	store := session.NewStore()
	require.NoError(t, b.Run(api.WithSessionCookie(context.Background(), validCookie), store))
	snap := store.Current()
	assert.True(t, snap.IsAdmin())
	assert.False(t, snap.IsBroker())
	assert.False(t, snap.IsAnonymous())
	assert.False(t, snap.Loading)

	store = session.NewStore()
	require.NoError(t, b.Run(context.Background(), store))
	assert.True(t, store.Current().IsAnonymous())
	assert.False(t, store.Current().Loading)
}

func TestBootstrapNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	b := &session.Bootstrapper{Prober: New(api.New(url, "JSESSIONID", time.Second))}
	store := session.NewStore()

	assert.Error(t, b.Run(api.WithSessionCookie(context.Background(), validCookie), store))
	assert.Nil(t, store.Current().Session)
	assert.False(t, store.Current().Loading)
}
