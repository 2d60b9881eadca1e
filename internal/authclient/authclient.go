package authclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/lachlan2k/imob-admin/internal/api"
	"github.com/lachlan2k/imob-admin/internal/session"
)

const defaultRejectionMessage = "Invalid credentials."

type Credentials struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"senha" form:"senha"`
}

// CredentialsError is the Auth Service turning down a login. Message is safe to show the user
type CredentialsError struct {
	Message string
}

func (e *CredentialsError) Error() string {
	return e.Message
}

type LoginResult struct {
	Identity session.Identity
	// Whatever the Auth Service set, the session cookie included, to be passed on to the browser
	Cookies []*http.Cookie
}

type identityPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	Role  string `json:"tipo"`
}

func (p identityPayload) toIdentity() (session.Identity, error) {
	role, err := session.ParseRole(p.Role)
	if err != nil {
		return session.Identity{}, fmt.Errorf("%w: %v", api.ErrMalformedResponse, err)
	}

	return session.Identity{
		ID:    p.ID,
		Name:  p.Name,
		Email: p.Email,
		Role:  role,
	}, nil
}

type Client struct {
	api *api.Client
}

func New(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// Status asks who the session cookie in ctx belongs to. A 401 comes back as session.ErrNotAuthenticated
func (c *Client) Status(ctx context.Context) (session.Identity, error) {
	var payload identityPayload
	_, err := c.api.Do(ctx, http.MethodGet, "/auth/status", nil, &payload)
	if err != nil {
		if api.IsStatus(err, http.StatusUnauthorized) {
			return session.Identity{}, session.ErrNotAuthenticated
		}
		return session.Identity{}, err
	}

	return payload.toIdentity()
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var payload identityPayload
	res, err := c.api.Do(ctx, http.MethodPost, "/auth/login", creds, &payload)
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
			msg := statusErr.Message
			if msg == "" {
				msg = defaultRejectionMessage
			}
			return nil, &CredentialsError{Message: msg}
		}
		return nil, err
	}

	identity, err := payload.toIdentity()
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Identity: identity,
		Cookies:  res.Cookies(),
	}, nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.api.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	return err
}
