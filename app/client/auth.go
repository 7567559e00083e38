package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Credentials is the login/register input.
type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// Profile is the authenticated user's profile.
type Profile struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// tokenResponse accepts the two field namings backend versions have used
// for issued tokens.
type tokenResponse struct {
	Access       string `json:"access"`
	Refresh      string `json:"refresh"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

func (t *tokenResponse) access() string {
	if t.Access != "" {
		return t.Access
	}
	return t.Token
}

func (t *tokenResponse) refresh() string {
	if t.Refresh != "" {
		return t.Refresh
	}
	return t.RefreshToken
}

// Login authenticates and persists the issued tokens. Subsequent requests
// carry the bearer token automatically.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	tokens, err := c.authRequest(ctx, "/auth/login/", creds)
	if err != nil {
		return err
	}
	if tokens.access() == "" {
		return fmt.Errorf("login response carried no token")
	}
	return c.tokens.Set(tokens.access(), tokens.refresh())
}

// Register creates an account. When the backend issues tokens on
// registration they are persisted, logging the new user in.
func (c *Client) Register(ctx context.Context, creds Credentials) error {
	tokens, err := c.authRequest(ctx, "/auth/register/", creds)
	if err != nil {
		return err
	}
	if tokens.access() != "" {
		return c.tokens.Set(tokens.access(), tokens.refresh())
	}
	return nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var profile Profile
	req := request{method: http.MethodGet, path: "/profile/"}
	if err := c.getJSON(ctx, req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Logout drops the persisted tokens. Purely local; the backend keeps no
// session.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

func (c *Client) authRequest(ctx context.Context, path string, creds Credentials) (*tokenResponse, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}

	req := request{method: http.MethodPost, path: path, body: body}
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		return nil, &ValidationError{Detail: readDetail(resp.Body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp)
	}

	var tokens tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	return &tokens, nil
}
