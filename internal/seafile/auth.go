package seafile

import (
	"context"
	"fmt"
	"strings"
)

const (
	pathLogin = "/api2/auth-token/"
	pathPing  = "/api2/auth/ping/"
)

type loginResponse struct {
	Token string `json:"token"`
}

// Login authenticates with username/password and returns the opaque
// bearer token (spec.md §4.3 Login). Login does not use the Client's
// configured TokenSource, since none exists yet.
func Login(ctx context.Context, c *Client, username, password string) (string, error) {
	r, err := c.request(ctx, true)
	if err != nil {
		return "", err
	}

	var out loginResponse

	resp, err := r.
		SetFormData(map[string]string{"username": username, "password": password}).
		SetResult(&out).
		Post(pathLogin)
	if err != nil {
		return "", fmt.Errorf("seafile: login request: %w", err)
	}

	if resp.IsError() {
		return "", classifyStatus("login", resp.StatusCode(), resp.String())
	}

	if out.Token == "" {
		return "", fmt.Errorf("%w: login response missing token", ErrInvalidResponse)
	}

	return out.Token, nil
}

// Ping verifies the current bearer token is still accepted by the server
// (spec.md §4.3). The response body contains the literal string "pong".
func (c *Client) Ping(ctx context.Context) error {
	r, err := c.request(ctx, false)
	if err != nil {
		return err
	}

	resp, err := r.Get(pathPing)
	if err != nil {
		return fmt.Errorf("seafile: ping request: %w", err)
	}

	if resp.IsError() {
		return classifyStatus("ping", resp.StatusCode(), resp.String())
	}

	if !strings.Contains(resp.String(), "pong") {
		return fmt.Errorf("%w: ping response did not contain \"pong\"", ErrInvalidResponse)
	}

	return nil
}
