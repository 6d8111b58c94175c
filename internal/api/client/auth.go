package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pharmalink/pharmalink/internal/core/domain"
)

// Login exchanges credentials for a token and establishes the session with
// the returned user. No bearer token is sent.
func (c *Client) Login(ctx context.Context, cred domain.Credential) (*domain.Identity, error) {
	raw, err := c.Do(ctx, http.MethodPost, "/auth/login", cred, withoutToken())
	if err != nil {
		return nil, err
	}
	return c.establish(ctx, "/auth/login", raw)
}

// Register creates an account and logs it in.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.Identity, error) {
	raw, err := c.Do(ctx, http.MethodPost, "/auth/register", reg, withoutToken())
	if err != nil {
		return nil, err
	}
	return c.establish(ctx, "/auth/register", raw)
}

// Logout forgets the session locally. The service keeps no session state.
func (c *Client) Logout(ctx context.Context) error {
	return c.session.ClearIdentity(ctx)
}

// Health probes the service without credentials.
func (c *Client) Health(ctx context.Context) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, "/health", nil, withoutToken())
}

func (c *Client) establish(ctx context.Context, path string, raw json.RawMessage) (*domain.Identity, error) {
	var res domain.AuthResult
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &res); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", path, domain.ErrMalformedAuthResponse, err)
		}
	}
	if res.AccessToken == "" || res.User == nil {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrMalformedAuthResponse)
	}

	if err := c.session.Establish(ctx, *res.User, res.AccessToken); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.log.Debug().Int64("user_id", res.User.ID).Str("role", string(res.User.Role)).Msg("logged in")
	return res.User, nil
}
