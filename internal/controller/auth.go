package controller

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pharmalink/pharmalink/internal/core/domain"
	"github.com/pharmalink/pharmalink/internal/core/ports"
	"github.com/pharmalink/pharmalink/internal/core/service"
)

// Auth drives the login and registration pages.
type Auth struct {
	api      ports.AuthAPI
	guard    *service.PageGuard
	validate *Validator
	log      zerolog.Logger
}

func NewAuth(api ports.AuthAPI, guard *service.PageGuard, log zerolog.Logger) *Auth {
	return &Auth{api: api, guard: guard, validate: NewValidator(), log: log}
}

// Boot runs when the login page opens. A live session yields a
// *RedirectError to its home page.
func (a *Auth) Boot(ctx context.Context) error {
	res, err := a.guard.BootLogin(ctx)
	if err != nil {
		return err
	}
	if !res.Allowed() {
		return &RedirectError{To: res.Redirect}
	}
	return nil
}

// Login authenticates and returns the identity with its home page.
func (a *Auth) Login(ctx context.Context, cred domain.Credential) (domain.Identity, domain.Destination, error) {
	if err := a.validate.Struct(cred); err != nil {
		return domain.Identity{}, "", err
	}
	identity, err := a.api.Login(ctx, cred)
	if err != nil {
		return domain.Identity{}, "", err
	}
	return a.land(ctx, *identity)
}

// Register creates an account, logs it in and returns its home page.
func (a *Auth) Register(ctx context.Context, reg domain.Registration) (domain.Identity, domain.Destination, error) {
	if err := a.validate.Struct(reg); err != nil {
		return domain.Identity{}, "", err
	}
	identity, err := a.api.Register(ctx, reg)
	if err != nil {
		return domain.Identity{}, "", err
	}
	return a.land(ctx, *identity)
}

// Logout clears the session and returns the landing page.
func (a *Auth) Logout(ctx context.Context) (domain.Destination, error) {
	return a.guard.Logout(ctx)
}

// land routes a freshly established identity. An identity whose role has no
// page cannot use the client, so its session is dropped again.
func (a *Auth) land(ctx context.Context, identity domain.Identity) (domain.Identity, domain.Destination, error) {
	dest, err := domain.RouteForRole(identity)
	if err != nil {
		a.log.Warn().Str("role", string(identity.Role)).Msg("service returned an unroutable role")
		if _, clearErr := a.guard.Logout(ctx); clearErr != nil {
			a.log.Error().Err(clearErr).Msg("failed to clear unroutable session")
		}
		return identity, "", err
	}
	a.log.Info().Int64("user_id", identity.ID).Str("destination", string(dest)).Msg("logged in")
	return identity, dest, nil
}
