package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/pharmalink/pharmalink/internal/api/metrics"
	"github.com/pharmalink/pharmalink/internal/core/domain"
)

// BootResult is the outcome of a page boot. A non-empty Redirect means the
// caller must navigate there instead of rendering the page.
type BootResult struct {
	Identity domain.Identity
	Redirect domain.Destination
}

// Allowed reports whether the page may render.
func (b BootResult) Allowed() bool {
	return b.Redirect == ""
}

// PageGuard runs the boot sequence every page starts with. It decides where
// to go; it never navigates.
type PageGuard struct {
	session *SessionManager
	log     zerolog.Logger
}

func NewPageGuard(session *SessionManager, log zerolog.Logger) *PageGuard {
	return &PageGuard{session: session, log: log}
}

// Boot admits the current identity to a page that requires role. Anonymous,
// expired or mismatched sessions are sent to the login page.
func (g *PageGuard) Boot(ctx context.Context, role domain.Role) (BootResult, error) {
	identity, ok := g.session.CurrentIdentity(ctx)
	if !ok {
		return BootResult{Redirect: domain.DestinationLogin}, nil
	}

	if g.session.TokenExpired(ctx) {
		metrics.ForcedLogoutsTotal.WithLabelValues("expired").Inc()
		g.log.Info().Str("role", string(identity.Role)).Msg("access token expired, clearing session")
		if err := g.session.ClearIdentity(ctx); err != nil {
			return BootResult{}, err
		}
		return BootResult{Redirect: domain.DestinationLogin}, nil
	}

	if identity.Role != role {
		g.log.Debug().
			Str("role", string(identity.Role)).
			Str("required", string(role)).
			Msg("role mismatch, redirecting to login")
		return BootResult{Identity: identity, Redirect: domain.DestinationLogin}, nil
	}

	return BootResult{Identity: identity}, nil
}

// BootLogin runs on the login page: an existing session is sent to its home.
// A session with an unknown role is cleared so the user can log in again.
func (g *PageGuard) BootLogin(ctx context.Context) (BootResult, error) {
	identity, ok := g.session.CurrentIdentity(ctx)
	if !ok {
		return BootResult{}, nil
	}

	dest, err := g.session.RouteForRole(identity)
	if errors.Is(err, domain.ErrUnknownRole) {
		g.log.Warn().Str("role", string(identity.Role)).Msg("stored identity has unknown role, clearing session")
		if err := g.session.ClearIdentity(ctx); err != nil {
			return BootResult{}, err
		}
		return BootResult{}, nil
	}
	if err != nil {
		return BootResult{}, err
	}
	return BootResult{Identity: identity, Redirect: dest}, nil
}

// Logout clears the session and returns the landing page.
func (g *PageGuard) Logout(ctx context.Context) (domain.Destination, error) {
	if err := g.session.ClearIdentity(ctx); err != nil {
		return "", err
	}
	return domain.DestinationIndex, nil
}
