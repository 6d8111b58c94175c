// Package controller holds the per-page flows of the client: boot-guard the
// role, validate input, call the API client and decode typed views.
package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pharmalink/pharmalink/internal/api/client"
	"github.com/pharmalink/pharmalink/internal/core/domain"
	"github.com/pharmalink/pharmalink/internal/core/service"
)

// RedirectError tells the top-level caller to navigate instead of rendering.
// Cause is set when the redirect follows a rejected token.
type RedirectError struct {
	To    domain.Destination
	Cause error
}

func (e *RedirectError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("redirect to %s: %v", e.To, e.Cause)
	}
	return "redirect to " + string(e.To)
}

func (e *RedirectError) Unwrap() error {
	return e.Cause
}

// Result is a decoded view plus the payload it was decoded from.
type Result[T any] struct {
	Raw  json.RawMessage
	View T
}

// page is the boot sequence shared by the role pages.
type page struct {
	role     domain.Role
	guard    *service.PageGuard
	validate *Validator
	log      zerolog.Logger
}

func newPage(role domain.Role, guard *service.PageGuard, log zerolog.Logger) page {
	return page{role: role, guard: guard, validate: NewValidator(), log: log}
}

// Boot admits the current session to the page or returns a *RedirectError.
func (p page) Boot(ctx context.Context) (domain.Identity, error) {
	res, err := p.guard.Boot(ctx, p.role)
	if err != nil {
		return domain.Identity{}, err
	}
	if !res.Allowed() {
		return domain.Identity{}, &RedirectError{To: res.Redirect}
	}
	return res.Identity, nil
}

// settle turns a rejected token into a login redirect; the API client has
// already cleared the session.
func (p page) settle(err error) error {
	if errors.Is(err, domain.ErrUnauthenticated) {
		p.log.Info().Str("page", string(p.role)).Msg("token rejected, redirecting to login")
		return &RedirectError{To: domain.DestinationLogin, Cause: err}
	}
	return err
}

// run validates input (when non-nil), boots the page and performs call.
func run[T any](ctx context.Context, p page, input any, call func(context.Context) (json.RawMessage, error)) (Result[T], error) {
	if input != nil {
		if err := p.validate.Struct(input); err != nil {
			return Result[T]{}, err
		}
	}
	if _, err := p.Boot(ctx); err != nil {
		return Result[T]{}, err
	}

	raw, err := call(ctx)
	if err != nil {
		return Result[T]{}, p.settle(err)
	}
	view, err := client.Decode[T](raw)
	if err != nil {
		return Result[T]{Raw: raw}, err
	}
	return Result[T]{Raw: raw, View: view}, nil
}

// unwrap replaces the envelope view of r with the field pick selects.
func unwrap[E, T any](r Result[E], err error, pick func(E) T) (Result[T], error) {
	if err != nil {
		return Result[T]{Raw: r.Raw}, err
	}
	return Result[T]{Raw: r.Raw, View: pick(r.View)}, nil
}

func requireID(name string, id int64) error {
	if id <= 0 {
		return &domain.ValidationError{Fields: map[string]string{name: name + " must be greater than 0"}}
	}
	return nil
}
