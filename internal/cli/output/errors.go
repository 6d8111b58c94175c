package output

import (
	"errors"

	"github.com/pharmalink/pharmalink/internal/controller"
	"github.com/pharmalink/pharmalink/internal/core/domain"
)

// Exit code constants
const (
	ExitSuccess  = 0
	ExitGeneral  = 1
	ExitRedirect = 2
	ExitUsage    = 3
	ExitAPI      = 4
	ExitNetwork  = 5
)

// Report prints err the way a user should see it and returns the exit code.
// A redirect is not an error: it prints the destination.
func (p *Printer) Report(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		redirect *controller.RedirectError
		invalid  *domain.ValidationError
		apiErr   *domain.APIError
		netErr   *domain.NetworkError
	)
	switch {
	case errors.As(err, &redirect):
		if redirect.Cause != nil {
			p.Warning("session expired, please log in again")
		}
		p.Redirect(redirect.To)
		return ExitRedirect
	case errors.Is(err, domain.ErrUnauthenticated):
		p.Warning("session expired, please log in again")
		p.Redirect(domain.DestinationLogin)
		return ExitRedirect
	case errors.As(err, &invalid):
		p.Error("invalid input: %s", invalid.Error())
		return ExitUsage
	case errors.As(err, &apiErr):
		p.Error("%s", apiErr.Message)
		return ExitAPI
	case errors.As(err, &netErr):
		p.Error("cannot reach the PharmaLink service: %v", netErr.Err)
		return ExitNetwork
	default:
		p.Error("%v", err)
		return ExitGeneral
	}
}
