package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pharmalink/pharmalink/internal/controller"
	"github.com/pharmalink/pharmalink/internal/core/domain"
)

type loginOutput struct {
	User        domain.Identity    `json:"user"`
	Destination domain.Destination `json:"destination"`
}

func (a *app) loginCommand() *cobra.Command {
	var cred domain.Credential
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and open your home page",
		Long: `Log in with email and password. When a session already exists the
command redirects to its home page instead; run "pharmalink logout" first to
switch accounts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.auth.Boot(ctx); err != nil {
				return err
			}
			identity, dest, err := a.auth.Login(ctx, cred)
			if err != nil {
				return err
			}
			return a.landed(identity, dest)
		},
	}
	cmd.Flags().StringVar(&cred.Email, "email", "", "account email")
	cmd.Flags().StringVar(&cred.Password, "password", "", "account password")
	requireFlag(cmd, "email", "password")
	return cmd
}

func (a *app) registerCommand() *cobra.Command {
	var (
		reg  domain.Registration
		role string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.auth.Boot(ctx); err != nil {
				return err
			}
			reg.Role = domain.Role(role)
			identity, dest, err := a.auth.Register(ctx, reg)
			if err != nil {
				return err
			}
			return a.landed(identity, dest)
		},
	}
	f := cmd.Flags()
	f.StringVar(&reg.Email, "email", "", "account email")
	f.StringVar(&reg.Password, "password", "", "password, at least 6 characters")
	f.StringVar(&reg.Name, "name", "", "display name")
	f.StringVar(&role, "role", string(domain.RolePatient), "patient, pharmacist or admin")
	f.StringVar(&reg.Phone, "phone", "", "phone number")
	requireFlag(cmd, "email", "password", "name")
	return cmd
}

func (a *app) landed(identity domain.Identity, dest domain.Destination) error {
	if a.flags.jsonOut {
		raw, err := json.Marshal(loginOutput{User: identity, Destination: dest})
		if err != nil {
			return err
		}
		return a.printer.JSON(raw)
	}
	a.printer.Success("logged in as %s (%s)", a.printer.Bold(identity.Name), identity.Role)
	a.printer.Redirect(dest)
	return nil
}

func (a *app) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dest, err := a.auth.Logout(cmd.Context())
			if err != nil {
				return err
			}
			a.printer.Success("logged out")
			a.printer.Redirect(dest)
			return nil
		},
	}
}

func (a *app) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, ok := a.session.CurrentIdentity(cmd.Context())
			if !ok {
				return &controller.RedirectError{To: domain.DestinationLogin}
			}
			raw, err := json.Marshal(identity)
			if err != nil {
				return err
			}
			return a.emit(raw, func() error {
				a.printer.Field("id", identity.ID)
				a.printer.Field("name", identity.Name)
				a.printer.Field("email", identity.Email)
				a.printer.Field("role", identity.Role)
				if a.session.TokenExpired(cmd.Context()) {
					a.printer.Warning("access token has expired")
				}
				return nil
			})
		},
	}
}

func (a *app) routeCommand() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Print the home page of the session, or of --role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity := domain.Identity{Role: domain.Role(role)}
			if role == "" {
				var ok bool
				identity, ok = a.session.CurrentIdentity(cmd.Context())
				if !ok {
					return &controller.RedirectError{To: domain.DestinationLogin}
				}
			}
			dest, err := a.session.RouteForRole(identity)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.printer.Out(), dest)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "map this role instead of the session's")
	return cmd
}

func (a *app) healthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := a.api.Health(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(raw, func() error {
				var h struct {
					Status  string `json:"status"`
					Message string `json:"message"`
				}
				if err := json.Unmarshal(raw, &h); err != nil {
					return err
				}
				a.printer.Success("%s: %s (%s)", a.api.BaseURL(), h.Status, h.Message)
				return nil
			})
		},
	}
}
