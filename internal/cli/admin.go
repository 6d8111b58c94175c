package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pharmalink/pharmalink/internal/cli/output"
	"github.com/pharmalink/pharmalink/internal/core/domain"
)

func (a *app) adminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin page: platform users, pharmacies, plans and ads",
	}
	cmd.AddCommand(
		a.adminDashboardCommand(),
		a.adminOverviewCommand(),
		a.adminUsersCommand(),
		a.adminUpdateUserCommand(),
		a.adminPharmaciesCommand(),
		a.adminSubscriptionsCommand(),
		a.adminAdsCommand(),
		a.adminCreateAdCommand(),
		a.adminAnalyticsCommand(),
	)
	return cmd
}

func (a *app) adminDashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Platform totals and recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.admin.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error { return a.renderAdminDashboard(res.View) })
		},
	}
}

func (a *app) adminOverviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Dashboard and 30-day analytics in one view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.admin.Overview(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error {
				if err := a.renderAdminDashboard(res.View.Dashboard); err != nil {
					return err
				}
				return a.renderAnalytics(res.View.Analytics)
			})
		},
	}
}

func (a *app) renderAdminDashboard(d domain.AdminDashboard) error {
	a.printer.Header("Platform")
	a.printer.Field("pharmacies", d.Stats.TotalPharmacies)
	a.printer.Field("premium subscriptions", d.Stats.PremiumSubscriptions)
	a.printer.Field("subscription revenue", money(d.Stats.TotalRevenue))
	a.printer.Field("users", d.Stats.TotalUsers)

	a.printer.Header("Recent reservations")
	if err := a.reservationTable(d.RecentReservations); err != nil {
		return err
	}
	a.printer.Header("Recent users")
	return a.userTable(d.RecentUsers)
}

func (a *app) adminUsersCommand() *cobra.Command {
	var (
		f    domain.UserFilter
		role string
	)
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.Role = domain.Role(role)
			res, err := a.admin.Users(cmd.Context(), f)
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error {
				if err := a.userTable(res.View.Items); err != nil {
					return err
				}
				output.PageFooter(a.printer, res.View)
				return nil
			})
		},
	}
	pageFlags(cmd, &f.PageRequest)
	cmd.Flags().StringVar(&role, "role", "", "patient, pharmacist or admin")
	cmd.Flags().StringVar(&f.Search, "search", "", "match name or email")
	return cmd
}

func (a *app) adminUpdateUserCommand() *cobra.Command {
	var role, name, phone string
	cmd := &cobra.Command{
		Use:   "update-user <user-id>",
		Short: "Change a user's role, name or phone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseID(args[0])
			if err != nil {
				return err
			}
			var patch domain.UserPatch
			if cmd.Flags().Changed("role") {
				r := domain.Role(role)
				patch.Role = &r
			}
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("phone") {
				patch.Phone = &phone
			}
			res, err := a.admin.UpdateUser(cmd.Context(), uid, patch)
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error {
				a.printer.Success("user %d: %s (%s)", res.View.ID, res.View.Name, res.View.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "new role")
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&phone, "phone", "", "new phone")
	return cmd
}

func (a *app) adminPharmaciesCommand() *cobra.Command {
	var f domain.PharmacyFilter
	cmd := &cobra.Command{
		Use:   "pharmacies",
		Short: "List pharmacies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.admin.Pharmacies(cmd.Context(), f)
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error {
				t := a.printer.NewTable("ID", "Name", "Address", "Phone", "Subscription")
				for _, p := range res.View.Items {
					t.AddRow(id(p.ID), p.Name, p.Address, p.Phone, a.printer.Status(p.SubscriptionStatus))
				}
				if err := t.Render(); err != nil {
					return err
				}
				output.PageFooter(a.printer, res.View)
				return nil
			})
		},
	}
	pageFlags(cmd, &f.PageRequest)
	cmd.Flags().StringVar(&f.SubscriptionStatus, "subscription-status", "", "active or inactive")
	cmd.Flags().StringVar(&f.Search, "search", "", "match pharmacy name")
	return cmd
}

func (a *app) adminSubscriptionsCommand() *cobra.Command {
	var f domain.SubscriptionFilter
	cmd := &cobra.Command{
		Use:   "subscriptions",
		Short: "List premium subscriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.admin.Subscriptions(cmd.Context(), f)
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error {
				t := a.printer.NewTable("ID", "Pharmacy", "Plan", "Amount", "Status", "Start", "End")
				for _, s := range res.View.Items {
					t.AddRow(id(s.ID), id(s.PharmacyID), s.PlanType, money(s.Amount), a.printer.Status(s.Status), s.StartDate, s.EndDate)
				}
				if err := t.Render(); err != nil {
					return err
				}
				output.PageFooter(a.printer, res.View)
				return nil
			})
		},
	}
	pageFlags(cmd, &f.PageRequest)
	cmd.Flags().StringVar(&f.Status, "status", "", "active, expired or cancelled")
	return cmd
}

func (a *app) adminAdsCommand() *cobra.Command {
	var (
		f      domain.AdvertisementFilter
		active bool
	)
	cmd := &cobra.Command{
		Use:   "ads",
		Short: "List advertisements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("active") {
				f.Active = &active
			}
			res, err := a.admin.Advertisements(cmd.Context(), f)
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error {
				t := a.printer.NewTable("ID", "Title", "Advertiser", "Budget", "Clicks", "Impressions", "Active")
				for _, ad := range res.View.Items {
					t.AddRow(id(ad.ID), ad.Title, ad.AdvertiserName, money(ad.Budget), strconv.Itoa(ad.Clicks), strconv.Itoa(ad.Impressions), strconv.FormatBool(ad.Active))
				}
				if err := t.Render(); err != nil {
					return err
				}
				output.PageFooter(a.printer, res.View)
				return nil
			})
		},
	}
	pageFlags(cmd, &f.PageRequest)
	cmd.Flags().BoolVar(&active, "active", false, "only active (true) or inactive (false) ads")
	return cmd
}

func (a *app) adminCreateAdCommand() *cobra.Command {
	var (
		req    domain.AdvertisementRequest
		active bool
	)
	cmd := &cobra.Command{
		Use:   "create-ad",
		Short: "Create an advertisement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("active") {
				req.Active = &active
			}
			res, err := a.admin.CreateAdvertisement(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error {
				a.printer.Success("advertisement %d created: %s", res.View.ID, res.View.Title)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Title, "title", "", "headline")
	f.StringVar(&req.Content, "content", "", "body text")
	f.StringVar(&req.ImageURL, "image-url", "", "banner image URL")
	f.StringVar(&req.AdvertiserName, "advertiser", "", "advertiser name")
	f.Float64Var(&req.Budget, "budget", 0, "budget")
	f.BoolVar(&active, "active", true, "publish immediately")
	return cmd
}

func (a *app) adminAnalyticsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Activity over the last 30 days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.admin.Analytics(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error { return a.renderAnalytics(res.View) })
		},
	}
}

func (a *app) renderAnalytics(an domain.Analytics) error {
	a.printer.Header("Last 30 days")
	a.printer.Field("period", an.Period.StartDate+" .. "+an.Period.EndDate)
	a.printer.Field("registrations", an.UserRegistrations)
	a.printer.Field("reservations", an.Reservations)
	a.printer.Field("revenue", money(an.Revenue))

	t := a.printer.NewTable("Medication", "Reservations")
	for _, m := range an.PopularMedications {
		t.AddRow(m.Name, strconv.Itoa(m.ReservationCount))
	}
	return t.Render()
}

func (a *app) userTable(users []domain.Identity) error {
	t := a.printer.NewTable("ID", "Name", "Email", "Role", "Phone")
	for _, u := range users {
		t.AddRow(id(u.ID), u.Name, u.Email, string(u.Role), u.Phone)
	}
	return t.Render()
}
