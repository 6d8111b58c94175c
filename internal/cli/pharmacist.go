package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pharmalink/pharmalink/internal/cli/output"
	"github.com/pharmalink/pharmalink/internal/core/domain"
)

func (a *app) pharmacistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pharmacist",
		Short: "Pharmacist page: stock and incoming reservations",
	}
	cmd.AddCommand(
		a.pharmacistDashboardCommand(),
		a.pharmacistInventoryCommand(),
		a.pharmacistAddStockCommand(),
		a.pharmacistUpdateStockCommand(),
		a.pharmacistReservationsCommand(),
		a.pharmacistSetStatusCommand(),
	)
	return cmd
}

func (a *app) pharmacistDashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Headline numbers, recent reservations and low stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.pharmacist.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error {
				d := res.View
				a.printer.Header(d.Pharmacy.Name)
				a.printer.Field("pending reservations", d.Stats.PendingReservations)
				a.printer.Field("medications stocked", d.Stats.TotalMedications)
				a.printer.Field("low stock items", d.Stats.LowStockItems)
				a.printer.Field("monthly revenue", money(d.Stats.MonthlyRevenue))

				a.printer.Header("Recent reservations")
				if err := a.reservationTable(d.RecentReservations); err != nil {
					return err
				}
				a.printer.Header("Low stock")
				return a.inventoryTable(d.LowStockItems)
			})
		},
	}
}

func (a *app) pharmacistInventoryCommand() *cobra.Command {
	var (
		pr     domain.PageRequest
		search string
	)
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "List stock lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.pharmacist.Inventory(cmd.Context(), pr, search)
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error {
				if err := a.inventoryTable(res.View.Items); err != nil {
					return err
				}
				output.PageFooter(a.printer, res.View)
				return nil
			})
		},
	}
	pageFlags(cmd, &pr)
	cmd.Flags().StringVar(&search, "search", "", "filter by medication name")
	return cmd
}

func (a *app) pharmacistAddStockCommand() *cobra.Command {
	var req domain.InventoryRequest
	cmd := &cobra.Command{
		Use:   "add-stock",
		Short: "Add stock for a medication, creating the line if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.pharmacist.AddStock(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error {
				a.printer.Success("%s", res.View.Message)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.Int64Var(&req.MedicationID, "medication", 0, "medication id")
	f.IntVar(&req.StockQuantity, "quantity", 0, "units to add")
	f.Float64Var(&req.Price, "price", 0, "unit price")
	return cmd
}

func (a *app) pharmacistUpdateStockCommand() *cobra.Command {
	var (
		quantity int
		price    float64
	)
	cmd := &cobra.Command{
		Use:   "update-stock <inventory-id>",
		Short: "Overwrite the quantity and/or price of a stock line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invID, err := parseID(args[0])
			if err != nil {
				return err
			}
			var patch domain.InventoryPatch
			if cmd.Flags().Changed("quantity") {
				patch.StockQuantity = &quantity
			}
			if cmd.Flags().Changed("price") {
				patch.Price = &price
			}
			res, err := a.pharmacist.UpdateStock(cmd.Context(), invID, patch)
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error {
				a.printer.Success("%s: %d in stock at %s", medicationName(res.View.Medication), res.View.StockQuantity, money(res.View.Price))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&quantity, "quantity", 0, "new stock quantity")
	cmd.Flags().Float64Var(&price, "price", 0, "new unit price")
	return cmd
}

func (a *app) pharmacistReservationsCommand() *cobra.Command {
	var (
		f      domain.ReservationFilter
		status string
	)
	cmd := &cobra.Command{
		Use:   "reservations",
		Short: "List reservations at your pharmacy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.Status = domain.ReservationStatus(status)
			res, err := a.pharmacist.Reservations(cmd.Context(), f)
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error {
				if err := a.reservationTable(res.View.Items); err != nil {
					return err
				}
				output.PageFooter(a.printer, res.View)
				return nil
			})
		},
	}
	pageFlags(cmd, &f.PageRequest)
	cmd.Flags().StringVar(&status, "status", "", "pending, confirmed, ready, completed or cancelled")
	return cmd
}

func (a *app) pharmacistSetStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <reservation-id> <status>",
		Short: "Move a reservation to a new state",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rid, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := a.pharmacist.SetStatus(cmd.Context(), rid, domain.StatusUpdate{Status: domain.ReservationStatus(args[1])})
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error {
				a.printer.Success("reservation %d %s", res.View.ID, a.printer.Status(string(res.View.Status)))
				return nil
			})
		},
	}
}

func (a *app) inventoryTable(items []domain.InventoryItem) error {
	t := a.printer.NewTable("ID", "Medication", "Stock", "Price", "Updated")
	for _, it := range items {
		t.AddRow(id(it.ID), medicationName(it.Medication), strconv.Itoa(it.StockQuantity), money(it.Price), it.UpdatedAt)
	}
	return t.Render()
}
