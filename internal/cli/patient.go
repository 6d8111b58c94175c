package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pharmalink/pharmalink/internal/cli/output"
	"github.com/pharmalink/pharmalink/internal/core/domain"
)

func (a *app) patientCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Patient page: find medication and manage reservations",
	}
	cmd.AddCommand(
		a.patientSearchCommand(),
		a.patientMedicationsCommand(),
		a.patientReserveCommand(),
		a.patientReservationsCommand(),
		a.patientReservationCommand(),
		a.patientCancelCommand(),
	)
	return cmd
}

func (a *app) patientSearchCommand() *cobra.Command {
	var (
		f        domain.PharmacySearch
		lat, lng float64
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find pharmacies with a medication in stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
				f.Lat, f.Lng = &lat, &lng
			}
			res, err := a.patient.Search(cmd.Context(), f)
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error {
				a.printer.Header(res.View.Medication.Name)
				t := a.printer.NewTable("ID", "Pharmacy", "Address", "Price", "Stock", "Distance")
				for _, p := range res.View.Pharmacies {
					t.AddRow(id(p.ID), p.Name, p.Address, optFloat(p.Price, ""), optInt(p.Stock), optFloat(p.Distance, " km"))
				}
				return t.Render()
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.Medication, "medication", "", "medication name (partial match)")
	fl.StringVar(&f.Location, "location", "", "free-text location")
	fl.Float64Var(&lat, "lat", 0, "your latitude")
	fl.Float64Var(&lng, "lng", 0, "your longitude")
	fl.Float64Var(&f.MaxDistance, "max-distance", 0, "maximum distance in km")
	return cmd
}

func (a *app) patientMedicationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "medications <query>",
		Short: "Autocomplete medication names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.patient.Medications(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error {
				t := a.printer.NewTable("ID", "Name", "Generic name", "Category")
				for _, m := range res.View {
					t.AddRow(id(m.ID), m.Name, m.GenericName, m.Category)
				}
				return t.Render()
			})
		},
	}
}

func (a *app) patientReserveCommand() *cobra.Command {
	var req domain.ReservationRequest
	cmd := &cobra.Command{
		Use:   "reserve",
		Short: "Reserve medication at a pharmacy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.patient.Reserve(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error {
				a.printer.Success("reservation %d created (%s)", res.View.ID, a.printer.Status(string(res.View.Status)))
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.Int64Var(&req.PharmacyID, "pharmacy", 0, "pharmacy id")
	f.Int64Var(&req.MedicationID, "medication", 0, "medication id")
	f.IntVar(&req.Quantity, "quantity", 1, "quantity")
	f.StringVar(&req.CustomerName, "name", "", "name for pickup")
	f.StringVar(&req.CustomerPhone, "phone", "", "contact phone")
	f.StringVar(&req.Notes, "notes", "", "notes for the pharmacist")
	return cmd
}

func (a *app) patientReservationsCommand() *cobra.Command {
	var pr domain.PageRequest
	cmd := &cobra.Command{
		Use:   "reservations",
		Short: "List your reservations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.patient.Reservations(cmd.Context(), pr)
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
	pageFlags(cmd, &pr)
	return cmd
}

func (a *app) patientReservationCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reservation <id>",
		Short: "Show one reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rid, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := a.patient.Reservation(cmd.Context(), rid)
			if err != nil {
				return err
			}
			return a.emit(res.Raw, func() error {
				a.reservationDetail(res.View)
				return nil
			})
		},
	}
}

func (a *app) patientCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a pending or confirmed reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rid, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := a.patient.Cancel(cmd.Context(), rid)
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

func (a *app) reservationTable(items []domain.Reservation) error {
	t := a.printer.NewTable("ID", "Medication", "Pharmacy", "Qty", "Status", "Created")
	for _, r := range items {
		t.AddRow(id(r.ID), medicationName(r.Medication), pharmacyName(r.Pharmacy), strconv.Itoa(r.Quantity), a.printer.Status(string(r.Status)), r.CreatedAt)
	}
	return t.Render()
}

func (a *app) reservationDetail(r domain.Reservation) {
	a.printer.Field("id", r.ID)
	a.printer.Field("status", a.printer.Status(string(r.Status)))
	a.printer.Field("medication", medicationName(r.Medication))
	a.printer.Field("pharmacy", pharmacyName(r.Pharmacy))
	a.printer.Field("quantity", r.Quantity)
	if r.CustomerName != "" {
		a.printer.Field("customer", r.CustomerName)
	}
	if r.Notes != "" {
		a.printer.Field("notes", r.Notes)
	}
	a.printer.Field("created", r.CreatedAt)
}
