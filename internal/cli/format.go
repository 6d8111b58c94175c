package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pharmalink/pharmalink/internal/core/domain"
)

func pageFlags(cmd *cobra.Command, pr *domain.PageRequest) {
	cmd.Flags().IntVar(&pr.Page, "page", 0, "page number (service default 1)")
	cmd.Flags().IntVar(&pr.PerPage, "per-page", 0, "items per page (service default 10)")
}

func parseID(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, &domain.ValidationError{Fields: map[string]string{"id": "id must be a positive integer, got " + strconv.Quote(s)}}
	}
	return v, nil
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func optFloat(v *float64, unit string) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64) + unit
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func medicationName(m *domain.Medication) string {
	if m == nil {
		return "-"
	}
	return m.Name
}

func pharmacyName(p *domain.Pharmacy) string {
	if p == nil {
		return "-"
	}
	return p.Name
}
