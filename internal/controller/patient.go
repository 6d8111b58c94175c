package controller

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/pharmalink/pharmalink/internal/core/domain"
	"github.com/pharmalink/pharmalink/internal/core/ports"
	"github.com/pharmalink/pharmalink/internal/core/service"
)

// Patient drives patient.html: medication search and reservations.
type Patient struct {
	page
	api ports.PatientAPI
}

func NewPatient(api ports.PatientAPI, guard *service.PageGuard, log zerolog.Logger) *Patient {
	return &Patient{page: newPage(domain.RolePatient, guard, log), api: api}
}

// Search lists pharmacies stocking a medication, nearest or cheapest first.
func (p *Patient) Search(ctx context.Context, f domain.PharmacySearch) (Result[domain.PharmacySearchResult], error) {
	return run[domain.PharmacySearchResult](ctx, p.page, f, func(ctx context.Context) (json.RawMessage, error) {
		return p.api.SearchPharmacies(ctx, f)
	})
}

func (p *Patient) Medications(ctx context.Context, q string) (Result[[]domain.Medication], error) {
	r, err := run[medicationsEnvelope](ctx, p.page, nil, func(ctx context.Context) (json.RawMessage, error) {
		return p.api.SearchMedications(ctx, q)
	})
	return unwrap(r, err, func(e medicationsEnvelope) []domain.Medication { return e.Medications })
}

func (p *Patient) Reserve(ctx context.Context, req domain.ReservationRequest) (Result[domain.Reservation], error) {
	r, err := run[reservationEnvelope](ctx, p.page, req, func(ctx context.Context) (json.RawMessage, error) {
		return p.api.CreateReservation(ctx, req)
	})
	return unwrap(r, err, pickReservation)
}

func (p *Patient) Reservations(ctx context.Context, pr domain.PageRequest) (Result[domain.Page[domain.Reservation]], error) {
	return run[domain.Page[domain.Reservation]](ctx, p.page, pr, func(ctx context.Context) (json.RawMessage, error) {
		return p.api.ListReservations(ctx, pr)
	})
}

func (p *Patient) Reservation(ctx context.Context, id int64) (Result[domain.Reservation], error) {
	if err := requireID("id", id); err != nil {
		return Result[domain.Reservation]{}, err
	}
	r, err := run[reservationEnvelope](ctx, p.page, nil, func(ctx context.Context) (json.RawMessage, error) {
		return p.api.GetReservation(ctx, id)
	})
	return unwrap(r, err, pickReservation)
}

// Cancel releases a pending or confirmed reservation. Other states are
// refused by the service.
func (p *Patient) Cancel(ctx context.Context, id int64) (Result[domain.Reservation], error) {
	if err := requireID("id", id); err != nil {
		return Result[domain.Reservation]{}, err
	}
	r, err := run[reservationEnvelope](ctx, p.page, nil, func(ctx context.Context) (json.RawMessage, error) {
		return p.api.CancelReservation(ctx, id)
	})
	return unwrap(r, err, pickReservation)
}

func pickReservation(e reservationEnvelope) domain.Reservation { return e.Reservation }
