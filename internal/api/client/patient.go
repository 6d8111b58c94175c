package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pharmalink/pharmalink/internal/core/domain"
)

// SearchPharmacies lists pharmacies holding f.Medication in stock.
func (c *Client) SearchPharmacies(ctx context.Context, f domain.PharmacySearch) (json.RawMessage, error) {
	q := url.Values{}
	setIf(q, "medication", f.Medication)
	setIf(q, "location", f.Location)
	if f.Lat != nil && f.Lng != nil {
		q.Set("lat", formatFloat(*f.Lat))
		q.Set("lng", formatFloat(*f.Lng))
	}
	if f.MaxDistance > 0 {
		q.Set("max_distance", formatFloat(f.MaxDistance))
	}
	return c.Do(ctx, http.MethodGet, "/patient/pharmacies/search", nil, WithQuery(q))
}

// SearchMedications autocompletes medication names.
func (c *Client) SearchMedications(ctx context.Context, query string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("q", query)
	return c.Do(ctx, http.MethodGet, "/patient/medications/search", nil, WithQuery(q))
}

func (c *Client) CreateReservation(ctx context.Context, req domain.ReservationRequest) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, "/patient/reservations", req)
}

func (c *Client) ListReservations(ctx context.Context, p domain.PageRequest) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, "/patient/reservations", nil, WithQuery(pageQuery(p)))
}

func (c *Client) GetReservation(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, idPath("/patient/reservations", id, ""), nil)
}

func (c *Client) CancelReservation(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, idPath("/patient/reservations", id, "/cancel"), nil)
}
