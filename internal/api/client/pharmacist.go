package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pharmalink/pharmalink/internal/core/domain"
)

func (c *Client) PharmacistDashboard(ctx context.Context) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, "/pharmacist/dashboard", nil)
}

func (c *Client) ListInventory(ctx context.Context, p domain.PageRequest, search string) (json.RawMessage, error) {
	q := pageQuery(p)
	setIf(q, "search", search)
	return c.Do(ctx, http.MethodGet, "/pharmacist/inventory", nil, WithQuery(q))
}

// AddInventory adds stock to the pharmacist's pharmacy. An existing line for
// the medication is topped up and repriced.
func (c *Client) AddInventory(ctx context.Context, req domain.InventoryRequest) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, "/pharmacist/inventory", req)
}

func (c *Client) UpdateInventory(ctx context.Context, id int64, patch domain.InventoryPatch) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, idPath("/pharmacist/inventory", id, ""), patch)
}

func (c *Client) ListPharmacyReservations(ctx context.Context, f domain.ReservationFilter) (json.RawMessage, error) {
	q := pageQuery(f.PageRequest)
	setIf(q, "status", string(f.Status))
	return c.Do(ctx, http.MethodGet, "/pharmacist/reservations", nil, WithQuery(q))
}

func (c *Client) UpdateReservationStatus(ctx context.Context, id int64, upd domain.StatusUpdate) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, idPath("/pharmacist/reservations", id, ""), upd)
}
