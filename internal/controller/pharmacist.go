package controller

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/pharmalink/pharmalink/internal/core/domain"
	"github.com/pharmalink/pharmalink/internal/core/ports"
	"github.com/pharmalink/pharmalink/internal/core/service"
)

// Pharmacist drives pharmacist.html: stock and incoming reservations.
type Pharmacist struct {
	page
	api ports.PharmacistAPI
}

func NewPharmacist(api ports.PharmacistAPI, guard *service.PageGuard, log zerolog.Logger) *Pharmacist {
	return &Pharmacist{page: newPage(domain.RolePharmacist, guard, log), api: api}
}

func (p *Pharmacist) Dashboard(ctx context.Context) (Result[domain.PharmacistDashboard], error) {
	return run[domain.PharmacistDashboard](ctx, p.page, nil, p.api.PharmacistDashboard)
}

func (p *Pharmacist) Inventory(ctx context.Context, pr domain.PageRequest, search string) (Result[domain.Page[domain.InventoryItem]], error) {
	return run[domain.Page[domain.InventoryItem]](ctx, p.page, pr, func(ctx context.Context) (json.RawMessage, error) {
		return p.api.ListInventory(ctx, pr, search)
	})
}

// AddStock tops up (or creates) the stock line for a medication.
func (p *Pharmacist) AddStock(ctx context.Context, req domain.InventoryRequest) (Result[Message], error) {
	return run[Message](ctx, p.page, req, func(ctx context.Context) (json.RawMessage, error) {
		return p.api.AddInventory(ctx, req)
	})
}

// UpdateStock overwrites the quantity and/or price of one stock line.
func (p *Pharmacist) UpdateStock(ctx context.Context, id int64, patch domain.InventoryPatch) (Result[domain.InventoryItem], error) {
	if err := requireID("id", id); err != nil {
		return Result[domain.InventoryItem]{}, err
	}
	if patch.StockQuantity == nil && patch.Price == nil {
		return Result[domain.InventoryItem]{}, &domain.ValidationError{Fields: map[string]string{
			"patch": "stock_quantity or price is required",
		}}
	}
	r, err := run[inventoryEnvelope](ctx, p.page, patch, func(ctx context.Context) (json.RawMessage, error) {
		return p.api.UpdateInventory(ctx, id, patch)
	})
	return unwrap(r, err, func(e inventoryEnvelope) domain.InventoryItem { return e.Inventory })
}

func (p *Pharmacist) Reservations(ctx context.Context, f domain.ReservationFilter) (Result[domain.Page[domain.Reservation]], error) {
	return run[domain.Page[domain.Reservation]](ctx, p.page, f, func(ctx context.Context) (json.RawMessage, error) {
		return p.api.ListPharmacyReservations(ctx, f)
	})
}

func (p *Pharmacist) SetStatus(ctx context.Context, id int64, upd domain.StatusUpdate) (Result[domain.Reservation], error) {
	if err := requireID("id", id); err != nil {
		return Result[domain.Reservation]{}, err
	}
	r, err := run[reservationEnvelope](ctx, p.page, upd, func(ctx context.Context) (json.RawMessage, error) {
		return p.api.UpdateReservationStatus(ctx, id, upd)
	})
	return unwrap(r, err, pickReservation)
}
