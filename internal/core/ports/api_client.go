package ports

import (
	"context"
	"encoding/json"

	"github.com/pharmalink/pharmalink/internal/core/domain"
)

// AuthAPI covers the unauthenticated endpoints that establish a session.
type AuthAPI interface {
	Login(ctx context.Context, cred domain.Credential) (*domain.Identity, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.Identity, error)
	Logout(ctx context.Context) error
}

// PatientAPI is the /patient surface.
type PatientAPI interface {
	SearchPharmacies(ctx context.Context, f domain.PharmacySearch) (json.RawMessage, error)
	SearchMedications(ctx context.Context, q string) (json.RawMessage, error)
	CreateReservation(ctx context.Context, req domain.ReservationRequest) (json.RawMessage, error)
	ListReservations(ctx context.Context, p domain.PageRequest) (json.RawMessage, error)
	GetReservation(ctx context.Context, id int64) (json.RawMessage, error)
	CancelReservation(ctx context.Context, id int64) (json.RawMessage, error)
}

// PharmacistAPI is the /pharmacist surface.
type PharmacistAPI interface {
	PharmacistDashboard(ctx context.Context) (json.RawMessage, error)
	ListInventory(ctx context.Context, p domain.PageRequest, search string) (json.RawMessage, error)
	AddInventory(ctx context.Context, req domain.InventoryRequest) (json.RawMessage, error)
	UpdateInventory(ctx context.Context, id int64, patch domain.InventoryPatch) (json.RawMessage, error)
	ListPharmacyReservations(ctx context.Context, f domain.ReservationFilter) (json.RawMessage, error)
	UpdateReservationStatus(ctx context.Context, id int64, upd domain.StatusUpdate) (json.RawMessage, error)
}

// AdminAPI is the /admin surface.
type AdminAPI interface {
	AdminDashboard(ctx context.Context) (json.RawMessage, error)
	ListUsers(ctx context.Context, f domain.UserFilter) (json.RawMessage, error)
	UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (json.RawMessage, error)
	ListPharmacies(ctx context.Context, f domain.PharmacyFilter) (json.RawMessage, error)
	ListSubscriptions(ctx context.Context, f domain.SubscriptionFilter) (json.RawMessage, error)
	ListAdvertisements(ctx context.Context, f domain.AdvertisementFilter) (json.RawMessage, error)
	CreateAdvertisement(ctx context.Context, req domain.AdvertisementRequest) (json.RawMessage, error)
	Analytics(ctx context.Context) (json.RawMessage, error)
}
