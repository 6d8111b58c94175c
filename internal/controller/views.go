package controller

import "github.com/pharmalink/pharmalink/internal/core/domain"

// Message is the bare acknowledgement some writes answer with.
type Message struct {
	Message string `json:"message"`
}

type reservationEnvelope struct {
	Reservation domain.Reservation `json:"reservation"`
}

type inventoryEnvelope struct {
	Inventory domain.InventoryItem `json:"inventory"`
}

type medicationsEnvelope struct {
	Medications []domain.Medication `json:"medications"`
}

type userEnvelope struct {
	User domain.Identity `json:"user"`
}

type advertisementEnvelope struct {
	Advertisement domain.Advertisement `json:"advertisement"`
}

// Overview is the admin landing page: dashboard and analytics side by side.
type Overview struct {
	Dashboard domain.AdminDashboard `json:"dashboard"`
	Analytics domain.Analytics      `json:"analytics"`
}
