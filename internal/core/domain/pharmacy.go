package domain

// ReservationStatus represents the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationReady     ReservationStatus = "ready"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Cancellable reports whether a patient may still cancel a reservation in this state.
func (s ReservationStatus) Cancellable() bool {
	return s == ReservationPending || s == ReservationConfirmed
}

// Pharmacy is a store listed in the locator. Price, Stock and Distance are
// only populated on search results.
type Pharmacy struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Address            string   `json:"address"`
	Latitude           *float64 `json:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty"`
	Phone              string   `json:"phone,omitempty"`
	SubscriptionStatus string   `json:"subscription_status,omitempty"`
	CreatedAt          string   `json:"created_at,omitempty"`

	Price    *float64 `json:"price,omitempty"`
	Stock    *int     `json:"stock,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
}

// Medication is a catalogue entry.
type Medication struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	GenericName string `json:"generic_name,omitempty"`
}

// InventoryItem is one medication's stock line at a pharmacy.
type InventoryItem struct {
	ID            int64       `json:"id"`
	PharmacyID    int64       `json:"pharmacy_id"`
	MedicationID  int64       `json:"medication_id"`
	StockQuantity int         `json:"stock_quantity"`
	Price         float64     `json:"price"`
	UpdatedAt     string      `json:"updated_at,omitempty"`
	Medication    *Medication `json:"medication,omitempty"`
}

// Reservation holds stock at a pharmacy for a patient.
type Reservation struct {
	ID            int64             `json:"id"`
	UserID        int64             `json:"user_id"`
	PharmacyID    int64             `json:"pharmacy_id"`
	MedicationID  int64             `json:"medication_id"`
	Quantity      int               `json:"quantity"`
	Status        ReservationStatus `json:"status"`
	CustomerName  string            `json:"customer_name,omitempty"`
	CustomerPhone string            `json:"customer_phone,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	CreatedAt     string            `json:"created_at,omitempty"`
	Medication    *Medication       `json:"medication,omitempty"`
	Pharmacy      *Pharmacy         `json:"pharmacy,omitempty"`
}

// PharmacySearchResult answers a medication availability search.
type PharmacySearchResult struct {
	Medication Medication `json:"medication"`
	Pharmacies []Pharmacy `json:"pharmacies"`
}

// PharmacistStats are the headline numbers of the pharmacist dashboard.
type PharmacistStats struct {
	PendingReservations int     `json:"pending_reservations"`
	TotalMedications    int     `json:"total_medications"`
	LowStockItems       int     `json:"low_stock_items"`
	MonthlyRevenue      float64 `json:"monthly_revenue"`
}

// PharmacistDashboard is the landing payload of the pharmacist page.
type PharmacistDashboard struct {
	Stats              PharmacistStats `json:"stats"`
	RecentReservations []Reservation   `json:"recent_reservations"`
	LowStockItems      []InventoryItem `json:"low_stock_items"`
	Pharmacy           Pharmacy        `json:"pharmacy"`
}
