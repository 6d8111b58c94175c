package domain

// PageRequest selects one page of a list endpoint. Zero values leave the
// service defaults (page 1, 10 per page) in place.
type PageRequest struct {
	Page    int `validate:"min=0"`
	PerPage int `validate:"min=0,max=100"`
}

// PharmacySearch filters the medication availability search.
type PharmacySearch struct {
	Medication  string `validate:"required"`
	Location    string
	Lat         *float64 `validate:"omitempty,latitude"`
	Lng         *float64 `validate:"omitempty,longitude"`
	MaxDistance float64  `validate:"min=0"`
}

// ReservationRequest creates a reservation.
type ReservationRequest struct {
	PharmacyID    int64  `json:"pharmacy_id"              validate:"required,gt=0"`
	MedicationID  int64  `json:"medication_id"            validate:"required,gt=0"`
	Quantity      int    `json:"quantity"                 validate:"required,gt=0"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// InventoryRequest adds stock for a medication, creating the line if needed.
type InventoryRequest struct {
	MedicationID  int64   `json:"medication_id"  validate:"required,gt=0"`
	StockQuantity int     `json:"stock_quantity" validate:"min=0"`
	Price         float64 `json:"price"          validate:"min=0"`
}

// InventoryPatch updates only the fields that are set.
type InventoryPatch struct {
	StockQuantity *int     `json:"stock_quantity,omitempty" validate:"omitempty,min=0"`
	Price         *float64 `json:"price,omitempty"          validate:"omitempty,min=0"`
}

// ReservationFilter narrows a pharmacy's reservation list.
type ReservationFilter struct {
	PageRequest
	Status ReservationStatus `validate:"omitempty,oneof=pending confirmed ready completed cancelled"`
}

// StatusUpdate moves a reservation to a new state.
type StatusUpdate struct {
	Status ReservationStatus `json:"status" validate:"required,oneof=pending confirmed ready completed cancelled"`
}

// UserFilter narrows the admin user list.
type UserFilter struct {
	PageRequest
	Role   Role `validate:"omitempty,oneof=patient pharmacist admin"`
	Search string
}

// UserPatch updates only the fields that are set.
type UserPatch struct {
	Role  *Role   `json:"role,omitempty"  validate:"omitempty,oneof=patient pharmacist admin"`
	Name  *string `json:"name,omitempty"  validate:"omitempty,min=1"`
	Phone *string `json:"phone,omitempty"`
}

// PharmacyFilter narrows the admin pharmacy list.
type PharmacyFilter struct {
	PageRequest
	SubscriptionStatus string
	Search             string
}

// SubscriptionFilter narrows the admin subscription list.
type SubscriptionFilter struct {
	PageRequest
	Status string `validate:"omitempty,oneof=active expired cancelled"`
}

// AdvertisementFilter narrows the admin advertisement list. A nil Active lists all.
type AdvertisementFilter struct {
	PageRequest
	Active *bool
}

// AdvertisementRequest creates an advertisement.
type AdvertisementRequest struct {
	Title          string  `json:"title"                     validate:"required"`
	Content        string  `json:"content,omitempty"`
	ImageURL       string  `json:"image_url,omitempty"       validate:"omitempty,url"`
	AdvertiserName string  `json:"advertiser_name,omitempty"`
	Budget         float64 `json:"budget"                    validate:"min=0"`
	Active         *bool   `json:"active,omitempty"`
}
