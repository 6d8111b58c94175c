package domain

// Subscription is a pharmacy's premium plan.
type Subscription struct {
	ID         int64   `json:"id"`
	PharmacyID int64   `json:"pharmacy_id"`
	PlanType   string  `json:"plan_type,omitempty"`
	Amount     float64 `json:"amount"`
	StartDate  string  `json:"start_date,omitempty"`
	EndDate    string  `json:"end_date,omitempty"`
	Status     string  `json:"status"`
}

// Advertisement is a sponsored banner managed by admins.
type Advertisement struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Content        string  `json:"content,omitempty"`
	ImageURL       string  `json:"image_url,omitempty"`
	AdvertiserName string  `json:"advertiser_name,omitempty"`
	Budget         float64 `json:"budget"`
	Clicks         int     `json:"clicks"`
	Impressions    int     `json:"impressions"`
	Active         bool    `json:"active"`
	CreatedAt      string  `json:"created_at,omitempty"`
}

// AdminStats are the headline numbers of the admin dashboard.
type AdminStats struct {
	TotalPharmacies      int     `json:"total_pharmacies"`
	PremiumSubscriptions int     `json:"premium_subscriptions"`
	TotalRevenue         float64 `json:"total_revenue"`
	TotalUsers           int     `json:"total_users"`
}

// AdminDashboard is the landing payload of the admin page.
type AdminDashboard struct {
	Stats              AdminStats    `json:"stats"`
	RecentReservations []Reservation `json:"recent_reservations"`
	RecentUsers        []Identity    `json:"recent_users"`
}

// PopularMedication counts reservations for one medication over a period.
type PopularMedication struct {
	Name             string `json:"name"`
	ReservationCount int    `json:"reservation_count"`
}

// Period bounds an analytics window.
type Period struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Analytics summarises the last 30 days of activity.
type Analytics struct {
	Period             Period              `json:"period"`
	UserRegistrations  int                 `json:"user_registrations"`
	Reservations       int                 `json:"reservations"`
	Revenue            float64             `json:"revenue"`
	PopularMedications []PopularMedication `json:"popular_medications"`
}

// Page is the paginated collection envelope used by every list endpoint.
type Page[T any] struct {
	Items   []T `json:"items"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}
