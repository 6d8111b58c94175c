package apitest

import (
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pharmalink/pharmalink/internal/core/domain"
)

type reservationResponse struct {
	Message     string             `json:"message,omitempty"`
	Reservation domain.Reservation `json:"reservation"`
}

type medicationsResponse struct {
	Medications []domain.Medication `json:"medications"`
}

// pageParams reads page and per_page, falling back to the service defaults.
func pageParams(c echo.Context) (page, perPage int) {
	page, perPage = 1, 10
	_ = echo.QueryParamsBinder(c).Int("page", &page).Int("per_page", &perPage).BindError()
	return page, perPage
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}

func (s *Server) searchPharmacies(c echo.Context) error {
	name := c.QueryParam("medication")
	if name == "" {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Medication name is required"})
	}

	var lat, lng *float64
	if v, err := strconv.ParseFloat(c.QueryParam("lat"), 64); err == nil {
		lat = &v
	}
	if v, err := strconv.ParseFloat(c.QueryParam("lng"), 64); err == nil {
		lng = &v
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	med := s.store.medicationByName(name)
	if med == nil {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Medication not found"})
	}

	var results []domain.Pharmacy
	for _, id := range sortedKeys(s.store.inventory) {
		it := s.store.inventory[id]
		if it.MedicationID != med.ID || it.StockQuantity <= 0 {
			continue
		}
		p, ok := s.store.pharmacies[it.PharmacyID]
		if !ok {
			continue
		}
		row := *p
		row.Price = ptr(it.Price)
		row.Stock = ptr(it.StockQuantity)
		if lat != nil && lng != nil && p.Latitude != nil && p.Longitude != nil {
			row.Distance = ptr(haversine(*lat, *lng, *p.Latitude, *p.Longitude))
		}
		results = append(results, row)
	}
	if len(results) == 0 {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "No pharmacies found with this medication in stock"})
	}

	if lat != nil && lng != nil {
		sort.SliceStable(results, func(i, j int) bool {
			return distanceOrInf(results[i]) < distanceOrInf(results[j])
		})
	} else {
		sort.SliceStable(results, func(i, j int) bool { return *results[i].Price < *results[j].Price })
	}

	return c.JSON(http.StatusOK, domain.PharmacySearchResult{Medication: *med, Pharmacies: results})
}

func distanceOrInf(p domain.Pharmacy) float64 {
	if p.Distance == nil {
		return math.Inf(1)
	}
	return *p.Distance
}

// haversine returns the great-circle distance in km, rounded to 2 places.
func haversine(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371
	rad := func(d float64) float64 { return d * math.Pi / 180 }

	dlat := rad(lat2 - lat1)
	dlng := rad(lng2 - lng1)
	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dlng/2)*math.Sin(dlng/2)
	d := earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return math.Round(d*100) / 100
}

func (s *Server) searchMedications(c echo.Context) error {
	q := c.QueryParam("q")
	out := medicationsResponse{Medications: []domain.Medication{}}
	if len(q) < 2 {
		return c.JSON(http.StatusOK, out)
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for _, id := range sortedKeys(s.store.medications) {
		m := s.store.medications[id]
		if strings.Contains(strings.ToLower(m.Name), strings.ToLower(q)) {
			out.Medications = append(out.Medications, *m)
		}
		if len(out.Medications) == 10 {
			break
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createReservation(c echo.Context) error {
	var req domain.ReservationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid payload"})
	}
	if req.PharmacyID == 0 || req.MedicationID == 0 {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Pharmacy and medication are required"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	line := s.store.stockLine(req.PharmacyID, req.MedicationID)
	if line == nil || line.StockQuantity < req.Quantity {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Not enough stock available"})
	}
	line.StockQuantity -= req.Quantity

	r := &domain.Reservation{
		ID:            s.store.id(),
		UserID:        userID(c),
		PharmacyID:    req.PharmacyID,
		MedicationID:  req.MedicationID,
		Quantity:      req.Quantity,
		Status:        domain.ReservationPending,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
		CreatedAt:     now(),
	}
	s.store.reservations[r.ID] = r

	return c.JSON(http.StatusCreated, reservationResponse{
		Message:     "Reservation created successfully",
		Reservation: s.store.view(r),
	})
}

func (s *Server) listReservations(c echo.Context) error {
	page, perPage := pageParams(c)
	uid := userID(c)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var items []domain.Reservation
	for _, id := range newestFirst(s.store.reservations) {
		if r := s.store.reservations[id]; r.UserID == uid {
			items = append(items, s.store.view(r))
		}
	}
	return c.JSON(http.StatusOK, paginate(items, page, perPage))
}

// ownReservation finds a reservation belonging to the calling patient.
// The caller holds the store lock.
func (s *Server) ownReservation(c echo.Context) (*domain.Reservation, bool) {
	id, ok := pathID(c)
	if !ok {
		return nil, false
	}
	r, ok := s.store.reservations[id]
	if !ok || r.UserID != userID(c) {
		return nil, false
	}
	return r, true
}

func (s *Server) getReservation(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	r, ok := s.ownReservation(c)
	if !ok {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Reservation not found"})
	}
	return c.JSON(http.StatusOK, reservationResponse{Reservation: s.store.view(r)})
}

func (s *Server) cancelReservation(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	r, ok := s.ownReservation(c)
	if !ok {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Reservation not found"})
	}
	if !r.Status.Cancellable() {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Cannot cancel this reservation"})
	}

	if line := s.store.stockLine(r.PharmacyID, r.MedicationID); line != nil {
		line.StockQuantity += r.Quantity
	}
	r.Status = domain.ReservationCancelled

	return c.JSON(http.StatusOK, reservationResponse{
		Message:     "Reservation cancelled successfully",
		Reservation: s.store.view(r),
	})
}

// newestFirst orders ids by descending id, which tracks creation order.
func newestFirst[V any](m map[int64]V) []int64 {
	ids := sortedKeys(m)
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}
