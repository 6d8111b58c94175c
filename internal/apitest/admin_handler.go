package apitest

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pharmalink/pharmalink/internal/core/domain"
)

type userResponse struct {
	Message string          `json:"message"`
	User    domain.Identity `json:"user"`
}

type advertisementResponse struct {
	Message       string               `json:"message"`
	Advertisement domain.Advertisement `json:"advertisement"`
}

func (s *Server) adminDashboard(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := domain.AdminDashboard{
		Stats: domain.AdminStats{
			TotalPharmacies: len(s.store.pharmacies),
			TotalUsers:      len(s.store.accounts),
		},
		RecentReservations: []domain.Reservation{},
		RecentUsers:        []domain.Identity{},
	}
	for _, sub := range s.store.subscriptions {
		if sub.Status == "active" {
			out.Stats.PremiumSubscriptions++
			out.Stats.TotalRevenue += sub.Amount
		}
	}
	for _, id := range newestFirst(s.store.reservations) {
		if len(out.RecentReservations) == 5 {
			break
		}
		out.RecentReservations = append(out.RecentReservations, s.store.view(s.store.reservations[id]))
	}
	for _, id := range newestFirst(s.store.accounts) {
		if len(out.RecentUsers) == 5 {
			break
		}
		out.RecentUsers = append(out.RecentUsers, s.store.accounts[id].identity)
	}

	return c.JSON(http.StatusOK, out)
}

func (s *Server) listUsers(c echo.Context) error {
	page, perPage := pageParams(c)
	role := c.QueryParam("role")
	search := strings.ToLower(c.QueryParam("search"))

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var items []domain.Identity
	for _, id := range newestFirst(s.store.accounts) {
		u := s.store.accounts[id].identity
		if role != "" && string(u.Role) != role {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Name), search) && !strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		items = append(items, u)
	}
	return c.JSON(http.StatusOK, paginate(items, page, perPage))
}

func (s *Server) updateUser(c echo.Context) error {
	var patch domain.UserPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid payload"})
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	id, _ := pathID(c)
	a, ok := s.store.accounts[id]
	if !ok {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "User not found"})
	}
	if patch.Role != nil {
		a.identity.Role = *patch.Role
	}
	if patch.Name != nil {
		a.identity.Name = *patch.Name
	}
	if patch.Phone != nil {
		a.identity.Phone = *patch.Phone
	}

	return c.JSON(http.StatusOK, userResponse{Message: "User updated successfully", User: a.identity})
}

func (s *Server) listPharmacies(c echo.Context) error {
	page, perPage := pageParams(c)
	status := c.QueryParam("subscription_status")
	search := strings.ToLower(c.QueryParam("search"))

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var items []domain.Pharmacy
	for _, id := range newestFirst(s.store.pharmacies) {
		p := s.store.pharmacies[id]
		if status != "" && p.SubscriptionStatus != status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		items = append(items, *p)
	}
	return c.JSON(http.StatusOK, paginate(items, page, perPage))
}

func (s *Server) listSubscriptions(c echo.Context) error {
	page, perPage := pageParams(c)
	status := c.QueryParam("status")

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var items []domain.Subscription
	for _, id := range newestFirst(s.store.subscriptions) {
		sub := s.store.subscriptions[id]
		if status != "" && sub.Status != status {
			continue
		}
		items = append(items, *sub)
	}
	return c.JSON(http.StatusOK, paginate(items, page, perPage))
}

func (s *Server) listAdvertisements(c echo.Context) error {
	page, perPage := pageParams(c)
	var active *bool
	if v, err := strconv.ParseBool(c.QueryParam("active")); err == nil {
		active = &v
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var items []domain.Advertisement
	for _, id := range newestFirst(s.store.ads) {
		ad := s.store.ads[id]
		if active != nil && ad.Active != *active {
			continue
		}
		items = append(items, *ad)
	}
	return c.JSON(http.StatusOK, paginate(items, page, perPage))
}

func (s *Server) createAdvertisement(c echo.Context) error {
	var req domain.AdvertisementRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid payload"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Title is required"})
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	ad := &domain.Advertisement{
		ID:             s.store.id(),
		Title:          req.Title,
		Content:        req.Content,
		ImageURL:       req.ImageURL,
		AdvertiserName: req.AdvertiserName,
		Budget:         req.Budget,
		Active:         req.Active == nil || *req.Active,
		CreatedAt:      now(),
	}
	s.store.ads[ad.ID] = ad

	return c.JSON(http.StatusCreated, advertisementResponse{
		Message:       "Advertisement created successfully",
		Advertisement: *ad,
	})
}

// analytics reports the last 30 days. Every seeded record falls inside the window.
func (s *Server) analytics(c echo.Context) error {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)
	inWindow := func(ts string) bool {
		t, err := time.Parse(time.RFC3339, ts)
		return err == nil && !t.Before(start.Truncate(time.Second)) && !t.After(end.Add(time.Second))
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := domain.Analytics{
		Period: domain.Period{
			StartDate: start.Format(time.RFC3339),
			EndDate:   end.Format(time.RFC3339),
		},
		PopularMedications: []domain.PopularMedication{},
	}
	for _, a := range s.store.accounts {
		if inWindow(a.identity.CreatedAt) {
			out.UserRegistrations++
		}
	}

	counts := make(map[int64]int)
	for _, r := range s.store.reservations {
		if inWindow(r.CreatedAt) {
			out.Reservations++
			counts[r.MedicationID]++
		}
	}
	for _, sub := range s.store.subscriptions {
		if inWindow(sub.StartDate) {
			out.Revenue += sub.Amount
		}
	}

	for medID, n := range counts {
		if m, ok := s.store.medications[medID]; ok {
			out.PopularMedications = append(out.PopularMedications, domain.PopularMedication{Name: m.Name, ReservationCount: n})
		}
	}
	sort.Slice(out.PopularMedications, func(i, j int) bool {
		a, b := out.PopularMedications[i], out.PopularMedications[j]
		if a.ReservationCount != b.ReservationCount {
			return a.ReservationCount > b.ReservationCount
		}
		return a.Name < b.Name
	})
	if len(out.PopularMedications) > 5 {
		out.PopularMedications = out.PopularMedications[:5]
	}

	return c.JSON(http.StatusOK, out)
}
