package apitest

import (
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pharmalink/pharmalink/internal/core/domain"
)

const lowStockThreshold = 10

type inventoryResponse struct {
	Message   string               `json:"message"`
	Inventory domain.InventoryItem `json:"inventory"`
}

// ownPharmacy resolves the pharmacy run by the calling pharmacist.
// The caller holds the store lock.
func (s *Server) ownPharmacy(c echo.Context) (*domain.Pharmacy, error) {
	p := s.store.pharmacyOf(userID(c))
	if p == nil {
		return nil, c.JSON(http.StatusNotFound, messageResponse{Message: "Pharmacy not found"})
	}
	return p, nil
}

func (s *Server) pharmacistDashboard(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	p, err := s.ownPharmacy(c)
	if p == nil {
		return err
	}

	out := domain.PharmacistDashboard{
		Pharmacy:           *p,
		RecentReservations: []domain.Reservation{},
		LowStockItems:      []domain.InventoryItem{},
	}

	var revenue float64
	for _, id := range newestFirst(s.store.reservations) {
		r := s.store.reservations[id]
		if r.PharmacyID != p.ID {
			continue
		}
		if r.Status == domain.ReservationPending {
			out.Stats.PendingReservations++
		}
		if r.Status == domain.ReservationCompleted {
			if line := s.store.stockLine(p.ID, r.MedicationID); line != nil {
				revenue += float64(r.Quantity) * line.Price
			}
		}
		if len(out.RecentReservations) < 5 {
			out.RecentReservations = append(out.RecentReservations, s.store.view(r))
		}
	}
	out.Stats.MonthlyRevenue = math.Round(revenue*100) / 100

	for _, id := range sortedKeys(s.store.inventory) {
		it := s.store.inventory[id]
		if it.PharmacyID != p.ID {
			continue
		}
		out.Stats.TotalMedications++
		if it.StockQuantity < lowStockThreshold {
			out.Stats.LowStockItems++
			out.LowStockItems = append(out.LowStockItems, s.store.inventoryView(it))
		}
	}
	sort.SliceStable(out.LowStockItems, func(i, j int) bool {
		return out.LowStockItems[i].StockQuantity < out.LowStockItems[j].StockQuantity
	})
	if len(out.LowStockItems) > 5 {
		out.LowStockItems = out.LowStockItems[:5]
	}

	return c.JSON(http.StatusOK, out)
}

func (s *Server) listInventory(c echo.Context) error {
	page, perPage := pageParams(c)
	search := strings.ToLower(c.QueryParam("search"))

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	p, err := s.ownPharmacy(c)
	if p == nil {
		return err
	}

	var items []domain.InventoryItem
	for _, id := range newestFirst(s.store.inventory) {
		it := s.store.inventory[id]
		if it.PharmacyID != p.ID {
			continue
		}
		view := s.store.inventoryView(it)
		if search != "" && (view.Medication == nil || !strings.Contains(strings.ToLower(view.Medication.Name), search)) {
			continue
		}
		items = append(items, view)
	}
	return c.JSON(http.StatusOK, paginate(items, page, perPage))
}

func (s *Server) addInventory(c echo.Context) error {
	var req domain.InventoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid payload"})
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	p, err := s.ownPharmacy(c)
	if p == nil {
		return err
	}
	if req.MedicationID == 0 {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Medication ID is required"})
	}
	if _, ok := s.store.medications[req.MedicationID]; !ok {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Medication not found"})
	}

	if line := s.store.stockLine(p.ID, req.MedicationID); line != nil {
		line.StockQuantity += req.StockQuantity
		line.Price = req.Price
		line.UpdatedAt = now()
	} else {
		id := s.store.id()
		s.store.inventory[id] = &domain.InventoryItem{
			ID:            id,
			PharmacyID:    p.ID,
			MedicationID:  req.MedicationID,
			StockQuantity: req.StockQuantity,
			Price:         req.Price,
			UpdatedAt:     now(),
		}
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Inventory updated successfully"})
}

func (s *Server) updateInventory(c echo.Context) error {
	var patch domain.InventoryPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid payload"})
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	p, err := s.ownPharmacy(c)
	if p == nil {
		return err
	}
	id, _ := pathID(c)
	it, ok := s.store.inventory[id]
	if !ok || it.PharmacyID != p.ID {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Inventory item not found"})
	}

	if patch.StockQuantity != nil {
		it.StockQuantity = *patch.StockQuantity
	}
	if patch.Price != nil {
		it.Price = *patch.Price
	}
	it.UpdatedAt = now()

	return c.JSON(http.StatusOK, inventoryResponse{
		Message:   "Inventory updated successfully",
		Inventory: s.store.inventoryView(it),
	})
}

func (s *Server) listPharmacyReservations(c echo.Context) error {
	page, perPage := pageParams(c)
	status := domain.ReservationStatus(c.QueryParam("status"))

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	p, err := s.ownPharmacy(c)
	if p == nil {
		return err
	}

	var items []domain.Reservation
	for _, id := range newestFirst(s.store.reservations) {
		r := s.store.reservations[id]
		if r.PharmacyID != p.ID || (status != "" && r.Status != status) {
			continue
		}
		items = append(items, s.store.view(r))
	}
	return c.JSON(http.StatusOK, paginate(items, page, perPage))
}

func (s *Server) updateReservationStatus(c echo.Context) error {
	var upd domain.StatusUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid payload"})
	}
	if upd.Status == "" {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Status is required"})
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	p, err := s.ownPharmacy(c)
	if p == nil {
		return err
	}
	id, _ := pathID(c)
	r, ok := s.store.reservations[id]
	if !ok || r.PharmacyID != p.ID {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Reservation not found"})
	}
	r.Status = upd.Status

	return c.JSON(http.StatusOK, reservationResponse{
		Message:     "Reservation status updated successfully",
		Reservation: s.store.view(r),
	})
}
