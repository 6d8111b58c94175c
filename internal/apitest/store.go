package apitest

import (
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pharmalink/pharmalink/internal/core/domain"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password"

// Seeded account emails.
const (
	PatientEmail    = "patient@example.com"
	PharmacistEmail = "pharmacist@example.com"
	AdminEmail      = "admin@example.com"
)

type account struct {
	identity     domain.Identity
	passwordHash []byte
}

// store is the in-memory state of the stub service.
type store struct {
	mu sync.Mutex

	nextID        int64
	accounts      map[int64]*account
	pharmacies    map[int64]*domain.Pharmacy
	owners        map[int64]int64 // pharmacy id -> owner user id
	medications   map[int64]*domain.Medication
	inventory     map[int64]*domain.InventoryItem
	reservations  map[int64]*domain.Reservation
	subscriptions map[int64]*domain.Subscription
	ads           map[int64]*domain.Advertisement
}

func newStore() *store {
	s := &store{
		nextID:        100,
		accounts:      make(map[int64]*account),
		pharmacies:    make(map[int64]*domain.Pharmacy),
		owners:        make(map[int64]int64),
		medications:   make(map[int64]*domain.Medication),
		inventory:     make(map[int64]*domain.InventoryItem),
		reservations:  make(map[int64]*domain.Reservation),
		subscriptions: make(map[int64]*domain.Subscription),
		ads:           make(map[int64]*domain.Advertisement),
	}
	s.seed()
	return s
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func ptr[T any](v T) *T { return &v }

func (s *store) seed() {
	s.addAccount(domain.Identity{ID: 1, Email: PatientEmail, Name: "John Patient", Role: domain.RolePatient, Phone: "+254712345678"}, DemoPassword)
	s.addAccount(domain.Identity{ID: 2, Email: PharmacistEmail, Name: "Sarah Pharmacist", Role: domain.RolePharmacist, Phone: "+254723456789"}, DemoPassword)
	s.addAccount(domain.Identity{ID: 3, Email: AdminEmail, Name: "Admin User", Role: domain.RoleAdmin, Phone: "+254734567890"}, DemoPassword)

	meds := []domain.Medication{
		{ID: 1, Name: "Panadol", Category: "Pain Relief", GenericName: "Paracetamol"},
		{ID: 2, Name: "Augmentin", Category: "Antibiotic", GenericName: "Amoxicillin/Clavulanate"},
		{ID: 3, Name: "Metformin", Category: "Diabetes", GenericName: "Metformin Hydrochloride"},
		{ID: 4, Name: "Omeprazole", Category: "Acid Reflux", GenericName: "Omeprazole"},
		{ID: 5, Name: "Amoxicillin", Category: "Antibiotic", GenericName: "Amoxicillin"},
		{ID: 6, Name: "Ventolin", Category: "Asthma", GenericName: "Salbutamol"},
		{ID: 7, Name: "Losartan", Category: "Blood Pressure", GenericName: "Losartan Potassium"},
	}
	for i := range meds {
		m := meds[i]
		s.medications[m.ID] = &m
	}

	pharmacies := []domain.Pharmacy{
		{ID: 1, Name: "Goodlife Pharmacy Westlands", Address: "ABC Place, Waiyaki Way, Nairobi", Phone: "+254 711 123456", Latitude: ptr(-1.265590), Longitude: ptr(36.807350), SubscriptionStatus: "active"},
		{ID: 2, Name: "Pharmaceutical Access Ltd", Address: "Kimathi Street, CBD, Nairobi", Phone: "+254 722 789012", Latitude: ptr(-1.285270), Longitude: ptr(36.821350), SubscriptionStatus: "inactive"},
		{ID: 3, Name: "Mediheal Pharmacy", Address: "Mombasa Road, Nairobi", Phone: "+254 733 456789", Latitude: ptr(-1.319240), Longitude: ptr(36.854870), SubscriptionStatus: "inactive"},
	}
	for i := range pharmacies {
		p := pharmacies[i]
		p.CreatedAt = now()
		s.pharmacies[p.ID] = &p
	}
	s.owners[1] = 2

	stock := []domain.InventoryItem{
		{ID: 1, PharmacyID: 1, MedicationID: 1, StockQuantity: 25, Price: 450},
		{ID: 2, PharmacyID: 1, MedicationID: 5, StockQuantity: 15, Price: 620},
		{ID: 3, PharmacyID: 1, MedicationID: 3, StockQuantity: 30, Price: 550},
		{ID: 4, PharmacyID: 2, MedicationID: 1, StockQuantity: 18, Price: 420},
		{ID: 5, PharmacyID: 2, MedicationID: 2, StockQuantity: 12, Price: 750},
		{ID: 6, PharmacyID: 3, MedicationID: 1, StockQuantity: 5, Price: 480},
		{ID: 7, PharmacyID: 3, MedicationID: 6, StockQuantity: 8, Price: 850},
	}
	for i := range stock {
		it := stock[i]
		it.UpdatedAt = now()
		s.inventory[it.ID] = &it
	}

	s.reservations[1] = &domain.Reservation{ID: 1, UserID: 1, PharmacyID: 1, MedicationID: 1, Quantity: 2, Status: domain.ReservationPending, CreatedAt: now()}
	s.reservations[2] = &domain.Reservation{ID: 2, UserID: 1, PharmacyID: 2, MedicationID: 2, Quantity: 1, Status: domain.ReservationCompleted, CreatedAt: now()}

	s.subscriptions[1] = &domain.Subscription{ID: 1, PharmacyID: 1, PlanType: "monthly", Amount: 5000, Status: "active", StartDate: now()}
	s.ads[1] = &domain.Advertisement{ID: 1, Title: "Flu season", AdvertiserName: "Goodlife", Budget: 20000, Active: true, CreatedAt: now()}
}

func (s *store) addAccount(identity domain.Identity, password string) *account {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	if identity.CreatedAt == "" {
		identity.CreatedAt = now()
	}
	a := &account{identity: identity, passwordHash: hash}
	s.accounts[identity.ID] = a
	return a
}

func (s *store) accountByEmail(email string) *account {
	for _, a := range s.accounts {
		if strings.EqualFold(a.identity.Email, email) {
			return a
		}
	}
	return nil
}

func (s *store) pharmacyOf(userID int64) *domain.Pharmacy {
	for pid, owner := range s.owners {
		if owner == userID {
			return s.pharmacies[pid]
		}
	}
	return nil
}

func (s *store) medicationByName(name string) *domain.Medication {
	for _, id := range sortedKeys(s.medications) {
		m := s.medications[id]
		if strings.Contains(strings.ToLower(m.Name), strings.ToLower(name)) {
			return m
		}
	}
	return nil
}

func (s *store) stockLine(pharmacyID, medicationID int64) *domain.InventoryItem {
	for _, it := range s.inventory {
		if it.PharmacyID == pharmacyID && it.MedicationID == medicationID {
			return it
		}
	}
	return nil
}

// view fills the nested objects a reservation is rendered with.
func (s *store) view(r *domain.Reservation) domain.Reservation {
	out := *r
	if m, ok := s.medications[r.MedicationID]; ok {
		out.Medication = ptr(*m)
	}
	if p, ok := s.pharmacies[r.PharmacyID]; ok {
		out.Pharmacy = ptr(*p)
	}
	return out
}

func (s *store) inventoryView(it *domain.InventoryItem) domain.InventoryItem {
	out := *it
	if m, ok := s.medications[it.MedicationID]; ok {
		out.Medication = ptr(*m)
	}
	return out
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// paginate slices items the way the service does: 1-based pages, 10 per page
// by default, and an empty page past the end.
func paginate[T any](items []T, page, perPage int) domain.Page[T] {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	total := len(items)
	pages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return domain.Page[T]{
		Items:   append([]T{}, items[start:end]...),
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   pages,
	}
}
