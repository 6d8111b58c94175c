// Package apitest runs an in-process stand-in for the PharmaLink REST
// service. It speaks the same contract (JWT bearer auth, role-scoped
// prefixes, {"message"} error envelopes, paginated lists) over seeded
// in-memory data, so client code can be exercised end to end in tests.
package apitest

import (
	"crypto/rand"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/pharmalink/pharmalink/internal/core/domain"
)

// RecordedRequest is what the stub saw of one incoming call.
type RecordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	RequestID     string
	ContentType   string
}

// Server is a running stub service. Close it when done.
type Server struct {
	*httptest.Server

	store    *store
	tokenTTL time.Duration

	mu       sync.Mutex
	key      []byte
	requests []RecordedRequest
}

// Option configures a Server.
type Option func(*Server)

// WithTokenTTL sets the lifetime of issued tokens. The default is 24h.
func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

// NewServer starts a stub service on a loopback port. Its API root is URL().
func NewServer(opts ...Option) *Server {
	s := &Server{
		store:    newStore(),
		tokenTTL: 24 * time.Hour,
		key:      newKey(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

// APIURL is the base address clients should be configured with.
func (s *Server) APIURL() string {
	return s.Server.URL + "/api"
}

// RevokeTokens rotates the signing key; every token issued so far is
// rejected with 401 from now on.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = newKey()
}

// Token issues a token for a seeded or registered user without a login call.
func (s *Server) Token(identity domain.Identity) (string, error) {
	return s.generateToken(identity)
}

// Requests returns a copy of every call received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent call, or the zero value when none arrived.
func (s *Server) LastRequest() RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}
	}
	return s.requests[len(s.requests)-1]
}

func (s *Server) secret() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			ContentType:   r.Header.Get("Content-Type"),
		})
		s.mu.Unlock()
		return next(c)
	}
}

// router builds the Echo instance with all routes registered.
func (s *Server) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpErrorHandler

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(s.record)

	api := e.Group("/api")

	// --- Health probe (no auth required) ---
	api.GET("/health", s.health)

	// --- Auth routes ---
	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)

	auth := Auth(s.secret)

	patient := api.Group("/patient", auth, RBAC(string(domain.RolePatient)))
	patient.GET("/pharmacies/search", s.searchPharmacies)
	patient.GET("/medications/search", s.searchMedications)
	patient.POST("/reservations", s.createReservation)
	patient.GET("/reservations", s.listReservations)
	patient.GET("/reservations/:id", s.getReservation)
	patient.PUT("/reservations/:id/cancel", s.cancelReservation)

	pharmacist := api.Group("/pharmacist", auth, RBAC(string(domain.RolePharmacist)))
	pharmacist.GET("/dashboard", s.pharmacistDashboard)
	pharmacist.GET("/inventory", s.listInventory)
	pharmacist.POST("/inventory", s.addInventory)
	pharmacist.PUT("/inventory/:id", s.updateInventory)
	pharmacist.GET("/reservations", s.listPharmacyReservations)
	pharmacist.PUT("/reservations/:id", s.updateReservationStatus)

	admin := api.Group("/admin", auth, RBAC(string(domain.RoleAdmin)))
	admin.GET("/dashboard", s.adminDashboard)
	admin.GET("/users", s.listUsers)
	admin.PUT("/users/:id", s.updateUser)
	admin.GET("/pharmacies", s.listPharmacies)
	admin.GET("/subscriptions", s.listSubscriptions)
	admin.GET("/advertisements", s.listAdvertisements)
	admin.POST("/advertisements", s.createAdvertisement)
	admin.GET("/analytics", s.analytics)

	return e
}

func newKey() []byte {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}
	return key
}
