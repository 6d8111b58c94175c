package apitest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testSecret = func() []byte { return []byte("secret") }

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret())
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = httpErrorHandler
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(testSecret)(func(c echo.Context) error {
		called = true
		if userID(c) != 7 {
			t.Fatalf("user id not set, got %v", c.Get(ctxUserID))
		}
		if c.Get(ctxRole) != "pharmacist" {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuth_ValidToken(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"sub": "7", "role": "pharmacist", "exp": time.Now().Add(time.Hour).Unix()})

	rec, called := runAuth(t, "Bearer "+tok)
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuth_Rejections(t *testing.T) {
	expired := signed(t, jwt.MapClaims{"sub": "7", "role": "pharmacist", "exp": time.Now().Add(-time.Hour).Unix()})
	badSubject := signed(t, jwt.MapClaims{"sub": "seven", "role": "pharmacist"})

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "Missing Authorization Header"},
		{"wrong scheme", "Token abc", "Missing 'Bearer' type in 'Authorization' header"},
		{"garbage token", "Bearer not-a-token", "Invalid token"},
		{"expired token", "Bearer " + expired, "Token has expired"},
		{"non-numeric subject", "Bearer " + badSubject, "Invalid token subject"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, called := runAuth(t, tt.header)
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.message) {
				t.Fatalf("expected message %q, got %s", tt.message, rec.Body.String())
			}
		})
	}
}

func TestAuth_RejectsOtherAlgorithms(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"sub": "7", "role": "pharmacist"}).SignedString(testSecret())
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	rec, called := runAuth(t, "Bearer "+tok)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without reaching next, got %d", rec.Code)
	}
}

func TestRBAC_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ctxRole, "admin")

	called := false
	handler := RBAC("admin", "pharmacist")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ctxRole, "patient")

	handler := RBAC("admin")(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	_ = handler(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Access denied") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
