package apitest

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pharmalink/pharmalink/internal/core/domain"
)

func get(t *testing.T, srv *Server, path, token string) (int, messageResponse) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.APIURL()+path, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	var body messageResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestServer_RoleRouting(t *testing.T) {
	srv := NewServer()
	defer srv.Close()

	token, err := srv.Token(domain.Identity{ID: 1, Role: domain.RolePatient})
	if err != nil {
		t.Fatalf("Token: %v", err)
	}

	if code, _ := get(t, srv, "/patient/reservations", token); code != http.StatusOK {
		t.Fatalf("patient route: expected 200, got %d", code)
	}
	code, body := get(t, srv, "/admin/dashboard", token)
	if code != http.StatusForbidden || body.Message != "Access denied: insufficient permissions" {
		t.Fatalf("admin route: got %d %q", code, body.Message)
	}
	code, body = get(t, srv, "/patient/reservations", "")
	if code != http.StatusUnauthorized || body.Message != "Missing Authorization Header" {
		t.Fatalf("anonymous: got %d %q", code, body.Message)
	}

	srv.RevokeTokens()
	code, body = get(t, srv, "/patient/reservations", token)
	if code != http.StatusUnauthorized || body.Message != "Invalid token" {
		t.Fatalf("revoked: got %d %q", code, body.Message)
	}

	if code, body = get(t, srv, "/nowhere", ""); code != http.StatusNotFound || body.Message != "Resource not found" {
		t.Fatalf("unknown route: got %d %q", code, body.Message)
	}
	if len(srv.Requests()) != 5 {
		t.Fatalf("expected 5 recorded requests, got %d", len(srv.Requests()))
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := paginate(items, 2, 2)
	if p.Total != 5 || p.Pages != 3 || len(p.Items) != 2 || p.Items[0] != 3 {
		t.Fatalf("unexpected page %+v", p)
	}
	p = paginate(items, 9, 2)
	if len(p.Items) != 0 || p.Page != 9 {
		t.Fatalf("past the end should be empty, got %+v", p)
	}
	p = paginate([]int(nil), 0, 0)
	if p.Page != 1 || p.PerPage != 10 || p.Pages != 0 || p.Items == nil {
		t.Fatalf("defaults not applied: %+v", p)
	}
}
