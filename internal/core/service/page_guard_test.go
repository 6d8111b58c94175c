package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/pharmalink/pharmalink/internal/core/domain"
)

func newGuard(t *testing.T, identity *domain.Identity, token string) (*PageGuard, *stubStore) {
	t.Helper()
	store := newStubStore()
	if identity != nil {
		raw, err := json.Marshal(identity)
		if err != nil {
			t.Fatalf("marshal identity: %v", err)
		}
		store.values[KeyCurrentUser] = string(raw)
		store.values[KeyAccessToken] = token
	}
	sm := NewSessionManager(store, zerolog.Nop())
	return NewPageGuard(sm, zerolog.Nop()), store
}

func TestPageGuard_Boot(t *testing.T) {
	ctx := context.Background()
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name     string
		identity *domain.Identity
		token    string
		required domain.Role
		redirect domain.Destination
		cleared  bool
	}{
		{name: "anonymous", required: domain.RolePatient, redirect: domain.DestinationLogin},
		{name: "matching role", identity: &john, token: "tok1", required: domain.RolePatient},
		{name: "role mismatch", identity: &john, token: "tok1", required: domain.RoleAdmin, redirect: domain.DestinationLogin},
		{name: "expired token", identity: &john, token: expired, required: domain.RolePatient, redirect: domain.DestinationLogin, cleared: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, store := newGuard(t, tt.identity, tt.token)
			res, err := g.Boot(ctx, tt.required)
			if err != nil {
				t.Fatalf("Boot returned error: %v", err)
			}
			if res.Redirect != tt.redirect {
				t.Fatalf("redirect = %q, want %q", res.Redirect, tt.redirect)
			}
			if res.Allowed() != (tt.redirect == "") {
				t.Fatalf("Allowed() inconsistent with redirect")
			}
			_, stored := store.values[KeyCurrentUser]
			if tt.cleared && stored {
				t.Fatalf("expired session should be cleared")
			}
			if !tt.cleared && tt.identity != nil && !stored {
				t.Fatalf("session should be kept")
			}
		})
	}
}

func TestPageGuard_BootLogin(t *testing.T) {
	ctx := context.Background()

	g, _ := newGuard(t, nil, "")
	res, err := g.BootLogin(ctx)
	if err != nil || !res.Allowed() {
		t.Fatalf("anonymous login page should render, got %+v, %v", res, err)
	}

	g, _ = newGuard(t, &john, "tok1")
	res, err = g.BootLogin(ctx)
	if err != nil {
		t.Fatalf("BootLogin: %v", err)
	}
	if res.Redirect != domain.DestinationPatientHome {
		t.Fatalf("logged-in patient should go home, got %q", res.Redirect)
	}

	stranger := domain.Identity{ID: 9, Name: "X", Role: "doctor"}
	g, store := newGuard(t, &stranger, "tok9")
	res, err = g.BootLogin(ctx)
	if err != nil || !res.Allowed() {
		t.Fatalf("unknown role should stay on login, got %+v, %v", res, err)
	}
	if len(store.values) != 0 {
		t.Fatalf("unknown role session should be cleared, got %v", store.values)
	}
}

func TestPageGuard_Logout(t *testing.T) {
	g, store := newGuard(t, &john, "tok1")
	dest, err := g.Logout(context.Background())
	if err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if dest != domain.DestinationIndex {
		t.Fatalf("logout destination = %q", dest)
	}
	if len(store.values) != 0 {
		t.Fatalf("logout should clear the store, got %v", store.values)
	}
}
