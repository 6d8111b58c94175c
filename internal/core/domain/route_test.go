package domain

import (
	"errors"
	"testing"
)

func TestRouteForRole_FixedDestinations(t *testing.T) {
	tests := map[Role]Destination{
		RolePatient:    "patient.html",
		RolePharmacist: "pharmacist.html",
		RoleAdmin:      "admin.html",
	}
	for role, want := range tests {
		for i := 0; i < 3; i++ {
			got, err := RouteForRole(Identity{ID: 1, Name: "x", Role: role})
			if err != nil {
				t.Fatalf("RouteForRole(%s) returned error: %v", role, err)
			}
			if got != want {
				t.Fatalf("RouteForRole(%s) = %s, want %s", role, got, want)
			}
		}
	}
}

func TestRouteForRole_UnknownRole(t *testing.T) {
	for _, role := range []Role{"", "Patient", "doctor"} {
		dest, err := RouteForRole(Identity{Role: role})
		if !errors.Is(err, ErrUnknownRole) {
			t.Fatalf("RouteForRole(%q): expected ErrUnknownRole, got %v", role, err)
		}
		if dest != "" {
			t.Fatalf("RouteForRole(%q): expected no destination, got %s", role, dest)
		}
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range Roles {
		if !r.Valid() {
			t.Fatalf("%s should be valid", r)
		}
	}
	if Role("ADMIN").Valid() {
		t.Fatalf("role comparison must be case-sensitive")
	}
}

func TestErrors_Matching(t *testing.T) {
	var err error = &UnauthenticatedError{Method: "PUT", Path: "/pharmacist/inventory/3", Message: "Token has expired"}
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("UnauthenticatedError should match ErrUnauthenticated")
	}

	cause := errors.New("connection refused")
	err = &NetworkError{Method: "GET", Path: "/health", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("NetworkError should unwrap to its cause")
	}

	ve := &ValidationError{Fields: map[string]string{"password": "password is required", "email": "email is required"}}
	if ve.Error() != "email is required; password is required" {
		t.Fatalf("unexpected validation message %q", ve.Error())
	}
}
