package memory

import (
	"context"
	"testing"
)

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()

	if err := s.Save(ctx, map[string]string{"currentUser": "{}", "accessToken": "tok1"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx, "currentUser", "accessToken", "other")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 || got["accessToken"] != "tok1" {
		t.Fatalf("unexpected values %v", got)
	}

	if err := s.Remove(ctx, "currentUser", "accessToken"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	got, _ = s.Load(ctx, "currentUser", "accessToken")
	if len(got) != 0 {
		t.Fatalf("expected empty store, got %v", got)
	}
}
