package domain

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signToken(t, jwt.MapClaims{"sub": "1", "exp": exp.Unix()})

	got, ok := TokenExpiry(tok)
	if !ok {
		t.Fatalf("expected exp to be read")
	}
	if !got.Equal(exp) {
		t.Fatalf("exp = %v, want %v", got, exp)
	}
}

func TestTokenExpiry_Opaque(t *testing.T) {
	for _, tok := range []string{"", "tok1", "a.b.c", signToken(t, jwt.MapClaims{"sub": "1"})} {
		if _, ok := TokenExpiry(tok); ok {
			t.Fatalf("TokenExpiry(%q) should report no expiry", tok)
		}
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	past := signToken(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()})
	future := signToken(t, jwt.MapClaims{"exp": now.Add(time.Minute).Unix()})

	if !TokenExpired(past, now) {
		t.Fatalf("token with past exp should be expired")
	}
	if TokenExpired(future, now) {
		t.Fatalf("token with future exp should not be expired")
	}
	if TokenExpired("tok1", now) {
		t.Fatalf("opaque tokens never expire client-side")
	}
}
