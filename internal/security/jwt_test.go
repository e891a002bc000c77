package security

import (
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(ttl time.Duration) *JWTManager {
	return NewJWTManager("soporte-api", "soporte-clients", testSecret, ttl)
}

func TestSignAndParseRoundTrip(t *testing.T) {
	mgr := newTestManager(time.Hour)
	raw, err := mgr.Sign(42, "ana@emmott.cl", "ADMIN")
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	claims, err := mgr.Parse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Email != "ana@emmott.cl" || claims.Role != "ADMIN" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("subject decode failed: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected subject 42, got %d", id)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	mgr := newTestManager(-time.Minute)
	raw, err := mgr.Sign(7, "old@emmott.cl", "ANALYST")
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := mgr.Parse(raw); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseRejectsForeignSecret(t *testing.T) {
	mgr := newTestManager(time.Hour)
	other := NewJWTManager("soporte-api", "soporte-clients",
		"ffffffffffffffffffffffffffffffff", time.Hour)
	raw, err := other.Sign(7, "x@emmott.cl", "QA")
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := mgr.Parse(raw); err == nil {
		t.Fatal("expected foreign-secret token to be rejected")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	mgr := newTestManager(time.Hour)
	if _, err := mgr.Parse("not.a.jwt"); err == nil {
		t.Fatal("expected garbage token to be rejected")
	}
}
