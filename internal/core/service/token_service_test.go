package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/atelierbois/portfolio/internal/core/domain"
)

func TestPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("oak2024")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "oak2024" {
		t.Fatal("expected password to be hashed")
	}
	if !VerifyPassword("oak2024", hash) {
		t.Fatal("expected matching password to verify")
	}
	if VerifyPassword("oak2025", hash) {
		t.Fatal("expected different password to be rejected")
	}
	if VerifyPassword("oak2024", "not-a-hash") {
		t.Fatal("expected malformed hash to be rejected")
	}
}

func TestPassword_LongerThanBcryptLimit(t *testing.T) {
	cases := map[string]string{
		"80 chars":        strings.Repeat("a1", 40),
		"128 multibyte":   strings.Repeat("é", 128),
		"max length only": strings.Repeat("x", domain.MaxPasswordLength),
	}
	for name, pw := range cases {
		hash, err := HashPassword(pw)
		if err != nil {
			t.Fatalf("%s: HashPassword returned error: %v", name, err)
		}
		if !VerifyPassword(pw, hash) {
			t.Fatalf("%s: expected password to verify", name)
		}
		// differs only after byte 72
		if VerifyPassword(pw[:len(pw)-1]+"!", hash) {
			t.Fatalf("%s: expected tail change to be rejected", name)
		}
	}
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret")

	token, err := svc.Issue("u1", "ana@example.com", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "ana@example.com" || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if got := claims.Expiry.Sub(claims.IssuedAt); got != TokenTTL {
		t.Fatalf("expected lifetime %v, got %v", TokenTTL, got)
	}
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("secret")
	issued := time.Now().Add(-TokenTTL - time.Minute)
	svc.now = func() time.Time { return issued }

	token, err := svc.Issue("u1", "ana@example.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.Verify(token); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestJWTService_RejectsForeignTokens(t *testing.T) {
	svc := NewJWTService("secret")
	other := NewJWTService("other-secret")

	foreign, _ := other.Issue("u1", "ana@example.com", domain.RoleUser)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId": "u1",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": "u1"})
	withoutExpiry, _ := noExp.SignedString([]byte("secret"))

	cases := map[string]string{
		"empty":          "",
		"garbage":        "not.a.token",
		"wrong secret":   foreign,
		"alg none":       unsigned,
		"missing expiry": withoutExpiry,
	}
	for name, token := range cases {
		if _, err := svc.Verify(token); err != domain.ErrInvalidToken {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}
