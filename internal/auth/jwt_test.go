package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := TokenIssuer{Secret: "test-secret", TTL: time.Hour}
	token, err := issuer.Generate("user-1", "ops@example.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	userID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("user id got %q", userID)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := TokenIssuer{Secret: "secret-a", TTL: time.Hour}.Generate("user-1", "ops@example.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := (TokenIssuer{Secret: "secret-b"}).Verify(token); err == nil {
		t.Fatal("expected verification failure with wrong secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := (TokenIssuer{Secret: "secret"}).Verify(token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := (TokenIssuer{Secret: "secret"}).Verify("not-a-token"); err == nil {
		t.Fatal("expected garbage token to fail")
	}
}
