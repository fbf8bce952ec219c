package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

func TestGenerateAndParseToken(t *testing.T) {
	Configure("test-secret", time.Minute)

	token, err := GenerateToken(models.User{ID: 7, Username: "clerk", Role: "user"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parsed, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if username, role := Claims(parsed); username != "clerk" || role != "user" {
		t.Errorf("claims = %q, %q", username, role)
	}
}

func TestParseTokenRejects(t *testing.T) {
	Configure("test-secret", time.Minute)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Minute).Unix()})
	forged, _ := other.SignedString([]byte("another-secret"))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()})
	stale, _ := expired.SignedString([]byte("test-secret"))

	for name, tok := range map[string]string{"garbage": "abc", "wrong secret": forged, "expired": stale} {
		if _, err := ParseToken(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "s3cret") || CheckPassword(hash, "wrong") {
		t.Error("password check mismatch")
	}
}
