package auth_test

import (
	"testing"
	"time"

	"eventboard/internal/auth"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := auth.NewManager("test-secret", time.Minute)

	token, err := m.GenerateAccessToken("user-1", "ada@example.com", "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Fatalf("got user %q", claims.UserID)
	}
	if claims.Email != "ada@example.com" {
		t.Fatalf("got email %q", claims.Email)
	}
	if claims.Role != "admin" {
		t.Fatalf("got role %q", claims.Role)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := auth.NewManager("secret-a", time.Minute)
	verifier := auth.NewManager("secret-b", time.Minute)

	token, err := issuer.GenerateAccessToken("user-1", "ada@example.com", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := verifier.VerifyAccessToken(token); err == nil {
		t.Fatal("token signed with another secret was accepted")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := auth.NewManager("test-secret", -time.Minute)

	token, err := m.GenerateAccessToken("user-1", "ada@example.com", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.VerifyAccessToken(token); err == nil {
		t.Fatal("expired token was accepted")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := auth.NewManager("test-secret", time.Minute)

	if _, err := m.VerifyAccessToken("not.a.token"); err == nil {
		t.Fatal("garbage token was accepted")
	}
}
