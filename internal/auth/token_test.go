package auth

import (
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	user := &domain.User{ID: "user-1", Role: domain.RoleEmployee}

	token, expiresAt, err := tm.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if expiresAt.IsZero() {
		t.Fatal("zero expiry")
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", claims.UserID, user.ID)
	}
	if claims.Role != domain.RoleEmployee {
		t.Errorf("Role = %q, want EMPLOYEE", claims.Role)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 60)
	verifier := NewTokenManager("secret-b", 60)

	user := &domain.User{ID: "user-1", Role: domain.RoleAdmin}
	token, _, err := issuer.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatal("token accepted with wrong secret")
	}
}

func TestTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	if _, err := tm.ParseToken("not.a.jwt"); err == nil {
		t.Fatal("garbage token accepted")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hashed, err := HashPassword("hunter22", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(hashed, "hunter22"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := ComparePassword(hashed, "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
}
