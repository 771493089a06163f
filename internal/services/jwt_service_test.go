package services

import "testing"

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateToken("alice", "acme")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.User != "alice" {
		t.Errorf("expected user alice, got %q", claims.User)
	}
	if claims.Org != "acme" {
		t.Errorf("expected org acme, got %q", claims.Org)
	}
	if claims.ExpiresAt == nil {
		t.Error("expected an expiry on the token")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateToken("alice", "acme")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := NewJWTService("secret-b").ValidateToken(token); err == nil {
		t.Error("expected validation to fail with a different secret")
	}
}

func TestValidateGarbageToken(t *testing.T) {
	if _, err := NewJWTService("secret").ValidateToken("nonsense"); err == nil {
		t.Error("expected validation to fail for a malformed token")
	}
}
