package token

import (
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)

	signed, expiresAt, err := manager.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	userID, err := manager.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %q", userID)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signed, _, err := NewManager("secret-a", time.Hour).Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewManager("secret-b", time.Hour).Verify(signed); err == nil {
		t.Fatalf("expected verification failure with wrong secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	signed, _, err := NewManager("secret", -time.Minute).Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewManager("secret", -time.Minute).Verify(signed); err == nil {
		t.Fatalf("expected expired token to fail verification")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := NewManager("secret", time.Hour).Verify("not-a-token"); err == nil {
		t.Fatalf("expected garbage token to fail verification")
	}
}
