package auth

import (
	"context"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-at-least-32-chars-long-for-security"

func TestJWTManager_GenerateAndValidate_Success(t *testing.T) {
	manager := NewJWTManager(testSecret, "prepstock-test", 15*time.Minute)

	token, err := manager.GenerateToken("maria")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	actor, err := manager.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if actor != "maria" {
		t.Errorf("expected actor maria, got %q", actor)
	}
}

func TestJWTManager_GenerateToken_EmptyEmployee(t *testing.T) {
	manager := NewJWTManager(testSecret, "prepstock-test", 15*time.Minute)

	if _, err := manager.GenerateToken(""); err == nil {
		t.Error("expected error for empty employee name")
	}
}

func TestJWTManager_ValidateToken_Expired(t *testing.T) {
	manager := NewJWTManager(testSecret, "prepstock-test", -1*time.Minute)

	token, err := manager.GenerateToken("carlos")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := manager.ValidateToken(context.Background(), token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestJWTManager_ValidateToken_WrongSecret(t *testing.T) {
	manager := NewJWTManager(testSecret, "prepstock-test", 15*time.Minute)
	other := NewJWTManager("another-secret-also-32-chars-long-xxxx", "prepstock-test", 15*time.Minute)

	token, err := manager.GenerateToken("maria")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := other.ValidateToken(context.Background(), token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestJWTManager_ValidateToken_WrongIssuer(t *testing.T) {
	minter := NewJWTManager(testSecret, "someone-else", 15*time.Minute)
	manager := NewJWTManager(testSecret, "prepstock-test", 15*time.Minute)

	token, err := minter.GenerateToken("maria")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	_, err = manager.ValidateToken(context.Background(), token)
	if err == nil {
		t.Fatal("expected error for wrong issuer")
	}
	if !strings.Contains(err.Error(), "issuer") {
		t.Errorf("expected issuer error, got: %v", err)
	}
}

func TestJWTManager_ValidateToken_Empty(t *testing.T) {
	manager := NewJWTManager(testSecret, "prepstock-test", 15*time.Minute)

	if _, err := manager.ValidateToken(context.Background(), ""); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestJWTManager_ValidateToken_Garbage(t *testing.T) {
	manager := NewJWTManager(testSecret, "prepstock-test", 15*time.Minute)

	if _, err := manager.ValidateToken(context.Background(), "not.a.jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
}
