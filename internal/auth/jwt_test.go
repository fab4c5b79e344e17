package auth

import (
	"errors"
	"testing"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-123")
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "alice@example.com")
	}
	if claims.Issuer != "taskhive" {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, "taskhive")
	}
}

func TestRefreshSecretFallsBackToAccessSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "only-secret")
	t.Setenv("JWT_REFRESH_SECRET", "")

	token, err := GenerateRefreshToken("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}
	if _, err := ValidateRefreshToken(token); err != nil {
		t.Errorf("ValidateRefreshToken failed: %v", err)
	}
}

func TestRefreshTokenRejectedAsAccessToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")

	token, err := GenerateRefreshToken("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}
	if _, err := ValidateAccessToken(token); err == nil {
		t.Error("Expected validation to fail for a refresh token signed with a different secret")
	}
}

func TestValidateTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := ValidateAccessToken(tampered); err == nil {
		t.Error("Expected validation to fail for a tampered token")
	}
	if _, err := ValidateAccessToken("not-a-jwt"); err == nil {
		t.Error("Expected validation to fail for garbage input")
	}
}

func TestGenerateWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := GenerateAccessToken("user-123", "alice@example.com"); err == nil {
		t.Error("Expected an error when JWT_SECRET is unset")
	}
}

func TestExpiredTokenError(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	// An expired token captured by signing with a negative TTL
	token, err := generateToken("user-123", "alice@example.com", -1, "JWT_SECRET")
	if err != nil {
		t.Fatalf("generateToken failed: %v", err)
	}
	if _, err := ValidateAccessToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Expected ErrExpiredToken, got %v", err)
	}
}
