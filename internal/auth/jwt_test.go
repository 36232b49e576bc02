package auth

import (
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := MintSessionToken(42, "user@example.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("MintSessionToken() error = %v", err)
	}

	claims, err := ParseClaims(token, testSecret)
	if err != nil {
		t.Fatalf("ParseClaims() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %q, want user@example.com", claims.Email)
	}
}

func TestParseClaims_WrongSecret(t *testing.T) {
	token, err := MintSessionToken(1, "a@b.c", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("MintSessionToken() error = %v", err)
	}

	if _, err := ParseClaims(token, "other-secret"); err == nil {
		t.Error("ParseClaims() accepted a token signed with a different secret")
	}
}

func TestParseClaims_Expired(t *testing.T) {
	token, err := MintSessionToken(1, "a@b.c", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("MintSessionToken() error = %v", err)
	}

	if _, err := ParseClaims(token, testSecret); err == nil {
		t.Error("ParseClaims() accepted an expired token")
	}
}

func TestResetTokenPurposeIsolation(t *testing.T) {
	session, err := MintSessionToken(1, "a@b.c", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("MintSessionToken() error = %v", err)
	}
	reset, err := MintResetToken(1, "a@b.c", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("MintResetToken() error = %v", err)
	}

	// A reset token must not open a session, and vice versa
	if _, err := ParseClaims(reset, testSecret); err == nil {
		t.Error("ParseClaims() accepted a reset token as a session token")
	}
	if _, err := ParseResetClaims(session, testSecret); err == nil {
		t.Error("ParseResetClaims() accepted a session token as a reset token")
	}

	claims, err := ParseResetClaims(reset, testSecret)
	if err != nil {
		t.Fatalf("ParseResetClaims() error = %v", err)
	}
	if claims.UserID != 1 {
		t.Errorf("UserID = %d, want 1", claims.UserID)
	}
}
