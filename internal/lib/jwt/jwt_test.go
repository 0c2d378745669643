package jwt

import (
	"testing"
	"time"
)

func TestNewAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := "super-secret"
	userID := int64(123)

	tok, err := NewToken(userID, secret, time.Hour)
	if err != nil {
		t.Fatalf("NewToken error: %v", err)
	}

	gotID, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if gotID != userID {
		t.Fatalf("user id mismatch: got %d want %d", gotID, userID)
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := NewToken(1, "secret", -1*time.Second)
	if err != nil {
		t.Fatalf("NewToken error: %v", err)
	}

	_, err = ParseToken(tok, "secret")
	if err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
	if err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewToken(2, "right-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewToken error: %v", err)
	}

	_, err = ParseToken(tok, "wrong-secret")
	if err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestParseToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not.a.jwt", "k")
	if err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}
