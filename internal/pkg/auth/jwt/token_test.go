package jwt

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"

	tokenStr, err := GenerateToken(&Payload{ID: "user-1", Username: "alice"}, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	parsed, err := ParseToken(tokenStr, secret)
	if err != nil {
		t.Fatalf("ParseToken() error: %v", err)
	}

	if parsed.ID != "user-1" {
		t.Errorf("ID = %q, want %q", parsed.ID, "user-1")
	}
	if parsed.Username != "alice" {
		t.Errorf("Username = %q, want %q", parsed.Username, "alice")
	}
	if parsed.Issuer != TokenIssuer {
		t.Errorf("Issuer = %q, want %q", parsed.Issuer, TokenIssuer)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	tokenStr, err := GenerateToken(&Payload{ID: "user-1", Username: "alice"}, "right-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	if _, err := ParseToken(tokenStr, "wrong-secret"); err == nil {
		t.Error("ParseToken() with wrong secret succeeded, want error")
	}
}

func TestParseTokenExpired(t *testing.T) {
	tokenStr, err := GenerateToken(&Payload{ID: "user-1", Username: "alice"}, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	if _, err := ParseToken(tokenStr, "secret"); err == nil {
		t.Error("ParseToken() with expired token succeeded, want error")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("not.a.token", "secret"); err == nil {
		t.Error("ParseToken() with garbage input succeeded, want error")
	}
}
