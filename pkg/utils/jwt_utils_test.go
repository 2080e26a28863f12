package utils

import (
	"errors"
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateAccessToken("u-42", "dana", "Manager", time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "u-42" || claims.Role != "Manager" || claims.Username != "dana" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	SetJWTSecret("test-secret")
	expired, err := GenerateAccessToken("u-1", "x", "Admin", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	SetJWTSecret("other-secret")
	valid, err := GenerateAccessToken("u-1", "x", "Admin", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	SetJWTSecret("test-secret")

	for name, token := range map[string]string{"expired": expired, "wrong key": valid, "garbage": "not.a.token"} {
		if _, err := ValidateToken(token); err == nil {
			t.Errorf("%s token accepted", name)
		}
	}
}

func TestValidateToken_NoSecret(t *testing.T) {
	SetJWTSecret("")
	defer SetJWTSecret("test-secret")

	if _, err := ValidateToken("anything"); !errors.Is(err, ErrNoJWTSecret) {
		t.Errorf("expected ErrNoJWTSecret, got %v", err)
	}
}
