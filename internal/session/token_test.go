package session

import (
	"strings"
	"testing"
	"time"
)

func TestMintValidateRoundtrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	sessionID, token, err := m.Mint()
	if err != nil {
		t.Fatal(err)
	}
	if sessionID == "" || token == "" {
		t.Fatal("empty session ID or token")
	}

	got, err := m.Validate(token)
	if err != nil {
		t.Fatal(err)
	}
	if got != sessionID {
		t.Errorf("Validate returned %q, want %q", got, sessionID)
	}
}

func TestMintedIDsAreUnique(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	a, _, err := m.Mint()
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := m.Mint()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two Mint calls produced the same session ID")
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	_, token, err := NewTokenManager("secret-a", time.Hour).Mint()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewTokenManager("secret-b", time.Hour).Validate(token); err == nil {
		t.Error("token signed with a different secret was accepted")
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	_, token, err := m.Mint()
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}
	tampered := parts[0] + ".eyJqdGkiOiJmb3JnZWQifQ." + parts[2]

	if _, err := m.Validate(tampered); err == nil {
		t.Error("tampered token was accepted")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	m := NewTokenManager("secret", -time.Minute)
	_, token, err := m.Mint()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.Validate(token); err == nil {
		t.Error("expired token was accepted")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Validate(token); err == nil {
			t.Errorf("garbage token %q was accepted", token)
		}
	}
}
