package model

import (
	"strings"
	"testing"
	"time"
)

func TestNewAccessToken(t *testing.T) {
	token, secret, err := NewAccessToken("ci pipeline")
	if err != nil {
		t.Fatalf("NewAccessToken returned error: %v", err)
	}

	if !strings.HasPrefix(secret, "scec_") {
		t.Errorf("secret %q missing scec_ prefix", secret)
	}
	// "scec_" plus 32 bytes hex encoded
	if len(secret) != 5+64 {
		t.Errorf("secret length = %d, want %d", len(secret), 5+64)
	}
	if token.Prefix != secret[:TokenPrefixLen] {
		t.Errorf("token prefix = %q, want %q", token.Prefix, secret[:TokenPrefixLen])
	}
	if token.TokenSha != HashTokenSecret(secret) {
		t.Error("stored hash does not match the secret")
	}
	if token.TokenSha == secret {
		t.Error("plaintext secret must not be stored")
	}
	if token.Description != "ci pipeline" {
		t.Errorf("description = %q, want %q", token.Description, "ci pipeline")
	}
}

func TestAccessTokenSecretsAreUnique(t *testing.T) {
	_, first, err := NewAccessToken("a")
	if err != nil {
		t.Fatal(err)
	}
	_, second, err := NewAccessToken("b")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("two minted tokens produced the same secret")
	}
}

func TestAccessTokenMatches(t *testing.T) {
	token, secret, err := NewAccessToken("test")
	if err != nil {
		t.Fatal(err)
	}

	if !token.Matches(secret) {
		t.Error("Matches rejected the correct secret")
	}
	if token.Matches("scec_0000000000000000000000000000000000000000000000000000000000000000") {
		t.Error("Matches accepted a wrong secret")
	}
	if token.Matches("") {
		t.Error("Matches accepted an empty secret")
	}
}

func TestAccessTokenExpired(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"no expiry", time.Time{}, false},
		{"future expiry", now.Add(time.Hour), false},
		{"past expiry", now.Add(-time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := AccessToken{ExpiresAt: tt.expiresAt}
			if got := token.Expired(now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}
