// Package model - AccessToken defines API tokens and the minting/hashing helpers for them.
package model

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"
)

// TokenPrefixLen is the number of leading secret characters stored for display in list views
const TokenPrefixLen = 8

// AccessToken represents an API token. Only the SHA-256 of the secret is stored;
// the plaintext is returned once at creation time and never again.
type AccessToken struct {
	Key         string    `json:"_key,omitempty"`
	ObjType     string    `json:"objtype,omitempty"`
	Description string    `json:"description"`
	Prefix      string    `json:"prefix"`
	TokenSha    string    `json:"tokensha,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
	LastUsedAt  time.Time `json:"last_used_at,omitempty"`
}

// NewAccessToken creates a token record and returns it with the plaintext secret.
// The secret is 32 random bytes hex encoded, prefixed with "scec_".
func NewAccessToken(description string) (*AccessToken, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", err
	}
	secret := "scec_" + hex.EncodeToString(raw)

	token := &AccessToken{
		ObjType:     "AccessToken",
		Description: description,
		Prefix:      secret[:TokenPrefixLen],
		TokenSha:    HashTokenSecret(secret),
		CreatedAt:   time.Now().UTC(),
	}
	return token, secret, nil
}

// HashTokenSecret returns the hex SHA-256 of a token secret
func HashTokenSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Matches reports whether the given plaintext secret hashes to this token.
// The comparison is constant time.
func (t *AccessToken) Matches(secret string) bool {
	return subtle.ConstantTimeCompare([]byte(t.TokenSha), []byte(HashTokenSecret(secret))) == 1
}

// Expired reports whether the token has an expiry in the past
func (t *AccessToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && t.ExpiresAt.Before(now)
}
