package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/scec-catalog/database"
	"github.com/ortelius/scec-catalog/model"
)

// bearerSecret extracts the token secret from an Authorization header.
// Returns empty string when the header is missing or not a Bearer scheme.
func bearerSecret(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// RequireToken authenticates requests against the token collection.
// Bootstrap rule: while no tokens exist at all, requests pass through so the
// first token can be minted.
func RequireToken(c *fiber.Ctx) error {
	ctx := context.Background()

	total, err := database.CountDocuments(ctx, db.Database, database.ColToken, database.ListOptions{})
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to check tokens: "+err.Error())
	}
	if total == 0 {
		return c.Next()
	}

	secret := bearerSecret(c.Get(fiber.HeaderAuthorization))
	if secret == "" {
		return fail(c, fiber.StatusUnauthorized, "Missing bearer token")
	}

	key, err := database.FindKeyByFields(ctx, db.Database, database.ColToken, map[string]interface{}{
		"tokensha": model.HashTokenSecret(secret),
	})
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to look up token: "+err.Error())
	}
	if key == "" {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	var token model.AccessToken
	if _, err := database.GetByKey(ctx, db.Database, database.ColToken, key, &token); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read token: "+err.Error())
	}
	// The hash lookup found the candidate row; the constant-time compare is
	// the authentication decision.
	if !token.Matches(secret) {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}
	if token.Expired(time.Now().UTC()) {
		return fail(c, fiber.StatusUnauthorized, "Token expired")
	}

	// Best effort; an auth round trip should not fail on bookkeeping.
	if _, err := database.UpdateByKey(ctx, db.Database, database.ColToken, key, map[string]interface{}{
		"last_used_at": time.Now().UTC(),
	}); err != nil {
		logger.Sugar().Warnf("Failed to update token last_used_at: %v", err)
	}

	return c.Next()
}
