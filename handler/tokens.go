package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/scec-catalog/database"
	"github.com/ortelius/scec-catalog/model"
	"github.com/ortelius/scec-catalog/util"
)

// tokenCreateRequest is the POST /tokens body
type tokenCreateRequest struct {
	Description string `json:"description"`
	// ExpiresInDays of 0 means the token never expires
	ExpiresInDays int `json:"expires_in_days"`
}

// GetTokens handles GET /api/v1/tokens. The stored hash is stripped so list
// views only ever see the display prefix.
func GetTokens(c *fiber.Ctx) error {
	opts := listOptions(c)
	ctx := context.Background()

	total, err := database.CountDocuments(ctx, db.Database, database.ColToken, opts)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to count tokens: "+err.Error())
	}

	cursor, err := database.ListDocuments(ctx, db.Database, database.ColToken, opts)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to list tokens: "+err.Error())
	}

	tokens, err := readAll[model.AccessToken](ctx, cursor)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read tokens: "+err.Error())
	}
	for i := range tokens {
		tokens[i].TokenSha = ""
	}

	return listResponse(c, opts, total, len(tokens), tokens)
}

// PostToken handles POST /api/v1/tokens. The plaintext secret appears in this
// response and nowhere else.
func PostToken(c *fiber.Ctx) error {
	ctx := context.Background()

	var req tokenCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if util.IsEmpty(req.Description) {
		return fail(c, fiber.StatusBadRequest, "Token description is a required field")
	}
	if req.ExpiresInDays < 0 {
		return fail(c, fiber.StatusBadRequest, "expires_in_days cannot be negative")
	}

	token, secret, err := model.NewAccessToken(req.Description)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to mint token: "+err.Error())
	}
	if req.ExpiresInDays > 0 {
		token.ExpiresAt = time.Now().UTC().AddDate(0, 0, req.ExpiresInDays)
	}

	meta, err := db.Collections[database.ColToken].CreateDocument(ctx, token)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to save token: "+err.Error())
	}
	token.Key = meta.Key
	token.TokenSha = ""

	return c.Status(fiber.StatusCreated).JSON(model.TokenCreateResponse{
		Success: true,
		Message: "Token created. Store the secret now; it is not shown again.",
		Token:   secret,
		Record:  *token,
	})
}

// DeleteToken handles DELETE /api/v1/tokens/:key
func DeleteToken(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	found, err := database.RemoveByKey(ctx, db.Database, database.ColToken, key)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to delete token: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Token not found: "+key)
	}

	return ok(c, "Token revoked")
}
