package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ortelius/scec-catalog/database"
	"github.com/ortelius/scec-catalog/model"
	"github.com/ortelius/scec-catalog/util"
)

// newSubID mints ids for embedded sub-records (identifiers, links)
func newSubID() string {
	return uuid.NewString()
}

// loadProduct reads a product or writes the 404/500 envelope. The bool reports
// whether the caller may proceed.
func loadProduct(ctx context.Context, c *fiber.Ctx, key string, product *model.Product) (bool, error) {
	found, err := database.GetByKey(ctx, db.Database, database.ColProduct, key, product)
	if err != nil {
		return false, fail(c, fiber.StatusInternalServerError, "Failed to read product: "+err.Error())
	}
	if !found {
		return false, fail(c, fiber.StatusNotFound, "Product not found: "+key)
	}
	return true, nil
}

// saveIdentifiers writes the identifiers array back to the product document
func saveIdentifiers(ctx context.Context, c *fiber.Ctx, key string, identifiers []model.ProductIdentifier) error {
	if _, err := database.UpdateByKey(ctx, db.Database, database.ColProduct, key, map[string]interface{}{
		"identifiers": identifiers,
	}); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to save identifiers: "+err.Error())
	}
	return nil
}

// GetProductIdentifiers handles GET /api/v1/products/:key/identifiers
func GetProductIdentifiers(c *fiber.Ctx) error {
	ctx := context.Background()
	var product model.Product
	if proceed, err := loadProduct(ctx, c, c.Params("key"), &product); !proceed {
		return err
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"count":       len(product.Identifiers),
		"identifiers": product.Identifiers,
	})
}

// PostProductIdentifier handles POST /api/v1/products/:key/identifiers
func PostProductIdentifier(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	var req model.ProductIdentifier
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := util.ValidateIdentifier(string(req.IdentifierType), req.Value); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	var product model.Product
	if proceed, err := loadProduct(ctx, c, key, &product); !proceed {
		return err
	}

	req.ID = newSubID()
	product.Identifiers = append(product.Identifiers, req)
	if err := saveIdentifiers(ctx, c, key, product.Identifiers); err != nil {
		return err
	}

	return created(c, "Identifier added", req.ID)
}

// PutProductIdentifier handles PUT /api/v1/products/:key/identifiers/:id
func PutProductIdentifier(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")
	id := c.Params("id")

	var req model.ProductIdentifier
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := util.ValidateIdentifier(string(req.IdentifierType), req.Value); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	var product model.Product
	if proceed, err := loadProduct(ctx, c, key, &product); !proceed {
		return err
	}

	for i := range product.Identifiers {
		if product.Identifiers[i].ID == id {
			req.ID = id
			product.Identifiers[i] = req
			if err := saveIdentifiers(ctx, c, key, product.Identifiers); err != nil {
				return err
			}
			return ok(c, "Identifier updated")
		}
	}

	return fail(c, fiber.StatusNotFound, "Identifier not found: "+id)
}

// DeleteProductIdentifier handles DELETE /api/v1/products/:key/identifiers/:id
func DeleteProductIdentifier(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")
	id := c.Params("id")

	var product model.Product
	if proceed, err := loadProduct(ctx, c, key, &product); !proceed {
		return err
	}

	for i := range product.Identifiers {
		if product.Identifiers[i].ID == id {
			product.Identifiers = append(product.Identifiers[:i], product.Identifiers[i+1:]...)
			if err := saveIdentifiers(ctx, c, key, product.Identifiers); err != nil {
				return err
			}
			return ok(c, "Identifier removed")
		}
	}

	return fail(c, fiber.StatusNotFound, "Identifier not found: "+id)
}
