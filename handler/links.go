package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/scec-catalog/database"
	"github.com/ortelius/scec-catalog/model"
	"github.com/ortelius/scec-catalog/util"
)

// saveLinks writes the links array back to the product document
func saveLinks(ctx context.Context, c *fiber.Ctx, key string, links []model.ProductLink) error {
	if _, err := database.UpdateByKey(ctx, db.Database, database.ColProduct, key, map[string]interface{}{
		"links": links,
	}); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to save links: "+err.Error())
	}
	return nil
}

func validateLink(link model.ProductLink) error {
	if err := util.ValidateURL(link.URL); err != nil {
		return err
	}
	switch link.LinkType {
	case model.LinkTypeWebsite, model.LinkTypeSupport, model.LinkTypeDocumentation,
		model.LinkTypeChangelog, model.LinkTypeOther:
		return nil
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown link type: "+string(link.LinkType))
	}
}

// GetProductLinks handles GET /api/v1/products/:key/links
func GetProductLinks(c *fiber.Ctx) error {
	ctx := context.Background()
	var product model.Product
	if proceed, err := loadProduct(ctx, c, c.Params("key"), &product); !proceed {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(product.Links),
		"links":   product.Links,
	})
}

// PostProductLink handles POST /api/v1/products/:key/links
func PostProductLink(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	var req model.ProductLink
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := validateLink(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	var product model.Product
	if proceed, err := loadProduct(ctx, c, key, &product); !proceed {
		return err
	}

	req.ID = newSubID()
	product.Links = append(product.Links, req)
	if err := saveLinks(ctx, c, key, product.Links); err != nil {
		return err
	}

	return created(c, "Link added", req.ID)
}

// PutProductLink handles PUT /api/v1/products/:key/links/:id
func PutProductLink(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")
	id := c.Params("id")

	var req model.ProductLink
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := validateLink(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	var product model.Product
	if proceed, err := loadProduct(ctx, c, key, &product); !proceed {
		return err
	}

	for i := range product.Links {
		if product.Links[i].ID == id {
			req.ID = id
			product.Links[i] = req
			if err := saveLinks(ctx, c, key, product.Links); err != nil {
				return err
			}
			return ok(c, "Link updated")
		}
	}

	return fail(c, fiber.StatusNotFound, "Link not found: "+id)
}

// DeleteProductLink handles DELETE /api/v1/products/:key/links/:id
func DeleteProductLink(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")
	id := c.Params("id")

	var product model.Product
	if proceed, err := loadProduct(ctx, c, key, &product); !proceed {
		return err
	}

	for i := range product.Links {
		if product.Links[i].ID == id {
			product.Links = append(product.Links[:i], product.Links[i+1:]...)
			if err := saveLinks(ctx, c, key, product.Links); err != nil {
				return err
			}
			return ok(c, "Link removed")
		}
	}

	return fail(c, fiber.StatusNotFound, "Link not found: "+id)
}
