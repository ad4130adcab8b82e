package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/scec-catalog/database"
	"github.com/ortelius/scec-catalog/model"
	"github.com/ortelius/scec-catalog/util"
)

// ProductDetail is a product together with its member projects
type ProductDetail struct {
	model.Product
	Projects []model.Project `json:"projects"`
}

// GetProducts handles GET /api/v1/products
func GetProducts(c *fiber.Ctx) error {
	opts := boolFilter(c, listOptions(c), "is_public", "is_public")
	return listCollection[model.Product](c, database.ColProduct, opts)
}

// PostProduct handles POST /api/v1/products
func PostProduct(c *fiber.Ctx) error {
	req := model.NewProduct()
	if err := c.BodyParser(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if util.IsEmpty(req.Name) {
		return fail(c, fiber.StatusBadRequest, "Product name is a required field")
	}
	for i := range req.Identifiers {
		if err := util.ValidateIdentifier(string(req.Identifiers[i].IdentifierType), req.Identifiers[i].Value); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid identifier: "+err.Error())
		}
		req.Identifiers[i].ID = newSubID()
	}
	for i := range req.Links {
		if err := util.ValidateURL(req.Links[i].URL); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid link: "+err.Error())
		}
		req.Links[i].ID = newSubID()
	}
	req.ObjType = "Product"

	ctx := context.Background()

	existing, err := database.FindKeyByFields(ctx, db.Database, database.ColProduct, map[string]interface{}{
		"name": req.Name,
	})
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to check for existing product: "+err.Error())
	}
	if existing != "" {
		return fail(c, fiber.StatusConflict, "A product with this name already exists")
	}

	meta, err := db.Collections[database.ColProduct].CreateDocument(ctx, req)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to save product: "+err.Error())
	}

	return created(c, "Product created successfully", meta.Key)
}

// GetProduct handles GET /api/v1/products/:key
func GetProduct(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	var product model.Product
	found, err := database.GetByKey(ctx, db.Database, database.ColProduct, key, &product)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read product: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Product not found: "+key)
	}

	projects, err := productProjects(ctx, key)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read product projects: "+err.Error())
	}

	return c.JSON(ProductDetail{Product: product, Projects: projects})
}

// PatchProduct handles PATCH /api/v1/products/:key, including the
// public/private visibility toggle
func PatchProduct(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	patch := buildPatch(body, []string{"name", "description", "is_public"})
	if patch == nil {
		return fail(c, fiber.StatusBadRequest, "No updatable fields in request body")
	}
	if patchHasEmptyString(patch, "name") {
		return fail(c, fiber.StatusBadRequest, "Product name cannot be empty")
	}

	found, err := database.UpdateByKey(ctx, db.Database, database.ColProduct, key, patch)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to update product: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Product not found: "+key)
	}

	return ok(c, "Product updated successfully")
}

// DeleteProduct handles DELETE /api/v1/products/:key. Member projects are
// detached, never deleted.
func DeleteProduct(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	if err := database.RemoveEdgesFrom(ctx, db.Database, database.EdgeProduct2Project, database.ColProduct+"/"+key); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to detach projects: "+err.Error())
	}

	found, err := database.RemoveByKey(ctx, db.Database, database.ColProduct, key)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to delete product: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Product not found: "+key)
	}

	return ok(c, "Product deleted successfully")
}

// PutProductProjects handles PUT /api/v1/products/:key/projects, replacing the
// product's project membership with the given set
func PutProductProjects(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	var req model.AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	var product model.Product
	found, err := database.GetByKey(ctx, db.Database, database.ColProduct, key, &product)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read product: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Product not found: "+key)
	}

	for _, projectKey := range req.Keys {
		var project model.Project
		found, err := database.GetByKey(ctx, db.Database, database.ColProject, projectKey, &project)
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, "Failed to verify project: "+err.Error())
		}
		if !found {
			return fail(c, fiber.StatusBadRequest, "Project not found: "+projectKey)
		}

		// A project belongs to at most one product
		parents, err := database.InboundKeys(ctx, db.Database, database.EdgeProduct2Project,
			database.ColProject+"/"+projectKey)
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, "Failed to verify project ownership: "+err.Error())
		}
		if other := foreignParent(parents, key); other != "" {
			return fail(c, fiber.StatusConflict,
				"Project "+projectKey+" already belongs to product "+other)
		}
	}

	added, removed, err := database.ReplaceOutboundEdges(ctx, db.Database,
		database.EdgeProduct2Project, database.ColProduct+"/"+key, database.ColProject, req.Keys)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to reassign projects: "+err.Error())
	}

	return c.JSON(model.AssignmentResponse{
		Success: true,
		Message: "Project assignment updated",
		Added:   added,
		Removed: removed,
	})
}

// foreignParent returns the first parent key that is not selfKey, empty when
// the keys all refer to selfKey or the list is empty
func foreignParent(parents []string, selfKey string) string {
	for _, parent := range parents {
		if parent != selfKey {
			return parent
		}
	}
	return ""
}

// productProjects loads the member projects of a product
func productProjects(ctx context.Context, productKey string) ([]model.Project, error) {
	query := `
		FOR p IN product
			FILTER p._key == @key
			FOR v IN 1..1 OUTBOUND p product2project
				SORT v.name ASC
				RETURN v
	`
	cursor, err := db.Database.Query(ctx, query, queryOpts(map[string]interface{}{
		"key": productKey,
	}))
	if err != nil {
		return nil, err
	}
	return readAll[model.Project](ctx, cursor)
}
