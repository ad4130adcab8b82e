package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/scec-catalog/database"
	"github.com/ortelius/scec-catalog/model"
	"github.com/ortelius/scec-catalog/util"
)

// ProjectDetail is a project together with its member components and owning product
type ProjectDetail struct {
	model.Project
	ProductKey string            `json:"product_key,omitempty"`
	Components []model.Component `json:"components"`
}

// GetProjects handles GET /api/v1/projects
func GetProjects(c *fiber.Ctx) error {
	opts := boolFilter(c, listOptions(c), "is_public", "is_public")
	if projectType := c.Query("project_type"); projectType != "" {
		opts.Filters["project_type"] = projectType
	}
	return listCollection[model.Project](c, database.ColProject, opts)
}

// PostProject handles POST /api/v1/projects
func PostProject(c *fiber.Ctx) error {
	req := model.NewProject()
	if err := c.BodyParser(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if util.IsEmpty(req.Name) {
		return fail(c, fiber.StatusBadRequest, "Project name is a required field")
	}
	req.ObjType = "Project"

	ctx := context.Background()

	existing, err := database.FindKeyByFields(ctx, db.Database, database.ColProject, map[string]interface{}{
		"name": req.Name,
	})
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to check for existing project: "+err.Error())
	}
	if existing != "" {
		return fail(c, fiber.StatusConflict, "A project with this name already exists")
	}

	meta, err := db.Collections[database.ColProject].CreateDocument(ctx, req)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to save project: "+err.Error())
	}

	return created(c, "Project created successfully", meta.Key)
}

// GetProject handles GET /api/v1/projects/:key
func GetProject(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	var project model.Project
	found, err := database.GetByKey(ctx, db.Database, database.ColProject, key, &project)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read project: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Project not found: "+key)
	}

	components, err := projectComponents(ctx, key)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read project components: "+err.Error())
	}

	// A project belongs to at most one product
	parents, err := database.InboundKeys(ctx, db.Database, database.EdgeProduct2Project, database.ColProject+"/"+key)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read project product: "+err.Error())
	}
	productKey := ""
	if len(parents) > 0 {
		productKey = parents[0]
	}

	return c.JSON(ProjectDetail{Project: project, ProductKey: productKey, Components: components})
}

// PatchProject handles PATCH /api/v1/projects/:key
func PatchProject(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	patch := buildPatch(body, []string{"name", "description", "project_type", "is_public"})
	if patch == nil {
		return fail(c, fiber.StatusBadRequest, "No updatable fields in request body")
	}
	if patchHasEmptyString(patch, "name") {
		return fail(c, fiber.StatusBadRequest, "Project name cannot be empty")
	}

	found, err := database.UpdateByKey(ctx, db.Database, database.ColProject, key, patch)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to update project: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Project not found: "+key)
	}

	return ok(c, "Project updated successfully")
}

// DeleteProject handles DELETE /api/v1/projects/:key. Components are detached,
// and any product membership pointing here is removed.
func DeleteProject(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")
	id := database.ColProject + "/" + key

	if err := database.RemoveEdgesFrom(ctx, db.Database, database.EdgeProject2Component, id); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to detach components: "+err.Error())
	}
	if err := database.RemoveEdgesTo(ctx, db.Database, database.EdgeProduct2Project, id); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to detach from product: "+err.Error())
	}

	found, err := database.RemoveByKey(ctx, db.Database, database.ColProject, key)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to delete project: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Project not found: "+key)
	}

	return ok(c, "Project deleted successfully")
}

// PutProjectComponents handles PUT /api/v1/projects/:key/components, replacing
// the project's component membership with the given set
func PutProjectComponents(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	var req model.AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	var project model.Project
	found, err := database.GetByKey(ctx, db.Database, database.ColProject, key, &project)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read project: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Project not found: "+key)
	}

	for _, componentKey := range req.Keys {
		var component model.Component
		found, err := database.GetByKey(ctx, db.Database, database.ColComponent, componentKey, &component)
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, "Failed to verify component: "+err.Error())
		}
		if !found {
			return fail(c, fiber.StatusBadRequest, "Component not found: "+componentKey)
		}
	}

	added, removed, err := database.ReplaceOutboundEdges(ctx, db.Database,
		database.EdgeProject2Component, database.ColProject+"/"+key, database.ColComponent, req.Keys)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to reassign components: "+err.Error())
	}

	return c.JSON(model.AssignmentResponse{
		Success: true,
		Message: "Component assignment updated",
		Added:   added,
		Removed: removed,
	})
}

// projectComponents loads the member components of a project
func projectComponents(ctx context.Context, projectKey string) ([]model.Component, error) {
	query := `
		FOR p IN project
			FILTER p._key == @key
			FOR v IN 1..1 OUTBOUND p project2component
				SORT v.name ASC
				RETURN v
	`
	cursor, err := db.Database.Query(ctx, query, queryOpts(map[string]interface{}{
		"key": projectKey,
	}))
	if err != nil {
		return nil, err
	}
	return readAll[model.Component](ctx, cursor)
}
