package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/scec-catalog/database"
	"github.com/ortelius/scec-catalog/model"
	"github.com/ortelius/scec-catalog/util"
)

// ComponentDetail is a component with its computed SBOM count and owning projects
type ComponentDetail struct {
	model.Component
	SbomCount   int      `json:"sbom_count"`
	ProjectKeys []string `json:"project_keys"`
}

// GetComponents handles GET /api/v1/components
func GetComponents(c *fiber.Ctx) error {
	opts := boolFilter(c, listOptions(c), "is_public", "is_public")
	if componentType := c.Query("component_type"); componentType != "" {
		opts.Filters["component_type"] = componentType
	}
	if phase := c.Query("lifecycle_phase"); phase != "" {
		opts.Filters["metadata.lifecycle_phase"] = phase
	}
	return listCollection[model.Component](c, database.ColComponent, opts)
}

// PostComponent handles POST /api/v1/components
func PostComponent(c *fiber.Ctx) error {
	req := model.NewComponent()
	if err := c.BodyParser(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if util.IsEmpty(req.Name) {
		return fail(c, fiber.StatusBadRequest, "Component name is a required field")
	}
	if err := validateMetadata(req.Metadata); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	req.ObjType = "Component"

	ctx := context.Background()

	existing, err := database.FindKeyByFields(ctx, db.Database, database.ColComponent, map[string]interface{}{
		"name": req.Name,
	})
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to check for existing component: "+err.Error())
	}
	if existing != "" {
		return fail(c, fiber.StatusConflict, "A component with this name already exists")
	}

	meta, err := db.Collections[database.ColComponent].CreateDocument(ctx, req)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to save component: "+err.Error())
	}

	return created(c, "Component created successfully", meta.Key)
}

// GetComponent handles GET /api/v1/components/:key
func GetComponent(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	var component model.Component
	found, err := database.GetByKey(ctx, db.Database, database.ColComponent, key, &component)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read component: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Component not found: "+key)
	}

	sbomCount, err := componentSbomCount(ctx, key)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to count SBOMs: "+err.Error())
	}

	projectKeys, err := database.InboundKeys(ctx, db.Database, database.EdgeProject2Component, database.ColComponent+"/"+key)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read component projects: "+err.Error())
	}
	if projectKeys == nil {
		projectKeys = []string{}
	}

	return c.JSON(ComponentDetail{
		Component:   component,
		SbomCount:   sbomCount,
		ProjectKeys: projectKeys,
	})
}

// PatchComponent handles PATCH /api/v1/components/:key
func PatchComponent(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	patch := buildPatch(body, []string{"name", "component_type", "is_public"})
	if patch == nil {
		return fail(c, fiber.StatusBadRequest, "No updatable fields in request body")
	}
	if patchHasEmptyString(patch, "name") {
		return fail(c, fiber.StatusBadRequest, "Component name cannot be empty")
	}

	found, err := database.UpdateByKey(ctx, db.Database, database.ColComponent, key, patch)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to update component: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Component not found: "+key)
	}

	return ok(c, "Component updated successfully")
}

// DeleteComponent handles DELETE /api/v1/components/:key.
// Deletion is rejected while releases still reference the component.
func DeleteComponent(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	releaseKey, err := database.FindKeyByFields(ctx, db.Database, database.ColRelease, map[string]interface{}{
		"component_key": key,
	})
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to check releases: "+err.Error())
	}
	if releaseKey != "" {
		return fail(c, fiber.StatusConflict, "Component has releases; delete them first")
	}

	if err := database.RemoveEdgesTo(ctx, db.Database, database.EdgeProject2Component, database.ColComponent+"/"+key); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to detach from projects: "+err.Error())
	}

	found, err := database.RemoveByKey(ctx, db.Database, database.ColComponent, key)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to delete component: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Component not found: "+key)
	}

	return ok(c, "Component deleted successfully")
}

// GetComponentMetadata handles GET /api/v1/components/:key/metadata
func GetComponentMetadata(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	var component model.Component
	found, err := database.GetByKey(ctx, db.Database, database.ColComponent, key, &component)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read component: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Component not found: "+key)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"metadata": component.Metadata,
	})
}

// PutComponentMetadata handles PUT /api/v1/components/:key/metadata
func PutComponentMetadata(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	var req model.ComponentMetaInfo
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := validateMetadata(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	patch := buildPatch(map[string]interface{}{"metadata": req}, []string{"metadata"})
	found, err := database.UpdateByKey(ctx, db.Database, database.ColComponent, key, patch)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to update metadata: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Component not found: "+key)
	}

	return ok(c, "Metadata updated successfully")
}

// validateMetadata checks author emails, supplier URL, and the lifecycle phase
func validateMetadata(meta model.ComponentMetaInfo) error {
	for _, author := range meta.Authors {
		if author.Email != "" {
			if err := util.ValidateEmail(author.Email); err != nil {
				return err
			}
		}
	}
	if meta.Supplier.URL != "" {
		if err := util.ValidateURL(meta.Supplier.URL); err != nil {
			return err
		}
	}
	switch meta.LifecyclePhase {
	case "", model.LifecycleDesign, model.LifecyclePreBuild, model.LifecycleBuild,
		model.LifecyclePostBuild, model.LifecycleOperations, model.LifecycleDiscovery,
		model.LifecycleDecommission:
		return nil
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown lifecycle phase: "+string(meta.LifecyclePhase))
	}
}

// artifactRef identifies an attached artifact and its type
type artifactRef struct {
	ID           string             `json:"id"`
	ArtifactType model.ArtifactType `json:"artifact_type"`
}

// countDistinctSBOMs counts unique SBOM artifacts among the refs. A document
// artifact never counts, and a deduplicated artifact shared by several
// releases counts once.
func countDistinctSBOMs(refs []artifactRef) int {
	seen := map[string]bool{}
	for _, ref := range refs {
		if ref.ArtifactType == model.ArtifactTypeSBOM {
			seen[ref.ID] = true
		}
	}
	return len(seen)
}

// componentSbomCount counts the distinct SBOM artifacts attached to the component's releases
func componentSbomCount(ctx context.Context, componentKey string) (int, error) {
	query := `
		FOR r IN release
			FILTER r.component_key == @key
			FOR v IN 1..1 OUTBOUND r release2artifact
				RETURN { id: v._id, artifact_type: v.artifact_type }
	`
	cursor, err := db.Database.Query(ctx, query, queryOpts(map[string]interface{}{
		"key": componentKey,
	}))
	if err != nil {
		return 0, err
	}

	refs, err := readAll[artifactRef](ctx, cursor)
	if err != nil {
		return 0, err
	}
	return countDistinctSBOMs(refs), nil
}
