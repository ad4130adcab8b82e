package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/scec-catalog/database"
	"github.com/ortelius/scec-catalog/model"
	"github.com/ortelius/scec-catalog/util"
)

// GetComponentReleases handles GET /api/v1/components/:key/releases
func GetComponentReleases(c *fiber.Ctx) error {
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

	opts := boolFilter(c, listOptions(c), "is_public", "is_public")
	opts.Filters["component_key"] = key

	total, err := database.CountDocuments(ctx, db.Database, database.ColRelease, opts)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to count releases: "+err.Error())
	}

	releases, err := pageReleases(ctx, opts)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to list releases: "+err.Error())
	}

	views, err := releaseViews(ctx, key, releases)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to decorate releases: "+err.Error())
	}

	return listResponse(c, opts, total, len(views), views)
}

// PostComponentRelease handles POST /api/v1/components/:key/releases
func PostComponentRelease(c *fiber.Ctx) error {
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

	req := model.NewRelease()
	if err := c.BodyParser(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if util.IsEmpty(req.Version) {
		return fail(c, fiber.StatusBadRequest, "Release version is a required field")
	}
	req.ObjType = "Release"
	req.ComponentKey = key

	// Derive the prerelease flag from the version when the caller did not set it
	if !req.IsPrerelease && util.IsPrereleaseVersion(req.Version) {
		req.IsPrerelease = true
	}

	existing, err := database.FindKeyByFields(ctx, db.Database, database.ColRelease, map[string]interface{}{
		"component_key": key,
		"version":       req.Version,
	})
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to check for existing release: "+err.Error())
	}
	if existing != "" {
		return fail(c, fiber.StatusConflict, "Release "+req.Version+" already exists for this component")
	}

	meta, err := db.Collections[database.ColRelease].CreateDocument(ctx, req)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to save release: "+err.Error())
	}

	return created(c, "Release created successfully", meta.Key)
}

// GetRelease handles GET /api/v1/releases/:key
func GetRelease(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	var release model.Release
	found, err := database.GetByKey(ctx, db.Database, database.ColRelease, key, &release)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read release: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Release not found: "+key)
	}

	views, err := releaseViews(ctx, release.ComponentKey, []model.Release{release})
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to decorate release: "+err.Error())
	}

	return c.JSON(views[0])
}

// PatchRelease handles PATCH /api/v1/releases/:key
func PatchRelease(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	patch := buildPatch(body, []string{"description", "is_public", "is_prerelease"})
	if patch == nil {
		return fail(c, fiber.StatusBadRequest, "No updatable fields in request body")
	}
	delete(patch, "updated_at") // releases only carry created_at

	found, err := database.UpdateByKey(ctx, db.Database, database.ColRelease, key, patch)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to update release: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Release not found: "+key)
	}

	return ok(c, "Release updated successfully")
}

// DeleteRelease handles DELETE /api/v1/releases/:key, detaching artifacts and
// garbage collecting any that are no longer referenced
func DeleteRelease(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")
	releaseID := database.ColRelease + "/" + key

	artifactKeys, err := database.OutboundKeys(ctx, db.Database, database.EdgeRelease2Artifact, releaseID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read release artifacts: "+err.Error())
	}

	if err := database.RemoveEdgesFrom(ctx, db.Database, database.EdgeRelease2Artifact, releaseID); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to detach artifacts: "+err.Error())
	}

	for _, artifactKey := range artifactKeys {
		if err := gcArtifact(ctx, artifactKey); err != nil {
			return fail(c, fiber.StatusInternalServerError, "Failed to clean up artifact: "+err.Error())
		}
	}

	found, err := database.RemoveByKey(ctx, db.Database, database.ColRelease, key)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to delete release: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Release not found: "+key)
	}

	return ok(c, "Release deleted successfully")
}

// pageReleases returns one page of releases, newest first
func pageReleases(ctx context.Context, opts database.ListOptions) ([]model.Release, error) {
	bindVars := map[string]interface{}{
		"component_key": opts.Filters["component_key"],
		"offset":        opts.Offset(),
		"count":         opts.PageSize,
	}
	query := `
		FOR d IN release
			FILTER d.component_key == @component_key
	`
	if isPublic, present := opts.Filters["is_public"]; present {
		query += " FILTER d.is_public == @is_public"
		bindVars["is_public"] = isPublic
	}
	query += `
			SORT d.created_at DESC, d._key ASC
			LIMIT @offset, @count
			RETURN d
	`
	cursor, err := db.Database.Query(ctx, query, queryOpts(bindVars))
	if err != nil {
		return nil, err
	}
	return readAll[model.Release](ctx, cursor)
}

// componentReleaseVersions returns every version recorded for a component
func componentReleaseVersions(ctx context.Context, componentKey string) ([]string, error) {
	query := `
		FOR d IN release
			FILTER d.component_key == @key
			RETURN d.version
	`
	cursor, err := db.Database.Query(ctx, query, queryOpts(map[string]interface{}{
		"key": componentKey,
	}))
	if err != nil {
		return nil, err
	}
	return readAll[string](ctx, cursor)
}

// releaseViews decorates releases with is_latest and artifacts_count.
// is_latest is computed across all of the component's releases, not just the
// current page.
func releaseViews(ctx context.Context, componentKey string, releases []model.Release) ([]model.ReleaseView, error) {
	versions, err := componentReleaseVersions(ctx, componentKey)
	if err != nil {
		return nil, err
	}
	latest := util.PickLatestVersion(versions)

	views := make([]model.ReleaseView, 0, len(releases))
	for _, release := range releases {
		count, err := database.CountOutbound(ctx, db.Database, database.EdgeRelease2Artifact,
			database.ColRelease+"/"+release.Key)
		if err != nil {
			return nil, err
		}
		views = append(views, model.ReleaseView{
			Release:        release,
			IsLatest:       release.Version == latest && latest != "",
			ArtifactsCount: count,
		})
	}
	return views, nil
}

// gcArtifact removes an artifact document and its PURL edges once no release
// references it anymore
func gcArtifact(ctx context.Context, artifactKey string) error {
	artifactID := database.ColArtifact + "/" + artifactKey

	refs, err := database.CountInbound(ctx, db.Database, database.EdgeRelease2Artifact, artifactID)
	if err != nil {
		return err
	}
	if refs > 0 {
		return nil
	}

	if err := database.RemoveEdgesFrom(ctx, db.Database, database.EdgeArtifact2Purl, artifactID); err != nil {
		return err
	}
	_, err = database.RemoveByKey(ctx, db.Database, database.ColArtifact, artifactKey)
	return err
}
