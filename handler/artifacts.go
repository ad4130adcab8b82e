package handler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/scec-catalog/database"
	"github.com/ortelius/scec-catalog/model"
	"github.com/ortelius/scec-catalog/util"
)

// ArtifactListItem is an artifact without its content, for list views
type ArtifactListItem struct {
	Key          string             `json:"_key"`
	Name         string             `json:"name"`
	ArtifactType model.ArtifactType `json:"artifact_type"`
	ContentSha   string             `json:"contentsha"`
	CreatedAt    time.Time          `json:"created_at"`
}

// getArtifactContentHash calculates SHA256 hash of artifact content
func getArtifactContentHash(artifact model.Artifact) string {
	hash := sha256.Sum256(artifact.Content)
	return hex.EncodeToString(hash[:])
}

// GetReleaseArtifacts handles GET /api/v1/releases/:key/artifacts.
// Content is omitted unless include_content=true.
func GetReleaseArtifacts(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")
	includeContent := c.Query("include_content") == "true"

	var release model.Release
	found, err := database.GetByKey(ctx, db.Database, database.ColRelease, key, &release)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read release: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Release not found: "+key)
	}

	query := `
		FOR r IN release
			FILTER r._key == @key
			FOR v IN 1..1 OUTBOUND r release2artifact
				SORT v.name ASC
				RETURN v
	`
	cursor, err := db.Database.Query(ctx, query, queryOpts(map[string]interface{}{
		"key": key,
	}))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to list artifacts: "+err.Error())
	}

	artifacts, err := readAll[model.Artifact](ctx, cursor)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read artifacts: "+err.Error())
	}

	if includeContent {
		return c.JSON(fiber.Map{
			"success":   true,
			"count":     len(artifacts),
			"artifacts": artifacts,
		})
	}

	items := make([]ArtifactListItem, 0, len(artifacts))
	for _, artifact := range artifacts {
		items = append(items, ArtifactListItem{
			Key:          artifact.Key,
			Name:         artifact.Name,
			ArtifactType: artifact.ArtifactType,
			ContentSha:   artifact.ContentSha,
			CreatedAt:    artifact.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"count":     len(items),
		"artifacts": items,
	})
}

// PostReleaseArtifact handles POST /api/v1/releases/:key/artifacts.
// Artifact content is deduplicated by SHA-256; uploading content that already
// exists attaches the stored document instead of creating a copy.
func PostReleaseArtifact(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")
	releaseID := database.ColRelease + "/" + key

	var release model.Release
	found, err := database.GetByKey(ctx, db.Database, database.ColRelease, key, &release)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read release: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Release not found: "+key)
	}

	req := model.NewArtifact()
	if err := c.BodyParser(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if util.IsEmpty(req.Name) {
		return fail(c, fiber.StatusBadRequest, "Artifact name is a required field")
	}
	if len(req.Content) == 0 {
		return fail(c, fiber.StatusBadRequest, "Artifact content is required")
	}

	// Content must be valid JSON regardless of artifact type
	var content interface{}
	if err := json.Unmarshal(req.Content, &content); err != nil {
		return fail(c, fiber.StatusBadRequest, "Artifact content must be valid JSON: "+err.Error())
	}

	if req.ArtifactType == "" {
		req.ArtifactType = model.ArtifactTypeSBOM
	}
	req.ObjType = "Artifact"
	req.ContentSha = getArtifactContentHash(*req)

	// Check if an artifact with this content hash already exists
	existingKey, err := database.FindKeyByFields(ctx, db.Database, database.ColArtifact, map[string]interface{}{
		"contentsha": req.ContentSha,
	})
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to check for existing artifact: "+err.Error())
	}

	var artifactID string
	if existingKey != "" {
		artifactID = database.ColArtifact + "/" + existingKey
		req.Key = existingKey
	} else {
		meta, err := db.Collections[database.ColArtifact].CreateDocument(ctx, req)
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, "Failed to save artifact: "+err.Error())
		}
		artifactID = database.ColArtifact + "/" + meta.Key
		req.Key = meta.Key
	}

	// Attach to the release unless already attached
	attached, err := edgeExists(ctx, database.EdgeRelease2Artifact, releaseID, artifactID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to check release-artifact relationship: "+err.Error())
	}
	if !attached {
		edge := map[string]interface{}{
			"_from": releaseID,
			"_to":   artifactID,
		}
		if _, err := db.Collections[database.EdgeRelease2Artifact].CreateDocument(ctx, edge); err != nil {
			return fail(c, fiber.StatusInternalServerError, "Failed to create release-artifact relationship: "+err.Error())
		}
	}

	// SBOM artifacts get their component PURLs extracted into the hub
	if req.ArtifactType == model.ArtifactTypeSBOM && existingKey == "" {
		if err := processSBOMComponents(ctx, *req, artifactID); err != nil {
			return fail(c, fiber.StatusInternalServerError, "Failed to process SBOM components: "+err.Error())
		}
	}

	message := "Artifact created and attached"
	switch {
	case existingKey != "" && attached:
		message = "Artifact already attached (matched by content hash)"
	case existingKey != "":
		message = "Artifact already exists (matched by content hash), attached to release"
	}

	return created(c, message, req.Key)
}

// DeleteReleaseArtifact handles DELETE /api/v1/releases/:key/artifacts/:akey.
// The artifact document survives while other releases still reference it.
func DeleteReleaseArtifact(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")
	artifactKey := c.Params("akey")

	removed, err := database.RemoveEdge(ctx, db.Database, database.EdgeRelease2Artifact,
		database.ColRelease+"/"+key, database.ColArtifact+"/"+artifactKey)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to detach artifact: "+err.Error())
	}
	if !removed {
		return fail(c, fiber.StatusNotFound, "Artifact is not attached to this release")
	}

	if err := gcArtifact(ctx, artifactKey); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to clean up artifact: "+err.Error())
	}

	return ok(c, "Artifact detached")
}

// edgeInfo holds edge information for batch processing
type edgeInfo struct {
	from     string
	to       string
	version  string
	fullPurl string
}

// processSBOMComponents extracts PURLs from SBOM content and creates hub-spoke
// relationships. Uses batch processing so large SBOMs stay at a handful of queries.
func processSBOMComponents(ctx context.Context, artifact model.Artifact, artifactID string) error {
	// Parse SBOM content to extract components
	var sbomData struct {
		Components []struct {
			Purl string `json:"purl"`
		} `json:"components"`
	}

	if err := json.Unmarshal(artifact.Content, &sbomData); err != nil {
		return err
	}

	// Step 1: Collect and process all PURLs
	type purlInfo struct {
		basePurl string
		version  string
		fullPurl string
	}

	var purlInfos []purlInfo
	basePurlSet := make(map[string]bool) // For deduplication

	for _, component := range sbomData.Components {
		if component.Purl == "" {
			continue
		}

		// Validate and clean PURL format
		cleanedPurl, err := util.CleanPURL(component.Purl)
		if err != nil {
			// Log but continue with other PURLs
			logger.Sugar().Warnf("Failed to clean PURL %s: %v", component.Purl, err)
			continue
		}

		parsed, err := util.ParsePURL(cleanedPurl)
		if err != nil {
			logger.Sugar().Warnf("Failed to parse PURL %s: %v", cleanedPurl, err)
			continue
		}

		basePurl, err := util.GetBasePURL(cleanedPurl)
		if err != nil {
			logger.Sugar().Warnf("Failed to get base PURL from %s: %v", cleanedPurl, err)
			continue
		}

		purlInfos = append(purlInfos, purlInfo{
			basePurl: basePurl,
			version:  parsed.Version,
			fullPurl: cleanedPurl,
		})
		basePurlSet[basePurl] = true
	}

	if len(purlInfos) == 0 {
		return nil // No valid PURLs to process
	}

	// Step 2: Batch find/create all unique base PURLs
	uniqueBasePurls := make([]string, 0, len(basePurlSet))
	for basePurl := range basePurlSet {
		uniqueBasePurls = append(uniqueBasePurls, basePurl)
	}

	purlIDMap, err := batchFindOrCreatePURLs(ctx, uniqueBasePurls)
	if err != nil {
		return err
	}

	// Step 3: Prepare all edges for batch insertion
	var edgesToCheck []edgeInfo
	edgeCheckMap := make(map[string]bool) // For deduplication: "from:to:version"

	for _, info := range purlInfos {
		purlID, exists := purlIDMap[info.basePurl]
		if !exists {
			logger.Sugar().Warnf("PURL ID not found for base PURL %s", info.basePurl)
			continue
		}

		edgeKey := artifactID + ":" + purlID + ":" + info.version
		if edgeCheckMap[edgeKey] {
			continue // Skip duplicate
		}
		edgeCheckMap[edgeKey] = true

		edgesToCheck = append(edgesToCheck, edgeInfo{
			from:     artifactID,
			to:       purlID,
			version:  info.version,
			fullPurl: info.fullPurl,
		})
	}

	if len(edgesToCheck) == 0 {
		return nil
	}

	// Check which edges already exist
	existingEdges, err := batchCheckEdgesExist(ctx, database.EdgeArtifact2Purl, edgesToCheck)
	if err != nil {
		return err
	}

	var edgesToCreate []map[string]interface{}
	for _, edge := range edgesToCheck {
		edgeKey := edge.from + ":" + edge.to + ":" + edge.version
		if !existingEdges[edgeKey] {
			edgesToCreate = append(edgesToCreate, map[string]interface{}{
				"_from":     edge.from,
				"_to":       edge.to,
				"version":   edge.version,
				"full_purl": edge.fullPurl,
			})
		}
	}

	return database.InsertEdges(ctx, db.Database, database.EdgeArtifact2Purl, edgesToCreate)
}

// batchFindOrCreatePURLs finds or creates multiple PURLs in a single query
// Returns a map of basePurl -> purlID
func batchFindOrCreatePURLs(ctx context.Context, basePurls []string) (map[string]string, error) {
	if len(basePurls) == 0 {
		return make(map[string]string), nil
	}

	// Single query to upsert all PURLs and return their IDs
	query := `
		FOR purl IN @purls
			LET upsertedPurl = FIRST(
				UPSERT { purl: purl }
				INSERT { purl: purl, objtype: "PURL" }
				UPDATE {} IN purl
				RETURN NEW
			)
			RETURN {
				basePurl: purl,
				purlId: CONCAT("purl/", upsertedPurl._key)
			}
	`
	cursor, err := db.Database.Query(ctx, query, queryOpts(map[string]interface{}{
		"purls": basePurls,
	}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	purlIDMap := make(map[string]string)
	for cursor.HasMore() {
		var result struct {
			BasePurl string `json:"basePurl"`
			PurlID   string `json:"purlId"`
		}
		if _, err := cursor.ReadDocument(ctx, &result); err != nil {
			return nil, err
		}
		purlIDMap[result.BasePurl] = result.PurlID
	}

	return purlIDMap, nil
}

// batchCheckEdgesExist checks which edges already exist in a single query
// Returns a map of "from:to:version" -> exists
func batchCheckEdgesExist(ctx context.Context, edgeCollection string, edges []edgeInfo) (map[string]bool, error) {
	if len(edges) == 0 {
		return make(map[string]bool), nil
	}

	type edgeCheck struct {
		From    string `json:"from"`
		To      string `json:"to"`
		Version string `json:"version"`
	}

	var edgeChecks []edgeCheck
	for _, edge := range edges {
		edgeChecks = append(edgeChecks, edgeCheck{
			From:    edge.from,
			To:      edge.to,
			Version: edge.version,
		})
	}

	query := `
		FOR check IN @edges
			LET exists = (
				FOR e IN @@edgeCollection
					FILTER e._from == check.from
					   AND e._to == check.to
					   AND e.version == check.version
					LIMIT 1
					RETURN true
			)
			RETURN {
				key: CONCAT(check.from, ":", check.to, ":", check.version),
				exists: LENGTH(exists) > 0
			}
	`
	cursor, err := db.Database.Query(ctx, query, queryOpts(map[string]interface{}{
		"@edgeCollection": edgeCollection,
		"edges":           edgeChecks,
	}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	existsMap := make(map[string]bool)
	for cursor.HasMore() {
		var result struct {
			Key    string `json:"key"`
			Exists bool   `json:"exists"`
		}
		if _, err := cursor.ReadDocument(ctx, &result); err != nil {
			return nil, err
		}
		existsMap[result.Key] = result.Exists
	}

	return existsMap, nil
}

// edgeExists checks for a single from/to edge
func edgeExists(ctx context.Context, edgeCollection, fromID, toID string) (bool, error) {
	query := `
		FOR e IN @@edges
			FILTER e._from == @from AND e._to == @to
			LIMIT 1
			RETURN true
	`
	cursor, err := db.Database.Query(ctx, query, queryOpts(map[string]interface{}{
		"@edges": edgeCollection,
		"from":   fromID,
		"to":     toID,
	}))
	if err != nil {
		return false, err
	}
	defer cursor.Close()

	return cursor.HasMore(), nil
}
