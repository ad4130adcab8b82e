package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/scec-catalog/database"
	"github.com/ortelius/scec-catalog/model"
)

// Public view types strip everything a read-only anonymous viewer should not
// see (visibility flags stay since they are always true here, timestamps and
// internal bookkeeping go).

// PublicProduct is the anonymous view of a product
type PublicProduct struct {
	Key         string                    `json:"_key"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Identifiers []model.ProductIdentifier `json:"identifiers"`
	Links       []model.ProductLink       `json:"links"`
}

// PublicProject is the anonymous view of a project
type PublicProject struct {
	Key         string `json:"_key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ProjectType string `json:"project_type,omitempty"`
}

// PublicComponent is the anonymous view of a component
type PublicComponent struct {
	Key           string                  `json:"_key"`
	Name          string                  `json:"name"`
	ComponentType model.ComponentType     `json:"component_type,omitempty"`
	Metadata      model.ComponentMetaInfo `json:"metadata,omitempty"`
	SbomCount     int                     `json:"sbom_count"`
}

func publicProductView(p model.Product) PublicProduct {
	return PublicProduct{
		Key:         p.Key,
		Name:        p.Name,
		Description: p.Description,
		Identifiers: p.Identifiers,
		Links:       p.Links,
	}
}

func publicProjectView(p model.Project) PublicProject {
	return PublicProject{
		Key:         p.Key,
		Name:        p.Name,
		Description: p.Description,
		ProjectType: p.ProjectType,
	}
}

// GetPublicProducts handles GET /api/v1/public/products
func GetPublicProducts(c *fiber.Ctx) error {
	ctx := context.Background()
	opts := listOptions(c)
	opts.Filters["is_public"] = true

	total, err := database.CountDocuments(ctx, db.Database, database.ColProduct, opts)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to count products: "+err.Error())
	}

	cursor, err := database.ListDocuments(ctx, db.Database, database.ColProduct, opts)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to list products: "+err.Error())
	}

	products, err := readAll[model.Product](ctx, cursor)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read products: "+err.Error())
	}

	views := make([]PublicProduct, 0, len(products))
	for _, product := range products {
		views = append(views, publicProductView(product))
	}

	return listResponse(c, opts, total, len(views), views)
}

// GetPublicProduct handles GET /api/v1/public/products/:key.
// Private member projects are filtered out, never exposed.
func GetPublicProduct(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	var product model.Product
	found, err := database.GetByKey(ctx, db.Database, database.ColProduct, key, &product)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read product: "+err.Error())
	}
	if !found || !product.IsPublic {
		return fail(c, fiber.StatusNotFound, "Product not found: "+key)
	}

	projects, err := productProjects(ctx, key)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read product projects: "+err.Error())
	}

	projectViews := []PublicProject{}
	for _, project := range projects {
		if project.IsPublic {
			projectViews = append(projectViews, publicProjectView(project))
		}
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"product":  publicProductView(product),
		"projects": projectViews,
	})
}

// GetPublicProject handles GET /api/v1/public/projects/:key
func GetPublicProject(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	var project model.Project
	found, err := database.GetByKey(ctx, db.Database, database.ColProject, key, &project)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read project: "+err.Error())
	}
	if !found || !project.IsPublic {
		return fail(c, fiber.StatusNotFound, "Project not found: "+key)
	}

	components, err := projectComponents(ctx, key)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read project components: "+err.Error())
	}

	componentViews := []PublicComponent{}
	for _, component := range components {
		if !component.IsPublic {
			continue
		}
		sbomCount, err := componentSbomCount(ctx, component.Key)
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, "Failed to count SBOMs: "+err.Error())
		}
		componentViews = append(componentViews, PublicComponent{
			Key:           component.Key,
			Name:          component.Name,
			ComponentType: component.ComponentType,
			Metadata:      component.Metadata,
			SbomCount:     sbomCount,
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"project":    publicProjectView(project),
		"components": componentViews,
	})
}

// GetPublicComponent handles GET /api/v1/public/components/:key
func GetPublicComponent(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	var component model.Component
	found, err := database.GetByKey(ctx, db.Database, database.ColComponent, key, &component)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read component: "+err.Error())
	}
	if !found || !component.IsPublic {
		return fail(c, fiber.StatusNotFound, "Component not found: "+key)
	}

	sbomCount, err := componentSbomCount(ctx, key)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to count SBOMs: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"component": PublicComponent{
			Key:           component.Key,
			Name:          component.Name,
			ComponentType: component.ComponentType,
			Metadata:      component.Metadata,
			SbomCount:     sbomCount,
		},
	})
}

// GetPublicComponentReleases handles GET /api/v1/public/components/:key/releases.
// Only public releases of public components are listed.
func GetPublicComponentReleases(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	var component model.Component
	found, err := database.GetByKey(ctx, db.Database, database.ColComponent, key, &component)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read component: "+err.Error())
	}
	if !found || !component.IsPublic {
		return fail(c, fiber.StatusNotFound, "Component not found: "+key)
	}

	opts := listOptions(c)
	opts.Filters["component_key"] = key
	opts.Filters["is_public"] = true

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
