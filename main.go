// package main provides the entry point for the scec-catalog microservice,
// wiring the REST and GraphQL APIs for the SBOM catalog over ArangoDB.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/graphql-go/graphql"
	"github.com/ortelius/scec-catalog/config"
	"github.com/ortelius/scec-catalog/database"
	gqlschema "github.com/ortelius/scec-catalog/graphql"
	"github.com/ortelius/scec-catalog/handler"
)

// GraphQLHandler handles GraphQL requests
func GraphQLHandler(schema graphql.Schema) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var params struct {
			Query         string                 `json:"query"`
			OperationName string                 `json:"operationName"`
			Variables     map[string]interface{} `json:"variables"`
		}

		if err := c.BodyParser(&params); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": []map[string]interface{}{
					{
						"message": "Invalid request body",
					},
				},
			})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  params.Query,
			VariableValues: params.Variables,
			OperationName:  params.OperationName,
		})

		if len(result.Errors) > 0 {
			log.Printf("GraphQL errors: %v", result.Errors)
		}

		return c.JSON(result)
	}
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	db := database.InitializeDatabase(cfg)

	// Initialize handler and GraphQL state
	handler.Init(db)
	gqlschema.InitDB(db)
	schema, err := gqlschema.CreateSchema()
	if err != nil {
		log.Fatalf("Failed to create GraphQL schema: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:     "scec-catalog API v1.0",
		BodyLimit:   cfg.BodyLimitMB * 1024 * 1024, // large SBOM uploads
		ReadTimeout: time.Second * 60,              // 60 second read timeout for large uploads
	})

	// Middleware
	app.Use(fiberrecover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
		})
	})

	// API routes
	api := app.Group("/api/v1")

	// Public read-only views, registered before token auth kicks in
	if cfg.PublicRead {
		public := api.Group("/public")
		public.Get("/products", handler.GetPublicProducts)
		public.Get("/products/:key", handler.GetPublicProduct)
		public.Get("/projects/:key", handler.GetPublicProject)
		public.Get("/components/:key", handler.GetPublicComponent)
		public.Get("/components/:key/releases", handler.GetPublicComponentReleases)
	}

	// Everything below requires a token (bootstrap: open until the first token exists)
	api.Use(handler.RequireToken)

	// Products
	api.Get("/products", handler.GetProducts)
	api.Post("/products", handler.PostProduct)
	api.Get("/products/:key", handler.GetProduct)
	api.Patch("/products/:key", handler.PatchProduct)
	api.Delete("/products/:key", handler.DeleteProduct)
	api.Put("/products/:key/projects", handler.PutProductProjects)
	api.Get("/products/:key/identifiers", handler.GetProductIdentifiers)
	api.Post("/products/:key/identifiers", handler.PostProductIdentifier)
	api.Put("/products/:key/identifiers/:id", handler.PutProductIdentifier)
	api.Delete("/products/:key/identifiers/:id", handler.DeleteProductIdentifier)
	api.Get("/products/:key/links", handler.GetProductLinks)
	api.Post("/products/:key/links", handler.PostProductLink)
	api.Put("/products/:key/links/:id", handler.PutProductLink)
	api.Delete("/products/:key/links/:id", handler.DeleteProductLink)

	// Projects
	api.Get("/projects", handler.GetProjects)
	api.Post("/projects", handler.PostProject)
	api.Get("/projects/:key", handler.GetProject)
	api.Patch("/projects/:key", handler.PatchProject)
	api.Delete("/projects/:key", handler.DeleteProject)
	api.Put("/projects/:key/components", handler.PutProjectComponents)

	// Components
	api.Get("/components", handler.GetComponents)
	api.Post("/components", handler.PostComponent)
	api.Get("/components/:key", handler.GetComponent)
	api.Patch("/components/:key", handler.PatchComponent)
	api.Delete("/components/:key", handler.DeleteComponent)
	api.Get("/components/:key/metadata", handler.GetComponentMetadata)
	api.Put("/components/:key/metadata", handler.PutComponentMetadata)
	api.Get("/components/:key/releases", handler.GetComponentReleases)
	api.Post("/components/:key/releases", handler.PostComponentRelease)

	// Releases and artifacts
	api.Get("/releases/:key", handler.GetRelease)
	api.Patch("/releases/:key", handler.PatchRelease)
	api.Delete("/releases/:key", handler.DeleteRelease)
	api.Get("/releases/:key/artifacts", handler.GetReleaseArtifacts)
	api.Post("/releases/:key/artifacts", handler.PostReleaseArtifact)
	api.Delete("/releases/:key/artifacts/:akey", handler.DeleteReleaseArtifact)

	// Access tokens
	api.Get("/tokens", handler.GetTokens)
	api.Post("/tokens", handler.PostToken)
	api.Delete("/tokens/:key", handler.DeleteToken)

	// Billing notifications
	api.Get("/notifications/", handler.GetNotifications)
	api.Post("/notifications/", handler.PostNotification)
	api.Post("/notifications/:key/read", handler.PostNotificationRead)
	api.Delete("/notifications/:key", handler.DeleteNotification)

	// GraphQL endpoint for read queries
	api.Post("/graphql", GraphQLHandler(schema))

	// Start server
	log.Printf("Starting server on port %s", cfg.Port)
	log.Printf("GraphQL endpoint available at /api/v1/graphql")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
