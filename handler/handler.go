// Package handler implements the /api/v1 REST surface of the catalog:
// products, projects, components, releases, artifacts, tokens, and
// notifications, plus the public read-only views.
package handler

import (
	"context"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/scec-catalog/database"
	"github.com/ortelius/scec-catalog/model"
	"go.uber.org/zap"
)

var db database.DBConnection
var logger *zap.Logger

// Init sets the database connection used by all handlers
func Init(conn database.DBConnection) {
	db = conn
	logger = database.Logger()
}

// fail writes a StatusResponse error envelope
func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(model.StatusResponse{
		Success: false,
		Message: message,
	})
}

// created writes a StatusResponse success envelope with 201
func created(c *fiber.Ctx, message, key string) error {
	return c.Status(fiber.StatusCreated).JSON(model.StatusResponse{
		Success: true,
		Message: message,
		Key:     key,
	})
}

// ok writes a StatusResponse success envelope with 200
func ok(c *fiber.Ctx, message string) error {
	return c.JSON(model.StatusResponse{
		Success: true,
		Message: message,
	})
}

// listOptions extracts page, page_size, and search query params
func listOptions(c *fiber.Ctx) database.ListOptions {
	return database.ListOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", database.DefaultPageSize),
		Search:   c.Query("search"),
		Filters:  map[string]interface{}{},
	}.Normalize()
}

// listResponse writes the shared pagination envelope
func listResponse(c *fiber.Ctx, opts database.ListOptions, total, count int, items interface{}) error {
	return c.JSON(model.ListResponse{
		Success:  true,
		Count:    count,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.PageSize,
		Items:    items,
	})
}

// queryOpts wraps bind vars for an AQL query
func queryOpts(bindVars map[string]interface{}) *arangodb.QueryOptions {
	return &arangodb.QueryOptions{BindVars: bindVars}
}

// readAll drains a cursor into a typed slice and closes it
func readAll[T any](ctx context.Context, cursor arangodb.Cursor) ([]T, error) {
	defer cursor.Close()
	items := []T{}
	for cursor.HasMore() {
		var item T
		if _, err := cursor.ReadDocument(ctx, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// listCollection runs the count+page queries for a collection and writes the envelope
func listCollection[T any](c *fiber.Ctx, collection string, opts database.ListOptions) error {
	ctx := context.Background()

	total, err := database.CountDocuments(ctx, db.Database, collection, opts)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to count "+collection+" documents: "+err.Error())
	}

	cursor, err := database.ListDocuments(ctx, db.Database, collection, opts)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to list "+collection+" documents: "+err.Error())
	}

	items, err := readAll[T](ctx, cursor)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read "+collection+" documents: "+err.Error())
	}

	return listResponse(c, opts, total, len(items), items)
}

// boolFilter copies an optional true/false query param into the list filters
func boolFilter(c *fiber.Ctx, opts database.ListOptions, param, field string) database.ListOptions {
	switch c.Query(param) {
	case "true":
		opts.Filters[field] = true
	case "false":
		opts.Filters[field] = false
	}
	return opts
}
