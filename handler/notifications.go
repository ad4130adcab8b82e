package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/scec-catalog/database"
	"github.com/ortelius/scec-catalog/model"
	"github.com/ortelius/scec-catalog/util"
)

// GetNotifications handles GET /api/v1/notifications/.
// unread=true limits the list to unread notices.
func GetNotifications(c *fiber.Ctx) error {
	opts := listOptions(c)
	opts.Search = "" // notifications have no name field; keep count and page in step
	if c.Query("unread") == "true" {
		opts.Filters["read"] = false
	}
	if severity := c.Query("severity"); severity != "" {
		opts.Filters["severity"] = severity
	}

	ctx := context.Background()

	total, err := database.CountDocuments(ctx, db.Database, database.ColNotification, opts)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to count notifications: "+err.Error())
	}

	// Newest first rather than the default name sort
	bindVars := map[string]interface{}{
		"offset": opts.Offset(),
		"count":  opts.PageSize,
	}
	query := "FOR d IN notification"
	if read, present := opts.Filters["read"]; present {
		query += " FILTER d.read == @read"
		bindVars["read"] = read
	}
	if severity, present := opts.Filters["severity"]; present {
		query += " FILTER d.severity == @severity"
		bindVars["severity"] = severity
	}
	query += " SORT d.created_at DESC LIMIT @offset, @count RETURN d"

	cursor, err := db.Database.Query(ctx, query, queryOpts(bindVars))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to list notifications: "+err.Error())
	}

	notifications, err := readAll[model.Notification](ctx, cursor)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read notifications: "+err.Error())
	}

	return listResponse(c, opts, total, len(notifications), notifications)
}

// PostNotification handles POST /api/v1/notifications/ (billing system hook)
func PostNotification(c *fiber.Ctx) error {
	ctx := context.Background()

	req := model.NewNotification()
	if err := c.BodyParser(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if util.IsEmpty(req.Message) {
		return fail(c, fiber.StatusBadRequest, "Notification message is a required field")
	}
	switch req.Severity {
	case model.SeverityInfo, model.SeverityWarning, model.SeverityError:
	default:
		return fail(c, fiber.StatusBadRequest, "Unknown severity: "+string(req.Severity))
	}
	req.ObjType = "Notification"
	req.Read = false

	meta, err := db.Collections[database.ColNotification].CreateDocument(ctx, req)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to save notification: "+err.Error())
	}

	return created(c, "Notification created", meta.Key)
}

// PostNotificationRead handles POST /api/v1/notifications/:key/read
func PostNotificationRead(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	found, err := database.UpdateByKey(ctx, db.Database, database.ColNotification, key, map[string]interface{}{
		"read": true,
	})
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to update notification: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Notification not found: "+key)
	}

	return ok(c, "Notification marked read")
}

// DeleteNotification handles DELETE /api/v1/notifications/:key
func DeleteNotification(c *fiber.Ctx) error {
	ctx := context.Background()
	key := c.Params("key")

	found, err := database.RemoveByKey(ctx, db.Database, database.ColNotification, key)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to delete notification: "+err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "Notification not found: "+key)
	}

	return ok(c, "Notification deleted")
}
