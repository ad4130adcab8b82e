// Package database - shared AQL queries for lookups, list pagination, and edge maintenance
package database

import (
	"context"
	"fmt"

	"github.com/arangodb/go-driver/v2/arangodb"
)

// DefaultPageSize is used when a list request does not specify page_size
const DefaultPageSize = 20

// MaxPageSize caps page_size on list requests
const MaxPageSize = 100

// ListOptions control filtering and pagination of list queries
type ListOptions struct {
	Page     int
	PageSize int
	Search   string                 // case-insensitive substring match on name
	Filters  map[string]interface{} // equality filters keyed by document field
}

// Normalize clamps paging values to sane bounds
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 {
		o.PageSize = DefaultPageSize
	}
	if o.PageSize > MaxPageSize {
		o.PageSize = MaxPageSize
	}
	return o
}

// Offset returns the document offset for the current page
func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.PageSize
}

// Filter field names are compiled-in constants, never user input, so they are
// interpolated directly while values always go through bind vars.
func buildFilterClause(opts ListOptions, bindVars map[string]interface{}) string {
	clause := ""
	i := 0
	for field, value := range opts.Filters {
		bind := fmt.Sprintf("filter%d", i)
		clause += fmt.Sprintf(" FILTER d.%s == @%s", field, bind)
		bindVars[bind] = value
		i++
	}
	if opts.Search != "" {
		clause += " FILTER CONTAINS(LOWER(d.name), LOWER(@search))"
		bindVars["search"] = opts.Search
	}
	return clause
}

// CountDocuments returns the number of documents matching the list filters
func CountDocuments(ctx context.Context, db arangodb.Database, collection string, opts ListOptions) (int, error) {
	bindVars := map[string]interface{}{
		"@col": collection,
	}
	query := "FOR d IN @@col" + buildFilterClause(opts, bindVars) +
		" COLLECT WITH COUNT INTO total RETURN total"

	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return 0, err
	}
	defer cursor.Close()

	total := 0
	if cursor.HasMore() {
		if _, err := cursor.ReadDocument(ctx, &total); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// ListDocuments returns a cursor over one page of documents, sorted by name
// then key for a stable order
func ListDocuments(ctx context.Context, db arangodb.Database, collection string, opts ListOptions) (arangodb.Cursor, error) {
	opts = opts.Normalize()
	bindVars := map[string]interface{}{
		"@col": collection,
	}
	query := "FOR d IN @@col" + buildFilterClause(opts, bindVars) +
		" SORT d.name ASC, d._key ASC LIMIT @offset, @count RETURN d"
	bindVars["offset"] = opts.Offset()
	bindVars["count"] = opts.PageSize

	return db.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
}

// GetByKey reads a single document into out. Returns false when the key does not exist.
func GetByKey(ctx context.Context, db arangodb.Database, collection, key string, out interface{}) (bool, error) {
	query := `
		FOR d IN @@col
			FILTER d._key == @key
			LIMIT 1
			RETURN d
	`
	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"@col": collection,
			"key":  key,
		},
	})
	if err != nil {
		return false, err
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return false, nil
	}
	if _, err := cursor.ReadDocument(ctx, out); err != nil {
		return false, err
	}
	return true, nil
}

// FindKeyByFields checks if a document exists matching all field values.
// Returns the document key if found, empty string if not found.
func FindKeyByFields(ctx context.Context, db arangodb.Database, collection string, fields map[string]interface{}) (string, error) {
	bindVars := map[string]interface{}{
		"@col": collection,
	}
	query := "FOR d IN @@col"
	i := 0
	for field, value := range fields {
		bind := fmt.Sprintf("field%d", i)
		query += fmt.Sprintf(" FILTER d.%s == @%s", field, bind)
		bindVars[bind] = value
		i++
	}
	query += " LIMIT 1 RETURN d._key"

	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return "", err
	}
	defer cursor.Close()

	if cursor.HasMore() {
		var key string
		if _, err := cursor.ReadDocument(ctx, &key); err != nil {
			return "", err
		}
		return key, nil
	}
	return "", nil
}

// UpdateByKey applies a partial update and returns whether the document existed
func UpdateByKey(ctx context.Context, db arangodb.Database, collection, key string, patch map[string]interface{}) (bool, error) {
	query := `
		FOR d IN @@col
			FILTER d._key == @key
			UPDATE d WITH @patch IN @@col
			RETURN NEW._key
	`
	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"@col":  collection,
			"key":   key,
			"patch": patch,
		},
	})
	if err != nil {
		return false, err
	}
	defer cursor.Close()

	return cursor.HasMore(), nil
}

// RemoveByKey deletes a document and returns whether it existed
func RemoveByKey(ctx context.Context, db arangodb.Database, collection, key string) (bool, error) {
	query := `
		FOR d IN @@col
			FILTER d._key == @key
			REMOVE d IN @@col
			RETURN OLD._key
	`
	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"@col": collection,
			"key":  key,
		},
	})
	if err != nil {
		return false, err
	}
	defer cursor.Close()

	return cursor.HasMore(), nil
}
