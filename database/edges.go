// Package database - edge collection queries for catalog membership graphs
package database

import (
	"context"

	"github.com/arangodb/go-driver/v2/arangodb"
)

// DiffKeys computes the edge changes needed to move from current membership to
// desired membership. Order is preserved from the input slices; duplicates are
// collapsed.
func DiffKeys(current, desired []string) (toAdd, toRemove []string) {
	currentSet := make(map[string]bool, len(current))
	for _, k := range current {
		currentSet[k] = true
	}
	desiredSet := make(map[string]bool, len(desired))

	for _, k := range desired {
		if desiredSet[k] {
			continue
		}
		desiredSet[k] = true
		if !currentSet[k] {
			toAdd = append(toAdd, k)
		}
	}
	for _, k := range current {
		if !desiredSet[k] {
			toRemove = append(toRemove, k)
		}
	}
	return toAdd, toRemove
}

// OutboundKeys returns the child document keys reachable from fromID over the edge collection
func OutboundKeys(ctx context.Context, db arangodb.Database, edgeCollection, fromID string) ([]string, error) {
	query := `
		FOR e IN @@edges
			FILTER e._from == @from
			RETURN PARSE_IDENTIFIER(e._to).key
	`
	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"@edges": edgeCollection,
			"from":   fromID,
		},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var keys []string
	for cursor.HasMore() {
		var key string
		if _, err := cursor.ReadDocument(ctx, &key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// InboundKeys returns the parent document keys pointing at toID over the edge collection
func InboundKeys(ctx context.Context, db arangodb.Database, edgeCollection, toID string) ([]string, error) {
	query := `
		FOR e IN @@edges
			FILTER e._to == @to
			RETURN PARSE_IDENTIFIER(e._from).key
	`
	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"@edges": edgeCollection,
			"to":     toID,
		},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var keys []string
	for cursor.HasMore() {
		var key string
		if _, err := cursor.ReadDocument(ctx, &key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// CountOutbound returns the number of edges leaving fromID
func CountOutbound(ctx context.Context, db arangodb.Database, edgeCollection, fromID string) (int, error) {
	query := `
		FOR e IN @@edges
			FILTER e._from == @from
			COLLECT WITH COUNT INTO total
			RETURN total
	`
	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"@edges": edgeCollection,
			"from":   fromID,
		},
	})
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

// CountInbound returns the number of edges arriving at toID
func CountInbound(ctx context.Context, db arangodb.Database, edgeCollection, toID string) (int, error) {
	query := `
		FOR e IN @@edges
			FILTER e._to == @to
			COLLECT WITH COUNT INTO total
			RETURN total
	`
	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"@edges": edgeCollection,
			"to":     toID,
		},
	})
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

// InsertEdges inserts multiple edges in a single query
func InsertEdges(ctx context.Context, db arangodb.Database, edgeCollection string, edges []map[string]interface{}) error {
	if len(edges) == 0 {
		return nil
	}

	query := `
		FOR edge IN @edges
			INSERT edge INTO @@edges
	`
	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"@edges": edgeCollection,
			"edges":  edges,
		},
	})
	if err != nil {
		return err
	}
	cursor.Close()
	return nil
}

// RemoveEdgesFrom deletes all edges leaving fromID
func RemoveEdgesFrom(ctx context.Context, db arangodb.Database, edgeCollection, fromID string) error {
	query := `
		FOR e IN @@edges
			FILTER e._from == @from
			REMOVE e IN @@edges
	`
	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"@edges": edgeCollection,
			"from":   fromID,
		},
	})
	if err != nil {
		return err
	}
	cursor.Close()
	return nil
}

// RemoveEdgesTo deletes all edges arriving at toID
func RemoveEdgesTo(ctx context.Context, db arangodb.Database, edgeCollection, toID string) error {
	query := `
		FOR e IN @@edges
			FILTER e._to == @to
			REMOVE e IN @@edges
	`
	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"@edges": edgeCollection,
			"to":     toID,
		},
	})
	if err != nil {
		return err
	}
	cursor.Close()
	return nil
}

// RemoveEdge deletes the edges between a specific from/to pair
func RemoveEdge(ctx context.Context, db arangodb.Database, edgeCollection, fromID, toID string) (bool, error) {
	query := `
		FOR e IN @@edges
			FILTER e._from == @from AND e._to == @to
			REMOVE e IN @@edges
			RETURN OLD._key
	`
	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"@edges": edgeCollection,
			"from":   fromID,
			"to":     toID,
		},
	})
	if err != nil {
		return false, err
	}
	defer cursor.Close()

	return cursor.HasMore(), nil
}

// ReplaceOutboundEdges sets the exact outbound membership of fromID, returning
// how many edges were added and removed. toPrefix is the child collection name
// used to build _to handles.
func ReplaceOutboundEdges(ctx context.Context, db arangodb.Database, edgeCollection, fromID, toPrefix string, desired []string) (int, int, error) {
	current, err := OutboundKeys(ctx, db, edgeCollection, fromID)
	if err != nil {
		return 0, 0, err
	}

	toAdd, toRemove := DiffKeys(current, desired)

	for _, key := range toRemove {
		if _, err := RemoveEdge(ctx, db, edgeCollection, fromID, toPrefix+"/"+key); err != nil {
			return 0, 0, err
		}
	}

	var edges []map[string]interface{}
	for _, key := range toAdd {
		edges = append(edges, map[string]interface{}{
			"_from": fromID,
			"_to":   toPrefix + "/" + key,
		})
	}
	if err := InsertEdges(ctx, db, edgeCollection, edges); err != nil {
		return 0, 0, err
	}

	return len(toAdd), len(toRemove), nil
}
