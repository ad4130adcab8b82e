package database

import (
	"strings"
	"testing"
)

func TestBuildFilterClause(t *testing.T) {
	t.Run("search filters on name", func(t *testing.T) {
		bindVars := map[string]interface{}{}
		clause := buildFilterClause(ListOptions{Search: "widget"}, bindVars)
		if !strings.Contains(clause, "CONTAINS(LOWER(d.name), LOWER(@search))") {
			t.Errorf("search clause missing from %q", clause)
		}
		if bindVars["search"] != "widget" {
			t.Errorf("search bind var = %v, want widget", bindVars["search"])
		}
	})

	t.Run("equality filters use bind vars", func(t *testing.T) {
		bindVars := map[string]interface{}{}
		clause := buildFilterClause(ListOptions{
			Filters: map[string]interface{}{"is_public": true},
		}, bindVars)
		if !strings.Contains(clause, "FILTER d.is_public == @filter0") {
			t.Errorf("filter clause missing from %q", clause)
		}
		if bindVars["filter0"] != true {
			t.Errorf("filter bind var = %v, want true", bindVars["filter0"])
		}
	})

	t.Run("empty options add nothing", func(t *testing.T) {
		bindVars := map[string]interface{}{}
		if clause := buildFilterClause(ListOptions{}, bindVars); clause != "" {
			t.Errorf("clause = %q, want empty", clause)
		}
		if len(bindVars) != 0 {
			t.Errorf("bind vars = %v, want empty", bindVars)
		}
	})
}
