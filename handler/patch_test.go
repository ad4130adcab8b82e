package handler

import "testing"

func TestBuildPatch(t *testing.T) {
	allowed := []string{"name", "description", "is_public"}

	t.Run("picks only allowed fields", func(t *testing.T) {
		body := map[string]interface{}{
			"name":     "widget",
			"objtype":  "hacked",
			"_key":     "injected",
			"tokensha": "injected",
		}
		patch := buildPatch(body, allowed)
		if patch == nil {
			t.Fatal("buildPatch returned nil for a body with allowed fields")
		}
		if patch["name"] != "widget" {
			t.Errorf("patch name = %v, want widget", patch["name"])
		}
		for _, field := range []string{"objtype", "_key", "tokensha"} {
			if _, present := patch[field]; present {
				t.Errorf("patch leaked disallowed field %q", field)
			}
		}
		if _, present := patch["updated_at"]; !present {
			t.Error("patch missing updated_at stamp")
		}
	})

	t.Run("nil when nothing allowed present", func(t *testing.T) {
		body := map[string]interface{}{"objtype": "x", "other": 1}
		if patch := buildPatch(body, allowed); patch != nil {
			t.Errorf("buildPatch = %v, want nil", patch)
		}
	})

	t.Run("nil for empty body", func(t *testing.T) {
		if patch := buildPatch(map[string]interface{}{}, allowed); patch != nil {
			t.Errorf("buildPatch = %v, want nil", patch)
		}
	})

	t.Run("false values survive", func(t *testing.T) {
		body := map[string]interface{}{"is_public": false}
		patch := buildPatch(body, allowed)
		if patch == nil {
			t.Fatal("buildPatch returned nil")
		}
		if patch["is_public"] != false {
			t.Errorf("patch is_public = %v, want false", patch["is_public"])
		}
	})
}

func TestPatchHasEmptyString(t *testing.T) {
	tests := []struct {
		name  string
		patch map[string]interface{}
		field string
		want  bool
	}{
		{"empty string", map[string]interface{}{"name": ""}, "name", true},
		{"non-empty string", map[string]interface{}{"name": "x"}, "name", false},
		{"field absent", map[string]interface{}{"other": ""}, "name", false},
		{"non-string value", map[string]interface{}{"name": 0}, "name", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := patchHasEmptyString(tt.patch, tt.field); got != tt.want {
				t.Errorf("patchHasEmptyString = %v, want %v", got, tt.want)
			}
		})
	}
}
