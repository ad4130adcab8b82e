package handler

import "testing"

func TestForeignParent(t *testing.T) {
	tests := []struct {
		name    string
		parents []string
		selfKey string
		want    string
	}{
		{"no parents", nil, "prod1", ""},
		{"already own member", []string{"prod1"}, "prod1", ""},
		{"owned by another product", []string{"prod2"}, "prod1", "prod2"},
		{"self among others", []string{"prod1", "prod2"}, "prod1", "prod2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := foreignParent(tt.parents, tt.selfKey); got != tt.want {
				t.Errorf("foreignParent(%v, %q) = %q, want %q", tt.parents, tt.selfKey, got, tt.want)
			}
		})
	}
}
