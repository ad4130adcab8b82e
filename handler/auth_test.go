package handler

import "testing"

func TestBearerSecret(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer token", "Bearer scec_abc123", "scec_abc123"},
		{"bearer with trailing space", "Bearer scec_abc123  ", "scec_abc123"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", ""},
		{"lowercase scheme rejected", "bearer scec_abc123", ""},
		{"bearer with no token", "Bearer ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bearerSecret(tt.header); got != tt.want {
				t.Errorf("bearerSecret(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
