package util

import (
	"reflect"
	"testing"
)

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"x", false},
		{"  x  ", false},
	}
	for _, tt := range tests {
		if got := IsEmpty(tt.input); got != tt.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCleanPURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "strips qualifiers",
			input: "pkg:npm/lodash@4.17.20?arch=x86_64",
			want:  "pkg:npm/lodash@4.17.20",
		},
		{
			name:  "strips subpath",
			input: "pkg:golang/github.com/gofiber/fiber@v2.52.0#middleware",
			want:  "pkg:golang/github.com/gofiber/fiber@v2.52.0",
		},
		{
			name:  "plain purl unchanged",
			input: "pkg:npm/lodash@4.17.20",
			want:  "pkg:npm/lodash@4.17.20",
		},
		{
			name:    "invalid purl",
			input:   "not-a-purl",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanPURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CleanPURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("CleanPURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetBasePURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"pkg:npm/lodash@4.17.20", "pkg:npm/lodash"},
		{"pkg:maven/org.apache.commons/commons-lang3@3.12.0", "pkg:maven/org.apache.commons/commons-lang3"},
		{"pkg:npm/lodash", "pkg:npm/lodash"},
	}
	for _, tt := range tests {
		got, err := GetBasePURL(tt.input)
		if err != nil {
			t.Fatalf("GetBasePURL(%q) returned error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("GetBasePURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsPrereleaseVersion(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"1.2.0-rc.1", true},
		{"2.0.0-beta", true},
		{"1.2.0", false},
		{"v1.2.3", false},
		{"not-a-version", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsPrereleaseVersion(tt.version); got != tt.want {
			t.Errorf("IsPrereleaseVersion(%q) = %v, want %v", tt.version, got, tt.want)
		}
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int // sign only
	}{
		{"1.2.0", "1.10.0", -1},
		{"2.0.0", "1.9.9", 1},
		{"1.0.0", "1.0.0", 0},
		{"1.0.0-rc.1", "1.0.0", -1},
		// Non-semver falls back to string comparison
		{"build-10", "build-9", -1},
		{"abc", "abc", 0},
	}
	for _, tt := range tests {
		got := CompareVersions(tt.a, tt.b)
		if sign(got) != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func TestPickLatestVersion(t *testing.T) {
	tests := []struct {
		name     string
		versions []string
		want     string
	}{
		{
			name:     "empty list",
			versions: nil,
			want:     "",
		},
		{
			name:     "single version",
			versions: []string{"1.0.0"},
			want:     "1.0.0",
		},
		{
			name:     "highest semver wins",
			versions: []string{"1.2.0", "1.10.0", "1.9.0"},
			want:     "1.10.0",
		},
		{
			name:     "stable preferred over newer prerelease",
			versions: []string{"1.0.0", "2.0.0-rc.1"},
			want:     "1.0.0",
		},
		{
			name:     "prerelease only",
			versions: []string{"1.0.0-alpha", "1.0.0-beta"},
			want:     "1.0.0-beta",
		},
		{
			name:     "blank entries skipped",
			versions: []string{"", "1.0.0", ""},
			want:     "1.0.0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PickLatestVersion(tt.versions); got != tt.want {
				t.Errorf("PickLatestVersion(%v) = %q, want %q", tt.versions, got, tt.want)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	valid := []string{
		"https://example.com",
		"http://example.com/path?x=1",
	}
	for _, raw := range valid {
		if err := ValidateURL(raw); err != nil {
			t.Errorf("ValidateURL(%q) returned error: %v", raw, err)
		}
	}

	invalid := []string{
		"ftp://example.com",
		"example.com",
		"https://",
		"",
	}
	for _, raw := range invalid {
		if err := ValidateURL(raw); err == nil {
			t.Errorf("ValidateURL(%q) expected error, got nil", raw)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("dev@example.com"); err != nil {
		t.Errorf("ValidateEmail returned error for valid address: %v", err)
	}
	if err := ValidateEmail("not-an-email"); err == nil {
		t.Error("ValidateEmail expected error for invalid address, got nil")
	}
}

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		idType  string
		value   string
		wantErr bool
	}{
		{"valid purl", "purl", "pkg:npm/lodash@4.17.20", false},
		{"invalid purl", "purl", "lodash@4.17.20", true},
		{"valid cpe", "cpe", "cpe:2.3:a:apache:log4j:2.14.1:*:*:*:*:*:*:*", false},
		{"cpe wrong version", "cpe", "cpe:/a:apache:log4j:2.14.1", true},
		{"gtin free form", "gtin", "00012345678905", false},
		{"sku free form", "sku", "WIDGET-42", false},
		{"mpn free form", "mpn", "BCM2837", false},
		{"empty value", "sku", "  ", true},
		{"unknown type", "isbn", "978-3-16-148410-0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.idType, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q, %q) error = %v, wantErr %v", tt.idType, tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name       string
		current    int
		totalPages int
		radius     int
		want       []int
	}{
		{
			name:       "no pages",
			current:    1,
			totalPages: 0,
			radius:     2,
			want:       nil,
		},
		{
			name:       "fits without gaps",
			current:    2,
			totalPages: 5,
			radius:     2,
			want:       []int{1, 2, 3, 4, 5},
		},
		{
			name:       "gap on the right",
			current:    2,
			totalPages: 10,
			radius:     1,
			want:       []int{1, 2, 3, -1, 10},
		},
		{
			name:       "gap on the left",
			current:    9,
			totalPages: 10,
			radius:     1,
			want:       []int{1, -1, 8, 9, 10},
		},
		{
			name:       "gaps both sides",
			current:    5,
			totalPages: 10,
			radius:     1,
			want:       []int{1, -1, 4, 5, 6, -1, 10},
		},
		{
			name:       "current clamped below",
			current:    0,
			totalPages: 10,
			radius:     1,
			want:       []int{1, 2, -1, 10},
		},
		{
			name:       "current clamped above",
			current:    99,
			totalPages: 10,
			radius:     1,
			want:       []int{1, -1, 9, 10},
		},
		{
			name:       "single page",
			current:    1,
			totalPages: 1,
			radius:     2,
			want:       []int{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PageWindow(tt.current, tt.totalPages, tt.radius)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PageWindow(%d, %d, %d) = %v, want %v",
					tt.current, tt.totalPages, tt.radius, got, tt.want)
			}
		})
	}
}
