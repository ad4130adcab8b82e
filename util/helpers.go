// Package util provides shared helpers for PURL handling, version ordering,
// field validation, and pagination.
package util

import (
	"fmt"
	"net/mail"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/package-url/packageurl-go"
)

// GetEnvDefault is a convenience function for handling env vars
func GetEnvDefault(key, defVal string) string {
	val, ex := os.LookupEnv(key) // get the env var
	if !ex {                     // not found return default
		return defVal
	}
	return val // return value for env var
}

// IsEmpty checks if a string is empty or contains only whitespace
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}

// IsNotEmpty checks if a string is not empty
func IsNotEmpty(s string) bool {
	return !IsEmpty(s)
}

// Contains checks if a string slice contains an item
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// CleanPURL removes qualifiers (after ?) and subpath (after #) to create canonical PURL
func CleanPURL(purlStr string) (string, error) {
	parsed, err := packageurl.FromString(purlStr)
	if err != nil {
		return "", err
	}

	// Create new PURL without qualifiers and subpath
	cleaned := packageurl.PackageURL{
		Type:      parsed.Type,
		Namespace: parsed.Namespace,
		Name:      parsed.Name,
		Version:   parsed.Version,
		// Qualifiers and Subpath are intentionally omitted
	}

	return strings.ToLower(cleaned.ToString()), nil
}

// GetBasePURL removes the version component from a PURL to create a base package identifier
// Example: pkg:npm/lodash@4.17.20 -> pkg:npm/lodash
func GetBasePURL(purlStr string) (string, error) {
	parsed, err := packageurl.FromString(purlStr)
	if err != nil {
		return "", err
	}

	// Create new PURL without version, qualifiers, and subpath
	base := packageurl.PackageURL{
		Type:      parsed.Type,
		Namespace: parsed.Namespace,
		Name:      parsed.Name,
		// Version, Qualifiers and Subpath are intentionally omitted
	}

	return strings.ToLower(base.ToString()), nil
}

// ParsePURL parses a PURL string and returns the parsed PackageURL
func ParsePURL(purlStr string) (*packageurl.PackageURL, error) {
	parsed, err := packageurl.FromString(purlStr)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// IsPrereleaseVersion reports whether version carries a semver prerelease tag
// (e.g. 1.2.0-rc.1). Non-semver versions are never prereleases.
func IsPrereleaseVersion(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return v.Prerelease() != ""
}

// CompareVersions orders two version strings. Semver ordering when both parse,
// string comparison as the fallback. Returns <0, 0, >0 like strings.Compare.
func CompareVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return va.Compare(vb)
}

// PickLatestVersion selects the latest stable version from the list, preferring
// non-prerelease semver versions. Returns empty string for an empty list.
func PickLatestVersion(versions []string) string {
	var latest string
	latestIsStable := false
	for _, v := range versions {
		if v == "" {
			continue
		}
		stable := false
		if parsed, err := semver.NewVersion(v); err == nil {
			stable = parsed.Prerelease() == ""
		}
		switch {
		case latest == "":
			latest, latestIsStable = v, stable
		case stable && !latestIsStable:
			latest, latestIsStable = v, true
		case stable == latestIsStable && CompareVersions(v, latest) > 0:
			latest = v
		}
	}
	return latest
}

// ValidateURL checks that raw is an absolute http(s) URL
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https: %s", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL is missing a host: %s", raw)
	}
	return nil
}

// ValidateEmail checks that raw parses as an RFC 5322 address
func ValidateEmail(raw string) error {
	if _, err := mail.ParseAddress(raw); err != nil {
		return fmt.Errorf("invalid email address %q: %w", raw, err)
	}
	return nil
}

var cpePattern = regexp.MustCompile(`^cpe:2\.3:[aho*-](:[^:]+){10}$`)

// ValidateIdentifier checks an identifier value against its declared type.
// PURLs must parse, CPEs must match the 2.3 formatted-string grammar, and the
// remaining types only need to be non-empty.
func ValidateIdentifier(identifierType, value string) error {
	if IsEmpty(value) {
		return fmt.Errorf("identifier value is required")
	}
	switch identifierType {
	case "purl":
		if _, err := packageurl.FromString(value); err != nil {
			return fmt.Errorf("invalid purl: %w", err)
		}
	case "cpe":
		if !cpePattern.MatchString(value) {
			return fmt.Errorf("invalid cpe 2.3 string: %s", value)
		}
	case "gtin", "sku", "mpn":
		// free-form, non-empty already checked
	default:
		return fmt.Errorf("unknown identifier type: %s", identifierType)
	}
	return nil
}

// PageWindow computes the page numbers to display in a pagination control.
// It always includes the first and last page and radius pages around current,
// inserting -1 where pages are elided. totalPages < 1 yields an empty window.
func PageWindow(current, totalPages, radius int) []int {
	if totalPages < 1 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	var window []int
	prev := 0
	for page := 1; page <= totalPages; page++ {
		show := page == 1 || page == totalPages ||
			(page >= current-radius && page <= current+radius)
		if !show {
			continue
		}
		if prev != 0 && page != prev+1 {
			window = append(window, -1)
		}
		window = append(window, page)
		prev = page
	}
	return window
}
