package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/scec-catalog/model"
)

// testApp registers the handlers under test. The cases below all fail
// validation before any database access.
func testApp() *fiber.App {
	app := fiber.New()
	app.Post("/products", PostProduct)
	app.Patch("/products/:key", PatchProduct)
	app.Post("/products/:key/identifiers", PostProductIdentifier)
	app.Post("/products/:key/links", PostProductLink)
	app.Patch("/releases/:key", PatchRelease)
	app.Post("/tokens", PostToken)
	app.Post("/notifications/", PostNotification)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, model.StatusResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	var status model.StatusResponse
	if err := json.Unmarshal(raw, &status); err != nil {
		t.Fatalf("response is not a status envelope: %v (%s)", err, raw)
	}
	return resp.StatusCode, status
}

func TestPostProductValidation(t *testing.T) {
	app := testApp()

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"blank name", `{"name":"   "}`},
		{"malformed JSON", `{"name":`},
		{"invalid identifier", `{"name":"widget","identifiers":[{"identifier_type":"purl","value":"not-a-purl"}]}`},
		{"invalid link URL", `{"name":"widget","links":[{"link_type":"website","url":"ftp://example.com"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, status := doJSON(t, app, "POST", "/products", tt.body)
			if code != fiber.StatusBadRequest {
				t.Errorf("status = %d, want %d", code, fiber.StatusBadRequest)
			}
			if status.Success {
				t.Error("error envelope reported success")
			}
		})
	}
}

func TestPatchProductValidation(t *testing.T) {
	app := testApp()

	code, _ := doJSON(t, app, "PATCH", "/products/p1", `{}`)
	if code != fiber.StatusBadRequest {
		t.Errorf("empty patch status = %d, want %d", code, fiber.StatusBadRequest)
	}

	code, status := doJSON(t, app, "PATCH", "/products/p1", `{"name":""}`)
	if code != fiber.StatusBadRequest {
		t.Errorf("blank name status = %d, want %d", code, fiber.StatusBadRequest)
	}
	if status.Success {
		t.Error("error envelope reported success")
	}

	// Only disallowed fields in the body is the same as an empty patch
	code, _ = doJSON(t, app, "PATCH", "/products/p1", `{"objtype":"hacked","_key":"x"}`)
	if code != fiber.StatusBadRequest {
		t.Errorf("disallowed-only patch status = %d, want %d", code, fiber.StatusBadRequest)
	}
}

func TestPatchReleaseValidation(t *testing.T) {
	app := testApp()

	code, _ := doJSON(t, app, "PATCH", "/releases/r1", `{"version":"2.0.0"}`)
	if code != fiber.StatusBadRequest {
		t.Errorf("version is immutable, status = %d, want %d", code, fiber.StatusBadRequest)
	}
}

func TestPostProductIdentifierValidation(t *testing.T) {
	app := testApp()

	tests := []struct {
		name string
		body string
	}{
		{"unknown type", `{"identifier_type":"isbn","value":"978-3-16-148410-0"}`},
		{"empty value", `{"identifier_type":"sku","value":"  "}`},
		{"bad cpe", `{"identifier_type":"cpe","value":"cpe:/a:apache:log4j"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := doJSON(t, app, "POST", "/products/p1/identifiers", tt.body)
			if code != fiber.StatusBadRequest {
				t.Errorf("status = %d, want %d", code, fiber.StatusBadRequest)
			}
		})
	}
}

func TestPostProductLinkValidation(t *testing.T) {
	app := testApp()

	tests := []struct {
		name string
		body string
	}{
		{"bad scheme", `{"link_type":"website","url":"ftp://example.com"}`},
		{"unknown link type", `{"link_type":"mirror","url":"https://example.com"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := doJSON(t, app, "POST", "/products/p1/links", tt.body)
			if code != fiber.StatusBadRequest {
				t.Errorf("status = %d, want %d", code, fiber.StatusBadRequest)
			}
		})
	}
}

func TestPostTokenValidation(t *testing.T) {
	app := testApp()

	code, _ := doJSON(t, app, "POST", "/tokens", `{"description":"  "}`)
	if code != fiber.StatusBadRequest {
		t.Errorf("blank description status = %d, want %d", code, fiber.StatusBadRequest)
	}

	code, status := doJSON(t, app, "POST", "/tokens", `{"description":"ci","expires_in_days":-1}`)
	if code != fiber.StatusBadRequest {
		t.Errorf("negative expiry status = %d, want %d", code, fiber.StatusBadRequest)
	}
	if status.Success {
		t.Error("error envelope reported success")
	}
}

func TestPostNotificationValidation(t *testing.T) {
	app := testApp()

	code, _ := doJSON(t, app, "POST", "/notifications/", `{"message":""}`)
	if code != fiber.StatusBadRequest {
		t.Errorf("blank message status = %d, want %d", code, fiber.StatusBadRequest)
	}

	code, _ = doJSON(t, app, "POST", "/notifications/", `{"message":"quota reached","severity":"fatal"}`)
	if code != fiber.StatusBadRequest {
		t.Errorf("unknown severity status = %d, want %d", code, fiber.StatusBadRequest)
	}
}
