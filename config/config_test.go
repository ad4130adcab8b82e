package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Port != "3000" {
		t.Errorf("default port = %q, want 3000", cfg.Port)
	}
	if cfg.DatabaseName != "sbomcatalog" {
		t.Errorf("default database = %q, want sbomcatalog", cfg.DatabaseName)
	}
	if !cfg.PublicRead {
		t.Error("public read should default to enabled")
	}
}

func TestLoadNoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}
	if cfg.ArangoURL != "http://localhost:8529" {
		t.Errorf("derived arango URL = %q, want http://localhost:8529", cfg.ArangoURL)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load with a missing explicit path should return an error")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
port: "8080"
arango_host: arango.internal
database_name: catalogtest
public_read: false
`)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.ArangoHost != "arango.internal" {
		t.Errorf("arango host = %q, want arango.internal", cfg.ArangoHost)
	}
	if cfg.DatabaseName != "catalogtest" {
		t.Errorf("database = %q, want catalogtest", cfg.DatabaseName)
	}
	if cfg.PublicRead {
		t.Error("public read should be disabled by the file")
	}
	if cfg.ArangoURL != "http://arango.internal:8529" {
		t.Errorf("derived arango URL = %q, want http://arango.internal:8529", cfg.ArangoURL)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: \"8080\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MS_PORT", "9999")
	t.Setenv("ARANGO_DATABASE", "fromenv")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "9999" {
		t.Errorf("port = %q, env should win over file", cfg.Port)
	}
	if cfg.DatabaseName != "fromenv" {
		t.Errorf("database = %q, want fromenv", cfg.DatabaseName)
	}
}

func TestLoadInvalidBodyLimit(t *testing.T) {
	t.Setenv("MS_BODY_LIMIT_MB", "not-a-number")
	if _, err := Load(""); err == nil {
		t.Error("invalid MS_BODY_LIMIT_MB should return an error")
	}

	t.Setenv("MS_BODY_LIMIT_MB", "0")
	if _, err := Load(""); err == nil {
		t.Error("MS_BODY_LIMIT_MB below 1 should return an error")
	}
}

func TestLoadExplicitArangoURL(t *testing.T) {
	t.Setenv("ARANGO_URL", "https://cluster.example.com:8530")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ArangoURL != "https://cluster.example.com:8530" {
		t.Errorf("arango URL = %q, explicit URL should not be rebuilt", cfg.ArangoURL)
	}
}
