// Package config loads service configuration from an optional YAML file with
// environment variable overrides. Environment always wins so container
// deployments need no file at all.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ortelius/scec-catalog/util"
	"gopkg.in/yaml.v2"
)

// Config holds the runtime settings for the catalog service
type Config struct {
	Port         string `yaml:"port"`
	BodyLimitMB  int    `yaml:"body_limit_mb"`
	ArangoHost   string `yaml:"arango_host"`
	ArangoPort   string `yaml:"arango_port"`
	ArangoUser   string `yaml:"arango_user"`
	ArangoPass   string `yaml:"arango_pass"`
	ArangoURL    string `yaml:"arango_url"`
	DatabaseName string `yaml:"database_name"`
	// PublicRead exposes the /api/v1/public routes without authentication
	PublicRead bool `yaml:"public_read"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Port:         "3000",
		BodyLimitMB:  50,
		ArangoHost:   "localhost",
		ArangoPort:   "8529",
		ArangoUser:   "root",
		DatabaseName: "sbomcatalog",
		PublicRead:   true,
	}
}

// Load reads path (when non-empty) and applies environment overrides.
// A missing file at an explicitly given path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.Port = util.GetEnvDefault("MS_PORT", cfg.Port)
	cfg.ArangoHost = util.GetEnvDefault("ARANGO_HOST", cfg.ArangoHost)
	cfg.ArangoPort = util.GetEnvDefault("ARANGO_PORT", cfg.ArangoPort)
	cfg.ArangoUser = util.GetEnvDefault("ARANGO_USER", cfg.ArangoUser)
	cfg.ArangoPass = util.GetEnvDefault("ARANGO_PASS", cfg.ArangoPass)
	cfg.ArangoURL = util.GetEnvDefault("ARANGO_URL", cfg.ArangoURL)
	cfg.DatabaseName = util.GetEnvDefault("ARANGO_DATABASE", cfg.DatabaseName)

	if v := os.Getenv("MS_BODY_LIMIT_MB"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return cfg, fmt.Errorf("invalid MS_BODY_LIMIT_MB: %s", v)
		}
		cfg.BodyLimitMB = limit
	}
	if v := os.Getenv("MS_PUBLIC_READ"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid MS_PUBLIC_READ: %s", v)
		}
		cfg.PublicRead = enabled
	}

	if cfg.ArangoURL == "" {
		cfg.ArangoURL = "http://" + cfg.ArangoHost + ":" + cfg.ArangoPort
	}

	return cfg, nil
}
