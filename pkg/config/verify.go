package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var schema map[string]any
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// make sure every top-level config section is known to the schema
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if props := schemaProperties(schema); props != nil {
		for key := range configMap {
			if _, ok := props[key]; !ok {
				return fmt.Errorf("config section %q is not in schema", key)
			}
		}
	}

	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// schemaProperties returns properties of the Config definition from a reflected schema
func schemaProperties(schema map[string]any) map[string]any {
	defs, ok := schema["$defs"].(map[string]any)
	if !ok {
		return nil
	}
	cfgDef, ok := defs["Config"].(map[string]any)
	if !ok {
		return nil
	}
	props, ok := cfgDef["properties"].(map[string]any)
	if !ok {
		return nil
	}
	return props
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	if len(cfg.Feeds) == 0 {
		return fmt.Errorf("feeds are required")
	}
	for i, f := range cfg.Feeds {
		if f.URL == "" {
			return fmt.Errorf("feeds[%d].url is required", i)
		}
	}
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if !slices.Contains([]string{"file", "sqlite", "postgres", "memory"}, cfg.History.Driver) {
		return fmt.Errorf("history.driver %q is not one of file, sqlite, postgres, memory", cfg.History.Driver)
	}
	if cfg.History.Driver == "file" && cfg.History.Path == "" {
		return fmt.Errorf("history.path is required for file driver")
	}
	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
