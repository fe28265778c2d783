package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	saerrors "github.com/systmms/sarotate/internal/errors"
)

// definitionSchema validates the structural shape of sarotate.yaml beyond
// what YAML decoding alone can enforce.
const definitionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["interval", "remotes"],
  "properties": {
    "rc": {
      "type": "object",
      "properties": {
        "user": {"type": "string"},
        "pass": {"type": "string"},
        "config": {"type": "string"}
      },
      "additionalProperties": false
    },
    "interval": {"type": "integer", "minimum": 1},
    "remotes": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "type": "object",
        "minProperties": 1,
        "additionalProperties": {
          "type": "array",
          "minItems": 1,
          "items": {"type": "string", "minLength": 1}
        }
      }
    },
    "notifications": {
      "type": "object",
      "properties": {
        "targets": {"type": "array", "items": {"type": "string", "minLength": 1}},
        "errors_only": {"type": "boolean"}
      },
      "additionalProperties": false
    },
    "metrics_addr": {"type": "string"}
  },
  "additionalProperties": false
}`

// validateDefinition checks the raw YAML document against the JSON schema.
// The document is decoded generically and re-encoded as JSON because
// gojsonschema only speaks JSON.
func validateDefinition(raw []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decoding configuration for validation: %w", err)
	}

	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting configuration to JSON: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(definitionSchema),
		gojsonschema.NewBytesLoader(jsonDoc),
	)
	if err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return saerrors.ConfigError{
		Message:    strings.Join(problems, "; "),
		Suggestion: "Compare your sarotate.yaml against the documented format",
	}
}
