package system

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema describes the shape of the host config file.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "platform": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "version": {"type": "string", "minLength": 1},
        "runtime_grants_since": {"type": "string", "minLength": 1}
      }
    },
    "policy": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "file": {"type": "string"},
        "granted": {"type": "array", "items": {"type": "string", "minLength": 1}},
        "revoked": {"type": "array", "items": {"type": "string", "minLength": 1}},
        "rules": {
          "type": "array",
          "items": {
            "type": "object",
            "additionalProperties": false,
            "required": ["when", "decision"],
            "properties": {
              "when": {"type": "string", "minLength": 1},
              "decision": {"enum": ["granted", "revoked"]}
            }
          }
        }
      }
    },
    "prompt": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "mode": {"enum": ["interactive", "grant-all", "deny-all"]}
      }
    }
  }
}`

// compiledSchema is compiled once; the schema is a constant.
var compiledSchema = jsonschema.MustCompileString("config.schema.json", configSchema)

// ValidateDocument checks a YAML config document against the config schema.
func ValidateDocument(data []byte) error {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("failed to parse host config: %w", err)
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("failed to parse host config: %w", err)
	}

	if err := compiledSchema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return formatSchemaValidationError(validationErr)
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// formatSchemaValidationError formats a JSON Schema validation error into a readable message.
func formatSchemaValidationError(err *jsonschema.ValidationError) error {
	var messages []string

	var collectErrors func(*jsonschema.ValidationError)
	collectErrors = func(e *jsonschema.ValidationError) {
		if e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collectErrors(cause)
		}
	}

	collectErrors(err)

	if len(messages) == 0 {
		return fmt.Errorf("validation failed")
	}

	return fmt.Errorf("config validation failed:\n    - %s", strings.Join(messages, "\n    - "))
}
