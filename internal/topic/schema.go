package topic

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://drillz-topic.json"

var numberish = map[string]any{
	"type": []any{"number", "string"},
}

var varSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name": map[string]any{
			"type":    "string",
			"pattern": "^[A-Za-z_][A-Za-z0-9_]*$",
		},
		"min":  numberish,
		"max":  numberish,
		"step": numberish,
		"oneOf": map[string]any{
			"type":     "array",
			"items":    numberish,
			"minItems": 1,
		},
		"expr": map[string]any{"type": "string", "minLength": 1},
	},
	"required": []any{"name"},
	"oneOf": []any{
		map[string]any{"required": []any{"min", "max"}},
		map[string]any{"required": []any{"oneOf"}},
		map[string]any{"required": []any{"expr"}},
	},
	"additionalProperties": false,
}

var taskSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"type": map[string]any{"type": "string", "minLength": 1},
		"text": map[string]any{"type": "string", "minLength": 1},
		"vars": map[string]any{
			"type":  "array",
			"items": varSchema,
		},
		"answer": map[string]any{"type": "string", "minLength": 1},
		"answerType": map[string]any{
			"type": "string",
			"enum": []any{"integer", "decimal", "fraction"},
		},
		"accept": map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string", "minLength": 1},
			"minItems": 1,
		},
		"precision": map[string]any{"type": "integer", "minimum": 0, "maximum": 12},
	},
	"required": []any{"type", "text"},
	"oneOf": []any{
		map[string]any{"required": []any{"answer"}},
		map[string]any{"required": []any{"accept"}},
	},
	"additionalProperties": false,
}

// fileSchema describes the shape every topic file must have. The three
// required sections are the topic contract: settings, tasks, and the
// answer check.
var fileSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"requires": map[string]any{"type": "string"},
		"settings": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":            map[string]any{"type": "string"},
				"subtitle":         map[string]any{"type": "string"},
				"totalTime":        map[string]any{"type": "integer", "minimum": 1},
				"problemsToSelect": map[string]any{"type": "integer", "minimum": 1},
			},
			"additionalProperties": false,
		},
		"check": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tolerance":     numberish,
				"caseSensitive": map[string]any{"type": "boolean"},
				"precision":     map[string]any{"type": "integer", "minimum": 0, "maximum": 12},
			},
			"additionalProperties": false,
		},
		"tasks": map[string]any{
			"type":     "array",
			"items":    taskSchema,
			"minItems": 1,
		},
	},
	"required":             []any{"settings", "tasks", "check"},
	"additionalProperties": false,
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// compiledSchema compiles fileSchema once per process.
func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value, so round-trip
		// the Go literal through encoding/json.
		defBytes, err := json.Marshal(fileSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validateShape checks a decoded YAML document against fileSchema.
func validateShape(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile topic schema: %w", err)
	}

	// YAML decodes integers as int; the validator wants JSON numbers.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert to JSON: %w", err)
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("convert to JSON: %w", err)
	}

	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
