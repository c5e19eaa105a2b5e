package importer

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const documentSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "definitions": {
    "id": { "type": ["string", "integer"] },
    "date": { "type": ["string", "null"] },
    "task": {
      "type": "object",
      "required": ["id", "name"],
      "properties": {
        "id": { "$ref": "#/definitions/id" },
        "name": { "type": "string" },
        "startDate": { "$ref": "#/definitions/date" },
        "endDate": { "$ref": "#/definitions/date" },
        "startDate2": { "$ref": "#/definitions/date" },
        "endDate2": { "$ref": "#/definitions/date" },
        "progress": { "type": ["number", "null"], "minimum": 0, "maximum": 100 },
        "type": { "enum": ["task", "project", "milestone", "", null] },
        "parent": { "anyOf": [{ "$ref": "#/definitions/id" }, { "type": "null" }] },
        "children": {
          "type": ["array", "null"],
          "items": { "$ref": "#/definitions/id" }
        }
      }
    },
    "tasks": { "type": "array", "items": { "$ref": "#/definitions/task" } }
  },
  "oneOf": [
    { "$ref": "#/definitions/tasks" },
    {
      "type": "object",
      "required": ["tasks"],
      "properties": {
        "tasks": { "$ref": "#/definitions/tasks" },
        "expanded": { "type": "array", "items": { "$ref": "#/definitions/id" } }
      }
    }
  ]
}`

var documentSchemaLoader = gojsonschema.NewStringLoader(documentSchemaJSON)

// ValidateDocument checks a decoded document against the task document
// schema. Returns a slice of all validation errors found.
func ValidateDocument(raw any) []error {
	result, err := gojsonschema.Validate(documentSchemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return []error{fmt.Errorf("validating task document: %w", err)}
	}
	if result.Valid() {
		return nil
	}
	errs := make([]error, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, fmt.Errorf("%s: %s", desc.Field(), desc.Description()))
	}
	return errs
}
