package vendors

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Shapes the autopilot service must answer with. Anything else is reported
// as a malformed upstream response instead of failing later in the pipeline.
var (
	projectsSchema = mustSchema(`{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["project_name"],
			"properties": {
				"project_name": {"type": "string"}
			}
		}
	}`)

	documentsSchema = mustSchema(`{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["file_name", "blob_dir"],
			"properties": {
				"file_name": {"type": "string", "minLength": 1},
				"blob_dir": {"type": "string", "minLength": 1},
				"sub_dir": {"type": ["string", "null"]}
			}
		}
	}`)
)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("invalid built-in schema: %v", err))
	}
	return schema
}

// validateShape checks data against schema and folds all violations into one error
func validateShape(schema *gojsonschema.Schema, data []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if !result.Valid() {
		var errs []string
		for _, e := range result.Errors() {
			errs = append(errs, e.String())
		}
		return fmt.Errorf("schema validation errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
