package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects Config into the JSON Schema embedded by the
// schema package.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Unknown keys are ignored when loading.
		AllowAdditionalProperties: true,
		// Expand struct references instead of using $ref for a flat schema.
		ExpandedStruct: true,
		// Every field is optional and defaults to "".
		RequiredFromJSONSchemaTags: true,
	}

	schema := r.Reflect(&Config{})
	schema.Title = "git-sync configuration"
	schema.Description = "Credentials, target repository and local directory used by git-sync."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
