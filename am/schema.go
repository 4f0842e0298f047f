package am

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/teranos/schemagen/errors"
)

// JSONSchema returns the JSON Schema of schemagen.toml, for editor completion
// and validation of config files.
func JSONSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		FieldNameTag:               "toml",
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
	}
	schema := reflector.Reflect(&Config{})
	schema.Title = "schemagen configuration"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config schema")
	}
	return data, nil
}
