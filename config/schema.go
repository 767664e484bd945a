package config

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Schema returns the JSON Schema describing [File].
func Schema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[File](nil)
	if err != nil {
		return nil, fmt.Errorf("infer schema: %w", err)
	}

	schema.Title = "chirp configuration"

	if sinks, ok := schema.Properties["sinks"]; ok && sinks.Items != nil {
		if typ, ok := sinks.Items.Properties["type"]; ok {
			for _, t := range allSinkTypes {
				typ.Enum = append(typ.Enum, string(t))
			}
		}
	}

	return schema, nil
}
