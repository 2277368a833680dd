package datamodel

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// CheckSchema validates the shape of the raw document (section types,
// integer ids and ASNs, required record keys) against the embedded JSON
// schema. It is advisory, like Validate, and returns one message per
// violation sorted by field.
func CheckSchema(doc *Document) ([]string, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(jsonCompatible(doc.Raw())))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("Schema: %s: %s", e.Field(), e.Description()))
	}
	sort.Strings(msgs)
	return msgs, nil
}

// jsonCompatible converts map[any]any nodes (YAML mappings with non-string
// keys, e.g. VLAN ids) into map[string]any so the tree can be JSON encoded.
func jsonCompatible(in any) any {
	switch v := in.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = jsonCompatible(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprintf("%v", k)] = jsonCompatible(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = jsonCompatible(val)
		}
		return out
	default:
		return v
	}
}
