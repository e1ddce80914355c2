// Package schema derives a JSON-Schema-like tool descriptor from a Go input
// struct type, using struct tags (json, jsonschema) for field names, titles,
// descriptions, bounds and required-ness.
package schema

import (
	"encoding/json"
	"strings"

	"github.com/invopop/jsonschema"
)

// Descriptor is the parameter description attached to a tool listing: a
// flattened object schema the protocol layer can serialize as-is.
type Descriptor struct {
	Type       string         `json:"type"`
	Title      string         `json:"title,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	Required   []string       `json:"required,omitempty"`
}

// Generate produces a Descriptor for the Go struct type T.
func Generate[T any]() Descriptor {
	var zero T
	s := jsonschema.Reflect(&zero)

	root := extractRoot(s)

	return Descriptor{
		Type:       "object",
		Title:      root.Title,
		Properties: properties(root, s.Definitions),
		Required:   root.Required,
	}
}

// GenerateJSON returns the descriptor as raw JSON, ready for a tools/list
// response.
func GenerateJSON[T any]() (json.RawMessage, error) {
	return json.Marshal(Generate[T]())
}

// refName extracts the definition name from a "#/$defs/TypeName" reference.
func refName(ref string) string {
	return ref[strings.LastIndexByte(ref, '/')+1:]
}

// extractRoot resolves the root schema. jsonschema.Reflect wraps the actual
// type in a $ref like "#/$defs/TypeName"; follow it to that exact definition
// so nested struct types in $defs are never mistaken for the root.
func extractRoot(s *jsonschema.Schema) *jsonschema.Schema {
	if s.Ref == "" || s.Definitions == nil {
		return s
	}
	if def, ok := s.Definitions[refName(s.Ref)]; ok {
		return def
	}
	return s
}

func properties(s *jsonschema.Schema, defs jsonschema.Definitions) map[string]any {
	if s.Properties == nil {
		return nil
	}
	props := make(map[string]any)
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		props[pair.Key] = property(pair.Value, defs)
	}
	return props
}

// property flattens one field schema into a plain serializable map. Nested
// struct fields reflect as a $ref into $defs and are inlined here; the
// field's own title and description win over the definition's.
func property(s *jsonschema.Schema, defs jsonschema.Definitions) map[string]any {
	if s.Ref != "" {
		if def, ok := defs[refName(s.Ref)]; ok {
			m := property(def, defs)
			if s.Title != "" {
				m["title"] = s.Title
			}
			if s.Description != "" {
				m["description"] = s.Description
			}
			return m
		}
	}

	m := make(map[string]any)

	if s.Type != "" {
		m["type"] = s.Type
	}
	if s.Title != "" {
		m["title"] = s.Title
	}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if s.Default != nil {
		m["default"] = s.Default
	}
	if len(s.Enum) > 0 {
		m["enum"] = s.Enum
	}
	if s.Minimum != "" {
		m["minimum"] = s.Minimum
	}
	if s.Maximum != "" {
		m["maximum"] = s.Maximum
	}

	// Pointer fields reflect as anyOf [T, null]; surface the non-null type.
	if len(s.AnyOf) > 0 {
		for _, sub := range s.AnyOf {
			if sub.Type != "null" && sub.Type != "" {
				m["type"] = sub.Type
				break
			}
		}
	}

	if s.Properties != nil {
		m["type"] = "object"
		m["properties"] = properties(s, defs)
		if len(s.Required) > 0 {
			m["required"] = s.Required
		}
	}

	if s.Items != nil {
		m["items"] = property(s.Items, defs)
	}

	return m
}
