package schemadoc

import (
	"github.com/invopop/jsonschema"

	"labstore/internal/domain/schema"
)

// JSONSchema describes one record of every entity as a JSON Schema
// definition. Enumerated columns carry their closed value sets.
func JSONSchema(h *schema.Handle) *jsonschema.Schema {
	root := &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "labstore",
		Description: "Trace organics laboratory records.",
		Definitions: jsonschema.Definitions{},
		Extras:      map[string]any{"x-fingerprint": h.Fingerprint()},
	}

	for _, e := range h.Entities() {
		def := &jsonschema.Schema{
			Type:                 "object",
			Description:          e.Doc,
			Properties:           jsonschema.NewProperties(),
			AdditionalProperties: jsonschema.FalseSchema,
		}
		for _, f := range e.Fields {
			def.Properties.Set(f.Name, fieldSchema(h, f))
			if !f.Nullable && !f.PrimaryKey {
				def.Required = append(def.Required, f.Name)
			}
		}
		root.Definitions[e.Name] = def
	}
	return root
}

func fieldSchema(h *schema.Handle, f schema.Field) *jsonschema.Schema {
	s := &jsonschema.Schema{}
	switch f.Type {
	case schema.TypeInteger:
		s.Type = "integer"
	case schema.TypeFloat:
		s.Type = "number"
	case schema.TypeBool:
		s.Type = "boolean"
	case schema.TypeDate:
		s.Type = "string"
		s.Format = "date"
	case schema.TypeString:
		s.Type = "string"
	case schema.TypeEnum:
		s.Type = "string"
		if d, ok := h.Enum(f.Enum); ok {
			for _, v := range d.Values {
				s.Enum = append(s.Enum, v)
			}
		}
	}
	if f.Default != "" {
		s.Default = f.Default
	}
	if f.IsForeignKey() {
		s.Description = "references " + f.References + ".id"
	}
	if f.PrimaryKey {
		s.ReadOnly = true
	}
	if f.Nullable {
		return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{s, {Type: "null"}}}
	}
	return s
}
