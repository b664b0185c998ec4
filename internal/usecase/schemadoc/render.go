// Package schemadoc exports the lab schema descriptor for humans and tools.
package schemadoc

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"labstore/internal/domain/schema"
	"labstore/internal/errs"
)

type Format string

const (
	FormatText       Format = "text"
	FormatYAML       Format = "yaml"
	FormatTOML       Format = "toml"
	FormatJSONSchema Format = "json-schema"
)

func Formats() []Format {
	return []Format{FormatText, FormatYAML, FormatTOML, FormatJSONSchema}
}

func ParseFormat(raw string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(raw)))
	for _, candidate := range Formats() {
		if f == candidate {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported schema format %q", raw)
}

// Document is the serialized form of a schema handle.
type Document struct {
	Fingerprint string              `yaml:"fingerprint" toml:"fingerprint"`
	Enums       []schema.EnumDomain `yaml:"enums" toml:"enums"`
	Entities    []schema.Entity     `yaml:"entities" toml:"entities"`
}

func NewDocument(h *schema.Handle) Document {
	return Document{
		Fingerprint: h.Fingerprint(),
		Enums:       h.Enums(),
		Entities:    h.Entities(),
	}
}

// Render writes h to w in the given format.
func Render(w io.Writer, h *schema.Handle, format Format) error {
	if h == nil {
		return fmt.Errorf("schema handle is required")
	}

	doc := NewDocument(h)
	switch format {
	case FormatText:
		return renderText(w, doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errs.Wrap(err, "encode yaml")
		}
		return errs.Wrap(enc.Close(), "flush yaml")
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return errs.Wrap(err, "encode toml")
		}
		return nil
	case FormatJSONSchema:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(JSONSchema(h)); err != nil {
			return errs.Wrap(err, "encode json schema")
		}
		return nil
	}
	return fmt.Errorf("unsupported schema format %q", format)
}

func renderText(w io.Writer, doc Document) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "fingerprint\t%s\n", doc.Fingerprint)

	for _, d := range doc.Enums {
		fmt.Fprintf(tw, "\nenum %s\t%s\n", d.Name, strings.Join(d.Values, ", "))
	}
	for _, e := range doc.Entities {
		fmt.Fprintf(tw, "\n%s\t%s\n", e.Name, e.Doc)
		for _, f := range e.Fields {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", f.Name, f.Type, fieldNotes(f))
		}
	}
	return errs.Wrap(tw.Flush(), "flush text")
}

func fieldNotes(f schema.Field) string {
	var notes []string
	switch {
	case f.PrimaryKey:
		notes = append(notes, "primary key")
	case !f.Nullable:
		notes = append(notes, "required")
	}
	if f.Enum != "" {
		notes = append(notes, "enum "+f.Enum)
	}
	if f.Default != "" {
		notes = append(notes, "default "+f.Default)
	}
	if f.IsForeignKey() {
		notes = append(notes, fmt.Sprintf("-> %s.id (delete %s, update %s)", f.References, f.OnDelete, f.OnUpdate))
	}
	return strings.Join(notes, "; ")
}
