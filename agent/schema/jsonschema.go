package schema

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// JSONSchema renders s as a JSON Schema document. Undeclared properties
// stay allowed: Validate drops them instead of rejecting the candidate.
func (s Schema) JSONSchema() *jsonschema.Schema {
	doc := objectSchema(s.Fields)
	doc.Title = s.Name
	doc.Description = s.Description
	return doc
}

// JSONSchema renders one field. Kind names other than list, object and any
// are already JSON Schema type names.
func (f Field) JSONSchema() *jsonschema.Schema {
	var out *jsonschema.Schema
	switch f.Kind {
	case KindList:
		out = &jsonschema.Schema{Type: "array"}
		if f.Elem != nil {
			out.Items = f.Elem.JSONSchema()
		}
	case KindObject:
		out = objectSchema(f.Fields)
	case KindAny:
		out = &jsonschema.Schema{}
	default:
		out = &jsonschema.Schema{Type: string(f.Kind)}
	}

	out.Description = f.Description
	if f.MinLength > 0 {
		n := f.MinLength
		out.MinLength = &n
	}
	out.Minimum = f.Min
	out.Maximum = f.Max
	for _, v := range f.Enum {
		out.Enum = append(out.Enum, v)
	}
	return out
}

func objectSchema(fields []Field) *jsonschema.Schema {
	out := &jsonschema.Schema{Type: "object"}
	if len(fields) == 0 {
		return out
	}
	out.Properties = make(map[string]*jsonschema.Schema, len(fields))
	for _, f := range fields {
		out.Properties[f.Name] = f.JSONSchema()
		if !f.Optional {
			out.Required = append(out.Required, f.Name)
		}
	}
	return out
}

// checkLeaf validates a scalar that has already been normalized to string,
// bool, int or float64. It returns the violation reason, or "".
func checkLeaf(f Field, value any) string {
	resolved, err := f.JSONSchema().Resolve(nil)
	if err != nil {
		return "invalid field schema: " + err.Error()
	}
	if err := resolved.Validate(value); err != nil {
		return err.Error()
	}
	return ""
}
