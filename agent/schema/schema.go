// Package schema describes the structural contract a stage's output must
// satisfy and validates candidate values against it.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindList    Kind = "list"
	KindObject  Kind = "object"
	KindAny     Kind = "any"
)

// Field is one named, typed slot. List fields describe their elements with
// Elem; object fields describe their members with Fields. An object field
// without Fields accepts any mapping.
type Field struct {
	Name        string
	Kind        Kind
	Description string
	Optional    bool
	Elem        *Field
	Fields      []Field
	MinLength   int
	Min         *float64
	Max         *float64
	Enum        []string
}

type Schema struct {
	Name        string
	Description string
	Fields      []Field
}

func New(name, description string, fields ...Field) Schema {
	return Schema{Name: name, Description: description, Fields: fields}
}

func String(name, description string) Field {
	return Field{Name: name, Kind: KindString, Description: description}
}

func Integer(name, description string) Field {
	return Field{Name: name, Kind: KindInteger, Description: description}
}

func Number(name, description string) Field {
	return Field{Name: name, Kind: KindNumber, Description: description}
}

func Boolean(name, description string) Field {
	return Field{Name: name, Kind: KindBoolean, Description: description}
}

func Any(name, description string) Field {
	return Field{Name: name, Kind: KindAny, Description: description}
}

func List(name, description string, elem Field) Field {
	return Field{Name: name, Kind: KindList, Description: description, Elem: &elem}
}

func Object(name, description string, fields ...Field) Field {
	return Field{Name: name, Kind: KindObject, Description: description, Fields: fields}
}

// Nested embeds another schema as an object field.
func Nested(name, description string, s Schema) Field {
	return Object(name, description, s.Fields...)
}

func (f Field) Opt() Field {
	f.Optional = true
	return f
}

func (f Field) WithMinLength(n int) Field {
	f.MinLength = n
	return f
}

func (f Field) WithRange(lo, hi float64) Field {
	f.Min = &lo
	f.Max = &hi
	return f
}

func (f Field) WithEnum(values ...string) Field {
	f.Enum = append([]string(nil), values...)
	return f
}

// Describe renders the schema as an indented field list for prompts and docs.
func (s Schema) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", s.Name, s.Description)
	describeFields(&b, s.Fields, 1)
	return strings.TrimRight(b.String(), "\n")
}

func describeFields(b *strings.Builder, fields []Field, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, f := range fields {
		req := "required"
		if f.Optional {
			req = "optional"
		}
		fmt.Fprintf(b, "%s- %s (%s, %s)", indent, f.Name, f.typeName(), req)
		if f.Description != "" {
			fmt.Fprintf(b, ": %s", f.Description)
		}
		if len(f.Enum) > 0 {
			fmt.Fprintf(b, " one of [%s]", strings.Join(f.Enum, ", "))
		}
		if f.Min != nil && f.Max != nil {
			fmt.Fprintf(b, " range [%g, %g]", *f.Min, *f.Max)
		}
		b.WriteString("\n")
		switch {
		case f.Kind == KindObject:
			describeFields(b, f.Fields, depth+1)
		case f.Kind == KindList && f.Elem != nil && f.Elem.Kind == KindObject:
			describeFields(b, f.Elem.Fields, depth+1)
		}
	}
}

func (f Field) typeName() string {
	if f.Kind == KindList && f.Elem != nil {
		return "list of " + f.Elem.typeName()
	}
	return string(f.Kind)
}

// Set indexes schemas by name so configuration can refer to them.
type Set map[string]Schema

func NewSet(schemas ...Schema) Set {
	set := make(Set, len(schemas))
	for _, s := range schemas {
		set[s.Name] = s
	}
	return set
}

func (s Set) Lookup(name string) (Schema, bool) {
	sc, ok := s[name]
	return sc, ok
}

func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
