package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
)

type Violation struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// ViolationError lists every violation found in one candidate, in field
// declaration order.
type ViolationError struct {
	Schema     string
	Violations []Violation
}

func (e *ViolationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Path+": "+v.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", contractx.ErrSchemaViolation, e.Schema, strings.Join(parts, "; "))
}

func (e *ViolationError) Unwrap() error {
	return contractx.ErrSchemaViolation
}

// Validate checks candidate against s. On conformance it returns a normalized
// copy holding only the declared fields: integers as int, numbers as
// float64, lists as []any and objects as map[string]any. Nothing is coerced
// beyond that; a value of the wrong type is a violation. Scalar constraints
// are checked by the field's JSON Schema; every failing field is reported.
func (s Schema) Validate(candidate any) (map[string]any, error) {
	doc, err := normalize(candidate)
	if err != nil {
		return nil, &ViolationError{Schema: s.Name, Violations: []Violation{{Path: "$", Reason: err.Error()}}}
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &ViolationError{Schema: s.Name, Violations: []Violation{{Path: "$", Reason: "expected object, got " + describe(doc)}}}
	}

	out, violations := validateObject(s.Fields, obj, "")
	if len(violations) > 0 {
		return nil, &ViolationError{Schema: s.Name, Violations: violations}
	}
	return out, nil
}

// normalize converts any Go value into the generic JSON model, keeping
// numbers as json.Number so integer-ness is not lost. Strings and byte
// slices are treated as raw JSON documents.
func normalize(candidate any) (any, error) {
	var raw []byte
	switch v := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("candidate is null")
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	case json.RawMessage:
		raw = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("candidate is not serializable: %v", err)
		}
		raw = b
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("candidate is not valid JSON: %v", err)
	}
	return doc, nil
}

func validateObject(fields []Field, obj map[string]any, path string) (map[string]any, []Violation) {
	out := make(map[string]any, len(fields))
	var violations []Violation
	for _, f := range fields {
		fieldPath := joinPath(path, f.Name)
		value, present := obj[f.Name]
		if !present || value == nil {
			if f.Optional {
				continue
			}
			reason := "missing required field"
			if present {
				reason = "required field is null"
			}
			violations = append(violations, Violation{Path: fieldPath, Reason: reason})
			continue
		}

		normalized, vs := validateValue(f, value, fieldPath)
		if len(vs) > 0 {
			violations = append(violations, vs...)
			continue
		}
		out[f.Name] = normalized
	}
	return out, violations
}

func validateValue(f Field, value any, path string) (any, []Violation) {
	fail := func(reason string) (any, []Violation) {
		return nil, []Violation{{Path: path, Reason: reason}}
	}

	switch f.Kind {
	case KindAny:
		return plain(value), nil

	case KindString, KindBoolean:
		v := plain(value)
		if reason := checkLeaf(f, v); reason != "" {
			return fail(reason)
		}
		return v, nil

	case KindInteger:
		n, ok := value.(json.Number)
		if !ok {
			return fail("expected integer, got " + describe(value))
		}
		i, err := toInt(n)
		if err != nil {
			return fail(err.Error())
		}
		if reason := checkLeaf(f, i); reason != "" {
			return fail(reason)
		}
		return i, nil

	case KindNumber:
		n, ok := value.(json.Number)
		if !ok {
			return fail("expected number, got " + describe(value))
		}
		x, err := n.Float64()
		if err != nil {
			return fail("invalid number " + n.String())
		}
		if reason := checkLeaf(f, x); reason != "" {
			return fail(reason)
		}
		return x, nil

	case KindList:
		items, ok := value.([]any)
		if !ok {
			return fail("expected list, got " + describe(value))
		}
		out := make([]any, 0, len(items))
		var violations []Violation
		for i, item := range items {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			if f.Elem == nil {
				out = append(out, plain(item))
				continue
			}
			if item == nil {
				violations = append(violations, Violation{Path: itemPath, Reason: "list element is null"})
				continue
			}
			normalized, vs := validateValue(*f.Elem, item, itemPath)
			if len(vs) > 0 {
				violations = append(violations, vs...)
				continue
			}
			out = append(out, normalized)
		}
		if len(violations) > 0 {
			return nil, violations
		}
		return out, nil

	case KindObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return fail("expected object, got " + describe(value))
		}
		if len(f.Fields) == 0 {
			return plain(obj), nil
		}
		out, violations := validateObject(f.Fields, obj, path)
		if len(violations) > 0 {
			return nil, violations
		}
		return out, nil

	default:
		return fail(fmt.Sprintf("unsupported field kind %q", f.Kind))
	}
}

// toInt accepts whole numbers written either way ("3" or "3.0").
func toInt(n json.Number) (int, error) {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return int(i), nil
	}
	x, err := n.Float64()
	if err != nil || math.IsInf(x, 0) || math.IsNaN(x) {
		return 0, fmt.Errorf("invalid number %s", n.String())
	}
	if x != math.Trunc(x) {
		return 0, fmt.Errorf("expected integer, got fractional number %s", n.String())
	}
	return int(x), nil
}

// plain converts json.Number leaves of free-form values into int or float64
// so downstream code never sees decoder-specific types.
func plain(value any) any {
	switch v := value.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			return int(i)
		}
		f, _ := v.Float64()
		return f
	case []any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = plain(v[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = plain(item)
		}
		return out
	default:
		return v
	}
}

func describe(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
