// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"fmt"
	"math"
	"reflect"
	"time"
)

// Issue reports a single validation failure. Path locates the offending
// value from the input root using field names and array indexes.
type Issue struct {
	Code     string `json:"code"`
	Expected string `json:"expected,omitempty"`
	Received string `json:"received,omitempty"`
	Message  string `json:"message"`
	Path     []any  `json:"path"`
}

// IssuesError carries every issue found while validating one value.
type IssuesError struct {
	Issues []Issue
}

func (e *IssuesError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("schema: 1 validation issue: %s", e.Issues[0].Message)
	}
	return fmt.Sprintf("schema: %d validation issues", len(e.Issues))
}

// Validate checks v against the shape and returns the normalized value:
// unknown object keys are stripped, coercible primitives are converted from
// their string forms, and datetimes are verified against RFC 3339.
//
// On failure it returns a [*IssuesError] listing every issue found.
func (t Type) Validate(v any) (any, error) {
	out, issues := t.validate(v, nil)
	if len(issues) > 0 {
		return nil, &IssuesError{Issues: issues}
	}
	return out, nil
}

func (t Type) validate(v any, path []any) (any, []Issue) {
	switch t.kind {
	case KindAny:
		return v, nil
	case KindVoid:
		if v == nil {
			return nil, nil
		}
		return nil, []Issue{mismatch(t.kind, v, path)}
	case KindObject:
		return t.validateObject(v, path)
	case KindArray:
		return t.validateArray(v, path)
	default:
		return t.validatePrimitive(v, path)
	}
}

func (t Type) validateObject(v any, path []any) (any, []Issue) {
	if v == nil {
		return nil, []Issue{missing(t.kind, path)}
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, []Issue{mismatch(t.kind, v, path)}
	}

	out := make(map[string]any, len(t.fields))
	var issues []Issue
	for _, f := range t.fields {
		fv, ok := m[f.Name]
		if !ok || fv == nil {
			if f.Required {
				issues = append(issues, missing(f.Type.kind, append(path, f.Name)))
			}
			continue
		}

		nv, sub := f.Type.validate(fv, append(path, f.Name))
		if len(sub) > 0 {
			issues = append(issues, sub...)
			continue
		}
		out[f.Name] = nv
	}
	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}

func (t Type) validateArray(v any, path []any) (any, []Issue) {
	if v == nil {
		return nil, []Issue{missing(t.kind, path)}
	}

	items, ok := v.([]any)
	if !ok {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, []Issue{mismatch(t.kind, v, path)}
		}
		items = make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = rv.Index(i).Interface()
		}
	}

	out := make([]any, len(items))
	var issues []Issue
	for i, item := range items {
		nv, sub := t.Elem().validate(item, append(path, i))
		if len(sub) > 0 {
			issues = append(issues, sub...)
			continue
		}
		out[i] = nv
	}
	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}

func (t Type) validatePrimitive(v any, path []any) (any, []Issue) {
	if v == nil {
		return nil, []Issue{missing(t.kind, path)}
	}

	switch t.kind {
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindNumber:
		if f, ok := asFloat(v); ok {
			return f, nil
		}
		if s, ok := v.(string); ok && t.coerce {
			if f, ok := coercePrimitive(t.kind, s); ok {
				return f, nil
			}
		}
	case KindInteger:
		if f, ok := asFloat(v); ok && f == math.Trunc(f) {
			return f, nil
		}
		if s, ok := v.(string); ok && t.coerce {
			if f, ok := coercePrimitive(t.kind, s); ok {
				return f, nil
			}
		}
	case KindBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		if s, ok := v.(string); ok && t.coerce {
			if b, ok := coercePrimitive(t.kind, s); ok {
				return b, nil
			}
		}
	case KindDateTime:
		if ts, ok := v.(time.Time); ok {
			return ts.Format(time.RFC3339Nano), nil
		}
		if s, ok := v.(string); ok {
			if _, err := time.Parse(time.RFC3339, s); err == nil {
				return s, nil
			}
			return nil, []Issue{{
				Code:    "invalid_string",
				Message: "Invalid datetime",
				Path:    copyPath(path),
			}}
		}
	}
	return nil, []Issue{mismatch(t.kind, v, path)}
}

func missing(k Kind, path []any) Issue {
	return Issue{
		Code:     "invalid_type",
		Expected: k.String(),
		Received: "undefined",
		Message:  "Required",
		Path:     copyPath(path),
	}
}

func mismatch(k Kind, v any, path []any) Issue {
	received := typeNameOf(v)
	return Issue{
		Code:     "invalid_type",
		Expected: k.String(),
		Received: received,
		Message:  fmt.Sprintf("Expected %s, received %s", k, received),
		Path:     copyPath(path),
	}
}

// copyPath snapshots the walk path so sibling fields cannot alias the
// shared backing array.
func copyPath(path []any) []any {
	out := make([]any, len(path))
	copy(out, path)
	return out
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// typeNameOf reports the JSON type name of a decoded value, for use in
// issue messages.
func typeNameOf(v any) string {
	switch v.(type) {
	case nil:
		return "undefined"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case time.Time:
		return "datetime"
	}
	if _, ok := asFloat(v); ok {
		return "number"
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "unknown"
	}
}
