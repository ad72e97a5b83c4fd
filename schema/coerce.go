// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"math"
	"strconv"
)

// Coerced returns a copy of t whose primitive leaves also accept string
// forms: numbers and integers via strconv parsing, booleans via
// [strconv.ParseBool]. The transform descends through object fields and
// array elements. t itself is never modified, so the same declared shape
// can validate both native JSON values and stringly-typed transport values
// (query strings, path parameters, form bodies).
func Coerced(t Type) Type {
	switch t.kind {
	case KindNumber, KindInteger, KindBoolean, KindDateTime:
		t.coerce = true
		return t
	case KindObject:
		fields := make([]Field, len(t.fields))
		for i, f := range t.fields {
			f.Type = Coerced(f.Type)
			fields[i] = f
		}
		t.fields = fields
		return t
	case KindArray:
		elem := Coerced(t.Elem())
		t.elem = &elem
		return t
	default:
		return t
	}
}

func coercePrimitive(k Kind, s string) (any, bool) {
	switch k {
	case KindNumber:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case KindInteger:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f != math.Trunc(f) {
			return nil, false
		}
		return f, true
	case KindBoolean:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, false
		}
		return b, true
	default:
		return nil, false
	}
}
