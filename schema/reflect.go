// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"reflect"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// Reflect derives a shape from a Go type:
//
//   - structs become objects, field names following encoding/json tag rules
//   - pointer fields and fields tagged ",omitempty" are optional
//   - struct{} becomes [Void]
//   - time.Time becomes [DateTime]
//   - slices become arrays, except []byte which is a string
//   - integral kinds map to [Integer], floats to [Number]
//   - maps and interfaces are passed through as [Any]
func Reflect[T any]() Type {
	var v T
	return reflectType(reflect.TypeOf(&v).Elem())
}

func reflectType(t reflect.Type) Type {
	if t == timeType {
		return DateTime()
	}

	switch t.Kind() {
	case reflect.Pointer:
		return reflectType(t.Elem())
	case reflect.Bool:
		return Boolean()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Integer()
	case reflect.Float32, reflect.Float64:
		return Number()
	case reflect.String:
		return String()
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return String()
		}
		return Array(reflectType(t.Elem()))
	case reflect.Struct:
		fields := reflectFields(t)
		if len(fields) == 0 {
			return Void()
		}
		return Object(fields...)
	default:
		return Any()
	}
}

func reflectFields(t reflect.Type) []Field {
	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}

		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")

		// Untagged embedded structs flatten, following encoding/json.
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && ft != timeType {
				fields = append(fields, reflectFields(ft)...)
				continue
			}
		}

		if name == "" {
			name = f.Name
		}

		required := f.Type.Kind() != reflect.Pointer
		for _, opt := range strings.Split(opts, ",") {
			if opt == "omitempty" {
				required = false
			}
		}

		fields = append(fields, Field{
			Name:     name,
			Type:     reflectType(f.Type),
			Required: required,
		})
	}
	return fields
}
