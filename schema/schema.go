// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package schema describes the value shapes procedures declare for their
// inputs and outputs, and validates decoded values against them.
package schema

// Kind enumerates the supported shape kinds.
type Kind uint8

const (
	KindAny Kind = iota
	KindVoid
	KindString
	KindNumber
	KindInteger
	KindBoolean
	KindDateTime
	KindObject
	KindArray
)

// String returns the wire name of the kind, as used in validation issues
// and OpenAPI schemas.
func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindDateTime:
		return "datetime"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "any"
	}
}

// Type describes the shape of a value. The zero value is [Any].
//
// Types are immutable; transforms like [Coerced] return copies.
type Type struct {
	kind   Kind
	fields []Field
	elem   *Type
	coerce bool
}

// Field is a named member of an object shape.
type Field struct {
	Name     string
	Type     Type
	Required bool
}

// Any matches every value without validating it.
func Any() Type {
	return Type{kind: KindAny}
}

// Void declares that a procedure takes or returns no value.
func Void() Type {
	return Type{kind: KindVoid}
}

// String matches JSON strings.
func String() Type {
	return Type{kind: KindString}
}

// Number matches any JSON number.
func Number() Type {
	return Type{kind: KindNumber}
}

// Integer matches JSON numbers without a fractional part.
func Integer() Type {
	return Type{kind: KindInteger}
}

// Boolean matches JSON booleans.
func Boolean() Type {
	return Type{kind: KindBoolean}
}

// DateTime matches RFC 3339 timestamp strings.
func DateTime() Type {
	return Type{kind: KindDateTime}
}

// Object matches JSON objects carrying the given fields. Unknown keys are
// stripped during validation.
func Object(fields ...Field) Type {
	return Type{kind: KindObject, fields: fields}
}

// Array matches JSON arrays whose elements all validate against elem.
func Array(elem Type) Type {
	return Type{kind: KindArray, elem: &elem}
}

// Kind reports the shape kind.
func (t Type) Kind() Kind {
	return t.kind
}

// Fields returns the declared object fields, nil for non-object shapes.
func (t Type) Fields() []Field {
	return t.fields
}

// Field looks up an object field by name.
func (t Type) Field(name string) (Field, bool) {
	for _, f := range t.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Elem returns the array element shape. It reports [Any] for non-array
// shapes.
func (t Type) Elem() Type {
	if t.elem == nil {
		return Any()
	}
	return *t.elem
}
