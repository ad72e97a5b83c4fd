// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package openapi

import (
	"github.com/prosepilot/restbridge/rpc"
	"github.com/prosepilot/restbridge/schema"

	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
)

// typeSchema maps a declared value shape onto its OpenAPI schema object.
// Any and void shapes map to the empty schema, which matches every value.
func typeSchema(t schema.Type) openapi3.SchemaOrRef {
	s := &openapi3.Schema{}
	switch t.Kind() {
	case schema.KindString:
		s.Type = ptr.Ref(openapi3.SchemaTypeString)
	case schema.KindDateTime:
		s.Type = ptr.Ref(openapi3.SchemaTypeString)
		s.Format = ptr.Ref("date-time")
	case schema.KindNumber:
		s.Type = ptr.Ref(openapi3.SchemaTypeNumber)
	case schema.KindInteger:
		s.Type = ptr.Ref(openapi3.SchemaTypeInteger)
	case schema.KindBoolean:
		s.Type = ptr.Ref(openapi3.SchemaTypeBoolean)
	case schema.KindArray:
		s.Type = ptr.Ref(openapi3.SchemaTypeArray)
		elem := typeSchema(t.Elem())
		s.Items = &elem
	case schema.KindObject:
		s.Type = ptr.Ref(openapi3.SchemaTypeObject)
		fields := t.Fields()
		if len(fields) > 0 {
			s.Properties = make(map[string]openapi3.SchemaOrRef, len(fields))
		}
		for _, f := range fields {
			s.Properties[f.Name] = typeSchema(f.Type)
			if f.Required {
				s.Required = append(s.Required, f.Name)
			}
		}
	}
	return openapi3.SchemaOrRef{
		Schema: s,
	}
}

func stringSchema() openapi3.SchemaOrRef {
	return openapi3.SchemaOrRef{
		Schema: &openapi3.Schema{
			Type: ptr.Ref(openapi3.SchemaTypeString),
		},
	}
}

// bodySchema returns the request body schema for a non-GET procedure, or
// nil when the procedure reads no body. Path parameter fields are carved
// out of object shapes since their values never travel in the body. The
// body is marked required unless every remaining field is optional.
func bodySchema(input schema.Type, pathFields map[string]struct{}) (*openapi3.SchemaOrRef, bool) {
	switch input.Kind() {
	case schema.KindArray:
		s := typeSchema(input)
		return &s, true
	case schema.KindObject:
		fields := make([]schema.Field, 0, len(input.Fields()))
		for _, f := range input.Fields() {
			if _, ok := pathFields[f.Name]; ok {
				continue
			}
			fields = append(fields, f)
		}
		if len(fields) == 0 {
			return nil, false
		}

		s := typeSchema(schema.Object(fields...))
		required := false
		for _, f := range fields {
			if f.Required {
				required = true
				break
			}
		}
		return &s, required
	default:
		return nil, false
	}
}

// errorSchema reflects the envelope every failed call returns. It is
// registered once under "#/components/schemas/Error" and referenced from
// each operation's default response.
func errorSchema() (openapi3.SchemaOrRef, error) {
	var reflector jsonschema.Reflector

	jsonSchema, err := reflector.Reflect(rpc.ErrorBody{}, jsonschema.InlineRefs)
	if err != nil {
		return openapi3.SchemaOrRef{}, err
	}

	var schemaOrRef openapi3.SchemaOrRef
	schemaOrRef.FromJSONSchema(jsonSchema.ToSchemaOrBool())
	return schemaOrRef, nil
}

func errorResponse() *openapi3.Response {
	return &openapi3.Response{
		Description: "Error",
		Content: map[string]openapi3.MediaType{
			"application/json": {
				Schema: &openapi3.SchemaOrRef{
					SchemaReference: &openapi3.SchemaReference{
						Ref: "#/components/schemas/Error",
					},
				},
			},
		},
	}
}
