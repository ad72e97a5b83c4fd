// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package openapi derives an OpenAPI 3.0 document from the REST metadata
// procedures declare on a [rpc.Router]. The same metadata drives routing,
// so the document always describes exactly what the HTTP adapter serves.
package openapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/prosepilot/restbridge/rpc"
	"github.com/prosepilot/restbridge/schema"

	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
)

// Info names the generated document.
type Info struct {
	Title       string
	Version     string
	Description string
}

// Options configures document generation.
type Options struct {
	securitySchemes map[string]openapi3.SecurityScheme
}

// Option sets optional parameters for [Generate].
type Option func(*Options)

// SecurityScheme registers a named security scheme on the document.
// Every procedure marked protected references all registered schemes as
// alternative security requirements.
func SecurityScheme(name string, scheme openapi3.SecurityScheme) Option {
	return func(o *Options) {
		if o.securitySchemes == nil {
			o.securitySchemes = make(map[string]openapi3.SecurityScheme)
		}
		o.securitySchemes[name] = scheme
	}
}

var documentedMethods = map[string]struct{}{
	http.MethodGet:    {},
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
}

// Generate walks the router in declaration order and builds the document.
// Procedures without enabled exposure metadata, and procedures of kinds
// other than read and write, are skipped, mirroring the HTTP adapter.
func Generate(r *rpc.Router, info Info, opts ...Option) (*openapi3.Spec, error) {
	if err := r.Err(); err != nil {
		return nil, err
	}

	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}

	def := &openapi3.Spec{
		Openapi: "3.0",
		Info: openapi3.Info{
			Title:   info.Title,
			Version: info.Version,
		},
	}
	if info.Description != "" {
		def.Info.Description = ptr.Ref(info.Description)
	}

	errSchema, err := errorSchema()
	if err != nil {
		return nil, fmt.Errorf("openapi: reflect error envelope: %w", err)
	}
	def.ComponentsEns().SchemasEns().WithMapOfSchemaOrRefValuesItem("Error", errSchema)

	schemeNames := make([]string, 0, len(o.securitySchemes))
	for name := range o.securitySchemes {
		schemeNames = append(schemeNames, name)
	}
	sort.Strings(schemeNames)

	security := make([]map[string][]string, 0, len(schemeNames))
	for _, name := range schemeNames {
		scheme := o.securitySchemes[name]
		def.ComponentsEns().SecuritySchemesEns().WithMapOfSecuritySchemeOrRefValuesItem(
			name,
			openapi3.SecuritySchemeOrRef{
				SecurityScheme: &scheme,
			},
		)
		security = append(security, map[string][]string{name: {}})
	}

	routes := make(map[string]struct{})
	for _, p := range r.Procedures() {
		switch p.Kind() {
		case rpc.KindRead, rpc.KindWrite:
		default:
			continue
		}

		meta, ok := p.Meta()
		if !ok || !meta.Enabled {
			continue
		}

		method := strings.ToUpper(meta.Method)
		if _, ok := documentedMethods[method]; !ok {
			return nil, fmt.Errorf("openapi: procedure %q uses unsupported method %q", p.Name(), meta.Method)
		}

		op, endpoint, err := operationOf(p, meta, method, security)
		if err != nil {
			return nil, fmt.Errorf("openapi: procedure %q: %w", p.Name(), err)
		}

		// A shadowed route never serves requests, so the document only
		// describes the first registration.
		if _, ok := routes[method+" "+endpoint]; ok {
			continue
		}
		routes[method+" "+endpoint] = struct{}{}

		if err := def.AddOperation(method, endpoint, op); err != nil {
			return nil, fmt.Errorf("openapi: procedure %q: %w", p.Name(), err)
		}
	}
	return def, nil
}

// operationOf builds one operation from a procedure's metadata and shapes.
// The returned endpoint uses the '{name}' parameter form.
func operationOf(p *rpc.Procedure, meta rpc.Meta, method string, security []map[string][]string) (openapi3.Operation, string, error) {
	endpoint, paramNames, err := templateEndpoint(meta.Path)
	if err != nil {
		return openapi3.Operation{}, "", err
	}

	var op openapi3.Operation
	op.ID = ptr.Ref(strings.ReplaceAll(p.Name(), ".", "-"))
	if meta.Summary != "" {
		op.Summary = ptr.Ref(meta.Summary)
	}
	if meta.Description != "" {
		op.Description = ptr.Ref(meta.Description)
	}
	if len(meta.Tags) > 0 {
		op.Tags = meta.Tags
	}
	if meta.Deprecated {
		op.Deprecated = ptr.Ref(true)
	}

	input := p.Input()
	switch input.Kind() {
	case schema.KindVoid, schema.KindObject, schema.KindArray:
	default:
		return openapi3.Operation{}, "", fmt.Errorf("input shape %q cannot be served over HTTP, want void, object, or array", input.Kind())
	}

	// Path parameters are always required: a request cannot match the
	// pattern without supplying every one of them.
	pathFields := make(map[string]struct{}, len(paramNames))
	for _, name := range paramNames {
		pathFields[name] = struct{}{}

		s := stringSchema()
		if f, ok := input.Field(name); ok {
			s = typeSchema(f.Type)
		}

		param := &openapi3.Parameter{
			Name: name,
			In:   openapi3.ParameterInPath,
		}
		param.Required = ptr.Ref(true)
		param.Schema = &s

		op.Parameters = append(op.Parameters, openapi3.ParameterOrRef{
			Parameter: param,
		})
	}

	for _, h := range meta.Headers {
		param := &openapi3.Parameter{
			Name: h.Name,
			In:   openapi3.ParameterInHeader,
		}
		if h.Description != "" {
			param.Description = ptr.Ref(h.Description)
		}
		if h.Required {
			param.Required = ptr.Ref(true)
		}
		s := stringSchema()
		param.Schema = &s

		op.Parameters = append(op.Parameters, openapi3.ParameterOrRef{
			Parameter: param,
		})
	}

	if method == http.MethodGet {
		// GET reads its input from the query string, so every non-path
		// field surfaces as a query parameter.
		if input.Kind() == schema.KindObject {
			for _, f := range input.Fields() {
				if _, ok := pathFields[f.Name]; ok {
					continue
				}

				param := &openapi3.Parameter{
					Name: f.Name,
					In:   openapi3.ParameterInQuery,
				}
				if f.Required {
					param.Required = ptr.Ref(true)
				}
				s := typeSchema(f.Type)
				param.Schema = &s

				op.Parameters = append(op.Parameters, openapi3.ParameterOrRef{
					Parameter: param,
				})
			}
		}
	} else if body, required := bodySchema(input, pathFields); body != nil {
		contentTypes := meta.ContentTypes
		if len(contentTypes) == 0 {
			contentTypes = []string{"application/json"}
		}

		content := make(map[string]openapi3.MediaType, len(contentTypes))
		for _, contentType := range contentTypes {
			mt := openapi3.MediaType{
				Schema: body,
			}
			if meta.RequestExample != nil {
				ex := meta.RequestExample
				mt.Example = &ex
			}
			content[contentType] = mt
		}

		spec := &openapi3.RequestBody{
			Content: content,
		}
		if required {
			spec.Required = ptr.Ref(true)
		}
		op.RequestBody = &openapi3.RequestBodyOrRef{
			RequestBody: spec,
		}
	}

	success := &openapi3.Response{
		Description: "Successful response",
	}
	if output := p.Output(); output.Kind() != schema.KindVoid {
		s := typeSchema(output)
		mt := openapi3.MediaType{
			Schema: &s,
		}
		if meta.ResponseExample != nil {
			ex := meta.ResponseExample
			mt.Example = &ex
		}
		success.Content = map[string]openapi3.MediaType{
			"application/json": mt,
		}
	}
	for _, h := range meta.ResponseHeaders {
		if success.Headers == nil {
			success.Headers = make(map[string]openapi3.HeaderOrRef, len(meta.ResponseHeaders))
		}

		hdr := &openapi3.Header{}
		if h.Description != "" {
			hdr.Description = ptr.Ref(h.Description)
		}
		if h.Required {
			hdr.Required = ptr.Ref(true)
		}
		s := stringSchema()
		hdr.Schema = &s

		success.Headers[h.Name] = openapi3.HeaderOrRef{
			Header: hdr,
		}
	}

	op.Responses = openapi3.Responses{
		Default: &openapi3.ResponseOrRef{
			Response: errorResponse(),
		},
		MapOfResponseOrRefValues: map[string]openapi3.ResponseOrRef{
			strconv.Itoa(http.StatusOK): {
				Response: success,
			},
		},
	}

	if meta.Protected && len(security) > 0 {
		op.WithSecurity(security...)
	}

	return op, endpoint, nil
}

// templateEndpoint rewrites a ':name' path template into the '{name}' form
// the document uses, returning the parameter names in template order.
func templateEndpoint(template string) (string, []string, error) {
	var names []string
	var segments []string
	var params map[string]struct{}
	for _, part := range strings.Split(template, "/") {
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, ":") {
			segments = append(segments, part)
			continue
		}

		name := part[1:]
		if name == "" {
			return "", nil, fmt.Errorf("path template %q has an unnamed parameter segment", template)
		}
		if _, ok := params[name]; ok {
			return "", nil, fmt.Errorf("path template %q declares parameter %q twice", template, name)
		}
		if params == nil {
			params = make(map[string]struct{})
		}
		params[name] = struct{}{}

		names = append(names, name)
		segments = append(segments, "{"+name+"}")
	}
	return "/" + strings.Join(segments, "/"), names, nil
}
