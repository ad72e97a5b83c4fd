// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/prosepilot/restbridge/rpc"
	"github.com/prosepilot/restbridge/schema"
)

// descriptor is the per-procedure record dispatch works from. It is built
// once and never mutated afterwards.
type descriptor struct {
	proc    *rpc.Procedure
	meta    rpc.Meta
	pattern pathPattern

	// input is the declared shape; coerced is its string-accepting copy
	// used when validating values assembled from the wire.
	input   schema.Type
	coerced schema.Type
}

// procedureIndex maps HTTP methods to descriptors in declaration order.
// Lookup is a linear scan per method: the first pattern to match wins.
type procedureIndex struct {
	byMethod map[string][]*descriptor
}

// UnsupportedMethodError reports a procedure exposing itself with a verb
// the adapter cannot serve.
type UnsupportedMethodError struct {
	Procedure string
	Method    string
}

func (e UnsupportedMethodError) Error() string {
	return fmt.Sprintf("rest: procedure %q uses unsupported method %q", e.Procedure, e.Method)
}

// UnsupportedInputError reports a procedure whose declared input shape
// cannot be assembled from path, query, and body values.
type UnsupportedInputError struct {
	Procedure string
	Kind      schema.Kind
}

func (e UnsupportedInputError) Error() string {
	return fmt.Sprintf("rest: procedure %q declares input shape %q, want void, object, or array", e.Procedure, e.Kind)
}

var indexableMethods = map[string]struct{}{
	"GET":    {},
	"POST":   {},
	"PUT":    {},
	"PATCH":  {},
	"DELETE": {},
}

// buildIndex walks the router once, in declaration order. Procedures
// without enabled exposure metadata, and procedures of kinds other than
// read and write, are silently excluded.
func buildIndex(r *rpc.Router, log *slog.Logger) (*procedureIndex, error) {
	if err := r.Err(); err != nil {
		return nil, err
	}

	idx := &procedureIndex{
		byMethod: make(map[string][]*descriptor),
	}
	routes := make(map[string]string)
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
		if _, ok := indexableMethods[method]; !ok {
			return nil, UnsupportedMethodError{Procedure: p.Name(), Method: meta.Method}
		}

		pattern, err := compilePattern(meta.Path)
		if err != nil {
			return nil, fmt.Errorf("procedure %q: %w", p.Name(), err)
		}

		input := p.Input()
		switch input.Kind() {
		case schema.KindVoid, schema.KindObject, schema.KindArray:
		default:
			return nil, UnsupportedInputError{Procedure: p.Name(), Kind: input.Kind()}
		}

		// Duplicate routes are legal: the earlier registration keeps
		// winning. Flag the shadowed one since it can never serve.
		route := method + " " + strings.Join(splitPath(meta.Path), "/")
		if first, ok := routes[route]; ok {
			log.Warn("route is shadowed by an earlier registration and will never match",
				slog.String("procedure", p.Name()),
				slog.String("shadowed_by", first),
				slog.String("method", method),
				slog.String("path", meta.Path),
			)
		} else {
			routes[route] = p.Name()
		}

		meta.Method = method
		idx.byMethod[method] = append(idx.byMethod[method], &descriptor{
			proc:    p,
			meta:    meta,
			pattern: pattern,
			input:   input,
			coerced: schema.Coerced(input),
		})
	}
	return idx, nil
}

// find scans the method's descriptors in declaration order and returns the
// first whose pattern matches, along with the captured path parameters.
func (idx *procedureIndex) find(method, path string) (*descriptor, map[string]string, bool) {
	segments := splitPath(path)
	for _, d := range idx.byMethod[strings.ToUpper(method)] {
		if params, ok := d.pattern.match(segments); ok {
			return d, params, true
		}
	}
	return nil, nil, false
}
