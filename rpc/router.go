// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package rpc implements a procedure router: typed handlers registered
// under dot-segmented names, each optionally carrying the REST metadata
// the HTTP adapter and the OpenAPI generator consume.
package rpc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prosepilot/restbridge/schema"
)

// Router holds registered procedures in declaration order. Registration is
// not safe for concurrent use; once populated, a Router is read-only and
// safe to share.
type Router struct {
	procs  []*Procedure
	byName map[string]*Procedure
	errs   []error
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{
		byName: make(map[string]*Procedure),
	}
}

// Query registers a read procedure under the given dot-segmented name.
func Query[I, O any](r *Router, name string, h Handler[I, O], opts ...ProcedureOption) *Procedure {
	return register(r, KindRead, name, h, opts...)
}

// Mutation registers a write procedure under the given dot-segmented name.
func Mutation[I, O any](r *Router, name string, h Handler[I, O], opts ...ProcedureOption) *Procedure {
	return register(r, KindWrite, name, h, opts...)
}

// Stream registers a stream-kind procedure. It can be resolved directly
// through [Procedure.Call]; the HTTP adapter and the OpenAPI document skip
// it.
func Stream[I, O any](r *Router, name string, h Handler[I, O], opts ...ProcedureOption) *Procedure {
	return register(r, KindStream, name, h, opts...)
}

func register[I, O any](r *Router, kind Kind, name string, h Handler[I, O], opts ...ProcedureOption) *Procedure {
	output := schema.Reflect[O]()

	p := &Procedure{
		name:    name,
		kind:    kind,
		input:   schema.Reflect[I](),
		output:  output,
		resolve: newResolver(name, h, output),
	}
	for _, opt := range opts {
		opt.ApplyProcedureOption(p)
	}

	if err := validateName(name); err != nil {
		r.errs = append(r.errs, err)
		return p
	}
	if _, ok := r.byName[name]; ok {
		r.errs = append(r.errs, fmt.Errorf("rpc: procedure %q registered twice", name))
		return p
	}

	r.procs = append(r.procs, p)
	r.byName[name] = p
	return p
}

func validateName(name string) error {
	if name == "" {
		return errors.New("rpc: procedure name must not be empty")
	}
	for _, segment := range strings.Split(name, ".") {
		if segment == "" {
			return fmt.Errorf("rpc: procedure name %q has an empty segment", name)
		}
	}
	return nil
}

// Procedures returns every successfully registered procedure in
// declaration order.
func (r *Router) Procedures() []*Procedure {
	procs := make([]*Procedure, len(r.procs))
	copy(procs, r.procs)
	return procs
}

// Lookup finds a procedure by its logical name.
func (r *Router) Lookup(name string) (*Procedure, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Err reports every registration failure, or nil when all registrations
// succeeded. Consumers building on the router fail fast on it.
func (r *Router) Err() error {
	return errors.Join(r.errs...)
}
