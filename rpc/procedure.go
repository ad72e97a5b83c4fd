// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prosepilot/restbridge/schema"
)

// Kind classifies what a procedure does to application state.
type Kind uint8

const (
	// KindRead procedures compute results without observable side
	// effects.
	KindRead Kind = iota

	// KindWrite procedures mutate state.
	KindWrite

	// KindStream procedures produce incremental results. No transport
	// in this module serves them; the HTTP adapter and the document
	// generator skip stream procedures entirely.
	KindStream
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	case KindStream:
		return "stream"
	default:
		return "unknown"
	}
}

// Handler implements a procedure over typed input and output values.
type Handler[I, O any] interface {
	Handle(ctx context.Context, req *I) (*O, error)
}

// HandlerFunc is a func adapter for [Handler].
type HandlerFunc[I, O any] func(ctx context.Context, req *I) (*O, error)

// Handle implements the [Handler] interface.
func (f HandlerFunc[I, O]) Handle(ctx context.Context, req *I) (*O, error) {
	return f(ctx, req)
}

// Procedure is one registered operation. Its input and output shapes are
// derived from the handler's type parameters at registration time.
type Procedure struct {
	name    string
	kind    Kind
	meta    Meta
	input   schema.Type
	output  schema.Type
	resolve func(context.Context, any) (any, error)
}

// Name returns the dot-segmented logical name, e.g. "users.byId".
func (p *Procedure) Name() string {
	return p.name
}

// Kind reports whether the procedure reads, writes, or streams.
func (p *Procedure) Kind() Kind {
	return p.kind
}

// Meta returns the REST exposure metadata. ok is false when the procedure
// never declared a method and path.
func (p *Procedure) Meta() (Meta, bool) {
	return p.meta, p.meta.Method != ""
}

// Input returns the declared input shape.
func (p *Procedure) Input() schema.Type {
	return p.input
}

// Output returns the declared output shape.
func (p *Procedure) Output() schema.Type {
	return p.output
}

// Resolve runs the handler against an already validated input value and
// returns the output as a plain JSON value, validated against the declared
// output shape.
func (p *Procedure) Resolve(ctx context.Context, in any) (any, error) {
	return p.resolve(ctx, in)
}

// Call validates in against the declared input shape, then resolves. It is
// the entry point for invoking a procedure directly, without the HTTP
// adapter in front.
func (p *Procedure) Call(ctx context.Context, in any) (any, error) {
	validated, err := p.input.Validate(in)
	if err != nil {
		return nil, err
	}
	return p.resolve(ctx, validated)
}

func newResolver[I, O any](name string, h Handler[I, O], output schema.Type) func(context.Context, any) (any, error) {
	return func(ctx context.Context, in any) (any, error) {
		var req I
		if in != nil {
			raw, err := json.Marshal(in)
			if err != nil {
				return nil, fmt.Errorf("rpc: %s: encode input: %w", name, err)
			}
			if err := json.Unmarshal(raw, &req); err != nil {
				return nil, fmt.Errorf("rpc: %s: decode input: %w", name, err)
			}
		}

		resp, err := h.Handle(ctx, &req)
		if err != nil {
			return nil, err
		}
		if resp == nil || output.Kind() == schema.KindVoid {
			return nil, nil
		}

		raw, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("rpc: %s: encode output: %w", name, err)
		}
		var out any
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("rpc: %s: decode output: %w", name, err)
		}

		validated, err := output.Validate(out)
		if err != nil {
			return nil, &Error{
				Code:    CodeInternalServerError,
				Message: "Output validation failed",
				cause:   err,
			}
		}
		return validated, nil
	}
}
