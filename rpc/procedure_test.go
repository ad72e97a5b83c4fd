// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rpc

import (
	"context"
	"net/http"
	"testing"

	"github.com/prosepilot/restbridge/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcedure_Call(t *testing.T) {
	t.Run("should decode validated input into the handler type", func(t *testing.T) {
		r := NewRouter()
		p := Query(r, "greet", HandlerFunc[echoInput, echoOutput](func(_ context.Context, req *echoInput) (*echoOutput, error) {
			return &echoOutput{Message: "hello " + req.Message}, nil
		}))

		out, err := p.Call(context.Background(), map[string]any{"message": "ann"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"message": "hello ann"}, out)
	})

	t.Run("should validate input before the handler runs", func(t *testing.T) {
		r := NewRouter()
		called := false
		p := Query(r, "greet", HandlerFunc[echoInput, echoOutput](func(_ context.Context, req *echoInput) (*echoOutput, error) {
			called = true
			return &echoOutput{}, nil
		}))

		_, err := p.Call(context.Background(), map[string]any{})

		var issuesErr *schema.IssuesError
		require.ErrorAs(t, err, &issuesErr)
		assert.False(t, called)
	})

	t.Run("should not coerce strings on direct calls", func(t *testing.T) {
		type countInput struct {
			N int `json:"n"`
		}
		r := NewRouter()
		p := Query(r, "count", HandlerFunc[countInput, echoOutput](func(_ context.Context, req *countInput) (*echoOutput, error) {
			return &echoOutput{}, nil
		}))

		_, err := p.Call(context.Background(), map[string]any{"n": "3"})
		require.Error(t, err, "declared shapes stay strict outside the HTTP adapter")
	})

	t.Run("should pass procedure errors through unchanged", func(t *testing.T) {
		r := NewRouter()
		p := Mutation(r, "locked", HandlerFunc[struct{}, echoOutput](func(_ context.Context, _ *struct{}) (*echoOutput, error) {
			return nil, NewError(CodeUnauthorized, "credentials required")
		}))

		_, err := p.Call(context.Background(), nil)

		var rpcErr *Error
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, CodeUnauthorized, rpcErr.Code)
		assert.Equal(t, "credentials required", rpcErr.Message)
	})

	t.Run("should return nil for void outputs", func(t *testing.T) {
		r := NewRouter()
		p := Mutation(r, "reset", HandlerFunc[struct{}, struct{}](func(_ context.Context, _ *struct{}) (*struct{}, error) {
			return &struct{}{}, nil
		}))

		out, err := p.Call(context.Background(), nil)
		require.NoError(t, err)
		assert.Nil(t, out)
	})

	t.Run("should fail when the output does not match its shape", func(t *testing.T) {
		type looseOutput struct {
			Value any `json:"value,omitempty"`
		}
		r := NewRouter()
		p := Query(r, "loose", HandlerFunc[struct{}, looseOutput](func(_ context.Context, _ *struct{}) (*looseOutput, error) {
			return &looseOutput{}, nil
		}))
		// Force a stricter output shape than the handler honors.
		p.output = schema.Object(schema.Field{Name: "value", Type: schema.String(), Required: true})
		p.resolve = newResolver("loose", HandlerFunc[struct{}, looseOutput](func(_ context.Context, _ *struct{}) (*looseOutput, error) {
			return &looseOutput{}, nil
		}), p.output)

		_, err := p.Call(context.Background(), nil)

		var rpcErr *Error
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, CodeInternalServerError, rpcErr.Code)
		assert.Equal(t, "Output validation failed", rpcErr.Message)
	})
}

func TestProcedureOptions(t *testing.T) {
	t.Run("should leave procedures unexposed without a route", func(t *testing.T) {
		r := NewRouter()
		p := Query(r, "internal.stats", echoHandler())

		_, ok := p.Meta()
		assert.False(t, ok)
	})

	t.Run("should record the full exposure metadata", func(t *testing.T) {
		r := NewRouter()
		p := Mutation(r, "users.create", echoHandler(),
			Post("/users"),
			Summary("Create a user"),
			Description("Creates a user record."),
			Protected(),
			Tags("users"),
			Deprecated(),
			ContentTypes("application/json", "application/x-www-form-urlencoded"),
			Headers(HeaderField{Name: "X-Tenant", Required: true}),
			ResponseHeaders(HeaderField{Name: "Location"}),
			RequestExample(map[string]any{"message": "hi"}),
			ResponseExample(map[string]any{"message": "hi"}),
		)

		meta, ok := p.Meta()
		require.True(t, ok)
		assert.True(t, meta.Enabled)
		assert.Equal(t, http.MethodPost, meta.Method)
		assert.Equal(t, "/users", meta.Path)
		assert.Equal(t, "Create a user", meta.Summary)
		assert.Equal(t, "Creates a user record.", meta.Description)
		assert.True(t, meta.Protected)
		assert.Equal(t, []string{"users"}, meta.Tags)
		assert.True(t, meta.Deprecated)
		assert.Len(t, meta.ContentTypes, 2)
		assert.Len(t, meta.Headers, 1)
		assert.Len(t, meta.ResponseHeaders, 1)
		assert.NotNil(t, meta.RequestExample)
		assert.NotNil(t, meta.ResponseExample)
	})

	t.Run("should disable an exposed procedure without dropping its route", func(t *testing.T) {
		r := NewRouter()
		p := Query(r, "users.list", echoHandler(), Get("/users"), Disabled())

		meta, ok := p.Meta()
		require.True(t, ok)
		assert.False(t, meta.Enabled)
		assert.Equal(t, "/users", meta.Path)
	})
}

func TestError(t *testing.T) {
	t.Run("should format code and message", func(t *testing.T) {
		err := NewErrorf(CodeNotFound, "user %q not found", "ann")
		assert.Equal(t, `NOT_FOUND: user "ann" not found`, err.Error())
	})

	t.Run("should unwrap to its cause", func(t *testing.T) {
		cause := assert.AnError
		err := WrapError(CodeInternalServerError, cause)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, cause.Error(), err.Message)
	})
}
